// Movement log row helpers. The log is append-only: there is no update or
// delete path, and none may be added.
package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

const movementColumns = "movement_id, item_id, kind, quantity, unit_price, vendor, source, recorded_at"

// AppendMovement appends one movement and returns its generated ID. The
// movement's MovementID and RecordedAt are filled in on success.
func (v ledgerView) AppendMovement(m *types.Movement) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	id := generateUUID()
	recordedAt := m.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = v.now().UTC()
	}
	source := m.Source
	if source == "" {
		source = types.SourceManual
	}

	_, err := v.q.Exec(
		"INSERT INTO movements ("+movementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, m.ItemID, m.Kind, m.Quantity, m.UnitPrice, m.Vendor, source,
		recordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("appending movement: %w", err)
	}

	m.MovementID = id
	m.RecordedAt = recordedAt
	m.Source = source
	return id, nil
}

// ListMovements returns movements matching the filter, newest first.
func (v ledgerView) ListMovements(filter types.MovementFilter) ([]*types.Movement, error) {
	query := "SELECT " + movementColumns + " FROM movements"
	var conditions []string
	var args []any

	if filter.ItemID > 0 {
		conditions = append(conditions, "item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.Kind != "" {
		if !types.ValidKind(filter.Kind) {
			return nil, types.ErrInvalidKind
		}
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY recorded_at DESC, movement_id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := v.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	movements := []*types.Movement{}
	for rows.Next() {
		var m types.Movement
		var recordedAt string
		if err := rows.Scan(&m.MovementID, &m.ItemID, &m.Kind, &m.Quantity,
			&m.UnitPrice, &m.Vendor, &m.Source, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		m.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movements: %w", err)
	}
	return movements, nil
}
