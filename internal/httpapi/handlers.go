package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/larder/internal/planner"
	"github.com/mesh-intelligence/larder/pkg/reconcile"
	"github.com/mesh-intelligence/larder/pkg/types"
)

func (s *Server) loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sess, err := s.sessions.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, types.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			s.internalError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      sess.Token,
			"username":   sess.Username,
			"role":       sess.Role,
			"expires_at": sess.ExpiresAt,
		})
	}
}

func (s *Server) logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			s.sessions.Logout(token)
		}
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	}
}

func (s *Server) listItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.store.ListItems()
		if err != nil {
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func (s *Server) createItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name          string `json:"name" binding:"required"`
			Category      string `json:"category"`
			Unit          string `json:"unit"`
			ShelfLifeDays int    `json:"shelf_life_days"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := &types.CatalogItem{
			Name:          req.Name,
			Category:      req.Category,
			Unit:          req.Unit,
			ShelfLifeDays: req.ShelfLifeDays,
		}
		if _, err := s.store.PutItem(item); err != nil {
			if errors.Is(err, types.ErrDuplicateName) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if errors.Is(err, types.ErrInvalidName) || errors.Is(err, types.ErrInvalidShelfLife) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func (s *Server) listStockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := s.store.ListStock()
		if err != nil {
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stock": entries})
	}
}

func (s *Server) listMovementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter types.MovementFilter
		if raw := c.Query("item_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "item_id must be an integer"})
				return
			}
			filter.ItemID = id
		}
		filter.Kind = c.Query("kind")
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
				return
			}
			filter.Limit = limit
		}

		movements, err := s.store.ListMovements(filter)
		if err != nil {
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"movements": movements})
	}
}

func (s *Server) adjustHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ItemID    int64   `json:"item_id" binding:"required"`
			Kind      string  `json:"kind" binding:"required"`
			Quantity  float64 `json:"quantity" binding:"required"`
			UnitPrice float64 `json:"unit_price"`
			Vendor    string  `json:"vendor"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		movement, err := s.engine.Adjust(reconcile.Adjustment{
			ItemID:    req.ItemID,
			Kind:      req.Kind,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
			Vendor:    req.Vendor,
		})
		if err != nil {
			switch {
			case errors.Is(err, types.ErrItemNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, types.ErrInvalidKind), errors.Is(err, types.ErrInvalidQuantity):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				s.internalError(c, err)
			}
			return
		}
		c.JSON(http.StatusCreated, movement)
	}
}

// reconcileHandler accepts the planned-ingredient array directly as the
// request body and runs one reconciliation batch.
func (s *Server) reconcileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
			return
		}

		planned, err := planner.DecodePlan(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := s.engine.Reconcile(planned)
		if err != nil {
			if errors.Is(err, types.ErrInvalidQuantity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"used":            result.Used,
			"short":           result.Short,
			"fully_fulfilled": result.FullyFulfilled(),
		})
	}
}

func (s *Server) planHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.planner == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "meal planning is not configured"})
			return
		}

		var req struct {
			Customers        int `json:"customers" binding:"required"`
			TimeLimitMinutes int `json:"time_limit_minutes" binding:"required"`
			Dishes           int `json:"dishes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		dishes, err := s.planner.Plan(c.Request.Context(), planner.PlanRequest{
			Customers:        req.Customers,
			TimeLimitMinutes: req.TimeLimitMinutes,
			Dishes:           req.Dishes,
		})
		if err != nil {
			if errors.Is(err, planner.ErrMalformedPlan) {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dishes": toDishPayload(dishes)})
	}
}

// scanHandler reads the bill image, extracts the line items, and books
// each as a purchase. Unknown items are registered in the catalog first.
func (s *Server) scanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.scanner == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bill scanning is not configured"})
			return
		}

		image, err := io.ReadAll(c.Request.Body)
		if err != nil || len(image) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be the bill image"})
			return
		}

		lines, err := s.scanner.ScanBill(c.Request.Context(), image)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		intake := make([]reconcile.IntakeLine, 0, len(lines))
		for _, line := range lines {
			intake = append(intake, reconcile.IntakeLine{
				Name:     line.Name,
				Quantity: line.Quantity,
				Unit:     line.Unit,
			})
		}
		movements, err := s.engine.Intake(intake)
		if err != nil {
			s.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booked": movements})
	}
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

type dishPayload struct {
	Name          string              `json:"dish_name"`
	EstimatedTime string              `json:"estimated_time"`
	Ingredients   []ingredientPayload `json:"ingredients_used"`
}

type ingredientPayload struct {
	ItemID   int64   `json:"item_id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

func toDishPayload(dishes []planner.Dish) []dishPayload {
	out := make([]dishPayload, 0, len(dishes))
	for _, d := range dishes {
		p := dishPayload{Name: d.Name, EstimatedTime: d.EstimatedTime}
		for _, ing := range d.Ingredients {
			id := types.SentinelItemID
			if got, known := ing.Ref.ID(); known {
				id = got
			}
			p.Ingredients = append(p.Ingredients, ingredientPayload{
				ItemID:   id,
				Name:     ing.DisplayName,
				Quantity: ing.Quantity,
				Unit:     ing.Unit,
			})
		}
		out = append(out, p)
	}
	return out
}
