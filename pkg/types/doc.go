// Package types defines the larder domain entities (catalog items, stock
// entries, movements, planned ingredients), the Ledger and Store interfaces,
// and the standard errors shared by the storage backend, the reconciliation
// engine, and the CLI.
package types
