// Package main provides the larder CLI: a pantry ledger with an AI meal
// planner and bill intake on top.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "larder:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to shell exit codes: bad input exits 1, system
// failures exit 2.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrItemNotFound),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrDuplicateName),
		errors.Is(err, types.ErrInvalidQuantity),
		errors.Is(err, types.ErrInvalidKind),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidShelfLife):
		return exitUserError
	default:
		return exitSysError
	}
}
