// User commands: manage dashboard accounts.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/session"
	"github.com/mesh-intelligence/larder/pkg/types"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard accounts",
}

var (
	userAddPassword string
	userAddFullName string
	userAddAdmin    bool
)

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a dashboard account",
	Long: `Add creates an account for the larder serve dashboard.

Example:
  larder user add chef --password mise-en-place --full-name "Head Chef" --admin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userAddPassword == "" {
			return errors.New("--password is required")
		}

		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		role := types.RoleUser
		if userAddAdmin {
			role = types.RoleAdmin
		}

		user := &types.User{
			Username:     args[0],
			PasswordHash: session.HashPassword(userAddPassword),
			FullName:     userAddFullName,
			Role:         role,
		}
		if _, err := store.PutUser(user); err != nil {
			return err
		}

		if flagJSON {
			return printJSON(user)
		}
		fmt.Printf("created %s account %s\n", role, user.Username)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userAddPassword, "password", "", "account password")
	userAddCmd.Flags().StringVar(&userAddFullName, "full-name", "", "display name")
	userAddCmd.Flags().BoolVar(&userAddAdmin, "admin", false, "grant the admin role")

	userCmd.AddCommand(userAddCmd)
}
