package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/db"
	storegorm "github.com/carevault/carevault/pkg/server/store/gorm"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Reset a user's password",
	Long: `Reset the password for a user account.

A new random password is generated and printed to stdout. Any tokens issued
before the reset remain valid until they expire.

Example:
  carevaultctl user reset-password alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		password, err := resetPassword(username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Println(password)
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
}

func resetPassword(username string) (string, error) {
	database, err := db.Connect(db.Config{URL: db.URL()})
	if err != nil {
		return "", err
	}

	users := storegorm.NewUsersStore(database)
	user, err := users.GetByUsername(username)
	if err != nil {
		return "", fmt.Errorf("user not found: %s", username)
	}

	password, err := randomPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}

	if err := user.SetPassword(password, config.Get().BcryptCost); err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, user.PasswordHash); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	return password, nil
}
