package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/db"
	"github.com/carevault/carevault/pkg/model"
	storegorm "github.com/carevault/carevault/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user account",
	Long: `Create a user account.

The password is read from the CAREVAULT_USER_PASSWORD environment variable.
When it is not set, a random password is generated and printed to stdout.

Example:
  carevaultctl user create alice
  CAREVAULT_USER_PASSWORD=changeme1 carevaultctl user create bob`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		password, generated, err := createUser(username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", username, err)
			os.Exit(1)
		}

		fmt.Printf("Created user %s\n", username)
		if generated {
			fmt.Println(password)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
}

func randomPassword() (string, error) {
	bytes := make([]byte, 18)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func createUser(username string) (password string, generated bool, err error) {
	if !model.ValidUsername(username) {
		return "", false, fmt.Errorf("invalid username: %s", username)
	}

	cfg := config.Get()

	password, ok := os.LookupEnv("CAREVAULT_USER_PASSWORD")
	if !ok {
		password, err = randomPassword()
		if err != nil {
			return "", false, fmt.Errorf("failed to generate password: %w", err)
		}
		generated = true
	}
	if len(password) < cfg.PasswordMinLength {
		return "", false, fmt.Errorf("password must be at least %d characters", cfg.PasswordMinLength)
	}

	database, err := db.Connect(db.Config{URL: db.URL()})
	if err != nil {
		return "", false, err
	}

	users := storegorm.NewUsersStore(database)
	if users.UsernameTaken(username) {
		return "", false, fmt.Errorf("username is already registered: %s", username)
	}

	user := model.User{Username: username}
	if err := user.SetPassword(password, cfg.BcryptCost); err != nil {
		return "", false, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := users.CreateUser(&user); err != nil {
		return "", false, fmt.Errorf("failed to create user: %w", err)
	}

	return password, generated, nil
}
