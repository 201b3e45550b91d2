package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/db"
	"github.com/carevault/carevault/pkg/server"
	"github.com/carevault/carevault/pkg/server/endpoints"
	"github.com/carevault/carevault/pkg/token"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the CareVault application server",
	Long: `Run the CareVault application server

To run the server requires the environment variables CAREVAULT_TOKEN_KEY and DATABASE_URL.

By default, the database schema is created or upgraded on startup. Use
--no-auto-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		tokenKeyB64, ok := os.LookupEnv("CAREVAULT_TOKEN_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "CAREVAULT_TOKEN_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		tokenKey, err := base64.StdEncoding.DecodeString(tokenKeyB64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad CAREVAULT_TOKEN_KEY:", err)
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		signer, err := token.NewSigner(tokenKey, cfg.TokenLifetime())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate token signer:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{URL: os.Getenv("DATABASE_URL")})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		// Create or upgrade the schema unless --no-auto-migrate is set
		noAutoMigrate, _ := cmd.Flags().GetBool("no-auto-migrate")
		if !noAutoMigrate {
			log.Println("Ensuring database schema is up to date...")
			if err := db.AutoMigrate(database); err != nil {
				fmt.Fprintf(os.Stderr, "Schema migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, cfg, signer, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-auto-migrate", false, "skip creating the database schema on start")
}
