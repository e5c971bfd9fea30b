package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authform-cli",
	Short: "Log in to or register with the authentication API",
	Long: `authform-cli drives the same login/signup form as the web page, from a terminal.

Available commands:
  login      Log in and store the access token in the credentials file
  register   Create an account
  logout     Remove the stored credentials
  version    Print the version

Configuration comes from the environment (or a .env file):
  API_BASE_URL       base URL of the authentication API (required)
  API_TIMEOUT        request timeout, e.g. 10s
  APP_LANG           language of the messages (en, pt-BR)
  CREDENTIALS_FILE   where the token is stored (default ~/.authform/credentials.json)`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
