package cmd

import (
	"github.com/nfrund/authform/internal/form"
	"github.com/spf13/cobra"
)

var (
	loginName     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	Long: `Log in with a username or e-mail and a password. On success the token,
name and e-mail returned by the API are written to the credentials file.

Examples:
  authform-cli login --login ana@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		h := form.NewHolder()
		h.SetFields("", loginName, loginPassword)
		return submit(cmd.Context(), cmd.OutOrStdout(), env, h)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "login", "", "username or e-mail")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password")
	rootCmd.AddCommand(loginCmd)
}
