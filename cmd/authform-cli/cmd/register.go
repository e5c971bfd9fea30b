package cmd

import (
	"github.com/nfrund/authform/internal/form"
	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account with the authentication API. Nothing is stored locally;
run login afterwards.

Examples:
  authform-cli register --name Ana --email ana@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		return submit(cmd.Context(), cmd.OutOrStdout(), env, signupHolder(registerName, registerEmail, registerPassword))
	},
}

// signupHolder returns a form switched to signup mode with the fields filled.
func signupHolder(name, email, password string) *form.Holder {
	h := form.NewHolder()
	h.ToggleMode()
	h.SetFields(name, email, password)
	return h
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "e-mail")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password")
	rootCmd.AddCommand(registerCmd)
}
