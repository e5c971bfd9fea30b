package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := env.store.Clear(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
