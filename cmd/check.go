package cmd

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Jira configuration and credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		user, err := checkConnection(cmd.Context(), a.cfg)
		if err != nil {
			return err
		}

		a.prompter.Success("Connected to %s as %s (%s)", a.cfg.Jira.BaseURL, user.DisplayName, user.EmailAddress)
		a.prompter.Linef("%d field mappings loaded.", len(a.registry.Keys()))
		return nil
	},
}
