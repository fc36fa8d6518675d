package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"mak/internal/owner"
)

func newOwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage owner namespaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Create an owner id and print its bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadConfig()
			if err != nil {
				return err
			}
			if err := a.cfg.RequireJWT(); err != nil {
				return err
			}
			id, token, err := owner.NewJWT(a.cfg.JWTSecret).New()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "owner: %s\ntoken: %s\n", id, token)
			return nil
		},
	})
	return cmd
}
