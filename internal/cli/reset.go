package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
)

func newResetCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all practice statistics of a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to reset %s without --yes", user)
			}
			return withServices(cmd, open, func(ctx context.Context, svcs *app.Services) error {
				if err := svcs.Analytics.Reset(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", user)
				return nil
			})
		},
	}
	cmd.Flags().String("user", "", "learner ID")
	cmd.Flags().Bool("yes", false, "confirm the reset")
	return cmd
}
