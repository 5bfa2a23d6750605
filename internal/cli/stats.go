package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
)

func newStatsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a learner's analytics overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetBool("raw")
			return withServices(cmd, open, func(ctx context.Context, svcs *app.Services) error {
				if raw {
					stats, err := svcs.Analytics.GetAnalytics(ctx, user)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), stats)
				}
				overview, _, err := svcs.Analytics.Overview(ctx, user)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), overview)
			})
		},
	}
	cmd.Flags().String("user", "", "learner ID")
	cmd.Flags().Bool("raw", false, "print the stored statistics document instead of the overview")
	return cmd
}
