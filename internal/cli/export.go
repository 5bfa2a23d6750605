package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
	"github.com/noah-isme/prepx-tracker-api/pkg/storage"
)

func newExportCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a learner's topic table to a CSV or PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			files, err := storage.NewLocalStorage(out)
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svcs *app.Services) error {
				file, err := svcs.Analytics.Export(ctx, user, format)
				if err != nil {
					return err
				}
				path, err := files.Save(file.Filename, file.Payload)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().String("user", "", "learner ID")
	cmd.Flags().String("format", "csv", "csv or pdf")
	cmd.Flags().String("out", "exports", "output directory")
	return cmd
}
