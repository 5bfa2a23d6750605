// Package cli implements trackerctl, the operator tool for inspecting and moving
// learners' practice statistics.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
)

// Opener wires the service graph for one command invocation. The returned func
// releases its connections.
type Opener func(ctx context.Context) (*app.Services, func() error, error)

// NewRootCommand builds the trackerctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Inspect, export and import practice statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newStatsCommand(open))
	root.AddCommand(newResetCommand(open))
	root.AddCommand(newExportCommand(open))
	root.AddCommand(newImportCommand(open))
	return root
}

// withServices opens the service graph, runs fn and always closes the backend.
func withServices(cmd *cobra.Command, open Opener, fn func(ctx context.Context, svcs *app.Services) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svcs, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeFn(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, svcs)
}

func requireUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	user = strings.TrimSpace(user)
	if user == "" {
		return "", fmt.Errorf("--user is required")
	}
	return user, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
