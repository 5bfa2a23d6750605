package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
	"github.com/noah-isme/prepx-tracker-api/pkg/jobs"
	"github.com/noah-isme/prepx-tracker-api/pkg/storage"
)

type importTask struct {
	userID string
	file   string
}

func newImportCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load statistics documents exported by the browser tracker",
		Long: "Import one document with --user and --file, or every <user>.json file in --dir. " +
			"Existing statistics of the imported learners are replaced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			dir, _ := cmd.Flags().GetString("dir")
			workers, _ := cmd.Flags().GetInt("workers")

			switch {
			case dir != "" && file != "":
				return fmt.Errorf("use either --file or --dir")
			case dir != "":
				return withServices(cmd, open, func(ctx context.Context, svcs *app.Services) error {
					return importDir(ctx, cmd, svcs, dir, workers)
				})
			case file != "":
				user, err := requireUser(cmd)
				if err != nil {
					return err
				}
				files, err := storage.NewLocalStorage(filepath.Dir(file))
				if err != nil {
					return err
				}
				return withServices(cmd, open, func(ctx context.Context, svcs *app.Services) error {
					if err := importOne(ctx, svcs, files, importTask{userID: user, file: filepath.Base(file)}); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", user)
					return nil
				})
			default:
				return fmt.Errorf("--file or --dir is required")
			}
		},
	}
	cmd.Flags().String("user", "", "learner ID for --file")
	cmd.Flags().String("file", "", "statistics JSON document")
	cmd.Flags().String("dir", "", "directory of <user>.json documents")
	cmd.Flags().Int("workers", 4, "concurrent imports for --dir")
	return cmd
}

func importOne(ctx context.Context, svcs *app.Services, files *storage.LocalStorage, task importTask) error {
	raw, err := files.Read(task.file)
	if err != nil {
		return err
	}
	if _, err := svcs.Store.Import(ctx, task.userID, raw); err != nil {
		return fmt.Errorf("%s: %w", task.userID, err)
	}
	return nil
}

func importDir(ctx context.Context, cmd *cobra.Command, svcs *app.Services, dir string, workers int) error {
	files, err := storage.NewLocalStorage(dir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read import directory: %w", err)
	}

	var (
		mu       sync.Mutex
		imported int
		failures []string
	)
	queue := jobs.NewQueue("stats-import", func(ctx context.Context, job jobs.Job[importTask]) error {
		return importOne(ctx, svcs, files, job.Payload)
	}, jobs.QueueConfig[importTask]{
		Workers:    workers,
		MaxRetries: 2,
		RetryDelay: 200 * time.Millisecond,
		OnDone: func(job jobs.Job[importTask], err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err.Error())
				return
			}
			imported++
		},
	})
	queue.Start(ctx)
	defer queue.Stop()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		task := importTask{userID: strings.TrimSuffix(name, filepath.Ext(name)), file: name}
		if err := queue.Enqueue(jobs.Job[importTask]{ID: task.userID, Payload: task}); err != nil {
			return err
		}
	}
	queue.Wait()

	sort.Strings(failures)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d learners\n", imported)
	for _, failure := range failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s\n", failure)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d imports failed", len(failures))
	}
	return nil
}
