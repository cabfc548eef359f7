package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/po-extractor/internal/domain/batch"
	"github.com/FACorreiaa/po-extractor/pkg/cron"
	"github.com/FACorreiaa/po-extractor/pkg/storage"
)

var processFlags struct {
	folder      string
	driveFolder string
}

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Process PDFs from files, a local folder or a drive folder",
	Long: `Process extracts every document that is not yet in the success log and
appends its line items to the workbook of the selected format. Failed documents
are written to the error log with the reason.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		driveFolder := processFlags.driveFolder
		if len(args) == 0 && processFlags.folder == "" {
			driveFolder = firstNonEmpty(driveFolder, deps.Config.Drive.FolderID)
		}

		src, err := sourceFor(ctx, args, processFlags.folder, driveFolder)
		if err != nil {
			return err
		}

		summary, err := deps.Batch.Run(ctx, src)
		printSummary(cmd.OutOrStdout(), summary)
		return err
	},
}

var watchFlags struct {
	folder   string
	schedule string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process a folder on a schedule and serve metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := deps.Config
		folder := firstNonEmpty(watchFlags.folder, cfg.Watch.Folder)
		if folder == "" {
			return errors.New("watch needs --folder or WATCH_FOLDER")
		}
		schedule := firstNonEmpty(watchFlags.schedule, cfg.Watch.Schedule)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		job := func(ctx context.Context) error {
			src, err := storage.NewLocalFolder(folder)
			if err != nil {
				return err
			}
			_, err = deps.Batch.Run(ctx, src)
			return err
		}
		scheduler := cron.NewScheduler("watch "+folder, schedule, job, time.Hour, deps.Logger)
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}

		var server *http.Server
		if deps.Metrics != nil {
			mux := http.NewServeMux()
			mux.Handle("/metrics", deps.Metrics.Handler())
			server = &http.Server{
				Addr:              ":" + strconv.Itoa(cfg.Observability.MetricsPort),
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				deps.Logger.Info("metrics server listening", slog.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					deps.Logger.Error("metrics server failed", slog.Any("error", err))
				}
			}()
		}

		go scheduler.RunNow()

		<-ctx.Done()
		deps.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if server != nil {
			_ = server.Shutdown(shutdownCtx)
		}
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			deps.Logger.Warn("scheduled job did not stop in time")
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processFlags.folder, "folder", "", "process every PDF in this local folder")
	processCmd.Flags().StringVar(&processFlags.driveFolder, "drive-folder", "", "process every PDF in this drive folder id (default DRIVE_FOLDER_ID)")
	rootCmd.AddCommand(processCmd)

	watchCmd.Flags().StringVar(&watchFlags.folder, "folder", "", "folder to poll (default WATCH_FOLDER)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", `cron spec, e.g. "@every 5m" (default WATCH_SCHEDULE)`)
	rootCmd.AddCommand(watchCmd)
}

func sourceFor(ctx context.Context, files []string, folder, driveFolder string) (storage.Source, error) {
	switch {
	case len(files) > 0:
		return storage.NewLocalFiles(files...), nil
	case folder != "":
		return storage.NewLocalFolder(folder)
	case driveFolder != "":
		client, err := deps.Drive(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewDriveSource(client, driveFolder), nil
	}
	return nil, errors.New("nothing to process: pass files, --folder or --drive-folder")
}

func printSummary(w io.Writer, s batch.Summary) {
	fmt.Fprintf(w, "Processed %d file(s): %s\n", s.Total, s)
	for _, f := range s.Failures {
		fmt.Fprintf(w, "  %s - %s\n", f.File, f.Reason)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
