package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stackfold/stackfold/cmd/stackfold/workload"
	"github.com/stackfold/stackfold/internal/storage"
	"github.com/stackfold/stackfold/pkg/frame"
	"github.com/stackfold/stackfold/pkg/repository"
	"github.com/stackfold/stackfold/pkg/sampling"
	"github.com/stackfold/stackfold/pkg/utils"
)

// Defaults matching pkg/config's sampler.* viper defaults, since record
// runs standalone without loading a config file.
const (
	defaultMaxDepth      = 256
	defaultCapacityLimit = 1000
)

var (
	recordOutfile    string
	recordIntervalMS int
	recordOutput     string
	recordRemoteURL  string
	recordStorageDir string
	recordQueueSize  int
	recordQueued     bool
)

// recordCmd is the CLI surface spec.md §6 names: record a single named
// in-process workload's stack samples to a folded-stack file.
var recordCmd = &cobra.Command{
	Use:   "record <label>",
	Short: "Record folded-stack samples for a registered workload",
	Long: `record profiles a named, in-process workload function (registered via
cmd/stackfold/workload) for its entire lifetime, writing the accumulated
folded-stack output through one of pkg/repository's backends when it
finishes.

Go has no equivalent of exec(code_object), so unlike a traditional launcher
record does not load an arbitrary script; it selects a workload already
compiled into the binary by label.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	binName := BinName()
	recordCmd.Example = `  # Record the built-in busyloop workload, sampling every 10ms
  ` + binName + ` record -i 10 busyloop

  # Record to a specific output file
  ` + binName + ` record -o busyloop.folded busyloop

  # Ship the result straight to a dashboard instead of a local file
  ` + binName + ` record --output remote --remote-url http://localhost:8080/myproject busyloop

  # Bucket one object per day under a local directory, via a background queue
  ` + binName + ` record --output directory --storage-dir ./storage --queue busyloop`

	recordCmd.Flags().StringVarP(&recordOutfile, "outfile", "o", "", "Save sampling result to this file (output=file only, defaults to <label>.txt)")
	recordCmd.Flags().IntVarP(&recordIntervalMS, "interval", "i", 10, "Sampling interval in milliseconds (minimum 5)")
	recordCmd.Flags().StringVar(&recordOutput, "output", "file", "Repository backend: file, directory, or remote")
	recordCmd.Flags().StringVar(&recordRemoteURL, "remote-url", "", "Collector URL of the form scheme://host/project (output=remote)")
	recordCmd.Flags().StringVar(&recordStorageDir, "storage-dir", "./storage", "Local directory objects are written under (output=directory)")
	recordCmd.Flags().IntVar(&recordQueueSize, "queue-size", repository.DefaultQueueSize, "Backlog size when --queue is set")
	recordCmd.Flags().BoolVar(&recordQueued, "queue", false, "Store records through a background queue instead of blocking the workload on I/O")
}

func runRecord(cmd *cobra.Command, args []string) error {
	label := args[0]

	fn, ok := workload.Get(label)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown workload %q; available: %v\n", label, workload.Labels())
		os.Exit(2)
	}

	log := GetLogger()

	repo, describe, err := buildRecordRepository(label, log)
	if err != nil {
		return err
	}

	if recordQueued {
		queued := repository.NewQueuedTransport(repo, recordQueueSize, log)
		queued.Start()
		defer queued.Stop()
		repo = queued
		describe = "queued(" + describe + ")"
	}

	interval := sampling.ClampInterval(time.Duration(recordIntervalMS) * time.Millisecond)

	clock := utils.NewRealClock()
	extractor := frame.NewRuntimeExtractor(defaultMaxDepth)
	manager := sampling.NewContextManager(defaultCapacityLimit, 1, clock)
	sampler := sampling.NewSampler(manager, extractor, repo, 0, log)

	timer := sampling.NewTimer(manager, interval, clock, log)
	if !sampling.StartGlobalTimer(timer) {
		return fmt.Errorf("a sampling timer is already running")
	}
	defer sampling.StopGlobalTimer()

	log.Info("recording workload %q to %s at %s interval", label, describe, interval)
	sampler.Wrap(label, fn)
	log.Info("wrote sampling result to %s", describe)

	return nil
}

// buildRecordRepository constructs the Repository backend --output selects,
// along with a human-readable description of where records are headed.
func buildRecordRepository(label string, log utils.Logger) (repository.Repository, string, error) {
	switch recordOutput {
	case "", "file":
		outfile := recordOutfile
		if outfile == "" {
			outfile = label + ".txt"
		}
		return repository.NewFileRepository(outfile), outfile, nil

	case "directory":
		backend, err := storage.NewLocalStorage(recordStorageDir)
		if err != nil {
			return nil, "", fmt.Errorf("open storage directory: %w", err)
		}
		return repository.NewDirectoryRepository(backend), recordStorageDir, nil

	case "remote":
		if recordRemoteURL == "" {
			return nil, "", fmt.Errorf("--remote-url is required when --output=remote")
		}
		endpoint, err := repository.ParseRemoteURL(recordRemoteURL)
		if err != nil {
			return nil, "", fmt.Errorf("parse remote url: %w", err)
		}
		return repository.NewRemoteRepository(endpoint, &http.Client{}), endpoint.AddURL(), nil

	default:
		return nil, "", fmt.Errorf("unknown --output %q; want file, directory, or remote", recordOutput)
	}
}
