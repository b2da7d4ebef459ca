package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	webui "github.com/stackfold/stackfold/internal/dashboard"
	"github.com/stackfold/stackfold/internal/repository"
	"github.com/stackfold/stackfold/pkg/config"
	"github.com/stackfold/stackfold/pkg/frame"
	"github.com/stackfold/stackfold/pkg/sampling"
	"github.com/stackfold/stackfold/pkg/utils"
)

var (
	serveConfigPath  string
	servePort        int
	serveSelfProfile bool
)

// serveCmd starts the dashboard: the HTTP service that receives folded-stack
// sampling records and renders them as flame graphs.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `serve starts an HTTP server that receives sampling records (the same
payload pkg/repository.RemoteRepository ships) at {project}/sample/add,
persists them through a GORM-backed repository, and renders stored records
as flame graph JSON trees.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	binName := BinName()
	serveCmd.Example = `  # Start the dashboard on the default port, reading ./config.yaml if present
  ` + binName + ` serve

  # Start on a specific port with a config file
  ` + binName + ` serve -c ./config.yaml -p 9090`

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to config file (defaults to ./config.yaml)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port for the dashboard HTTP server")
	serveCmd.Flags().BoolVar(&serveSelfProfile, "self-profile", false, "Profile the dashboard's own request handling")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	startup := utils.NewTimer("serve startup", utils.WithLogger(log))

	var cfg *config.Config
	if _, err := startup.TimeFuncWithError("load config", func() error {
		var loadErr error
		cfg, loadErr = config.Load(serveConfigPath)
		return loadErr
	}); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var gormDB *gorm.DB
	if _, err := startup.TimeFuncWithError("connect database", func() error {
		db, dbErr := repository.NewGormDB(&repository.DBConfig{
			Type:     cfg.Database.Type,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Database,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			MaxConns: cfg.Database.MaxConns,
		})
		gormDB = db
		return dbErr
	}); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	var repos *repository.Repositories
	if _, err := startup.TimeFuncWithError("initialize repositories", func() error {
		var repoErr error
		repos, repoErr = repository.NewRepositories(gormDB, cfg.Database.Type, cfg.App.Version)
		return repoErr
	}); err != nil {
		return fmt.Errorf("initialize repositories: %w", err)
	}
	defer repos.Close()

	startup.PrintSummary()

	var sampler *sampling.Sampler
	if serveSelfProfile {
		sampler = buildSelfProfileSampler(repos.Profile, cfg, log)
	}

	server := webui.NewServer(repos.Profile, servePort, log, sampler)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("shutting down dashboard...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		if sampling.GlobalTimer() != nil {
			sampling.StopGlobalTimer()
		}
		os.Exit(0)
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard server error: %w", err)
	}

	return nil
}

// buildSelfProfileSampler wires a Sampler backed by an adapter over the
// dashboard's own repository, so --self-profile stores its folded-stack
// output alongside the records it serves.
func buildSelfProfileSampler(repo repository.Repository, cfg *config.Config, log utils.Logger) *sampling.Sampler {
	clock := utils.NewRealClock()
	extractor := frame.NewRuntimeExtractor(cfg.Sampler.MaxDepth, cfg.Sampler.SuppressedFunctions...)
	manager := sampling.NewContextManager(cfg.Sampler.CapacityLimit, 1, clock)
	sink := repository.NewDashboardSink(repo)
	sampler := sampling.NewSampler(manager, extractor, sink, time.Duration(cfg.Sampler.OutputThresholdMS)*time.Millisecond, log)

	interval := time.Duration(cfg.Sampler.IntervalMS) * time.Millisecond
	timer := sampling.NewTimer(manager, interval, clock, log)
	sampling.StartGlobalTimer(timer)

	return sampler
}
