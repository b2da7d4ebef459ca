package repository

import (
	"context"
	"os"
	"time"

	"github.com/stackfold/stackfold/pkg/model"
	pkgrepository "github.com/stackfold/stackfold/pkg/repository"
)

// DashboardSink adapts a dashboard Repository into the Sampler-facing
// pkg/repository.Repository interface, so terminated contexts land directly
// in the dashboard's database alongside records ingested from remote agents.
type DashboardSink struct {
	repo Repository
	pid  int
}

// NewDashboardSink creates a DashboardSink over the given dashboard
// repository.
func NewDashboardSink(repo Repository) *DashboardSink {
	return &DashboardSink{repo: repo, pid: os.Getpid()}
}

// Store implements pkg/repository.Repository.
func (s *DashboardSink) Store(rec *pkgrepository.Record) error {
	return s.repo.Save(context.Background(), &model.ProfileRecord{
		SampleID:      rec.Ident.String(),
		Name:          rec.Name,
		ProcessID:     s.pid,
		Timestamp:     time.Now(),
		StackInfo:     rec.FlameOutput,
		ExecutionTime: rec.LifecycleMS,
	})
}

var _ pkgrepository.Repository = (*DashboardSink)(nil)
