package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/sources"
)

// SyncSourcesTask registers every configured source in the health store so
// sources that were never requested still get probed.
type SyncSourcesTask struct {
	Task
	Sources    []sources.Source
	sourceRepo database.SourceRepository
}

func NewSyncSourcesTask(srcs []sources.Source, sourceRepo database.SourceRepository) *SyncSourcesTask {
	return &SyncSourcesTask{
		Task:       NewTask(TaskTypeSyncSources, "all"),
		Sources:    srcs,
		sourceRepo: sourceRepo,
	}
}

func (t *SyncSourcesTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for _, src := range t.Sources {
		if err := t.sourceRepo.UpsertSource(src.URL, src.Name, src.RegionCode, src.Category); err != nil {
			slog.Error("Task failed", "type", "SyncSources", "source", src.Name, "error", err)
			return fmt.Errorf("failed to sync source %s: %w", src.Name, err)
		}
	}

	slog.Info("Task completed",
		"type", "SyncSources",
		"sources", len(t.Sources),
		"duration", t.GetDuration())

	return nil
}
