package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/news-comb/app/database"
)

type RecordFetchTask struct {
	Task
	Outcome    database.FetchOutcome
	sourceRepo database.SourceRepository
}

func NewRecordFetchTask(outcome database.FetchOutcome, sourceRepo database.SourceRepository) *RecordFetchTask {
	return &RecordFetchTask{
		Task:       NewTask(TaskTypeRecordFetch, outcome.Name),
		Outcome:    outcome,
		sourceRepo: sourceRepo,
	}
}

func (t *RecordFetchTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.sourceRepo.RecordFetch(t.Outcome); err != nil {
		return fmt.Errorf("failed to record fetch outcome: %w", err)
	}

	slog.Debug("Task completed",
		"type", "RecordFetch",
		"source", t.Outcome.Name,
		"ok", t.Outcome.Error == "",
		"duration", t.GetDuration())

	return nil
}
