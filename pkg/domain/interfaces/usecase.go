package interfaces

import (
	"context"

	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
)

// IngestUseCase defines the ingestion pipeline: extract trusted result links
// from the triggering event, download and organize them per model, merge,
// and publish the bot branch
type IngestUseCase interface {
	// Ingest processes one event to completion. Locked/closed issues and
	// bodies without trusted links are successful no-ops.
	Ingest(ctx context.Context, ev *model.EventContext) error
}
