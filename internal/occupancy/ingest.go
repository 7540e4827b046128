package occupancy

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/Solvro/backend-topwr-sks/internal/repo"
)

// Ingestor fetches and upserts occupancy samples on each run.
//
// Upserts are keyed on the sample's external timestamp, so re-reading a
// feed that still lists earlier samples of the day refreshes them in place
// instead of duplicating rows.
type Ingestor struct {
	DB       *gorm.DB
	Fetcher  FeedFetcher
	Location *time.Location
	Log      zerolog.Logger
}

// Ingest performs one feed ingestion run.
func (in *Ingestor) Ingest(ctx context.Context) error {
	tr := otel.Tracer("occupancy/Ingestor")
	ctx, span := tr.Start(ctx, "Ingest")
	defer span.End()

	body, err := in.Fetcher.FetchFeed(ctx)
	if err != nil {
		in.Log.Error().Err(err).Msg("occupancy feed fetch failed")
		return err
	}

	samples := ParseFeed(body, time.Now(), in.Location)
	span.SetAttributes(attribute.Int("samples", len(samples)))
	if len(samples) == 0 {
		in.Log.Warn().Msg("occupancy feed contained no parseable samples")
		return nil
	}

	if err := repo.UpsertOccupancySamples(ctx, in.DB, toModels(samples)); err != nil {
		in.Log.Error().Err(err).Msg("occupancy upsert failed")
		return err
	}
	in.Log.Debug().Int("samples", len(samples)).Msg("occupancy feed ingested")
	return nil
}
