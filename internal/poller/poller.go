// Package poller runs periodic jobs on a fixed cadence.
//
// Each job runs once immediately on start and then on every tick until the
// context is canceled. Job errors are logged and never stop the loop; the
// jobs themselves are responsible for being safe to re-run.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Poller drives a single Job on a fixed interval.
type Poller struct {
	Name     string
	Interval time.Duration
	Job      Job
	Log      zerolog.Logger
}

// Run blocks until ctx is canceled. The first run happens immediately.
func (p *Poller) Run(ctx context.Context) {
	p.Log.Info().Str("poller", p.Name).Dur("interval", p.Interval).Msg("poller started")

	p.runOnce(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.Log.Info().Str("poller", p.Name).Msg("poller stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	if err := p.Job(ctx); err != nil {
		p.Log.Warn().Err(err).Str("poller", p.Name).Msg("poller run failed")
	}
}
