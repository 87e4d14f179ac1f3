package ports

import (
	"context"

	domstats "entropynull/domain/stats"
)

// SummaryRepository persists one record per analysis run. Persistence is
// auxiliary to the pipeline: callers may run without a repository.
type SummaryRepository interface {
	SaveSummary(ctx context.Context, summary domstats.RunSummary) error
}
