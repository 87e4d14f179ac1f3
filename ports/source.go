package ports

import (
	"context"

	domdataset "entropynull/domain/dataset"
)

// MetricsSource loads the two metric tables of one run. Implementations
// must fail with the structural errors in domain/core when a table or a
// required column is absent, and must degrade malformed embedded sequences
// to empty slices rather than erroring.
type MetricsSource interface {
	Internal(ctx context.Context) ([]domdataset.InternalRow, error)
	External(ctx context.Context) ([]domdataset.ExternalRow, error)
}
