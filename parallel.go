package zarr

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/scigolib/zarr/internal/core"
)

// ParallelApply fans fn out over triples using a bounded worker set. This
// is the only place parallelism is exposed in this module;
// Read and Write themselves stay sequential by default, so callers that
// want concurrent chunk I/O build it on top of the triples their own
// ChunkGrid produces rather than this package doing it implicitly.
func ParallelApply(ctx context.Context, triples []core.IndexTriple, workers int, fn func(context.Context, core.IndexTriple) error) error {
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, triple := range triples {
		triple := triple
		g.Go(func() error {
			return fn(gctx, triple)
		})
	}
	return g.Wait()
}
