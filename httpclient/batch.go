package httpclient

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/requestkit/request"
)

// DoAll sends specs concurrently, at most limit at a time (unlimited when
// limit <= 0). Responses are in input order. The first error cancels the
// remaining requests and is returned with whatever responses completed.
func DoAll(ctx context.Context, c Client, specs []request.Spec, limit int) ([]*Response, error) {
	responses := make([]*Response, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, spec := range specs {
		g.Go(func() error {
			resp, err := c.Do(gctx, spec)
			responses[i] = resp
			return err
		})
	}
	return responses, g.Wait()
}
