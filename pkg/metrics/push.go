package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the custom registry to a Pushgateway under job, grouped by the
// given labels. Batch runs have no scrape endpoint, so this is how their
// metrics leave the process.
func Push(ctx context.Context, url, job string, grouping map[string]string) error {
	if url == "" {
		return ErrNoGateway
	}
	p := push.New(url, job).Gatherer(customRegistry)
	for k, v := range grouping {
		p = p.Grouping(k, v)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	return nil
}
