// Package console publishes boards as JSON to a writer, stdout by default.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/pkg/metrics"
	"github.com/samirrijal/railboard/internal/pkg/serialize"
)

// Publisher implements ports.BoardPublisher by writing each board as an
// indented JSON document followed by a newline.
type Publisher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPublisher writes to w, or stdout if w is nil.
func NewPublisher(w io.Writer) *Publisher {
	if w == nil {
		w = os.Stdout
	}
	return &Publisher{w: w}
}

func (p *Publisher) Publish(ctx context.Context, boards []domain.StationAndServices) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, b := range boards {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := serialize.Board(b)
		if err != nil {
			return fmt.Errorf("serialize %q: %w", b.Station.Name, err)
		}
		if _, err := fmt.Fprintf(p.w, "%s\n", data); err != nil {
			return fmt.Errorf("write %q: %w", b.Station.Name, err)
		}
		metrics.BoardsPublished.WithLabelValues("console").Inc()
	}
	return nil
}
