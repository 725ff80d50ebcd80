package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/epw-codec/internal/epw"
	"github.com/couchcryptid/epw-codec/internal/observability"
)

// Extractor reads the lines of one source.
type Extractor interface {
	Extract(ctx context.Context, source string) ([]string, error)
}

// Transformer converts the lines of one source into a document.
type Transformer interface {
	Transform(ctx context.Context, source string, lines []string) (*epw.Document, error)
}

// Loader writes a decoded document to a destination.
type Loader interface {
	Load(ctx context.Context, source string, doc *epw.Document) error
}

// Result is the outcome of processing one source.
type Result struct {
	Source   string
	Document *epw.Document
	Records  int
	Duration time.Duration
	Err      error
}

// Pipeline runs extract-transform-load over a batch of sources.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	workers     int
}

// New creates a Pipeline. loader may be nil when documents are only decoded.
// workers bounds concurrent sources; values below 1 mean one at a time.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
		workers:     workers,
	}
}

// Run processes every source and returns one Result per source, in input
// order. A failing source does not stop the others; the returned error is
// non-nil only when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, sources []string) ([]Result, error) {
	p.logger.Info("pipeline started", "sources", len(sources), "workers", p.workers)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	results := make([]Result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, source := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Source: source, Err: err}
				return err
			}
			results[i] = p.process(gctx, source)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.logger.Info("pipeline stopping", "reason", err)
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info("pipeline finished", "sources", len(sources), "failed", failed)
	return results, nil
}

// process runs one extract-transform-load cycle for source.
func (p *Pipeline) process(ctx context.Context, source string) Result {
	start := p.clock.Now()
	res := Result{Source: source}

	lines, err := p.extractor.Extract(ctx, source)
	if err != nil {
		p.logger.Error("extract failed", "source", source, "error", err)
		res.Err = fmt.Errorf("extract %s: %w", source, err)
		return res
	}

	doc, err := p.transformer.Transform(ctx, source, lines)
	if err != nil {
		if errors.Is(err, ErrRoundTrip) {
			p.metrics.RoundTripMismatch.Inc()
		} else {
			p.metrics.DecodeErrors.WithLabelValues(epw.ErrorKind(err)).Inc()
		}
		p.logger.Warn("transform failed", "source", source, "kind", epw.ErrorKind(err), "error", err)
		res.Err = fmt.Errorf("transform %s: %w", source, err)
		return res
	}

	res.Document = doc
	res.Records = doc.Data().Len()
	p.metrics.DocumentsDecoded.Inc()
	p.metrics.RecordsDecoded.Add(float64(res.Records))

	if p.loader != nil {
		if err := p.loader.Load(ctx, source, doc); err != nil {
			p.metrics.LoadErrors.Inc()
			p.logger.Error("load failed", "source", source, "error", err)
			res.Err = fmt.Errorf("load %s: %w", source, err)
			return res
		}
		p.metrics.DocumentsLoaded.Inc()
	}

	res.Duration = p.clock.Since(start)
	p.metrics.DecodeDuration.Observe(res.Duration.Seconds())
	p.logger.Debug("source processed", "source", source, "records", res.Records, "duration", res.Duration)
	return res
}
