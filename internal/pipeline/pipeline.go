package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/spotmeta/internal/observability"
	"github.com/couchcryptid/spotmeta/internal/record"
)

// Loader receives the document envelope and one call per usable record.
// metafile.Writer implements it.
type Loader interface {
	WriteHeader() error
	WriteRecord(r record.Record) error
	WriteFooter() error
}

// Stats summarizes one run.
type Stats struct {
	Lines      int
	Emitted    int
	Dropped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns the wall time of the run.
func (s Stats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Pipeline converts input lines into metafile blocks.
type Pipeline struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline with the given observability.
func New(logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{logger: logger, metrics: metrics}
}

// Run reads every line of in, then writes the header, one block per record
// with at least three fields (in input order) and the footer to out.
// Short lines are dropped silently; only read and write failures or context
// cancellation return an error.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, out Loader) (Stats, error) {
	stats := Stats{StartedAt: now()}
	p.metrics.LastRunSuccess.Set(0)

	lines, err := extract(in)
	if err != nil {
		return stats, err
	}
	stats.Lines = len(lines)
	p.metrics.LinesRead.Add(float64(len(lines)))

	if err := out.WriteHeader(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		r, ok := record.Parse(line)
		if !ok {
			stats.Dropped++
			p.metrics.RecordsDropped.Inc()
			p.logger.Debug("line dropped, too few fields", "line", i+1)
			continue
		}

		if err := out.WriteRecord(r); err != nil {
			return stats, fmt.Errorf("write record at line %d: %w", i+1, err)
		}
		stats.Emitted++
		p.metrics.RecordsEmitted.Inc()
	}

	if err := out.WriteFooter(); err != nil {
		return stats, fmt.Errorf("write footer: %w", err)
	}

	stats.FinishedAt = now()
	p.metrics.RunDuration.Set(stats.Duration().Seconds())
	p.metrics.LastRunSuccess.Set(1)
	p.logger.Info("conversion complete",
		"lines", stats.Lines,
		"emitted", stats.Emitted,
		"dropped", stats.Dropped,
		"duration", stats.Duration(),
	)
	return stats, nil
}

// extract reads all lines of in before any output is produced. Lines have
// no length limit; a trailing "\r" is dropped with the newline.
func extract(in io.Reader) ([]string, error) {
	br := bufio.NewReader(in)

	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
	}
}
