// Command spotmeta converts point observations on stdin into an FPA
// scattered-field metafile on stdout.
//
// Usage:
//
//	spotmeta <field> [class] [category]
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	kafkaadapter "github.com/couchcryptid/spotmeta/internal/adapter/kafka"
	"github.com/couchcryptid/spotmeta/internal/config"
	"github.com/couchcryptid/spotmeta/internal/metafile"
	"github.com/couchcryptid/spotmeta/internal/observability"
	"github.com/couchcryptid/spotmeta/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, filepath.Base(os.Args[0]), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer, program string) {
	fmt.Fprintf(w, "usage: %s <field> [class] [category]\n", program)
	fmt.Fprintf(w, "  class defaults to %q, category to %q\n", metafile.DefaultClass, metafile.DefaultCategory)
}

// run executes one conversion and returns the process exit status.
func run(ctx context.Context, program string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if errors.Is(err, config.ErrMissingField) {
		fmt.Fprintf(stderr, "%s: %v\n", program, err)
		usage(stderr, program)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", program, err)
		return 1
	}

	logger := observability.NewLogger(cfg).With("program", program)
	metrics := observability.NewMetrics()

	// The published copy is only buffered when Kafka is configured; stdout
	// always receives the document as it is written.
	var doc bytes.Buffer
	out := stdout
	if cfg.KafkaEnabled() {
		out = io.MultiWriter(stdout, &doc)
	}

	w := metafile.NewWriter(out, metafile.Options{
		Field:    cfg.Field,
		Class:    cfg.Class,
		Category: cfg.Category,
	})

	p := pipeline.New(logger, metrics)
	stats, runErr := p.Run(ctx, stdin, w)
	if runErr != nil {
		logger.Error("conversion failed", "error", runErr)
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		return 1
	}

	if cfg.KafkaEnabled() {
		if err := publish(ctx, cfg, logger, doc.Bytes(), stats); err != nil {
			logger.Error("kafka publish failed", "error", err)
			return 1
		}
	}
	return 0
}

func publish(ctx context.Context, cfg *config.Config, logger *slog.Logger, doc []byte, stats pipeline.Stats) error {
	publisher := kafkaadapter.NewPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.KafkaTimeout)
	defer cancel()
	return publisher.Publish(ctx, doc, stats.FinishedAt)
}
