package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/spotmeta/internal/metafile"
	"github.com/couchcryptid/spotmeta/internal/observability"
	"github.com/couchcryptid/spotmeta/internal/pipeline"
	"github.com/couchcryptid/spotmeta/internal/record"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultOpts = metafile.Options{
	Field:    "WX",
	Class:    metafile.DefaultClass,
	Category: metafile.DefaultCategory,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func convert(t *testing.T, input string, opts metafile.Options) (string, pipeline.Stats) {
	t.Helper()
	var out bytes.Buffer
	p := pipeline.New(discardLogger(), observability.NewMetrics())

	stats, err := p.Run(context.Background(), strings.NewReader(input), metafile.NewWriter(&out, opts))
	require.NoError(t, err)
	return out.String(), stats
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

// --- mocks ---

type failingLoader struct {
	failOn string
	err    error
	blocks int
}

func (f *failingLoader) WriteHeader() error {
	if f.failOn == "header" {
		return f.err
	}
	return nil
}

func (f *failingLoader) WriteRecord(record.Record) error {
	if f.failOn == "record" {
		return f.err
	}
	f.blocks++
	return nil
}

func (f *failingLoader) WriteFooter() error {
	if f.failOn == "footer" {
		return f.err
	}
	return nil
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

// --- tests ---

func TestPipeline_SampleFile(t *testing.T) {
	input, err := os.ReadFile(filepath.Join("testdata", "observations.txt"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "observations.meta"))
	require.NoError(t, err)

	got, stats := convert(t, string(input), defaultOpts)

	assert.Equal(t, string(want), got)
	assert.Equal(t, 9, stats.Lines)
	assert.Equal(t, 5, stats.Emitted)
	assert.Equal(t, 4, stats.Dropped)
}

func TestPipeline_EndToEnd_FullRecord(t *testing.T) {
	got, _ := convert(t, "STN1 45.0 -75.0 20230101T0000 Heavy Rain # note\n", defaultOpts)

	assert.Contains(t, got, "   FPA_auto_label \"STN1\"\n")
	assert.Contains(t, got, "   FPA_timestamp \"20230101T0000\"\n")
	assert.Contains(t, got, "   FPA_user_label \"Heavy Rain\"\n")
	assert.Contains(t, got, " spot 45.0 -75.0 \"plot\" none\n")
	assert.NotContains(t, got, "note")
}

func TestPipeline_EndToEnd_ThreeFields(t *testing.T) {
	got, _ := convert(t, "STN2 1 2\n", defaultOpts)

	assert.Contains(t, got, " value 3\n")
	assert.Contains(t, got, "   FPA_timestamp \"\"\n")
	assert.NotContains(t, got, "FPA_user_label")
}

func TestPipeline_EmptyInput(t *testing.T) {
	got, stats := convert(t, "", defaultOpts)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Len(t, lines, metafile.HeaderLines+metafile.FooterLines)
	assert.Equal(t, "* End", lines[len(lines)-1])
	assert.Zero(t, stats.Lines)
	assert.Zero(t, stats.Emitted)
}

func TestPipeline_ShortLineRemovesExactlyOneBlock(t *testing.T) {
	base := "A 1 2 T label\nB 3 4\n"
	for _, short := range []string{"C 5", "C", "", "C 5 # 6", "C ! 5 6", "   \t"} {
		t.Run(short, func(t *testing.T) {
			without, _ := convert(t, base, defaultOpts)
			with, stats := convert(t, "A 1 2 T label\n"+short+"\nB 3 4\n", defaultOpts)

			assert.Equal(t, without, with)
			assert.Equal(t, 1, stats.Dropped)

			// Promoting the short line to three fields adds exactly one block.
			full, _ := convert(t, "A 1 2 T label\nC 5 6\nB 3 4\n", defaultOpts)
			r, ok := record.Parse("C 5 6")
			require.True(t, ok)
			assert.Equal(t,
				strings.Count(without, "\n")+metafile.BlockLines(r),
				strings.Count(full, "\n"))
		})
	}
}

func TestPipeline_ValueIsCappedFieldCount(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"A 1 2", " value 3\n"},
		{"A 1 2 T", " value 4\n"},
		{"A 1 2 - x", " value 4\n"},
		{"A 1 2 T a b c d e f g", " value 4\n"},
	}
	for _, tt := range tests {
		got, _ := convert(t, tt.line+"\n", defaultOpts)
		assert.Contains(t, got, tt.want, "line %q", tt.line)
	}
}

func TestPipeline_PreservesInputOrder(t *testing.T) {
	got, _ := convert(t, "Z 1 1\nA 2 2\nM 3 3\n", defaultOpts)

	z := strings.Index(got, `"Z"`)
	a := strings.Index(got, `"A"`)
	m := strings.Index(got, `"M"`)
	assert.True(t, z < a && a < m, "blocks out of order:\n%s", got)
}

func TestPipeline_NoTrailingNewline(t *testing.T) {
	got, stats := convert(t, "A 1 2\r\nB 3 4", defaultOpts)

	assert.Equal(t, 2, stats.Emitted)
	assert.Contains(t, got, " spot 1 2 \"plot\" none\n")
	assert.Contains(t, got, " spot 3 4 \"plot\" none\n")
}

func TestPipeline_ClassAndCategory(t *testing.T) {
	got, _ := convert(t, "A 1 2\n", metafile.Options{Field: "PCPN", Class: "marker", Category: "rain"})

	assert.Contains(t, got, " field scattered PCPN geography\n")
	assert.Contains(t, got, "   FPA_category \"rain\"\n")
	assert.Contains(t, got, " spot 1 2 \"marker\" none\n")
}

func TestPipeline_Metrics(t *testing.T) {
	metrics := observability.NewMetrics()
	p := pipeline.New(discardLogger(), metrics)

	_, err := p.Run(context.Background(), strings.NewReader("A 1 2\nshort\nB 1 2 3 4\n"), metafile.NewWriter(io.Discard, defaultOpts))
	require.NoError(t, err)

	assert.InDelta(t, 3, counterValue(t, metrics.LinesRead), 0)
	assert.InDelta(t, 2, counterValue(t, metrics.RecordsEmitted), 0)
	assert.InDelta(t, 1, counterValue(t, metrics.RecordsDropped), 0)
}

func TestPipeline_StatsUseClock(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	pipeline.SetClock(clockwork.NewFakeClockAt(start))
	t.Cleanup(func() { pipeline.SetClock(nil) })

	_, stats := convert(t, "A 1 2\n", defaultOpts)

	assert.Equal(t, start, stats.StartedAt)
	assert.Equal(t, start, stats.FinishedAt)
	assert.Zero(t, stats.Duration())
}

func TestPipeline_LoaderErrors(t *testing.T) {
	boom := errors.New("broken pipe")
	for _, stage := range []string{"header", "record", "footer"} {
		t.Run(stage, func(t *testing.T) {
			p := pipeline.New(discardLogger(), observability.NewMetrics())
			loader := &failingLoader{failOn: stage, err: boom}

			_, err := p.Run(context.Background(), strings.NewReader("A 1 2\n"), loader)

			require.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), "write "+stage)
		})
	}
}

func TestPipeline_ReadErrorWritesNothing(t *testing.T) {
	var out bytes.Buffer
	p := pipeline.New(discardLogger(), observability.NewMetrics())
	boom := errors.New("stdin closed")

	_, err := p.Run(context.Background(), errReader{err: boom}, metafile.NewWriter(&out, defaultOpts))

	require.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}

func TestPipeline_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := pipeline.New(discardLogger(), observability.NewMetrics())
	loader := &failingLoader{}

	_, err := p.Run(ctx, strings.NewReader("A 1 2\nB 3 4\n"), loader)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, loader.blocks)
}

func TestPipeline_LongLine(t *testing.T) {
	label := strings.Repeat("x", 2<<20)
	got, stats := convert(t, "STN1 1 2 - "+label+"\nSTN2 1 2\n", defaultOpts)

	assert.Equal(t, 2, stats.Emitted)
	assert.Contains(t, got, "   FPA_user_label \""+label+"\"\n")
	assert.Contains(t, got, "   FPA_auto_label \"STN2\"\n")
	assert.True(t, strings.HasSuffix(got, "*\n* End\n"))
}
