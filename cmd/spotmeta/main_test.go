package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingField(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), "spotmeta", nil, strings.NewReader("A 1 2\n"), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "spotmeta: missing required field name\n"))
	assert.Contains(t, stderr.String(), "usage: spotmeta <field> [class] [category]")
}

func TestRun_InvalidKafkaTimeout(t *testing.T) {
	t.Setenv("KAFKA_TIMEOUT", "soon")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), "spotmeta", []string{"WX"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "invalid KAFKA_TIMEOUT")
}

func TestRun_SampleFile(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	input, err := os.ReadFile(filepath.Join("..", "..", "internal", "pipeline", "testdata", "observations.txt"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("..", "..", "internal", "pipeline", "testdata", "observations.meta"))
	require.NoError(t, err)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), "spotmeta", []string{"WX"}, bytes.NewReader(input), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, string(want), stdout.String())
}

func TestRun_ClassAndCategory(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), "spotmeta", []string{"PCPN", "marker", "rain"}, strings.NewReader("S 1 2\n"), &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "   FPA_category \"rain\"\n")
	assert.Contains(t, stdout.String(), " spot 1 2 \"marker\" none\n")
}

func TestRun_MetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotmeta.prom")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("METRICS_TEXTFILE", path)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), "spotmeta", []string{"WX"}, strings.NewReader("A 1 2\nB\n"), &stdout, &stderr)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "spotmeta_records_emitted_total 1")
	assert.Contains(t, string(data), "spotmeta_records_dropped_total 1")
	assert.Contains(t, string(data), "spotmeta_last_run_success 1")
}
