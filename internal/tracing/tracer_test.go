package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled)
	require.Equal(t, ExporterFile, cfg.Exporter)
	require.Equal(t, DefaultOTLPEndpoint, cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, DefaultServiceName, cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanRenderPass)
	require.False(t, span.SpanContext().IsValid(), "noop spans carry no context")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile})
	require.ErrorContains(t, err, "file_path required")

	_, err = NewProvider(Config{Enabled: true, Exporter: "carrier-pigeon"})
	require.ErrorContains(t, err, "unsupported exporter type: carrier-pigeon")
}

func TestNewProvider_NoneExporter(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanRenderPass)
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.jsonl")

	p, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile, FilePath: path, ServiceName: "test"})
	require.NoError(t, err)

	ctx, parent := p.Tracer().Start(context.Background(), SpanRenderPass)
	_, child := p.Tracer().Start(ctx, SpanManagerHook)
	child.SetAttributes(attribute.String(AttrHook, "didCreate"))
	child.SetStatus(codes.Error, "hook failed")
	child.End()
	parent.End()

	require.NoError(t, p.Shutdown(context.Background()))

	records := readRecords(t, path)
	require.Len(t, records, 2)
	byName := map[string]SpanRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}
	hook := byName[SpanManagerHook]
	require.Equal(t, byName[SpanRenderPass].SpanID, hook.ParentID)
	require.Equal(t, "ERROR", hook.Status)
	require.Equal(t, "hook failed", hook.StatusMsg)
	require.Equal(t, "didCreate", hook.Attributes[AttrHook])
}

func TestFileExporter_ClosedExport(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "x.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()), "second shutdown is a no-op")

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	_, span := tp.Tracer("t").Start(context.Background(), "late")
	span.End()

	err = exp.ExportSpans(context.Background(), rec.Ended())
	require.ErrorIs(t, err, os.ErrClosed)
}

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []SpanRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		out = append(out, r)
	}
	require.NoError(t, sc.Err())
	return out
}
