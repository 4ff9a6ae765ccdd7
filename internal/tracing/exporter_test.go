package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/bundlekit/internal/bundle"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestFileExporter_PromotesBundleFields(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	provider, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "file",
		FilePath: tracePath,
	})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanPrefixRegister+"app")
	span.SetAttributes(
		attribute.String(AttrSessionID, "run-1"),
		attribute.String(AttrBundleName, "app"),
		attribute.Bool(AttrBundleRemote, false),
	)
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, SpanPrefixRegister+"app", rec.Name)
	require.Equal(t, "run-1", rec.Session)
	require.Equal(t, "app", rec.Bundle)
	require.Empty(t, rec.Error)
	require.Equal(t, map[string]any{AttrBundleRemote: false}, rec.Attributes,
		"non-promoted attributes stay in the attribute map")
}

func TestFileExporter_RecordsFailureClass(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	provider, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "file",
		FilePath: tracePath,
	})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanPrefixRegister+"app")
	RecordFailure(span, fmt.Errorf("%w: app -> lib -> app", bundle.ErrCircularDependency))
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	records := readRecords(t, tracePath)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "circular_dependency", rec.ErrorType)
	require.Contains(t, rec.Error, "app -> lib -> app")
	require.NotEmpty(t, rec.Events)
	require.Equal(t, EventErrorOccurred, rec.Events[len(rec.Events)-1].Name,
		"the failure marker follows the recorded exception event")
}

func TestFileExporter_AppendsAcrossInstances(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	for range 2 {
		provider, err := NewProvider(Config{
			Enabled:  true,
			Exporter: "file",
			FilePath: tracePath,
		})
		require.NoError(t, err)
		_, span := provider.Tracer().Start(context.Background(), SpanPrefixPublish+"app")
		span.End()
		require.NoError(t, provider.Shutdown(context.Background()))
	}

	require.Len(t, readRecords(t, tracePath), 2)
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: a -> a", bundle.ErrCircularDependency), "circular_dependency"},
		{fmt.Errorf("%w: a at 5", bundle.ErrPositionConflict), "position_conflict"},
		{bundle.ErrMissingConfiguration, "missing_configuration"},
		{bundle.ErrInvalidFileEntry, "invalid_file_entry"},
		{bundle.ErrFileNotFound, "file_not_found"},
		{bundle.ErrPublishIO, "publish_io"},
		{bundle.ErrUnknownBundle, "unknown_bundle"},
		{fmt.Errorf("read bundle file: boom"), "internal"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ErrorType(tt.err), "error %v", tt.err)
	}
}
