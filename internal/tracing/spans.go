package tracing

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/bundlekit/internal/bundle"
)

// Span attribute keys for bundle tracing.
// These constants define the semantic conventions for span attributes
// emitted during resolution, publishing and collection.
const (
	// Session attributes
	AttrSessionID = "session.id"

	// Bundle attributes
	AttrBundleName   = "bundle.name"
	AttrBundleRemote = "bundle.remote"
	AttrBundleDeps   = "bundle.dependencies"

	// Publish attributes
	AttrPublishSource = "publish.source"
	AttrPublishDest   = "publish.destination"
	AttrPublishLinked = "publish.linked"

	// Collect attributes
	AttrCollectScripts = "collect.scripts"
	AttrCollectStyles  = "collect.styles"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixRegister = "bundle.register."
	SpanPrefixPublish  = "bundle.publish."
	SpanPrefixCollect  = "bundle.collect."
)

// EventErrorOccurred marks the point in a span where an operation failed.
const EventErrorOccurred = "error.occurred"

// RecordFailure marks the span failed and attaches the error class and
// message so exported traces are filterable by failure kind.
func RecordFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(
		attribute.String(AttrErrorType, ErrorType(err)),
		attribute.String(AttrErrorMessage, err.Error()),
	)
	span.AddEvent(EventErrorOccurred)
}

// ErrorType names the sentinel class of err, or "internal" for errors outside
// the bundle error taxonomy.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, bundle.ErrCircularDependency):
		return "circular_dependency"
	case errors.Is(err, bundle.ErrPositionConflict):
		return "position_conflict"
	case errors.Is(err, bundle.ErrMissingConfiguration):
		return "missing_configuration"
	case errors.Is(err, bundle.ErrInvalidFileEntry):
		return "invalid_file_entry"
	case errors.Is(err, bundle.ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, bundle.ErrPublishIO):
		return "publish_io"
	case errors.Is(err, bundle.ErrUnknownBundle):
		return "unknown_bundle"
	default:
		return "internal"
	}
}
