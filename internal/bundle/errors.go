package bundle

import "errors"

// Resolution and publication errors. Call sites wrap these with context via
// fmt.Errorf("%w: ...") so callers can classify with errors.Is.
var (
	ErrCircularDependency   = errors.New("circular dependency between asset bundles")
	ErrPositionConflict     = errors.New("dependency position conflict")
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrInvalidFileEntry     = errors.New("invalid file entry")
	ErrFileNotFound         = errors.New("file not found")
	ErrPublishIO            = errors.New("publish failed")
	ErrUnknownBundle        = errors.New("unknown bundle")
)
