package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a synchronization did not complete.
type ErrorKind int

const (
	// KindConfiguration covers malformed or overlapping mapping rules and
	// conflicting manifest projects. Never worth retrying.
	KindConfiguration ErrorKind = iota + 1
	// KindResolution covers unreadable or unparsable manifests and
	// unreachable imports.
	KindResolution
	// KindConflict means the destination branch moved while the new commit was
	// being built. The whole event may be retried by the caller.
	KindConflict
	// KindInternal covers unexpected ref update outcomes and object store
	// failures.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindResolution:
		return "resolution"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// SyncError is the error type returned by every synchronization entry point.
type SyncError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Detail)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NewConfigurationError builds a KindConfiguration error.
func NewConfigurationError(format string, args ...any) *SyncError {
	return &SyncError{Kind: KindConfiguration, Detail: fmt.Sprintf(format, args...)}
}

// NewResolutionError builds a KindResolution error wrapping cause.
func NewResolutionError(cause error, format string, args ...any) *SyncError {
	return &SyncError{Kind: KindResolution, Detail: fmt.Sprintf(format, args...), Err: cause}
}

// NewConflictError builds a KindConflict error.
func NewConflictError(format string, args ...any) *SyncError {
	return &SyncError{Kind: KindConflict, Detail: fmt.Sprintf(format, args...)}
}

// NewInternalError builds a KindInternal error wrapping cause.
func NewInternalError(cause error, format string, args ...any) *SyncError {
	return &SyncError{Kind: KindInternal, Detail: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first SyncError in err's chain. Errors that
// carry no kind are reported as KindInternal; nil yields zero.
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return KindInternal
}

// IsConflict reports whether err is a lost compare-and-swap race.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
