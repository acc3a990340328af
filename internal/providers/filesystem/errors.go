package filesystem

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/agentfs/agentfs/internal/shared/paths"
	"github.com/agentfs/agentfs/internal/types"
)

// ioFailure wraps an OS-level failure, preserving the native error code
// when one is available.
func ioFailure(action, path string, err error) (*types.Result, error) {
	extra := map[string]interface{}{"path": path}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		extra["errno"] = int(errno)
	}
	return failureExtra(types.KindIOError, fmt.Sprintf("%s %s: %v", action, path, err), extra)
}

// resolveFailure maps resolver errors to their result kinds.
func resolveFailure(token string, err error) (*types.Result, error) {
	switch {
	case errors.Is(err, paths.ErrCapabilityMissing):
		return failure(types.KindCapabilityMissing, fmt.Sprintf("mention paths require a mention resolver capability: %s", token))
	case errors.Is(err, paths.ErrMentionNotFound):
		return failure(types.KindNotFound, fmt.Sprintf("mention not found: %s", token))
	case errors.Is(err, paths.ErrEmptyPath):
		return failure(types.KindValidation, "path parameter required")
	default:
		return failure(types.KindValidation, fmt.Sprintf("cannot resolve path %s: %v", token, err))
	}
}

// deniedFailure reports a policy rejection.
func deniedFailure(token string, decision paths.Decision) (*types.Result, error) {
	return failure(types.KindAccessDenied, fmt.Sprintf("access denied: %s %s", token, decision.Reason))
}
