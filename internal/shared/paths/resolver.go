package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MentionResolver resolves @scope:subpath tokens into filesystem paths.
// It is an optional capability supplied by the host.
type MentionResolver interface {
	// Resolve returns the canonical path for a mention token, or false if
	// the mention does not name anything.
	Resolve(token string) (string, bool)
	// IsDirectory reports whether a resolved mention points at a directory.
	IsDirectory(path string) bool
}

var (
	// ErrCapabilityMissing indicates a mention token was used without a
	// mention resolver configured.
	ErrCapabilityMissing = errors.New("mention paths require a mention resolver capability")
	// ErrMentionNotFound indicates the mention resolver had no match.
	ErrMentionNotFound = errors.New("mention not found")
	// ErrEmptyPath indicates an empty path token.
	ErrEmptyPath = errors.New("path cannot be empty")
)

// Resolver turns raw path tokens into canonical absolute paths.
// Relative tokens resolve against WorkingDir, never the process CWD: the
// session's working context is always supplied explicitly.
type Resolver struct {
	Home       string
	WorkingDir string
	Mentions   MentionResolver
}

// NewResolver creates a resolver rooted at workingDir. Mentions may be nil;
// mention tokens then fail with ErrCapabilityMissing.
func NewResolver(workingDir string, mentions MentionResolver) *Resolver {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Resolver{
		Home:       home,
		WorkingDir: workingDir,
		Mentions:   mentions,
	}
}

// IsMention reports whether a token uses @scope:subpath syntax.
func IsMention(token string) bool {
	return strings.HasPrefix(token, "@")
}

// Resolve canonicalizes a path token. Tilde expansion happens before any
// normalization; mention tokens are delegated to the configured resolver.
func (r *Resolver) Resolve(token string) (string, error) {
	if token == "" {
		return "", ErrEmptyPath
	}

	if IsMention(token) {
		if r.Mentions == nil {
			return "", ErrCapabilityMissing
		}
		resolved, ok := r.Mentions.Resolve(token)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMentionNotFound, token)
		}
		return r.canonical(resolved), nil
	}

	return r.canonical(Normalize(token, r.Home, r.WorkingDir)), nil
}

// Lists canonicalizes configured allow/deny entries with the same tilde,
// working-directory, and symlink rules applied to request paths. Entries
// that diverge from request canonicalization silently never match.
func (r *Resolver) Lists(entries []string) List {
	canon := make([]string, 0, len(entries))
	for _, entry := range entries {
		canon = append(canon, r.canonical(Normalize(entry, r.Home, r.WorkingDir)))
	}
	return NewList(canon...)
}

// canonical resolves symlinks where the path exists. For paths that do not
// exist yet (write targets), the nearest existing ancestor is resolved and
// the remainder re-joined, so containment checks see through symlinked
// parents.
func (r *Resolver) canonical(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	dir, base := filepath.Split(path)
	dir = filepath.Clean(dir)
	if dir == path {
		// Hit the root without finding an existing ancestor.
		return path
	}
	return filepath.Join(r.canonical(dir), base)
}
