package paths

import (
	"path/filepath"
	"strings"
)

// Decision is the outcome of an access policy evaluation.
type Decision struct {
	Permitted bool
	Reason    string
}

// List is a set of directory roots used as an allow or deny list.
// Construct with NewList, then Canonicalize before evaluation so entries
// compare against canonical request paths.
type List struct {
	entries      []string
	unrestricted bool
}

// NewList creates a list from the given directory entries.
func NewList(entries ...string) List {
	return List{entries: entries}
}

// Unrestricted returns the sentinel list that skips the allow check
// entirely. Only read operations may be configured with it.
func Unrestricted() List {
	return List{unrestricted: true}
}

// IsUnrestricted reports whether the list is the unrestricted sentinel.
func (l List) IsUnrestricted() bool {
	return l.unrestricted
}

// Empty reports whether the list has no entries.
func (l List) Empty() bool {
	return len(l.entries) == 0
}

// Entries returns a copy of the list entries.
func (l List) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Canonicalize expands tilde prefixes against home, resolves relative
// entries against workingDir, and normalizes each entry. Entries must be
// canonicalized exactly like request paths or rules written with ~ or
// relative notation silently never match.
func (l List) Canonicalize(home, workingDir string) List {
	if l.unrestricted {
		return l
	}
	out := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		out = append(out, Normalize(entry, home, workingDir))
	}
	return List{entries: out}
}

// ContainsPath reports whether path sits within any entry of the list.
func (l List) ContainsPath(path string) bool {
	for _, entry := range l.entries {
		if Contains(entry, path) {
			return true
		}
	}
	return false
}

// Contains reports whether path equals dir or has dir as an ancestor
// directory. Comparison is segment-wise, so /data does not contain
// /database/x.
func Contains(dir, path string) bool {
	dir = filepath.Clean(dir)
	path = filepath.Clean(path)
	if dir == path {
		return true
	}
	if dir == string(filepath.Separator) {
		return strings.HasPrefix(path, dir)
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// Normalize expands a tilde prefix against home, joins relative paths
// against workingDir, and cleans the result. It is lexical only; symlinks
// are left to the Resolver.
func Normalize(path, home, workingDir string) string {
	path = expandTilde(path, home)
	if !filepath.IsAbs(path) {
		path = filepath.Join(workingDir, path)
	}
	return filepath.Clean(path)
}

// Evaluate decides whether path may be touched given allow and deny lists.
// Fixed order: deny entries are checked first and override everything, then
// allow entries, then default deny. Both lists must already be canonicalized.
func Evaluate(path string, allow, deny List) Decision {
	path = filepath.Clean(path)

	if !deny.Empty() && deny.ContainsPath(path) {
		return Decision{Permitted: false, Reason: "path is within denied directories"}
	}

	if allow.IsUnrestricted() {
		return Decision{Permitted: true}
	}

	if allow.ContainsPath(path) {
		return Decision{Permitted: true}
	}

	return Decision{Permitted: false, Reason: "path is not within allowed paths"}
}

func expandTilde(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) || strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
