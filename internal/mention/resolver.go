// Package mention resolves @scope:subpath tokens into filesystem paths.
//
// Scopes map to configured root directories, e.g. with user mapped to
// ~/.agentfs, the token @user:notes/todo.md resolves to
// ~/.agentfs/notes/todo.md. The package implements paths.MentionResolver
// and is wired into tool providers as an optional capability.
package mention

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps mention scopes to root directories.
type Resolver struct {
	home       string
	workingDir string
	scopes     map[string]string
}

// New creates a mention resolver from a scope→root mapping. Roots may be
// tilde-prefixed or relative to workingDir.
func New(workingDir string, scopes map[string]string) *Resolver {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Resolver{
		home:       home,
		workingDir: workingDir,
		scopes:     scopes,
	}
}

// Resolve maps @scope:subpath to a filesystem path. Returns false for
// malformed tokens, unknown scopes, or subpaths escaping the scope root.
func (r *Resolver) Resolve(token string) (string, bool) {
	scope, subpath, ok := parse(token)
	if !ok {
		return "", false
	}

	root, ok := r.scopes[scope]
	if !ok {
		return "", false
	}
	root = r.normalizeRoot(root)

	resolved := filepath.Clean(filepath.Join(root, subpath))
	// A subpath like ../../etc/passwd must not climb out of the scope root.
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return "", false
	}
	return resolved, true
}

// IsDirectory reports whether a resolved path points at a directory.
func (r *Resolver) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Resolver) normalizeRoot(root string) string {
	if root == "~" {
		root = r.home
	} else if strings.HasPrefix(root, "~/") {
		root = filepath.Join(r.home, root[2:])
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(r.workingDir, root)
	}
	return filepath.Clean(root)
}

func parse(token string) (scope, subpath string, ok bool) {
	if !strings.HasPrefix(token, "@") {
		return "", "", false
	}
	rest := token[1:]
	idx := strings.Index(rest, ":")
	if idx <= 0 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}
