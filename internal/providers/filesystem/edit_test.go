package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentfs/agentfs/internal/events"
	"github.com/agentfs/agentfs/internal/types"
)

type stubMentions struct {
	mapping map[string]string
}

func (s *stubMentions) Resolve(token string) (string, bool) {
	path, ok := s.mapping[token]
	return path, ok
}

func (s *stubMentions) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func TestEditSingleReplacement(t *testing.T) {
	p, root, _ := newTestProvider(t, nil)
	writeFixture(t, filepath.Join(root, "f.txt"), "hello world\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "f.txt",
		"old_string": "world",
		"new_string": "gopher",
	})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["replacements_made"])

	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello gopher\n", string(data))
	assert.Equal(t, len("hello gopher\n"), result.Data["bytes_written"])
}

func TestEditAmbiguousMatch(t *testing.T) {
	p, root, _ := newTestProvider(t, nil)
	writeFixture(t, filepath.Join(root, "f.txt"), "foo bar foo\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "f.txt",
		"old_string": "foo",
		"new_string": "baz",
	})
	requireKind(t, result, types.KindAmbiguousMatch)
	assert.Equal(t, 2, result.Error.Extra["occurrences"])

	// File untouched on failure.
	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "foo bar foo\n", string(data))
}

func TestEditReplaceAll(t *testing.T) {
	p, root, _ := newTestProvider(t, nil)
	writeFixture(t, filepath.Join(root, "f.txt"), "foo bar foo\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":        "f.txt",
		"old_string":  "foo",
		"new_string":  "baz",
		"replace_all": true,
	})
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data["replacements_made"])

	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "baz bar baz\n", string(data))
	assert.NotContains(t, string(data), "foo")
}

func TestEditPatternNotFound(t *testing.T) {
	p, root, _ := newTestProvider(t, nil)
	writeFixture(t, filepath.Join(root, "f.txt"), "hello\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "f.txt",
		"old_string": "absent",
		"new_string": "x",
	})
	requireKind(t, result, types.KindNotFound)
	assert.Equal(t, "absent", result.Error.Extra["old_string"])
}

func TestEditEmptyOldString(t *testing.T) {
	p, _, _ := newTestProvider(t, nil)

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "f.txt",
		"old_string": "",
		"new_string": "x",
	})
	requireKind(t, result, types.KindValidation)
}

func TestEditNoOp(t *testing.T) {
	p, root, _ := newTestProvider(t, nil)
	writeFixture(t, filepath.Join(root, "f.txt"), "same same\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "f.txt",
		"old_string": "same",
		"new_string": "same",
	})
	requireKind(t, result, types.KindNoOp)

	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "same same\n", string(data))
}

func TestEditFileNotFound(t *testing.T) {
	p, _, _ := newTestProvider(t, nil)

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "missing.txt",
		"old_string": "a",
		"new_string": "b",
	})
	requireKind(t, result, types.KindNotFound)
}

func TestEditAccessDenied(t *testing.T) {
	p, _, _ := newTestProvider(t, nil)

	outside := t.TempDir()
	writeFixture(t, filepath.Join(outside, "f.txt"), "content a\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       filepath.Join(outside, "f.txt"),
		"old_string": "a",
		"new_string": "b",
	})
	requireKind(t, result, types.KindAccessDenied)
}

func TestEditMentionWithoutCapability(t *testing.T) {
	p, _, _ := newTestProvider(t, nil)

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "@project:conf.yaml",
		"old_string": "a",
		"new_string": "b",
	})
	requireKind(t, result, types.KindCapabilityMissing)
}

func TestEditMentionNotFound(t *testing.T) {
	p, _, _ := newTestProvider(t, func(o *Options) {
		o.Mentions = &stubMentions{}
	})

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "@project:conf.yaml",
		"old_string": "a",
		"new_string": "b",
	})
	requireKind(t, result, types.KindNotFound)
}

func TestEditMentionResolvesToFile(t *testing.T) {
	var root string
	p, rootDir, _ := newTestProvider(t, func(o *Options) {
		// Options mutation runs before the canonical root is known, so
		// bind the mapping lazily through the closure variable.
		o.Mentions = mentionsFunc(func(token string) (string, bool) {
			if token == "@project:conf.yaml" {
				return filepath.Join(root, "conf.yaml"), true
			}
			return "", false
		})
	})
	root = rootDir
	writeFixture(t, filepath.Join(root, "conf.yaml"), "debug: false\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "@project:conf.yaml",
		"old_string": "false",
		"new_string": "true",
	})
	require.True(t, result.Success)

	data, err := os.ReadFile(filepath.Join(root, "conf.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug: true\n", string(data))
}

func TestEditMentionDirectory(t *testing.T) {
	var root string
	p, rootDir, _ := newTestProvider(t, func(o *Options) {
		o.Mentions = mentionsFunc(func(token string) (string, bool) {
			if token == "@project:data" {
				return filepath.Join(root, "data"), true
			}
			return "", false
		})
	})
	root = rootDir
	require.NoError(t, os.Mkdir(filepath.Join(root, "data"), 0o755))

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "@project:data",
		"old_string": "a",
		"new_string": "b",
	})
	requireKind(t, result, types.KindIsDirectory)
}

func TestEditEmitsArtifactEvent(t *testing.T) {
	p, root, recorder := newTestProvider(t, nil)
	writeFixture(t, filepath.Join(root, "f.txt"), "old\n")

	result := execute(t, p, "filesystem.edit", map[string]interface{}{
		"path":       "f.txt",
		"old_string": "old",
		"new_string": "new",
	})
	require.True(t, result.Success)

	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.ArtifactWrite, recorder.Events[0].Kind)
	assert.Equal(t, len("new\n"), recorder.Events[0].Bytes)
}

// mentionsFunc adapts a function to the mention resolver interface.
type mentionsFunc func(token string) (string, bool)

func (f mentionsFunc) Resolve(token string) (string, bool) { return f(token) }

func (f mentionsFunc) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
