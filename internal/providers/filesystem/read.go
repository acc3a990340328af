package filesystem

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/agentfs/agentfs/internal/events"
	"github.com/agentfs/agentfs/internal/shared/paths"
	"github.com/agentfs/agentfs/internal/types"
)

// read reads a file with pagination and line numbering, or lists a
// directory when the path points at one.
func (p *Provider) read(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	token, ok := stringParam(params, "path")
	if !ok || token == "" {
		return failure(types.KindValidation, "path parameter required")
	}

	offset := intParam(params, "offset", 1)
	if offset < 1 {
		offset = 1
	}
	limit := intParam(params, "limit", defaultLineLimit)
	if limit < 1 {
		limit = defaultLineLimit
	}

	pol := p.policyFor(appCtx)
	path, err := pol.resolver.Resolve(token)
	if err != nil {
		return resolveFailure(token, err)
	}

	if decision := paths.Evaluate(path, pol.readAllow, paths.NewList()); !decision.Permitted {
		return deniedFailure(token, decision)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(types.KindNotFound, fmt.Sprintf("file not found: %s", token))
		}
		return ioFailure("stat", token, err)
	}

	if info.IsDir() {
		return p.listDirectory(token, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ioFailure("read", token, err)
	}

	if textual, detected := isText(content); !textual {
		return failureExtra(types.KindDecodeError,
			fmt.Sprintf("cannot read %s: not a text file", token),
			map[string]interface{}{"detected_type": detected})
	}

	lines := splitLines(string(content))

	start := offset - 1
	if start > len(lines) {
		start = len(lines)
	}
	end := start + limit
	if end > len(lines) {
		end = len(lines)
	}
	selected := lines[start:end]

	p.emitter.Emit(events.ArtifactRead, path, len(content))
	p.logger.Debug("read file",
		zap.String("path", path),
		zap.Int("total_lines", len(lines)),
		zap.Int("lines_read", len(selected)),
	)

	data := map[string]interface{}{
		"file_path":   path,
		"content":     formatLines(selected, offset),
		"total_lines": len(lines),
		"lines_read":  len(selected),
		"offset":      offset,
	}
	if len(lines) == 0 {
		data["warning"] = "file exists but has empty contents"
	}
	return success(data)
}

// listDirectory produces an ordered listing: directories first, then files,
// each group stable by name. Directory reads are never paginated.
func (p *Provider) listDirectory(token, path string) (*types.Result, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return ioFailure("list", token, err)
	}

	// os.ReadDir sorts by name, so partitioning preserves the order.
	listing := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			listing = append(listing, map[string]interface{}{"name": entry.Name(), "type": "DIR"})
		}
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			listing = append(listing, map[string]interface{}{"name": entry.Name(), "type": "FILE"})
		}
	}

	return success(map[string]interface{}{
		"file_path": path,
		"entries":   listing,
		"count":     len(listing),
	})
}

// splitLines splits content into lines without a phantom empty line after a
// trailing newline. Empty content has zero lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// formatLines renders lines in cat -n style: a right-aligned 6-wide
// 1-indexed line number, a tab, then the content. Lines longer than
// maxLineLength characters are truncated with a marker.
func formatLines(lines []string, start int) string {
	var b strings.Builder
	for i, line := range lines {
		// Character-based, not byte-based, so multibyte runes never split.
		if utf8.RuneCountInString(line) > maxLineLength {
			line = string([]rune(line)[:maxLineLength]) + "... [truncated]"
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%6d\t%s", start+i, line)
	}
	return b.String()
}

// isText reports whether content looks like decodable text, returning the
// detected MIME type for diagnostics.
func isText(content []byte) (bool, string) {
	if len(content) == 0 {
		return true, ""
	}
	detected := mimetype.Detect(content)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return utf8.Valid(content), detected.String()
		}
	}
	return false, detected.String()
}
