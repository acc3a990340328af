package filesystem

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/agentfs/agentfs/internal/events"
	"github.com/agentfs/agentfs/internal/shared/paths"
	"github.com/agentfs/agentfs/internal/types"
)

// edit performs an exact string replacement. Replacement is textual, never
// regex. Without replace_all the match must be unique in the file; the
// failure carries the occurrence count so callers can add context or retry
// with replace_all.
func (p *Provider) edit(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	token, ok := stringParam(params, "path")
	if !ok || token == "" {
		return failure(types.KindValidation, "path parameter required")
	}
	oldString, _ := stringParam(params, "old_string")
	newString, _ := stringParam(params, "new_string")
	replaceAll := boolParam(params, "replace_all")

	if oldString == "" {
		return failure(types.KindValidation, "old_string parameter required")
	}
	if oldString == newString {
		return failure(types.KindNoOp, "old_string and new_string must differ (nothing would change)")
	}

	pol := p.policyFor(appCtx)
	path, err := pol.resolver.Resolve(token)
	if err != nil {
		return resolveFailure(token, err)
	}

	// Mentions can name directories; edits only target files.
	if paths.IsMention(token) && pol.resolver.Mentions.IsDirectory(path) {
		return failure(types.KindIsDirectory, fmt.Sprintf("cannot edit directory: %s", token))
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(types.KindNotFound, fmt.Sprintf("file not found: %s", token))
		}
		return ioFailure("stat", token, err)
	}
	if info.IsDir() {
		return failure(types.KindIsDirectory, fmt.Sprintf("cannot edit directory: %s", token))
	}

	if decision := paths.Evaluate(path, pol.writeAllow, pol.writeDeny); !decision.Permitted {
		return deniedFailure(token, decision)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ioFailure("read", token, err)
	}
	if textual, detected := isText(raw); !textual {
		return failureExtra(types.KindDecodeError,
			fmt.Sprintf("cannot edit %s: not a text file", token),
			map[string]interface{}{"detected_type": detected})
	}
	content := string(raw)

	occurrences := strings.Count(content, oldString)
	if occurrences == 0 {
		return failureExtra(types.KindNotFound,
			fmt.Sprintf("old_string not found in file: %s", token),
			map[string]interface{}{"old_string": oldString})
	}
	if !replaceAll && occurrences > 1 {
		return failureExtra(types.KindAmbiguousMatch,
			fmt.Sprintf("old_string appears %d times in file; provide more surrounding context or set replace_all", occurrences),
			map[string]interface{}{"occurrences": occurrences, "old_string": oldString})
	}

	var updated string
	replacements := 1
	if replaceAll {
		updated = strings.ReplaceAll(content, oldString, newString)
		replacements = occurrences
	} else {
		updated = strings.Replace(content, oldString, newString, 1)
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return ioFailure("write", token, err)
	}

	bytesWritten := len(updated)
	p.emitter.Emit(events.ArtifactWrite, path, bytesWritten)
	p.logger.Debug("edited file",
		zap.String("path", path),
		zap.Int("replacements", replacements),
		zap.Int("bytes", bytesWritten),
	)

	return success(map[string]interface{}{
		"file_path":         path,
		"replacements_made": replacements,
		"bytes_written":     bytesWritten,
	})
}
