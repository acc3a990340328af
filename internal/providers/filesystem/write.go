package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/agentfs/agentfs/internal/events"
	"github.com/agentfs/agentfs/internal/shared/paths"
	"github.com/agentfs/agentfs/internal/types"
)

// write overwrites a file with new content, creating missing parent
// directories. Overwrites are unconditional: whether the caller read the
// file first is the calling agent's convention, not enforced here. There is
// no atomic replace; a mid-write failure can leave a partial file.
func (p *Provider) write(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	token, ok := stringParam(params, "path")
	if !ok || token == "" {
		return failure(types.KindValidation, "path parameter required")
	}
	content, ok := stringParam(params, "content")
	if !ok {
		return failure(types.KindValidation, "content parameter required")
	}

	pol := p.policyFor(appCtx)
	path, err := pol.resolver.Resolve(token)
	if err != nil {
		return resolveFailure(token, err)
	}

	if decision := paths.Evaluate(path, pol.writeAllow, pol.writeDeny); !decision.Permitted {
		return deniedFailure(token, decision)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return failure(types.KindIsDirectory, fmt.Sprintf("cannot write to directory: %s", token))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ioFailure("create parent directories for", token, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ioFailure("write", token, err)
	}

	bytesWritten := len(content)
	p.emitter.Emit(events.ArtifactWrite, path, bytesWritten)
	p.logger.Debug("wrote file", zap.String("path", path), zap.Int("bytes", bytesWritten))

	return success(map[string]interface{}{
		"file_path":     path,
		"bytes_written": bytesWritten,
	})
}
