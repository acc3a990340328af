package filesystem

import (
	"context"
	"fmt"

	"github.com/agentfs/agentfs/internal/shared/paths"
	"github.com/agentfs/agentfs/internal/types"
)

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Sandboxed file read, write, and edit operations",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"edit",
			"list",
		},
		Tools: []types.Tool{
			{
				ID:          "filesystem.read",
				Name:        "Read File",
				Description: "Read a file with line numbers and pagination, or list a directory",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Absolute, relative, tilde, or @scope:subpath file path", Required: true},
					{Name: "offset", Type: "integer", Description: "Line number to start reading from (1-indexed)", Required: false, Default: 1},
					{Name: "limit", Type: "integer", Description: "Number of lines to read", Required: false, Default: defaultLineLimit},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.write",
				Name:        "Write File",
				Description: "Write content to a file, overwriting existing content and creating parent directories",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Absolute, relative, tilde, or @scope:subpath file path", Required: true},
					{Name: "content", Type: "string", Description: "Content to write", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.edit",
				Name:        "Edit File",
				Description: "Replace an exact string in a file; fails unless the match is unique or replace_all is set",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Absolute, relative, tilde, or @scope:subpath file path", Required: true},
					{Name: "old_string", Type: "string", Description: "The text to replace", Required: true},
					{Name: "new_string", Type: "string", Description: "The replacement text (must differ from old_string)", Required: true},
					{Name: "replace_all", Type: "boolean", Description: "Replace every occurrence of old_string", Required: false, Default: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a filesystem operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "filesystem.read":
		return p.read(ctx, params, appCtx)
	case "filesystem.write":
		return p.write(ctx, params, appCtx)
	case "filesystem.edit":
		return p.edit(ctx, params, appCtx)
	default:
		return failure(types.KindValidation, fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// policy is the per-request snapshot of resolver and canonicalized lists.
type policy struct {
	resolver   *paths.Resolver
	readAllow  paths.List
	writeAllow paths.List
	writeDeny  paths.List
}

// policyFor returns the construction-time snapshot unless the execution
// context carries a session working directory, in which case tokens and
// relative policy entries re-anchor to it.
func (p *Provider) policyFor(appCtx *types.Context) policy {
	if appCtx == nil || appCtx.WorkingDir == nil || *appCtx.WorkingDir == "" {
		return policy{
			resolver:   p.resolver,
			readAllow:  p.readAllow,
			writeAllow: p.writeAllow,
			writeDeny:  p.writeDeny,
		}
	}

	resolver := &paths.Resolver{
		Home:       p.resolver.Home,
		WorkingDir: *appCtx.WorkingDir,
		Mentions:   p.resolver.Mentions,
	}
	pol := policy{
		resolver:   resolver,
		writeAllow: resolver.Lists(p.rawWrite),
		writeDeny:  resolver.Lists(p.rawDeny),
	}
	if p.unrestrictedReads {
		pol.readAllow = paths.Unrestricted()
	} else {
		pol.readAllow = resolver.Lists(p.rawRead)
	}
	return pol
}

func stringParam(params map[string]interface{}, key string) (string, bool) {
	value, ok := params[key].(string)
	return value, ok
}

// intParam reads an integer parameter; JSON numbers decode as float64.
func intParam(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func boolParam(params map[string]interface{}, key string) bool {
	value, _ := params[key].(bool)
	return value
}
