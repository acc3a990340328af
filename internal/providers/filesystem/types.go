package filesystem

import (
	"github.com/agentfs/agentfs/internal/events"
	"github.com/agentfs/agentfs/internal/logging"
	"github.com/agentfs/agentfs/internal/shared/paths"
	"github.com/agentfs/agentfs/internal/types"
)

const (
	maxLineLength    = 2000
	defaultLineLimit = 2000
)

// Options configures a filesystem provider.
type Options struct {
	// WorkingDir anchors relative path tokens and relative policy entries.
	WorkingDir string

	// ReadPaths is the allow list for reads. Ignored when UnrestrictedReads
	// is set.
	ReadPaths         []string
	UnrestrictedReads bool

	// WritePaths is the allow list for writes and edits; DeniedWritePaths
	// overrides it.
	WritePaths       []string
	DeniedWritePaths []string

	// Mentions resolves @scope:subpath tokens. Optional.
	Mentions paths.MentionResolver

	// Emitter receives artifact events. Optional.
	Emitter events.Emitter

	Logger *logging.Logger
}

// Provider implements the filesystem service.
//
// Policy lists are canonicalized once at construction and treated as an
// immutable snapshot; reloading configuration means building a new provider.
type Provider struct {
	resolver *paths.Resolver

	readAllow  paths.List
	writeAllow paths.List
	writeDeny  paths.List

	rawRead  []string
	rawWrite []string
	rawDeny  []string

	unrestrictedReads bool

	emitter events.Emitter
	logger  *logging.Logger
}

// NewProvider creates a filesystem provider with the given sandbox policy.
func NewProvider(opts Options) *Provider {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	emitter := opts.Emitter
	if emitter == nil {
		emitter = events.NopEmitter{}
	}

	resolver := paths.NewResolver(opts.WorkingDir, opts.Mentions)

	p := &Provider{
		resolver:          resolver,
		rawRead:           opts.ReadPaths,
		rawWrite:          opts.WritePaths,
		rawDeny:           opts.DeniedWritePaths,
		unrestrictedReads: opts.UnrestrictedReads,
		emitter:           emitter,
		logger:            logger.Named("filesystem"),
	}

	if opts.UnrestrictedReads {
		p.readAllow = paths.Unrestricted()
	} else {
		p.readAllow = resolver.Lists(opts.ReadPaths)
	}
	p.writeAllow = resolver.Lists(opts.WritePaths)
	p.writeDeny = resolver.Lists(opts.DeniedWritePaths)

	return p
}

// success builds a successful result.
func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// failure builds a failed result with a stable error kind.
func failure(kind types.ErrorKind, message string) (*types.Result, error) {
	return &types.Result{
		Success: false,
		Error:   &types.ErrorDetail{Kind: kind, Message: message},
	}, nil
}

// failureExtra builds a failed result carrying extra machine-readable fields.
func failureExtra(kind types.ErrorKind, message string, extra map[string]interface{}) (*types.Result, error) {
	return &types.Result{
		Success: false,
		Error:   &types.ErrorDetail{Kind: kind, Message: message, Extra: extra},
	}, nil
}
