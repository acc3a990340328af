package types

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategorySystem     Category = "system"
)

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
}

// Context provides execution context for services
type Context struct {
	SessionID  *string `json:"session_id,omitempty"`
	WorkingDir *string `json:"working_dir,omitempty"`
	UserID     *string `json:"user_id,omitempty"`
}

// ErrorKind classifies a failure so callers can branch without parsing messages
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindAccessDenied      ErrorKind = "access_denied"
	KindNotFound          ErrorKind = "not_found"
	KindIsDirectory       ErrorKind = "is_directory"
	KindAmbiguousMatch    ErrorKind = "ambiguous_match"
	KindNoOp              ErrorKind = "no_op"
	KindDecodeError       ErrorKind = "decode_error"
	KindCapabilityMissing ErrorKind = "capability_missing"
	KindIOError           ErrorKind = "io_error"
)

// ErrorDetail carries a machine-distinguishable failure description
type ErrorDetail struct {
	Kind    ErrorKind              `json:"kind"`
	Message string                 `json:"message"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

// Result represents a service execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}
