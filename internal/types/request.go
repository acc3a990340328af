package types

// ExecuteRequest invokes a service tool
type ExecuteRequest struct {
	ToolID     string                 `json:"tool_id" binding:"required"`
	Params     map[string]interface{} `json:"params"`
	SessionID  *string                `json:"session_id,omitempty"`
	WorkingDir *string                `json:"working_dir,omitempty"`
}

// DiscoverRequest finds services relevant to an intent
type DiscoverRequest struct {
	Intent string `json:"intent" binding:"required"`
	Limit  int    `json:"limit"`
}
