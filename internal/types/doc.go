// Package types provides shared data structures for the agentfs service.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Execution context for operations
//   - Result: Standard operation result
//   - ErrorDetail: Structured failure description with a stable kind
//
// Every tool execution returns a Result; failures never propagate as panics
// past the tool boundary.
package types
