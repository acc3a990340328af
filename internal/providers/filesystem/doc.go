// Package filesystem provides sandboxed file access tools for agent hosts.
//
// Three tools are exposed:
//   - filesystem.read: paginated, line-numbered file reading and directory listing
//   - filesystem.write: whole-file overwrite with parent directory creation
//   - filesystem.edit: exact string replacement with uniqueness enforcement
//
// Every operation resolves its path token (absolute, relative, tilde, or
// @scope:subpath mention) to a canonical path, then consults the allow/deny
// policy before touching the filesystem. Deny entries always override allow
// entries; paths outside both lists are denied by default. Successful reads
// and writes emit artifact events to the configured sink; delivery is
// best-effort and never affects the operation's outcome.
//
// Operations are synchronous and uncoordinated: concurrent mutations of the
// same file race at the OS level, and a mid-write failure can leave a
// partially written file. Neither is arbitrated here.
package filesystem
