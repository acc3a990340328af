// Package paths provides path canonicalization and the allow/deny access
// policy used by every filesystem tool.
//
// Two pieces compose the sandbox:
//
//   - Resolver turns raw path tokens (absolute, relative, tilde-prefixed, or
//     @scope:subpath mentions) into canonical absolute paths.
//   - Evaluate decides whether a canonical path may be touched, given allow
//     and deny lists. Deny membership always overrides allow membership, and
//     absence from both lists denies by default.
//
// Policy evaluation is purely lexical: it operates on path strings and never
// touches the filesystem, so it is unit-testable with no fixtures.
package paths
