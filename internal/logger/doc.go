// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a JSON encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// All services accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase. JSON output matters
// here: counting results are emitted as log fields (connected_count,
// joined_count, left_count) and consumed downstream as metrics.
package logger
