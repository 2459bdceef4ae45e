// Package backend implements the session handle for the iFlow CLI
// conversational process.
//
// The backend is a long-lived subprocess speaking a JSON-lines session
// protocol over its stdin/stdout. Exactly one connection is live at a
// time; the session manager in pkg/session owns the handle exclusively
// and is the only component that mutates it.
//
// The package exposes the Client interface (connect, configure, send,
// receive, disconnect) and the CLIClient implementation that spawns and
// supervises the subprocess. On connect the backend is forced into
// pure-conversation mode: tool execution, file-system access, and shell
// access are all disabled before the first prompt is sent.
package backend
