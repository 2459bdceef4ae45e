// Package types defines the inbound and outbound wire formats the
// bridge speaks: the completions-style schema, the messages-style
// schema, and the shared error envelope. Both schemas match their
// upstream APIs closely enough for unmodified SDKs to work.
package types
