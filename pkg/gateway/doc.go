// Package gateway translates between the inbound wire formats and the
// session manager's plain-prompt interface.
//
// The adapters are stateless: prompt construction reduces a
// conversation to one string, and response formatting wraps accumulated
// text or stream chunks back into the caller's schema. All session
// state lives behind the manager.
package gateway
