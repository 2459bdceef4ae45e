// Package sanitize filters assistant text before it leaves the bridge.
//
// The backend CLI occasionally leaks operational chatter into its
// assistant output, such as tool-invocation banners or workspace paths.
// The Filter strips configured patterns so callers only see
// conversational text. Filtering is a pure transformation over strings
// and is safe for concurrent use once constructed.
package sanitize
