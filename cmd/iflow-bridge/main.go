// iflow-bridge exposes a local conversational CLI backend through
// OpenAI- and Anthropic-compatible HTTP APIs.
//
// It keeps one backend session alive behind the HTTP surface and paces
// every request through a rate ledger, rotating the session before the
// backend's own limits trip.
//
// Usage:
//
//	# Start the gateway with the default configuration
//	iflow-bridge run
//
//	# Start with a custom configuration file
//	iflow-bridge run --config /path/to/config.yaml
//
//	# Validate a configuration file without starting
//	iflow-bridge validate --config /path/to/config.yaml
//
//	# Show version information
//	iflow-bridge version
package main

func main() {
	Execute()
}
