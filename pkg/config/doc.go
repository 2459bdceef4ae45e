// Package config defines the bridge's configuration model and loading
// pipeline.
//
// Configuration is loaded from a YAML file, filled with defaults,
// overridden by IFLOW_BRIDGE_* environment variables, and validated.
// A process-wide singleton is available for components that cannot take
// injected configuration; tests should inject explicit Config values
// instead.
package config
