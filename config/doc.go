// Package config loads and persists the YAML application configuration
// used by the scholarkb command line tools.
package config
