// Package config provides configuration loading, merging, and validation
// facilities for the bundle server and the zkvault CLI.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags (server only)
//  3. JSON config file
//
// Zero-valued fields are then filled from the Default* constants. The main
// entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the CLI.
package config
