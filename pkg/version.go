// Package troutdb keeps version information of the application.
package troutdb

var (
	// Version of troutdb, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
