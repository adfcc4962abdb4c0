//go:build no_thriftybot

package thriftybot

// Linked reports whether this build includes the integration.
const Linked = false
