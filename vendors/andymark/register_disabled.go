//go:build no_andymark

package andymark

// Linked reports whether this build includes the integration.
const Linked = false
