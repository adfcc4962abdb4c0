//go:build no_redux

package redux

// Linked reports whether this build includes the integration.
const Linked = false
