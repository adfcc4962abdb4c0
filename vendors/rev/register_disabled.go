//go:build no_rev

package rev

// Linked reports whether this build includes the integration.
const Linked = false
