//go:build no_studica

package studica

// Linked reports whether this build includes the integration.
const Linked = false
