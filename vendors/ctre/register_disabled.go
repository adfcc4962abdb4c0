//go:build no_ctre

package ctre

// Linked reports whether this build includes the integration.
const Linked = false
