// Package vendors identifies the device vendors the swerve layer can drive and answers whether a
// vendor's integration is present in the running build.
package vendors

import (
	"strings"

	"github.com/pkg/errors"
)

// Vendor is a closed set of manufacturer integrations.
type Vendor int

// Known vendors. SmartIO is the vendor-independent duty-cycle input path on the robot controller.
const (
	Unknown Vendor = iota
	CTRE
	REV
	ThriftyBot
	AndyMark
	Redux
	Studica
	SmartIO
)

var vendorNames = map[Vendor]string{
	Unknown:    "unknown",
	CTRE:       "ctre",
	REV:        "rev",
	ThriftyBot: "thriftybot",
	AndyMark:   "andymark",
	Redux:      "redux",
	Studica:    "studica",
	SmartIO:    "smartio",
}

func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return "unknown"
}

// FromString parses a vendor name, case-insensitively.
func FromString(name string) (Vendor, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for v, vName := range vendorNames {
		if v != Unknown && vName == normalized {
			return v, nil
		}
	}
	return Unknown, errors.Errorf("unknown vendor %q", name)
}

// All returns every known vendor in declaration order.
func All() []Vendor {
	return []Vendor{CTRE, REV, ThriftyBot, AndyMark, Redux, Studica, SmartIO}
}

// VendorIndependent reports whether the vendor needs no vendor library at all.
func (v Vendor) VendorIndependent() bool {
	return v == SmartIO
}
