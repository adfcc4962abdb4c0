//go:build !no_studica

package studica

import (
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/vendors"
)

// Linked reports whether this build includes the integration.
const Linked = true

func init() {
	vendors.RegisterLibrary(Library)
	device.RegisterGyro(vendors.Studica, device.Registration[device.GyroConstructor]{
		Constructor: newNavX,
		Subtypes:    Subtypes,
	})
}
