//go:build !no_redux

package redux

import (
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Linked reports whether this build includes the integration.
const Linked = true

func init() {
	vendors.RegisterLibrary(Library)
	device.RegisterAbsoluteEncoder(vendors.Redux, resource.CAN, device.Registration[device.EncoderConstructor]{
		Constructor: newCanandmag,
		Subtypes:    []string{"canandmag"},
	})
	device.RegisterGyro(vendors.Redux, device.Registration[device.GyroConstructor]{
		Constructor: newCanandgyro,
		Subtypes:    []string{"canandgyro"},
	})
}
