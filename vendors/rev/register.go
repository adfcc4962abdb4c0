//go:build !no_rev

package rev

import (
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Linked reports whether this build includes the integration.
const Linked = true

func init() {
	vendors.RegisterLibrary(Library)
	device.RegisterMotor(vendors.REV, device.Registration[device.MotorConstructor]{Constructor: newSpark})
	device.RegisterAbsoluteEncoder(vendors.REV, resource.Attached, device.Registration[device.EncoderConstructor]{
		Constructor: newAttachedEncoder,
	})
}
