//go:build !no_thriftybot

package thriftybot

import (
	"github.com/samber/lo"

	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Linked reports whether this build includes the integration.
const Linked = true

func init() {
	vendors.RegisterLibrary(Library)
	device.RegisterMotor(vendors.ThriftyBot, device.Registration[device.MotorConstructor]{Constructor: newNova})
	device.RegisterAbsoluteEncoder(vendors.ThriftyBot, resource.CAN, device.Registration[device.EncoderConstructor]{
		Constructor: newEncoder,
		Subtypes:    []string{"thrifty"},
	})
	device.RegisterAbsoluteEncoder(vendors.ThriftyBot, resource.Attached, device.Registration[device.EncoderConstructor]{
		Constructor: newAttachedEncoder,
		Subtypes:    lo.Keys(externalEncoders),
	})
}
