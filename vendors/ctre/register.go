//go:build !no_ctre

package ctre

import (
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Linked reports whether this build includes the integration.
const Linked = true

func init() {
	vendors.RegisterLibrary(Library)
	device.RegisterMotor(vendors.CTRE, device.Registration[device.MotorConstructor]{Constructor: newTalonFX})
	device.RegisterAbsoluteEncoder(vendors.CTRE, resource.CAN, device.Registration[device.EncoderConstructor]{
		Constructor: newCANcoder,
		Subtypes:    []string{"cancoder"},
	})
	device.RegisterAbsoluteEncoder(vendors.CTRE, resource.Attached, device.Registration[device.EncoderConstructor]{
		Constructor: newAttachedEncoder,
	})
	device.RegisterGyro(vendors.CTRE, device.Registration[device.GyroConstructor]{
		Constructor: newPigeon2,
		Subtypes:    []string{"pigeon2"},
	})
}
