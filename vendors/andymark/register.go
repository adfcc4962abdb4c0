//go:build !no_andymark

package andymark

import (
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Linked reports whether this build includes the integration.
const Linked = true

func init() {
	vendors.RegisterLibrary(Library)
	device.RegisterAbsoluteEncoder(vendors.AndyMark, resource.CAN, device.Registration[device.EncoderConstructor]{
		Constructor: newHexBore,
		Subtypes:    []string{"andymarkhexbore"},
	})
}
