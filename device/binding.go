package device

import (
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Binding is a fully resolved descriptor: the vendor and medium that will serve it plus everything
// its constructor needs. Bindings only come out of a successful Resolve.
type Binding struct {
	Descriptor Descriptor
	Vendor     vendors.Vendor
	Medium     resource.Medium
	// Host is the motor controller an attached encoder is read through.
	Host *motor.Controller
}

// Identity returns the device address.
func (b Binding) Identity() Identity {
	return b.Descriptor.Identity
}

// Name returns the resource name of the handle the binding builds.
func (b Binding) Name() resource.Name {
	return resource.NewName(b.Descriptor.Token, b.Vendor, b.Medium, b.Descriptor.Identity)
}
