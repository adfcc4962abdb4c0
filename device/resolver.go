package device

import (
	"github.com/samber/lo"

	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// attachedHosts lists, per host controller vendor, the encoder subtypes its data port can read.
// A nil list means every subtype with an attached path.
var attachedHosts = map[vendors.Vendor][]string{
	vendors.CTRE:       nil,
	vendors.REV:        nil,
	vendors.ThriftyBot: {"canandmag", "revthroughbore", "srxmag"},
}

func hostSupports(host vendors.Vendor, subtype string) bool {
	subtypes, ok := attachedHosts[host]
	if !ok {
		return false
	}
	return subtypes == nil || lo.Contains(subtypes, subtype)
}

// Resolver picks the vendor and medium that serve a descriptor.
type Resolver struct {
	availability *vendors.Availability
	logger       logging.Logger
}

// NewResolver returns a resolver consulting the given availability. A nil logger means the
// global logger.
func NewResolver(availability *vendors.Availability, logger logging.Logger) *Resolver {
	return &Resolver{availability: availability, logger: logging.OrGlobal(logger)}
}

// Resolve decides the concrete vendor and medium for a descriptor.
//
// A medium named by the token always wins. For an unqualified token, fallback is used when it is
// not resource.Unknown, and the subtype's default otherwise. Over resource.Attached the vendor is
// attachedType, which must match the vendor of host. PWM always resolves to SmartIO without
// consulting availability.
func (r *Resolver) Resolve(
	desc Descriptor,
	fallback resource.Medium,
	attachedType vendors.Vendor,
	host *motor.Controller,
) (Binding, error) {
	rt, ok := routes[desc.Subtype]
	if !ok || rt.category != desc.Category {
		return Binding{}, malformed(desc.Token, "descriptor was not produced by Decode")
	}

	medium := desc.Medium
	if medium == resource.Unknown {
		medium = rt.def
		if fallback != resource.Unknown {
			medium = fallback
		}
	}
	if !rt.supports(medium) {
		return Binding{}, newError(UnsupportedMedium, desc, rt.can, medium, "%s cannot be reached over %s", desc.Subtype, medium)
	}

	var (
		b   Binding
		err error
	)
	switch medium {
	case resource.Attached:
		b, err = r.resolveAttached(desc, attachedType, host)
	case resource.PWM:
		b = Binding{Descriptor: desc, Vendor: vendors.SmartIO, Medium: resource.PWM}
	case resource.CAN:
		b, err = r.resolveVendor(desc, rt.can, resource.CAN)
	default:
		err = newError(UnsupportedMedium, desc, vendors.Unknown, medium, "no medium")
	}
	if err != nil {
		return Binding{}, err
	}
	r.logger.Debugw("resolved device", "token", desc.Token, "vendor", b.Vendor.String(), "medium", b.Medium.String())
	return b, nil
}

func (r *Resolver) resolveAttached(desc Descriptor, attachedType vendors.Vendor, host *motor.Controller) (Binding, error) {
	if attachedType == vendors.Unknown {
		return Binding{}, newError(MissingHostController, desc, vendors.Unknown, resource.Attached,
			"attached devices need the vendor of the controller they are wired to")
	}
	if host == nil {
		return Binding{}, newError(MissingHostController, desc, attachedType, resource.Attached,
			"no host controller supplied")
	}
	if hostVendor := host.Name().Vendor; hostVendor != attachedType {
		return Binding{}, newError(MissingHostController, desc, attachedType, resource.Attached,
			"host controller %s is not a %s controller", host.Name(), attachedType)
	}
	if !hostSupports(attachedType, desc.Subtype) {
		return Binding{}, newError(UnsupportedMedium, desc, attachedType, resource.Attached,
			"%s controllers cannot read a %s", attachedType, desc.Subtype)
	}
	b, err := r.resolveVendor(desc, attachedType, resource.Attached)
	if err != nil {
		return Binding{}, err
	}
	b.Host = host
	return b, nil
}

func (r *Resolver) resolveVendor(desc Descriptor, v vendors.Vendor, m resource.Medium) (Binding, error) {
	if status := r.availability.Status(v); !status.Available {
		return Binding{}, newError(VendorUnavailable, desc, v, m, "%s", status.Reason)
	}
	if !registered(desc.Category, v, m, desc.Subtype) {
		return Binding{}, newError(VendorUnavailable, desc, v, m, "no %s constructor registered", desc.Category)
	}
	return Binding{Descriptor: desc, Vendor: v, Medium: m}, nil
}
