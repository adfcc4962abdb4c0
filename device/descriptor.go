// Package device turns configuration tokens into live device handles: it decodes a token into a
// descriptor, resolves the vendor and medium that will serve it, and builds the vendor object
// behind a uniform facade.
package device

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Category is the capability a device provides.
type Category int

// Device categories.
const (
	CategoryUnknown Category = iota
	CategoryMotor
	CategoryAbsoluteEncoder
	CategoryGyro
)

func (c Category) String() string {
	switch c {
	case CategoryMotor:
		return "motor"
	case CategoryAbsoluteEncoder:
		return "absoluteEncoder"
	case CategoryGyro:
		return "gyro"
	default:
		return "unknown"
	}
}

// Identity addresses a device on its medium.
type Identity = resource.Identity

// Descriptor is the decoded form of a device token. It is a value; decoding never produces a
// partially filled descriptor.
type Descriptor struct {
	Category Category
	Subtype  string
	// Medium is the medium named by the token, or resource.Unknown for an unqualified token.
	Medium resource.Medium
	// Qualifier is the motor model for motors and the raw connection qualifier otherwise.
	Qualifier string
	// Token is the normalized source token.
	Token    string
	Identity Identity
}

// WithIdentity returns a copy of the descriptor addressing the given device.
func (d Descriptor) WithIdentity(id Identity) Descriptor {
	d.Identity = id
	return d
}

// route is one row of the connection precedence table.
type route struct {
	category Category
	// can is the vendor serving the subtype over CAN, or vendors.Unknown when there is none.
	can      vendors.Vendor
	pwm      bool
	attached bool
	// def is the medium an unqualified token resolves to.
	def resource.Medium
}

var routes = map[string]route{
	// motor controllers
	"talonfx":   {category: CategoryMotor, can: vendors.CTRE, def: resource.CAN},
	"talonfxs":  {category: CategoryMotor, can: vendors.CTRE, def: resource.CAN},
	"sparkmax":  {category: CategoryMotor, can: vendors.REV, def: resource.CAN},
	"sparkflex": {category: CategoryMotor, can: vendors.REV, def: resource.CAN},
	"nova":      {category: CategoryMotor, can: vendors.ThriftyBot, def: resource.CAN},

	// absolute encoders
	"cancoder":        {category: CategoryAbsoluteEncoder, can: vendors.CTRE, def: resource.CAN},
	"canandmag":       {category: CategoryAbsoluteEncoder, can: vendors.Redux, pwm: true, attached: true, def: resource.CAN},
	"andymarkhexbore": {category: CategoryAbsoluteEncoder, can: vendors.AndyMark, pwm: true, attached: true, def: resource.CAN},
	"thrifty":         {category: CategoryAbsoluteEncoder, can: vendors.ThriftyBot, pwm: true, attached: true, def: resource.CAN},
	"revthroughbore":  {category: CategoryAbsoluteEncoder, pwm: true, attached: true, def: resource.PWM},
	"srxmag":          {category: CategoryAbsoluteEncoder, pwm: true, attached: true, def: resource.PWM},

	// gyroscopes
	"pigeon2":    {category: CategoryGyro, can: vendors.CTRE, def: resource.CAN},
	"canandgyro": {category: CategoryGyro, can: vendors.Redux, def: resource.CAN},
	"navx":       {category: CategoryGyro, can: vendors.Studica, def: resource.CAN},
	"navx2":      {category: CategoryGyro, can: vendors.Studica, def: resource.CAN},
	"navx3":      {category: CategoryGyro, can: vendors.Studica, def: resource.CAN},
}

func (r route) supports(m resource.Medium) bool {
	switch m {
	case resource.CAN:
		return r.can != vendors.Unknown
	case resource.PWM:
		return r.pwm
	case resource.Attached:
		return r.attached
	default:
		return false
	}
}

// Subtypes returns the known subtypes of a category, sorted.
func Subtypes(c Category) []string {
	out := lo.Keys(lo.PickBy(routes, func(_ string, r route) bool { return r.category == c }))
	sort.Strings(out)
	return out
}

// Media returns the media a subtype can be reached through, in precedence order, and its default.
func Media(subtype string) ([]resource.Medium, resource.Medium, bool) {
	r, ok := routes[subtype]
	if !ok {
		return nil, resource.Unknown, false
	}
	media := lo.Filter([]resource.Medium{resource.CAN, resource.PWM, resource.Attached}, func(m resource.Medium, _ int) bool {
		return r.supports(m)
	})
	return media, r.def, true
}

// Decode parses a token of the form <subtype>[_<qualifier>]. Matching is case-insensitive. Motor
// tokens must carry a motor model as their qualifier; every other qualifier must name a medium.
// The motor model is not checked here. Decode performs no I/O and no availability checks.
func Decode(token string) (Descriptor, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	if normalized == "" {
		return Descriptor{}, malformed(token, "empty token")
	}
	segments := strings.Split(normalized, "_")
	if len(segments) > 2 {
		return Descriptor{}, malformed(token, "expected <subtype>[_<qualifier>], got %d segments", len(segments))
	}
	if lo.Contains(segments, "") {
		return Descriptor{}, malformed(token, "empty segment")
	}

	subtype := segments[0]
	r, ok := routes[subtype]
	if !ok {
		return Descriptor{}, malformed(token, "unknown subtype %q", subtype)
	}
	desc := Descriptor{Category: r.category, Subtype: subtype, Token: normalized}
	if len(segments) == 2 {
		desc.Qualifier = segments[1]
	}

	if r.category == CategoryMotor {
		if desc.Qualifier == "" {
			return Descriptor{}, malformed(token, "motor controller %q needs a motor model", subtype)
		}
		desc.Medium = resource.CAN
		return desc, nil
	}

	if desc.Qualifier != "" {
		m, err := resource.MediumFromString(desc.Qualifier)
		if err != nil {
			return Descriptor{}, malformed(token, "unknown connection qualifier %q", desc.Qualifier)
		}
		desc.Medium = m
	}
	return desc, nil
}
