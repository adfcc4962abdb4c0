// Package resource names the device handles produced by the swerve layer and defines what every
// handle has in common.
package resource

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/swerve/vendors"
)

// PrimaryBus is the bus name sentinel for the robot controller's built-in CAN bus.
const PrimaryBus = ""

// Identity addresses a device on its medium.
type Identity struct {
	// ID is the CAN device number or, for non-CAN media, unused.
	ID int
	// Bus names the CAN bus. PrimaryBus selects the built-in bus.
	Bus string
	// Channel is the input channel on non-CAN media.
	Channel int
}

// BusName returns the bus name for display, naming the primary bus explicitly.
func (id Identity) BusName() string {
	if id.Bus == PrimaryBus {
		return "primary"
	}
	return id.Bus
}

// MaxDeviceID is the largest device number a CAN frame can address.
const MaxDeviceID = 63

// Validate ensures the identity can address a device.
func (id Identity) Validate() error {
	if id.ID < 0 || id.ID > MaxDeviceID {
		return errors.Errorf("id %d out of range [0, %d]", id.ID, MaxDeviceID)
	}
	if id.Channel < 0 {
		return errors.Errorf("channel %d cannot be negative", id.Channel)
	}
	return nil
}

// Name represents a constructed device handle.
type Name struct {
	UUID   string
	Token  string
	Vendor vendors.Vendor
	Medium Medium
	Identity
}

// NewName creates a new Name based on parameters passed in. The UUID is derived from the
// parameters, so equal names carry equal UUIDs.
func NewName(token string, vendor vendors.Vendor, medium Medium, id Identity) Name {
	key := fmt.Sprintf("%s:%s:%s/%s/%d/%d", vendor, medium, token, id.Bus, id.ID, id.Channel)
	return Name{
		UUID:     uuid.NewSHA1(uuid.NameSpaceX500, []byte(key)).String(),
		Token:    token,
		Vendor:   vendor,
		Medium:   medium,
		Identity: id,
	}
}

// Validate ensures that important fields exist and are valid.
func (n Name) Validate() error {
	if _, err := uuid.Parse(n.UUID); err != nil {
		return errors.New("uuid field for resource missing or invalid")
	}
	if n.Token == "" {
		return errors.New("token field for resource missing")
	}
	if n.Vendor == vendors.Unknown {
		return errors.New("vendor field for resource missing")
	}
	if n.Medium == Unknown {
		return errors.New("medium field for resource missing")
	}
	return nil
}

func (n Name) String() string {
	switch n.Medium {
	case CAN:
		return fmt.Sprintf("%s(%s id=%d bus=%s)", n.Token, n.Vendor, n.ID, n.BusName())
	case PWM:
		return fmt.Sprintf("%s(%s channel=%d)", n.Token, n.Vendor, n.Channel)
	default:
		return fmt.Sprintf("%s(%s %s)", n.Token, n.Vendor, n.Medium)
	}
}

// A Resource is a device handle that owns a native vendor object.
type Resource interface {
	Name() Name
	// Close releases the native object. Closing twice is a no-op.
	Close(ctx context.Context) error
}
