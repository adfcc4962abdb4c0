package device

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/logging"
)

// OpenCAN opens a session to the binding's device on the bus its identity names.
func OpenCAN(ctx context.Context, deps Dependencies, b Binding, deviceType can.DeviceType, mfr can.Manufacturer) (can.Session, error) {
	if deps.CAN == nil {
		return nil, errors.New("no can network configured")
	}
	id := b.Identity()
	addr, err := can.NewAddress(deviceType, mfr, id.ID)
	if err != nil {
		return nil, err
	}
	return deps.CAN.Open(ctx, id.Bus, addr)
}

// OpenPrimaryCAN is OpenCAN for devices that only ever live on the primary bus. A bus name in
// the identity is ignored with a warning.
func OpenPrimaryCAN(
	ctx context.Context,
	deps Dependencies,
	b Binding,
	deviceType can.DeviceType,
	mfr can.Manufacturer,
	logger logging.Logger,
) (can.Session, error) {
	if bus := b.Identity().Bus; bus != can.PrimaryBus {
		logger.Warnw("device only supports the primary bus, ignoring bus name", "token", b.Descriptor.Token, "bus", bus)
		b.Descriptor.Identity.Bus = can.PrimaryBus
	}
	return OpenCAN(ctx, deps, b, deviceType, mfr)
}
