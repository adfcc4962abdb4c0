//go:build !no_rev

package rev

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

func TestSparkIgnoresBusName(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedTestLogger(t)
	primary, canivore := can.NewSimBus(can.PrimaryBus), can.NewSimBus("canivore")
	network, err := can.NewNetwork(logger, primary, canivore)
	test.That(t, err, test.ShouldBeNil)
	avail, err := vendors.NewAvailability(nil, logger)
	test.That(t, err, test.ShouldBeNil)
	p := device.NewPipeline(avail, device.Dependencies{CAN: network}, logger)

	c, err := p.Motor(ctx, "sparkflex_vortex", resource.Identity{ID: 4, Bus: "canivore"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, canivore.TotalOpened(), test.ShouldEqual, 0)
	test.That(t, primary.OpenSessions(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("device only supports the primary bus, ignoring bus name").Len(), test.ShouldEqual, 1)

	spark, ok := c.Native().(*Spark)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, spark.Subtype(), test.ShouldEqual, "sparkflex")

	addr, err := can.NewAddress(can.DeviceMotorController, can.ManufacturerREV, 4)
	test.That(t, err, test.ShouldBeNil)
	primary.Set(addr, SignalVelocity, 1200)
	vel, err := c.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vel, test.ShouldEqual, 1200.0)

	test.That(t, c.SetPower(ctx, 2), test.ShouldBeNil)
	out, _ := primary.Get(addr, SignalAppliedOutput)
	test.That(t, out, test.ShouldEqual, 1.0)

	enc, err := p.AbsoluteEncoder(ctx, "canandmag_attached", resource.Identity{},
		device.EncoderOptions{AttachedType: vendors.REV, Host: c})
	test.That(t, err, test.ShouldBeNil)
	primary.Set(addr, SignalAbsolutePosition, 0.75)
	angle, err := enc.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angle.Degrees(), test.ShouldAlmostEqual, 270)
	test.That(t, primary.TotalOpened(), test.ShouldEqual, 1)

	test.That(t, enc.Close(ctx), test.ShouldBeNil)
	test.That(t, c.Close(ctx), test.ShouldBeNil)
	test.That(t, primary.OpenSessions(), test.ShouldEqual, 0)
}

func TestSparkHostMismatch(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	network, err := can.NewNetwork(logger, can.NewSimBus(can.PrimaryBus))
	test.That(t, err, test.ShouldBeNil)
	avail, err := vendors.NewAvailability(nil, logger)
	test.That(t, err, test.ShouldBeNil)
	p := device.NewPipeline(avail, device.Dependencies{CAN: network}, logger)

	c, err := p.Motor(ctx, "sparkmax_neo", resource.Identity{ID: 5})
	test.That(t, err, test.ShouldBeNil)
	defer c.Close(ctx)

	_, err = p.AbsoluteEncoder(ctx, "srxmag_attached", resource.Identity{},
		device.EncoderOptions{AttachedType: vendors.CTRE, Host: c})
	test.That(t, errors.Is(err, device.MissingHostController), test.ShouldBeTrue)

	// Only REV is linked into this test binary.
	_, err = p.Motor(ctx, "talonfx_krakenx60", resource.Identity{ID: 1})
	test.That(t, errors.Is(err, device.VendorUnavailable), test.ShouldBeTrue)
}
