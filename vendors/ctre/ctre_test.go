//go:build !no_ctre

package ctre

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/smartio"
	"go.viam.com/swerve/vendors"
)

func newPipeline(t *testing.T) (*device.Pipeline, *can.SimBus, *can.SimBus) {
	t.Helper()
	logger := logging.NewTestLogger(t)
	primary, canivore := can.NewSimBus(can.PrimaryBus), can.NewSimBus("canivore")
	network, err := can.NewNetwork(logger, primary, canivore)
	test.That(t, err, test.ShouldBeNil)
	avail, err := vendors.NewAvailability(nil, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, avail.IsAvailable(vendors.CTRE), test.ShouldBeTrue)
	return device.NewPipeline(avail, device.Dependencies{CAN: network, SmartIO: smartio.NewSimProvider()}, logger), primary, canivore
}

func TestLibraryLinked(t *testing.T) {
	lib, ok := vendors.LinkedLibrary(vendors.CTRE)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, lib, test.ShouldResemble, Library)
	test.That(t, Linked, test.ShouldBeTrue)
}

func TestTalonFX(t *testing.T) {
	ctx := context.Background()
	p, _, canivore := newPipeline(t)

	c, err := p.Motor(ctx, "talonfx_krakenx60", resource.Identity{ID: 11, Bus: "canivore"})
	test.That(t, err, test.ShouldBeNil)
	talon, ok := c.Native().(*TalonFX)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, talon.Subtype(), test.ShouldEqual, "talonfx")

	addr, err := can.NewAddress(can.DeviceMotorController, can.ManufacturerCTRE, 11)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.SetPower(ctx, -0.25), test.ShouldBeNil)
	duty, _ := canivore.Get(addr, SignalDutyCycle)
	test.That(t, duty, test.ShouldEqual, -0.25)

	canivore.Set(addr, SignalRotorVelocity, 50)
	vel, err := c.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vel, test.ShouldEqual, 3000.0)

	_, arranged := canivore.Get(addr, SignalMotorArrangement)
	test.That(t, arranged, test.ShouldBeFalse)
	test.That(t, c.Close(ctx), test.ShouldBeNil)
	test.That(t, canivore.OpenSessions(), test.ShouldEqual, 0)
}

func TestTalonFXS(t *testing.T) {
	ctx := context.Background()
	p, primary, _ := newPipeline(t)

	c, err := p.Motor(ctx, "talonfxs_minion", resource.Identity{ID: 12})
	test.That(t, err, test.ShouldBeNil)
	addr, err := can.NewAddress(can.DeviceMotorController, can.ManufacturerCTRE, 12)
	test.That(t, err, test.ShouldBeNil)
	arrangement, _ := primary.Get(addr, SignalMotorArrangement)
	test.That(t, arrangement, test.ShouldEqual, 1.0)
	test.That(t, c.Close(ctx), test.ShouldBeNil)

	_, err = p.Motor(ctx, "talonfxs_krakenx60", resource.Identity{ID: 12})
	test.That(t, errors.Is(err, device.IncompatibleMotor), test.ShouldBeTrue)
	test.That(t, primary.OpenSessions(), test.ShouldEqual, 0)
}

func TestCANcoderAndAttached(t *testing.T) {
	ctx := context.Background()
	p, primary, canivore := newPipeline(t)

	enc, err := p.AbsoluteEncoder(ctx, "cancoder", resource.Identity{ID: 21, Bus: "canivore"}, device.EncoderOptions{})
	test.That(t, err, test.ShouldBeNil)
	addr, err := can.NewAddress(can.DeviceMiscellaneous, can.ManufacturerCTRE, 21)
	test.That(t, err, test.ShouldBeNil)
	canivore.Set(addr, SignalAbsolutePosition, 0.5)
	angle, err := enc.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angle.Degrees(), test.ShouldAlmostEqual, 180)

	host, err := p.Motor(ctx, "talonfxs_neo", resource.Identity{ID: 2})
	test.That(t, err, test.ShouldBeNil)
	opened := primary.TotalOpened()
	attached, err := p.AbsoluteEncoder(ctx, "revthroughbore_attached", resource.Identity{},
		device.EncoderOptions{AttachedType: vendors.CTRE, Host: host})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, primary.TotalOpened(), test.ShouldEqual, opened)

	hostAddr, err := can.NewAddress(can.DeviceMotorController, can.ManufacturerCTRE, 2)
	test.That(t, err, test.ShouldBeNil)
	primary.Set(hostAddr, SignalExternalPosition, 0.25)
	angle, err = attached.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angle.Degrees(), test.ShouldAlmostEqual, 90)

	// Closing the attached encoder leaves the host's session alone.
	test.That(t, attached.Close(ctx), test.ShouldBeNil)
	test.That(t, primary.OpenSessions(), test.ShouldEqual, 1)
	test.That(t, host.Close(ctx), test.ShouldBeNil)
	test.That(t, primary.OpenSessions(), test.ShouldEqual, 0)
}

func TestPigeon2(t *testing.T) {
	ctx := context.Background()
	p, primary, _ := newPipeline(t)
	g, err := p.Gyro(ctx, "pigeon2", resource.Identity{ID: 13})
	test.That(t, err, test.ShouldBeNil)

	addr, err := can.NewAddress(can.DeviceGyro, can.ManufacturerCTRE, 13)
	test.That(t, err, test.ShouldBeNil)
	// 90 degrees about z.
	primary.SetQuaternion(addr, 0.7071067811865476, 0, 0, 0.7071067811865476)
	yaw, err := g.Yaw(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, yaw.Degrees(), test.ShouldAlmostEqual, 90, 1e-6)

	_, err = p.Gyro(ctx, "navx", resource.Identity{ID: 1})
	test.That(t, errors.Is(err, device.VendorUnavailable), test.ShouldBeTrue)
}
