package motor_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/testutils/inject"
	"go.viam.com/swerve/vendors"
)

func newInjectedController(t *testing.T) (*motor.Controller, *inject.Motor, *[]float64) {
	t.Helper()
	var commands []float64
	injected := &inject.Motor{
		SetPowerFunc: func(ctx context.Context, powerPct float64) error {
			commands = append(commands, powerPct)
			return nil
		},
		SetVoltageFunc: func(ctx context.Context, volts float64) error {
			commands = append(commands, volts)
			return nil
		},
		PositionFunc: func(ctx context.Context) (float64, error) { return 2.5, nil },
		VelocityFunc: func(ctx context.Context) (float64, error) { return 300, nil },
	}
	spec, err := motor.Lookup("krakenx60")
	test.That(t, err, test.ShouldBeNil)
	name := resource.NewName("talonfx_krakenx60", vendors.CTRE, resource.CAN, resource.Identity{ID: 3})
	return motor.NewController(name, injected, spec, logging.NewTestLogger(t)), injected, &commands
}

func TestControllerCommands(t *testing.T) {
	ctx := context.Background()
	c, injected, commands := newInjectedController(t)
	test.That(t, c.Native(), test.ShouldEqual, injected)
	test.That(t, c.Spec().Model, test.ShouldEqual, "krakenx60")
	test.That(t, c.Name().ID, test.ShouldEqual, 3)

	test.That(t, c.SetPower(ctx, 1.7), test.ShouldBeNil)
	on, power, err := c.IsPowered(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, on, test.ShouldBeTrue)
	test.That(t, power, test.ShouldEqual, 1.0)

	c.SetInverted(true)
	test.That(t, c.Inverted(), test.ShouldBeTrue)
	test.That(t, c.SetPower(ctx, 0.5), test.ShouldBeNil)
	test.That(t, c.SetVoltage(ctx, 6), test.ShouldBeNil)
	test.That(t, *commands, test.ShouldResemble, []float64{1.0, -0.5, -6})

	pos, err := c.Position(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pos, test.ShouldEqual, -2.5)

	tel, err := c.Telemetry(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tel, test.ShouldResemble, motor.Telemetry{Position: -2.5, Velocity: -300, Power: 0.5})

	err = c.SetVoltage(ctx, 13)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "nominal rating")

	test.That(t, c.Stop(ctx), test.ShouldBeNil)
	on, _, err = c.IsPowered(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, on, test.ShouldBeFalse)
}

func TestControllerSetRPM(t *testing.T) {
	ctx := context.Background()
	c, _, commands := newInjectedController(t)

	test.That(t, c.SetRPM(ctx, 3000), test.ShouldBeNil)
	test.That(t, *commands, test.ShouldHaveLength, 1)
	test.That(t, (*commands)[0], test.ShouldAlmostEqual, c.Spec().VoltageForSpeed(3000))

	// Near-zero speed stops the motor.
	test.That(t, c.SetRPM(ctx, 0.01), test.ShouldBeNil)
	test.That(t, (*commands)[1], test.ShouldEqual, 0.0)

	// Past free speed is clamped to the nominal voltage.
	test.That(t, c.SetRPM(ctx, 100000), test.ShouldBeNil)
	test.That(t, (*commands)[2], test.ShouldEqual, 12.0)
}

func TestControllerClose(t *testing.T) {
	ctx := context.Background()
	c, injected, _ := newInjectedController(t)
	closes := 0
	injected.CloseFunc = func(ctx context.Context) error {
		closes++
		return nil
	}
	test.That(t, c.Close(ctx), test.ShouldBeNil)
	test.That(t, c.Close(ctx), test.ShouldBeNil)
	test.That(t, closes, test.ShouldEqual, 1)

	test.That(t, errors.Is(c.SetPower(ctx, 0.2), motor.ErrClosed), test.ShouldBeTrue)
	_, err := c.Position(ctx)
	test.That(t, errors.Is(err, motor.ErrClosed), test.ShouldBeTrue)
	_, _, err = c.IsPowered(ctx)
	test.That(t, errors.Is(err, motor.ErrClosed), test.ShouldBeTrue)
}

func TestCheckSpeed(t *testing.T) {
	warning, err := motor.CheckSpeed(0.05, 100)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, warning, test.ShouldEqual, "motor speed is nearly 0 rev_per_min")
	warning, err = motor.CheckSpeed(99.95, 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, warning, test.ShouldContainSubstring, "nearly the max")
	warning, err = motor.CheckSpeed(50, 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, warning, test.ShouldEqual, "")

	test.That(t, motor.GetSign(-3), test.ShouldEqual, -1.0)
	test.That(t, motor.GetSign(0), test.ShouldEqual, 0.0)
	test.That(t, motor.ClampPower(-4), test.ShouldEqual, -1.0)
}
