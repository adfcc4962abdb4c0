package encoder_test

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/testutils/inject"
	"go.viam.com/swerve/vendors"
)

func TestAbsoluteEncoderAngle(t *testing.T) {
	ctx := context.Background()
	reads := 0
	raw := spatialmath.NewAngleFromDegrees(90)
	injected := &inject.Encoder{
		AbsolutePositionFunc: func(ctx context.Context) (spatialmath.Angle, error) {
			reads++
			return raw, nil
		},
	}
	name := resource.NewName("cancoder", vendors.CTRE, resource.CAN, resource.Identity{ID: 9})
	enc := encoder.NewAbsoluteEncoder(name, injected)
	test.That(t, enc.Native(), test.ShouldEqual, injected)

	a, err := enc.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.Degrees(), test.ShouldAlmostEqual, 90)

	// Each call re-reads the sensor.
	raw = spatialmath.NewAngleFromDegrees(400)
	a, err = enc.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.Degrees(), test.ShouldAlmostEqual, 40)
	test.That(t, reads, test.ShouldEqual, 2)

	enc.SetOffset(spatialmath.NewAngleFromDegrees(50))
	test.That(t, enc.Offset().Degrees(), test.ShouldAlmostEqual, 50)
	a, err = enc.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.Degrees(), test.ShouldAlmostEqual, 350)

	enc.SetInverted(true)
	a, err = enc.Angle(ctx)
	test.That(t, err, test.ShouldBeNil)
	// -400 - 50 = -450 = 270
	test.That(t, a.Degrees(), test.ShouldAlmostEqual, 270)
	test.That(t, a.Radians(), test.ShouldBeLessThan, 2*math.Pi)
}

func TestAbsoluteEncoderErrors(t *testing.T) {
	ctx := context.Background()
	injected := &inject.Encoder{
		AbsolutePositionFunc: func(ctx context.Context) (spatialmath.Angle, error) {
			return 0, errors.New("stale frame")
		},
	}
	enc := encoder.NewAbsoluteEncoder(resource.NewName("srxmag", vendors.SmartIO, resource.PWM, resource.Identity{}), injected)
	_, err := enc.Angle(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "stale frame")
	test.That(t, err.Error(), test.ShouldContainSubstring, "srxmag")

	test.That(t, enc.Close(ctx), test.ShouldBeNil)
	test.That(t, enc.Close(ctx), test.ShouldBeNil)
	_, err = enc.Angle(ctx)
	test.That(t, errors.Is(err, encoder.ErrClosed), test.ShouldBeTrue)
}

func TestAbsoluteEncoderClosesNative(t *testing.T) {
	ctx := context.Background()
	closes := 0
	injected := &inject.Encoder{
		CloseFunc: func(ctx context.Context) error {
			closes++
			return errors.New("bus gone")
		},
	}
	enc := encoder.NewAbsoluteEncoder(resource.NewName("cancoder", vendors.CTRE, resource.CAN, resource.Identity{ID: 9}), injected)
	err := enc.Close(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bus gone")
	test.That(t, enc.Close(ctx), test.ShouldBeNil)
	test.That(t, closes, test.ShouldEqual, 1)
}
