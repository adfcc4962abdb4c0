//go:build no_redux

package register_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
	"go.viam.com/swerve/vendors/redux"
)

func TestReduxExcludedFromBuild(t *testing.T) {
	ctx := context.Background()
	test.That(t, redux.Linked, test.ShouldBeFalse)
	_, linked := vendors.LinkedLibrary(vendors.Redux)
	test.That(t, linked, test.ShouldBeFalse)

	r := newRig(t, nil)
	_, err := r.pipeline.AbsoluteEncoder(ctx, "canandmag_can", resource.Identity{ID: 3}, device.EncoderOptions{})
	test.That(t, errors.Is(err, device.VendorUnavailable), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "library not linked")
	_, err = r.pipeline.Gyro(ctx, "canandgyro", resource.Identity{ID: 4})
	test.That(t, errors.Is(err, device.VendorUnavailable), test.ShouldBeTrue)
	test.That(t, r.primary.TotalOpened(), test.ShouldEqual, 0)

	enc, err := r.pipeline.AbsoluteEncoder(ctx, "canandmag_pwm", resource.Identity{Channel: 1}, device.EncoderOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, enc.Name().Vendor, test.ShouldEqual, vendors.SmartIO)
	test.That(t, enc.Close(ctx), test.ShouldBeNil)
}
