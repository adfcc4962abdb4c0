// Package andymark integrates the AndyMark CAN hex bore encoder. It lives on the primary CAN bus
// and reports its angle in radians.
package andymark

import (
	"context"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/vendors"
	"go.viam.com/swerve/vendors/internal/native"
)

// Library describes the vendor library this package stands in for.
var Library = vendors.Library{
	Vendor:  vendors.AndyMark,
	Name:    "andymark",
	Marker:  "com.andymark.jni.AM_CAN_HexBoreEncoder",
	Version: "2025.1.0",
}

// SignalAngle is the absolute angle in radians.
const SignalAngle = "angle"

func newHexBore(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	session, err := device.OpenPrimaryCAN(ctx, deps, b, can.DeviceMiscellaneous, can.ManufacturerAndyMark, logger)
	if err != nil {
		return nil, err
	}
	return native.NewEncoder(session, SignalAngle, spatialmath.NewAngleFromRadians), nil
}
