// Package redux integrates Redux Robotics' Canandmag encoder and Canandgyro IMU.
package redux

import (
	"context"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/vendors"
	"go.viam.com/swerve/vendors/internal/native"
)

// Library describes the vendor library this package stands in for.
var Library = vendors.Library{
	Vendor:  vendors.Redux,
	Name:    "reduxlib",
	Marker:  "com.reduxrobotics.canand.CanandDevice",
	Version: "2025.0.0",
}

// SignalAbsPosition is the Canandmag absolute position in rotations.
const SignalAbsPosition = "abs_position"

func newCanandmag(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	session, err := device.OpenCAN(ctx, deps, b, can.DeviceMiscellaneous, can.ManufacturerRedux)
	if err != nil {
		return nil, err
	}
	return native.NewEncoder(session, SignalAbsPosition, spatialmath.NewAngleFromRotations), nil
}

func newCanandgyro(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (gyro.IMU, error) {
	session, err := device.OpenCAN(ctx, deps, b, can.DeviceGyro, can.ManufacturerRedux)
	if err != nil {
		return nil, err
	}
	return native.NewIMU(session), nil
}
