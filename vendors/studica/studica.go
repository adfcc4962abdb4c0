// Package studica integrates the Studica navX family of IMUs. The navX bridges onto the primary
// CAN bus only.
package studica

import (
	"context"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/vendors"
	"go.viam.com/swerve/vendors/internal/native"
)

// Library describes the vendor library this package stands in for.
var Library = vendors.Library{
	Vendor:  vendors.Studica,
	Name:    "studica",
	Marker:  "com.studica.frc.AHRS",
	Version: "2025.0.1",
}

// Subtypes are the navX variants.
var Subtypes = []string{"navx", "navx2", "navx3"}

func newNavX(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (gyro.IMU, error) {
	session, err := device.OpenPrimaryCAN(ctx, deps, b, can.DeviceGyro, can.ManufacturerStudica, logger)
	if err != nil {
		return nil, err
	}
	return native.NewIMU(session), nil
}
