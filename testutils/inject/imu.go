package inject

import (
	"context"

	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/spatialmath"
)

// IMU is an injected native gyroscope.
type IMU struct {
	gyro.IMU
	OrientationFunc func(ctx context.Context) (spatialmath.Rotation3d, error)
	CloseFunc       func(ctx context.Context) error
}

// Orientation calls the injected Orientation or the real version.
func (i *IMU) Orientation(ctx context.Context) (spatialmath.Rotation3d, error) {
	if i.OrientationFunc == nil {
		return i.IMU.Orientation(ctx)
	}
	return i.OrientationFunc(ctx)
}

// Close calls the injected Close or the real version.
func (i *IMU) Close(ctx context.Context) error {
	if i.CloseFunc == nil {
		if i.IMU == nil {
			return nil
		}
		return i.IMU.Close(ctx)
	}
	return i.CloseFunc(ctx)
}
