package device

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/smartio"
	"go.viam.com/swerve/vendors"
)

func init() {
	RegisterAbsoluteEncoder(vendors.SmartIO, resource.PWM, Registration[EncoderConstructor]{
		Constructor: newDutyCycleEncoder,
	})
}

func newDutyCycleEncoder(ctx context.Context, deps Dependencies, b Binding, logger logging.Logger) (encoder.Encoder, error) {
	if deps.SmartIO == nil {
		return nil, errors.New("no smartio provider configured")
	}
	port, err := deps.SmartIO.Open(ctx, b.Identity().Channel)
	if err != nil {
		return nil, err
	}
	return smartio.NewDutyCycleEncoder(port), nil
}
