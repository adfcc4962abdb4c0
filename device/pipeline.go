package device

import (
	"context"

	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// EncoderOptions tune how an absolute encoder token resolves.
type EncoderOptions struct {
	// Fallback replaces the subtype's default medium for unqualified tokens.
	Fallback resource.Medium
	// AttachedType is the vendor of the controller an attached encoder is wired to.
	AttachedType vendors.Vendor
	// Host is the controller an attached encoder is wired to.
	Host *motor.Controller
}

// Pipeline runs Decode, Resolve and Build for a single token.
type Pipeline struct {
	resolver *Resolver
	factory  *Factory
	logger   logging.Logger
}

// NewPipeline returns a pipeline resolving against availability and building on deps.
func NewPipeline(availability *vendors.Availability, deps Dependencies, logger logging.Logger) *Pipeline {
	logger = logging.OrGlobal(logger)
	return &Pipeline{
		resolver: NewResolver(availability, logger.Sublogger("resolver")),
		factory:  NewFactory(deps, logger.Sublogger("factory")),
		logger:   logger,
	}
}

// Resolver returns the pipeline's resolver.
func (p *Pipeline) Resolver() *Resolver {
	return p.resolver
}

// Factory returns the pipeline's factory.
func (p *Pipeline) Factory() *Factory {
	return p.factory
}

func decodeAs(token string, c Category, id Identity) (Descriptor, error) {
	desc, err := Decode(token)
	if err != nil {
		return Descriptor{}, err
	}
	if desc.Category != c {
		return Descriptor{}, malformed(desc.Token, "%s is a %s, not a %s", desc.Subtype, desc.Category, c)
	}
	return desc.WithIdentity(id), nil
}

// Motor builds the motor controller named by token. The motor model is checked against the
// catalog before the vendor is resolved, so an unknown model fails the same way whether or not
// the vendor is present.
func (p *Pipeline) Motor(ctx context.Context, token string, id Identity) (*motor.Controller, error) {
	desc, err := decodeAs(token, CategoryMotor, id)
	if err != nil {
		return nil, err
	}
	spec, err := motor.Lookup(desc.Qualifier)
	if err != nil {
		return nil, &Error{Kind: UnknownMotorModel, Token: desc.Token, Err: err}
	}
	b, err := p.resolver.Resolve(desc, resource.Unknown, vendors.Unknown, nil)
	if err != nil {
		return nil, err
	}
	return p.factory.BuildMotor(ctx, b, &spec)
}

// AbsoluteEncoder builds the absolute encoder named by token.
func (p *Pipeline) AbsoluteEncoder(ctx context.Context, token string, id Identity, opts EncoderOptions) (*encoder.AbsoluteEncoder, error) {
	desc, err := decodeAs(token, CategoryAbsoluteEncoder, id)
	if err != nil {
		return nil, err
	}
	b, err := p.resolver.Resolve(desc, opts.Fallback, opts.AttachedType, opts.Host)
	if err != nil {
		return nil, err
	}
	return p.factory.BuildAbsoluteEncoder(ctx, b)
}

// Gyro builds the gyroscope named by token.
func (p *Pipeline) Gyro(ctx context.Context, token string, id Identity) (*gyro.Gyro, error) {
	desc, err := decodeAs(token, CategoryGyro, id)
	if err != nil {
		return nil, err
	}
	b, err := p.resolver.Resolve(desc, resource.Unknown, vendors.Unknown, nil)
	if err != nil {
		return nil, err
	}
	return p.factory.BuildGyro(ctx, b)
}

// Check decodes and resolves a token without building anything. Motor models are checked against
// the catalog.
func (p *Pipeline) Check(token string, opts EncoderOptions) (Binding, error) {
	desc, err := Decode(token)
	if err != nil {
		return Binding{}, err
	}
	if desc.Category == CategoryMotor {
		if _, err := motor.Lookup(desc.Qualifier); err != nil {
			return Binding{}, &Error{Kind: UnknownMotorModel, Token: desc.Token, Err: err}
		}
	}
	return p.resolver.Resolve(desc, opts.Fallback, opts.AttachedType, opts.Host)
}
