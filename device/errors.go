package device

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// Kind classifies a resolution failure. It is a string newtype, comparable, and implements error,
// so errors.Is(err, VendorUnavailable) works on any error produced here.
type Kind string

func (k Kind) Error() string { return string(k) }

// Failure kinds. None of them are transient.
const (
	MalformedDescriptor   Kind = "malformed_descriptor"
	UnsupportedMedium     Kind = "unsupported_medium"
	VendorUnavailable     Kind = "vendor_unavailable"
	MissingHostController Kind = "missing_host_controller"
	UnknownMotorModel     Kind = "unknown_motor_model"
	IncompatibleMotor     Kind = "incompatible_motor"
	ConstructionFailed    Kind = "construction_failed"
)

// Error carries a Kind along with the token/vendor/medium combination that failed.
type Error struct {
	Kind   Kind
	Token  string
	Vendor vendors.Vendor
	Medium resource.Medium
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Token != "" {
		fmt.Fprintf(&sb, ": token %q", e.Token)
	}
	if e.Vendor != vendors.Unknown {
		fmt.Fprintf(&sb, " vendor %s", e.Vendor)
	}
	if e.Medium != resource.Unknown {
		fmt.Fprintf(&sb, " medium %s", e.Medium)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf extracts the Kind from an error chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

func newError(kind Kind, desc Descriptor, vendor vendors.Vendor, medium resource.Medium, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Token:  desc.Token,
		Vendor: vendor,
		Medium: medium,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func malformed(token, format string, args ...interface{}) *Error {
	return &Error{Kind: MalformedDescriptor, Token: token, Msg: fmt.Sprintf(format, args...)}
}

// constructionError translates a vendor constructor failure at the factory boundary. Errors that
// already carry a Kind pass through untouched.
func constructionError(b Binding, err error) error {
	if KindOf(err) != "" {
		return err
	}
	return &Error{
		Kind:   ConstructionFailed,
		Token:  b.Descriptor.Token,
		Vendor: b.Vendor,
		Medium: b.Medium,
		Err:    err,
	}
}
