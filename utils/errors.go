package utils

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError[ExpectedT any](actual interface{}) error {
	return errors.Errorf("expected %s but got %T", TypeStr[ExpectedT](), actual)
}

// TypeStr returns the string representation of the type parameter, including interfaces.
func TypeStr[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// AssertType asserts that from holds a T, returning NewUnexpectedTypeError otherwise.
func AssertType[T any](from interface{}) (T, error) {
	asserted, ok := from.(T)
	if !ok {
		var zero T
		return zero, NewUnexpectedTypeError[T](from)
	}
	return asserted, nil
}
