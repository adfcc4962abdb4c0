package can

import (
	"context"

	"github.com/pkg/errors"
)

// Signal names shared by several device families.
const (
	SignalQuatW = "quat_w"
	SignalQuatX = "quat_x"
	SignalQuatY = "quat_y"
	SignalQuatZ = "quat_z"
)

// ReadAll reads several signals in order, stopping at the first failure.
func ReadAll(ctx context.Context, s Session, signals ...string) ([]float64, error) {
	out := make([]float64, 0, len(signals))
	for _, signal := range signals {
		v, err := s.Read(ctx, signal)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s from %s", signal, s.Address())
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadQuaternion reads an orientation published as four quaternion components.
func ReadQuaternion(ctx context.Context, s Session) (w, x, y, z float64, err error) {
	vals, err := ReadAll(ctx, s, SignalQuatW, SignalQuatX, SignalQuatY, SignalQuatZ)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

// SetQuaternion publishes an orientation on a simulated device.
func (b *SimBus) SetQuaternion(addr Address, w, x, y, z float64) {
	b.Set(addr, SignalQuatW, w)
	b.Set(addr, SignalQuatX, x)
	b.Set(addr, SignalQuatY, y)
	b.Set(addr, SignalQuatZ, z)
}
