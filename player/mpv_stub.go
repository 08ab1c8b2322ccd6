//go:build !windows && !cgo

package player

import "fmt"

func newEngine() (Engine, error) {
	return nil, fmt.Errorf("%w: built without cgo, libmpv unavailable", ErrEngineInit)
}
