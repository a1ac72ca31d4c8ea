//go:build !proj

package utm

import "fmt"

func newProjBackend() (Projector, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags proj to use PROJ", ErrBackendUnavailable)
}
