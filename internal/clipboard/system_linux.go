//go:build linux

package clipboard

import (
	"fmt"

	"github.com/fappie/backend/internal/richtext"
)

type systemWriter struct{}

// System returns a Writer that reports the clipboard as unavailable; Linux
// builds skip the X11 dependency.
func System() Writer {
	return systemWriter{}
}

func (systemWriter) WriteRich(richtext.Payload) error {
	return fmt.Errorf("%w: linux build without X11", ErrUnavailable)
}

func (systemWriter) WriteText(string) error {
	return fmt.Errorf("%w: linux build without X11", ErrUnavailable)
}
