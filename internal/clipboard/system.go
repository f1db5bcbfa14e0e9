//go:build !linux

package clipboard

import (
	"sync"

	"golang.design/x/clipboard"

	"github.com/fappie/backend/internal/richtext"
)

type systemWriter struct {
	once    sync.Once
	initErr error
}

// System returns a Writer backed by the operating system clipboard. Only the
// text format is offered there, so rich writes fall back to plain text.
func System() Writer {
	return &systemWriter{}
}

func (s *systemWriter) init() error {
	s.once.Do(func() {
		s.initErr = clipboard.Init()
	})
	return s.initErr
}

func (s *systemWriter) WriteRich(richtext.Payload) error {
	if err := s.init(); err != nil {
		return err
	}
	return ErrRichUnsupported
}

func (s *systemWriter) WriteText(text string) error {
	if err := s.init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
