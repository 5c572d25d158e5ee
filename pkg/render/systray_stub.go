//go:build !cgo && !windows
// +build !cgo,!windows

package render

import (
	"context"
	"errors"

	"github.com/fullstackenviormentss/brackets-electron/pkg/menu"
)

// ErrTrayUnavailable is returned when the binary was built without cgo.
var ErrTrayUnavailable = errors.New("system tray is unavailable without cgo support")

// Systray is unavailable in this build.
type Systray struct{}

// NewSystray always fails without cgo.
func NewSystray(func(id string), string) (*Systray, error) {
	return nil, ErrTrayUnavailable
}

func (s *Systray) Render([]*menu.Entry) {}

func (s *Systray) Run(context.Context) error {
	return ErrTrayUnavailable
}
