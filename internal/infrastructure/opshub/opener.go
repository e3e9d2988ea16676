package opshub

import (
	"github.com/skratchdot/open-golang/open"

	"github.com/jhoicas/opshub/internal/application/ports"
)

var _ ports.Opener = SystemOpener{}

// SystemOpener abre URLs con el manejador del sistema operativo (xdg-open, open, start).
type SystemOpener struct{}

func (SystemOpener) Open(url string) error {
	return open.Start(url)
}
