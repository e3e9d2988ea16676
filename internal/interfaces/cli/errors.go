package cli

import (
	"errors"

	"github.com/jhoicas/opshub/internal/domain"
)

var (
	errNotLoggedIn = errors.New(`not logged in: run "opshub login"`)
	// ErrAccessDenied lo devuelve "can" cuando el guard deniega; main lo traduce a exit 1 sin mensaje extra.
	ErrAccessDenied = errors.New("access denied")
)

// Códigos de salida del proceso.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitUsage        = 2
	ExitUnauthorized = 3
	ExitInterrupted  = 130
)

// ExitCode traduce el error de un comando al código de salida.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errNotLoggedIn),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrLoginRejected):
		return ExitUnauthorized
	case errors.Is(err, errUsage):
		return ExitUsage
	default:
		return ExitError
	}
}

var errUsage = errors.New("uso incorrecto")
