package domain

import (
	"errors"
	"fmt"
)

// Mensajes que ve el usuario final; el front y el CLI los muestran tal cual.
const (
	MsgSessionExpired = "Session expired. Please login again."
	MsgInvalidLogin   = "Invalid employee ID or password"
	MsgInactiveUser   = "User account is inactive"
)

// Errores del cliente (taxonomía de fallos de una llamada a la API).
var (
	ErrSessionExpired    = errors.New(MsgSessionExpired)
	ErrLoginRejected     = errors.New("login rechazado")
	ErrRequestFailed     = errors.New("petición fallida")
	ErrMalformedResponse = errors.New("respuesta mal formada")
	ErrPermissionFetch   = errors.New("no se pudieron cargar los permisos")
	ErrLoginSuperseded   = errors.New("login descartado: la sesión se cerró mientras se completaba")
)

// Errores de dominio del backend (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrTokenRevoked = errors.New("token revocado")

	ErrInactiveUser   = errors.New(MsgInactiveUser)
	ErrEmployeeExists = errors.New("el número de empleado ya existe")
)

// RequestError error estructurado que devuelve el cliente REST.
// Error() devuelve siempre Message (nunca vacío) para que la página lo muestre directamente;
// Kind es uno de los sentinelas de arriba y se compara con errors.Is.
type RequestError struct {
	Kind    error
	Status  int
	Message string
	Body    []byte
}

// NewRequestError construye el error garantizando un mensaje no vacío.
func NewRequestError(kind error, status int, message string, body []byte) *RequestError {
	if message == "" {
		message = fmt.Sprintf("Request failed with status %d", status)
	}
	return &RequestError{Kind: kind, Status: status, Message: message, Body: body}
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Kind }
