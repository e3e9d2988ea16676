package repository

import "github.com/jhoicas/opshub/internal/domain/entity"

// TokenStore define el puerto de persistencia de la sesión del cliente (DIP).
// Token y perfil se guardan y se borran juntos: nunca existe uno sin el otro.
// Solo escriben el cliente REST (login correcto / 401) y el Auth Context (logout).
type TokenStore interface {
	// Load devuelve la sesión persistida o nil si no hay una completa.
	Load() (*entity.Session, error)
	// Token devuelve el token actual o "" si no hay sesión.
	Token() string
	// Save reemplaza la sesión de forma atómica.
	Save(session entity.Session) error
	// Clear borra token y perfil. Borrar una sesión inexistente no es error.
	Clear() error
}
