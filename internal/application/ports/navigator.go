package ports

// LoginPath ruta de la vista de login.
const LoginPath = "/login"

// Navigator puerto de navegación del shell (router del navegador, vista activa del CLI).
// El núcleo solo lo usa para forzar la vuelta al login.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// Opener abre una URL en un nuevo contexto (navegador del sistema). Fire-and-forget.
type Opener interface {
	Open(url string) error
}
