package session

// State estado de autenticación derivado. Transiciones legales:
// Loading -> Unauthenticated | Authenticated, Unauthenticated -> Authenticated, Authenticated -> Unauthenticated.
type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
