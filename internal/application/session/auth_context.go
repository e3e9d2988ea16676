package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/opshub/internal/application/ports"
	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
	"github.com/jhoicas/opshub/pkg/logger"
)

// ErrAlreadyAuthenticated Login con una sesión ya activa; hay que cerrar sesión antes.
var ErrAlreadyAuthenticated = errors.New("ya hay una sesión iniciada")

// Options dependencias del Auth Context.
type Options struct {
	API       ports.AuthAPI
	Store     repository.TokenStore
	Navigator ports.Navigator
	Logger    *logger.Logger
}

// AuthContext estado de autenticación del shell: perfil, permisos y transiciones.
// Se crea una vez al arrancar, se carga desde el Token Store con Init y se resetea en el logout.
//
// epoch se incrementa en cada paso a Unauthenticated. Toda escritura del camino autenticado
// (login, carga inicial, refresco de permisos) compara la época con la que empezó y se descarta
// si cambió: un logout siempre gana a una respuesta que llega tarde.
type AuthContext struct {
	api   ports.AuthAPI
	store repository.TokenStore
	nav   ports.Navigator
	log   *logger.Logger

	mu    sync.RWMutex
	state State
	user  *entity.UserProfile
	perms entity.PermissionSet
	epoch uint64

	initOnce sync.Once

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// New construye el contexto en Loading. Si la API notifica expiraciones (401), se engancha a ellas.
func New(opts Options) (*AuthContext, error) {
	if opts.API == nil || opts.Store == nil {
		return nil, fmt.Errorf("session: API y Token Store son obligatorios")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	a := &AuthContext{
		api:   opts.API,
		store: opts.Store,
		nav:   opts.Navigator,
		log:   log.Component("auth"),
		state: Loading,
		subs:  make(map[int]func(State)),
	}
	if n, ok := opts.API.(ports.SessionExpiryNotifier); ok {
		n.OnSessionExpired(a.Expire)
	}
	return a, nil
}

// Init lee el Token Store y resuelve Loading. Con sesión guardada fija el perfil, carga permisos
// y pasa a Authenticated; sin sesión pasa a Unauthenticated. Solo la primera llamada tiene efecto.
func (a *AuthContext) Init(ctx context.Context) State {
	a.initOnce.Do(func() { a.init(ctx) })
	return a.State()
}

func (a *AuthContext) init(ctx context.Context) {
	epoch := a.currentEpoch()

	sess, err := a.store.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("no se pudo leer la sesión guardada")
	}
	if err != nil || !sess.Complete() {
		a.transition(func() bool {
			if a.epoch != epoch || a.state != Loading {
				return false
			}
			a.resetLocked()
			return true
		})
		return
	}

	a.mu.Lock()
	if a.epoch == epoch && a.state == Loading {
		user := sess.User
		a.user = &user
	}
	a.mu.Unlock()

	perms := a.fetchPermissions(ctx)
	a.transition(func() bool {
		if a.epoch != epoch || a.state != Loading {
			return false
		}
		a.perms = perms
		a.state = Authenticated
		return true
	})
}

// Login autentica, guarda la sesión (lo hace la API), carga permisos y solo entonces pasa a Authenticated.
// Si falla el estado no cambia y el error llega tal cual al formulario.
// Si un logout o una expiración ocurre mientras tanto, se descarta el resultado y se devuelve ErrLoginSuperseded.
func (a *AuthContext) Login(ctx context.Context, employeeID, password string) error {
	a.mu.RLock()
	epoch, state := a.epoch, a.state
	a.mu.RUnlock()
	if state == Authenticated {
		return ErrAlreadyAuthenticated
	}

	sess, err := a.api.Login(ctx, employeeID, password)
	if err != nil {
		return err
	}

	var perms entity.PermissionSet
	if a.currentEpoch() == epoch {
		perms = a.fetchPermissions(ctx)
	}

	committed := a.transition(func() bool {
		if a.epoch != epoch {
			return false
		}
		user := sess.User
		a.user = &user
		a.perms = perms
		a.state = Authenticated
		return true
	})
	if !committed {
		a.discardSession(sess.Token)
		return domain.ErrLoginSuperseded
	}
	a.log.Info().Str("employee_id", sess.User.EmployeeID).Msg("usuario autenticado")
	return nil
}

// Logout cierra la sesión local siempre. La invalidación en servidor es best-effort y su fallo
// solo se registra. Devuelve error únicamente si no se pudo borrar el Token Store.
func (a *AuthContext) Logout(ctx context.Context) error {
	a.invalidate()

	if a.store.Token() != "" {
		if err := a.api.Logout(ctx); err != nil {
			a.log.Warn().Err(err).Msg("logout en servidor falló; se continúa con el cierre local")
		}
	}

	err := a.store.Clear()
	if err != nil {
		a.log.Error().Err(err).Msg("no se pudo borrar la sesión")
	}

	if a.nav != nil && !strings.Contains(a.nav.CurrentPath(), ports.LoginPath) {
		a.nav.Navigate(ports.LoginPath)
	}
	return err
}

// Expire pasa a Unauthenticated sin llamar al servidor. Lo invoca el cliente REST tras un 401;
// el Token Store y la redirección ya los resolvió él.
func (a *AuthContext) Expire() {
	a.invalidate()
}

// RefreshPermissions vuelve a pedir los permisos del usuario autenticado.
// Ante un fallo el conjunto queda vacío y se devuelve el error envuelto en ErrPermissionFetch.
func (a *AuthContext) RefreshPermissions(ctx context.Context) error {
	a.mu.RLock()
	epoch, state := a.epoch, a.state
	a.mu.RUnlock()
	if state != Authenticated {
		return nil
	}

	perms, err := a.api.MyPermissions(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("refresco de permisos falló; se aplica conjunto vacío")
		perms = entity.PermissionSet{}
		err = fmt.Errorf("%w: %w", domain.ErrPermissionFetch, err)
	}
	a.transition(func() bool {
		if a.epoch != epoch || a.state != Authenticated {
			return false
		}
		a.perms = perms
		// Sin cambio de estado no hay notificación.
		return false
	})
	return err
}

// ──── Consultas ────────────────────────────────────────────────────────────────

func (a *AuthContext) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *AuthContext) IsAuthenticated() bool { return a.State() == Authenticated }

// User perfil en memoria. Durante la carga inicial puede estar presente antes de Authenticated.
func (a *AuthContext) User() (entity.UserProfile, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return entity.UserProfile{}, false
	}
	return *a.user, true
}

// Permissions conjunto vigente; vacío si no hay sesión autenticada.
func (a *AuthContext) Permissions() entity.PermissionSet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state != Authenticated {
		return entity.PermissionSet{}
	}
	return a.perms
}

func (a *AuthContext) HasPermission(code entity.Permission) bool {
	return a.Permissions().Has(code)
}

func (a *AuthContext) HasAnyPermission(codes ...entity.Permission) bool {
	return a.Permissions().HasAny(codes...)
}

// HasAllPermissions sin códigos es verdad vacía, pero solo con sesión autenticada.
func (a *AuthContext) HasAllPermissions(codes ...entity.Permission) bool {
	perms, ok := a.authenticatedSet()
	return ok && perms.HasAll(codes...)
}

func (a *AuthContext) HasRole(code entity.Role) bool {
	return a.Permissions().HasRole(code)
}

func (a *AuthContext) HasAnyRole(codes ...entity.Role) bool {
	return a.Permissions().HasAnyRole(codes...)
}

func (a *AuthContext) HasAllRoles(codes ...entity.Role) bool {
	perms, ok := a.authenticatedSet()
	return ok && perms.HasAllRoles(codes...)
}

func (a *AuthContext) authenticatedSet() (entity.PermissionSet, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.perms, a.state == Authenticated
}

// Subscribe registra fn para cada cambio de estado. Devuelve la función para darse de baja.
func (a *AuthContext) Subscribe(fn func(State)) (unsubscribe func()) {
	a.subsMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.subsMu.Unlock()
	return func() {
		a.subsMu.Lock()
		delete(a.subs, id)
		a.subsMu.Unlock()
	}
}

// ──── Internos ─────────────────────────────────────────────────────────────────

func (a *AuthContext) currentEpoch() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.epoch
}

// transition aplica fn bajo el lock; si fn informa un cambio de estado se notifica fuera del lock.
func (a *AuthContext) transition(fn func() bool) bool {
	a.mu.Lock()
	changed := fn()
	state := a.state
	a.mu.Unlock()
	if changed {
		a.notify(state)
	}
	return changed
}

// invalidate abre una época nueva y deja el estado en Unauthenticated, perfil y permisos vacíos.
func (a *AuthContext) invalidate() {
	a.mu.Lock()
	a.epoch++
	changed := a.state != Unauthenticated
	a.resetLocked()
	a.mu.Unlock()
	if changed {
		a.notify(Unauthenticated)
	}
}

func (a *AuthContext) resetLocked() {
	a.state = Unauthenticated
	a.user = nil
	a.perms = entity.PermissionSet{}
}

// fetchPermissions nunca falla hacia arriba: un error se registra y degrada a conjunto vacío.
func (a *AuthContext) fetchPermissions(ctx context.Context) entity.PermissionSet {
	perms, err := a.api.MyPermissions(ctx)
	if err != nil {
		a.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrPermissionFetch, err)).Msg("se aplica conjunto de permisos vacío")
		return entity.PermissionSet{}
	}
	return perms
}

// discardSession borra la sesión de un login descartado si sigue siendo la guardada.
func (a *AuthContext) discardSession(token string) {
	if a.store.Token() != token {
		return
	}
	if err := a.store.Clear(); err != nil {
		a.log.Error().Err(err).Msg("no se pudo borrar la sesión descartada")
	}
}

func (a *AuthContext) notify(state State) {
	a.subsMu.Lock()
	fns := make([]func(State), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subsMu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}
