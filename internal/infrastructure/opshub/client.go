package opshub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/opshub/internal/application/ports"
	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/repository"
	"github.com/jhoicas/opshub/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa los puertos del Auth Context.
var (
	_ ports.AuthAPI               = (*Client)(nil)
	_ ports.SessionExpiryNotifier = (*Client)(nil)
)

const (
	// RequestIDHeader cabecera de correlación que se envía en cada petición.
	RequestIDHeader = "X-Request-ID"

	loginEndpoint   = "/auth/login"
	maxResponseSize = 8 << 20
	defaultTimeout  = 30 * time.Second
)

// Options dependencias del cliente. Store es obligatorio; el resto tiene valores por defecto.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Store      repository.TokenStore
	Navigator  ports.Navigator
	Opener     ports.Opener
	Logger     *logger.Logger
}

// RequestOptions equivalente a las opciones de fetch: método, cabeceras y cuerpo ya serializado.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Query   url.Values
	Body    []byte
}

// Client único punto de salida HTTP hacia la API de ops-hub.
// Inyecta el bearer token, uniforma los errores y dispara la expiración global de sesión ante un 401.
type Client struct {
	baseURL string
	http    *http.Client
	store   repository.TokenStore
	nav     ports.Navigator
	opener  ports.Opener
	log     *logger.Logger

	// teardownMu serializa el borrado de sesión por 401 y la redirección al login.
	teardownMu sync.Mutex

	hooksMu      sync.RWMutex
	expiredHooks []func()
}

// exchange datos de una petición en curso que se necesitan al procesar la respuesta.
type exchange struct {
	method    string
	endpoint  string
	token     string
	requestID string
}

// New construye el cliente. BaseURL se lee una sola vez aquí.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("opshub: Token Store requerido")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("opshub: BaseURL requerida")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("opshub: BaseURL inválida %q: %w", base, err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	opener := opts.Opener
	if opener == nil {
		opener = SystemOpener{}
	}

	return &Client{
		baseURL: base,
		http:    hc,
		store:   opts.Store,
		nav:     opts.Navigator,
		opener:  opener,
		log:     log.Component("opshub"),
	}, nil
}

// BaseURL URL base configurada, sin barra final.
func (c *Client) BaseURL() string { return c.baseURL }

// OnSessionExpired registra un callback que se ejecuta una vez por cada sesión cerrada por un 401.
func (c *Client) OnSessionExpired(fn func()) {
	if fn == nil {
		return
	}
	c.hooksMu.Lock()
	c.expiredHooks = append(c.expiredHooks, fn)
	c.hooksMu.Unlock()
}

// Request ejecuta la petición y devuelve el cuerpo JSON crudo, o nil si la respuesta 2xx viene vacía.
// Los fallos son *domain.RequestError salvo los de red, que se devuelven envueltos.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) (json.RawMessage, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		header.Set(k, v)
	}
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	return c.roundTrip(ctx, opts.Method, endpoint, opts.Query, header, body)
}

// Do serializa in como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
func (c *Client) Do(ctx context.Context, method, endpoint string, in, out any) error {
	var opts RequestOptions
	opts.Method = method
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("opshub: serializar request: %w", err)
		}
		opts.Body = raw
	}
	raw, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewRequestError(domain.ErrMalformedResponse, http.StatusOK,
			fmt.Sprintf("unexpected response from %s: %v", endpoint, err), raw)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, query url.Values, header http.Header, body io.Reader) (json.RawMessage, error) {
	resp, ex, err := c.send(ctx, method, endpoint, query, header, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := c.readBody(ex, resp)
	if err != nil {
		return nil, err
	}
	return c.finish(ex, resp.StatusCode, raw)
}

// readBody lee como mucho maxResponseSize bytes. Un 2xx más grande es un error: truncarlo
// dejaría un JSON cortado que el rescate convertiría en otro documento. En respuestas de error
// se descarta el cuerpo y finish aplica el mensaje genérico y, si es un 401, el cierre de sesión.
func (c *Client) readBody(ex exchange, resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		c.logFailure(ex, resp.StatusCode, err)
		return nil, fmt.Errorf("opshub: leer respuesta de %s: %w", ex.endpoint, err)
	}
	if len(raw) <= maxResponseSize {
		return raw, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}
	rerr := domain.NewRequestError(domain.ErrMalformedResponse, resp.StatusCode,
		fmt.Sprintf("Response from %s exceeds %d bytes", ex.endpoint, maxResponseSize), nil)
	c.logFailure(ex, resp.StatusCode, rerr)
	return nil, rerr
}

// send arma y ejecuta la petición. Captura el token que viaja en ella: es el único que un 401 puede invalidar.
func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, header http.Header, body io.Reader) (*http.Response, exchange, error) {
	if method == "" {
		method = http.MethodGet
	}
	ex := exchange{
		method:    method,
		endpoint:  endpoint,
		token:     c.store.Token(),
		requestID: uuid.NewString(),
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint, query), body)
	if err != nil {
		return nil, ex, fmt.Errorf("opshub: crear HTTP request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if ex.token != "" {
		req.Header.Set("Authorization", "Bearer "+ex.token)
	}
	req.Header.Set(RequestIDHeader, ex.requestID)
	c.log.Trace().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", ex.requestID).
		Bool("bearer", ex.token != "").
		Msg("API request")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logFailure(ex, 0, err)
		if ctx.Err() != nil {
			return nil, ex, fmt.Errorf("opshub: %s %s: cancelada: %w", method, endpoint, err)
		}
		return nil, ex, fmt.Errorf("opshub: %s %s: %w", method, endpoint, err)
	}
	return resp, ex, nil
}

// finish aplica la política de respuesta común a todas las variantes.
func (c *Client) finish(ex exchange, status int, raw []byte) (json.RawMessage, error) {
	switch {
	case status == http.StatusUnauthorized && !isLoginEndpoint(ex.endpoint):
		c.expire(ex.token)
		err := domain.NewRequestError(domain.ErrSessionExpired, status, domain.MsgSessionExpired, raw)
		c.logFailure(ex, status, err)
		return nil, err
	case status == http.StatusUnauthorized:
		err := domain.NewRequestError(domain.ErrLoginRejected, status, errorMessage(raw), raw)
		c.logFailure(ex, status, err)
		return nil, err
	case status < 200 || status > 299:
		err := domain.NewRequestError(domain.ErrRequestFailed, status, errorMessage(raw), raw)
		c.logFailure(ex, status, err)
		return nil, err
	}

	out, salvaged, err := decodeBody(status, raw)
	if err != nil {
		c.logFailure(ex, status, err)
		return nil, err
	}
	if salvaged {
		c.log.Warn().
			Str("endpoint", ex.endpoint).
			Str("request_id", ex.requestID).
			Int("discarded_bytes", len(raw)-len(out)).
			Msg("respuesta con texto fuera del JSON; se usó el bloque extraído")
	}
	return out, nil
}

// expire borra la sesión solo si sigue siendo la que viajó en la petición.
// Un 401 de una petición sin token no tenía sesión que cerrar: no redirige ni avisa.
// Varios 401 concurrentes con el mismo token producen un único borrado, una única redirección y un único aviso.
func (c *Client) expire(sentToken string) {
	c.teardownMu.Lock()
	cleared := false
	if sentToken != "" && c.store.Token() == sentToken {
		if err := c.store.Clear(); err != nil {
			c.log.Error().Err(err).Msg("no se pudo borrar la sesión expirada")
		}
		cleared = true
	}
	if cleared && c.nav != nil && !onLoginView(c.nav) {
		c.nav.Navigate(ports.LoginPath)
	}
	c.teardownMu.Unlock()

	if !cleared {
		return
	}
	c.hooksMu.RLock()
	hooks := append([]func(){}, c.expiredHooks...)
	c.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (c *Client) url(endpoint string, query url.Values) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := c.baseURL + endpoint
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

func (c *Client) logFailure(ex exchange, status int, err error) {
	c.log.Warn().
		Err(err).
		Str("method", ex.method).
		Str("endpoint", ex.endpoint).
		Int("status", status).
		Str("request_id", ex.requestID).
		Msg("API request failed")
}

func isLoginEndpoint(endpoint string) bool {
	return strings.Contains(endpoint, loginEndpoint)
}

func onLoginView(nav ports.Navigator) bool {
	return strings.Contains(nav.CurrentPath(), ports.LoginPath)
}
