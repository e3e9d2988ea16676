package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/application/reports"
	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/infrastructure/memory"
	"github.com/jhoicas/opshub/internal/infrastructure/pdf"
	"github.com/jhoicas/opshub/internal/infrastructure/tokenstore"
	"github.com/jhoicas/opshub/internal/interfaces/cli"
	apphttp "github.com/jhoicas/opshub/internal/interfaces/http"
)

// ──── Helpers ────────────────────────────────────────────────────────────────

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
}

func (o *recordingOpener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return nil
}

type env struct {
	srv        *httptest.Server
	sessionDir string
	opener     *recordingOpener
}

// newEnv levanta el backend de referencia en memoria más dos rutas auxiliares (eco y subida).
func newEnv(t *testing.T) *env {
	t.Helper()
	uc := auth.NewAuthUseCase(memory.NewUserRepository(nil), memory.NewRevocationList(), auth.JWTConfig{
		Secret: "test-secret-key-for-unit-tests", ExpMinutes: 60, Issuer: "ops-hub-test",
	}, nil)
	_, err := uc.SeedUsers(context.Background(), auth.DefaultUsers())
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:   uc,
		ExportUC: reports.NewExportUseCase(uc, pdf.NewExportPDFGenerator()),
	})
	app.Post("/api/echo", apphttp.AuthMiddleware(uc), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"employee": apphttp.GetEmployeeID(c),
			"body":     json.RawMessage(c.Body()),
			"page":     c.Query("page"),
			"trace":    c.Get("X-Trace"),
		})
	})
	app.Post("/api/upload", apphttp.AuthMiddleware(uc), func(c *fiber.Ctx) error {
		fh, err := c.FormFile("doc")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "doc is required"})
		}
		return c.JSON(fiber.Map{"name": fh.Filename, "size": fh.Size, "note": c.FormValue("note")})
	})

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return &env{srv: srv, sessionDir: t.TempDir(), opener: &recordingOpener{}}
}

type result struct {
	out, err string
	runErr   error
}

// run simula una ejecución del proceso: shell nuevo sobre el mismo directorio de sesión.
func (e *env) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	sh := &cli.Shell{
		In:      strings.NewReader(stdin),
		Out:     &out,
		Err:     &errOut,
		Version: "v0.0.0-test",
		Opener:  e.opener,
		ReadPassword: func(string) (string, error) {
			line, _, _ := strings.Cut(stdin, "\n")
			return line, nil
		},
	}
	root := cli.NewRootCommand(sh)
	root.SetArgs(append([]string{"--api-url", e.srv.URL + "/api", "--session-dir", e.sessionDir}, args...))
	runErr := root.ExecuteContext(context.Background())
	return result{out: out.String(), err: errOut.String(), runErr: runErr}
}

func (e *env) login(t *testing.T, employeeID, password string) {
	t.Helper()
	r := e.run(t, password+"\n", "login", "-u", employeeID)
	require.NoError(t, r.runErr, r.err)
}

func (e *env) storedToken(t *testing.T) string {
	t.Helper()
	store, err := tokenstore.NewFileStore(e.sessionDir, nil)
	require.NoError(t, err)
	return store.Token()
}

// ──── login / whoami / logout ────────────────────────────────────────────────

func TestLogin_GuardaSesionYWhoamiLaLee(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "password123\n", "login", "-u", "EMP001")
	require.NoError(t, r.runErr, r.err)
	assert.Contains(t, r.out, "Logged in as")
	assert.Contains(t, r.out, "EMP001")
	assert.NotEmpty(t, e.storedToken(t))

	r = e.run(t, "", "whoami", "--json")
	require.NoError(t, r.runErr, r.err)
	var view struct {
		Profile struct {
			EmployeeID string `json:"employeeId"`
			AreaName   string `json:"areaName"`
		} `json:"profile"`
		Roles       []string `json:"roles"`
		Permissions []string `json:"permissions"`
		ExpiresAt   string   `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.out), &view))
	assert.Equal(t, "EMP001", view.Profile.EmployeeID)
	assert.Equal(t, "Behrampur", view.Profile.AreaName)
	assert.Equal(t, []string{"LEAD"}, view.Roles)
	assert.Contains(t, view.Permissions, "EXPORT_REPORTS")
	assert.NotEmpty(t, view.ExpiresAt)
}

func TestLogin_PasswordPorStdin(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "admin123\n", "login", "-u", "EMP004", "--password-stdin")
	require.NoError(t, r.runErr, r.err)
	assert.Contains(t, r.out, "Admin User")
}

func TestLogin_RechazadoMuestraMensajeDelServidor(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "mala\n", "login", "-u", "EMP001")
	require.Error(t, r.runErr)
	assert.ErrorIs(t, r.runErr, domain.ErrLoginRejected)
	assert.Equal(t, "Invalid employee ID or password", r.runErr.Error())
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(r.runErr))
	assert.Empty(t, e.storedToken(t))
	assert.NotContains(t, r.err, "opshub login", "un login rechazado no redirige")
}

func TestLogin_SinEmployeeIDEsErrorDeUso(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "password123\n", "login")
	require.Error(t, r.runErr)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(r.runErr))
}

func TestLogin_YaAutenticadoPideForce(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")

	r := e.run(t, "password123\n", "login", "-u", "EMP002")
	require.Error(t, r.runErr)
	assert.Contains(t, r.runErr.Error(), "already logged in as EMP001")

	r = e.run(t, "password123\n", "login", "-u", "EMP002", "--force")
	require.NoError(t, r.runErr, r.err)
	assert.Contains(t, r.out, "EMP002")
}

func TestLogout_BorraSesionYWhoamiFalla(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")

	r := e.run(t, "", "logout")
	require.NoError(t, r.runErr, r.err)
	assert.Contains(t, r.out, "Logged out.")
	assert.Contains(t, r.err, `Run "opshub login"`)
	assert.Empty(t, e.storedToken(t))

	r = e.run(t, "", "whoami")
	require.Error(t, r.runErr)
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(r.runErr))
}

func TestLogout_SinSesion(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "", "logout")
	require.NoError(t, r.runErr)
	assert.Contains(t, r.out, "Not logged in.")
}

// ──── Expiración global ──────────────────────────────────────────────────────

func TestRequest_401CierraSesionYAvisa(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")
	token := e.storedToken(t)

	// El servidor revoca el token por fuera del CLI.
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := e.run(t, "", "request", "GET", "/profile/my-profile")
	require.Error(t, r.runErr)
	assert.ErrorIs(t, r.runErr, domain.ErrSessionExpired)
	assert.Equal(t, "Session expired. Please login again.", r.runErr.Error())
	assert.Equal(t, 1, strings.Count(r.err, `Run "opshub login"`))
	assert.Empty(t, e.storedToken(t))
}

// ──── can / menu ─────────────────────────────────────────────────────────────

func TestCan_PermisosYRoles(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP005", "password123")

	r := e.run(t, "", "can", "VIEW_CUSTOMERS")
	require.NoError(t, r.runErr)
	assert.Contains(t, r.out, "granted")

	r = e.run(t, "", "can", "export_reports")
	assert.ErrorIs(t, r.runErr, cli.ErrAccessDenied)
	assert.Contains(t, r.out, "denied EXPORT_REPORTS")
	assert.Equal(t, cli.ExitError, cli.ExitCode(r.runErr))

	r = e.run(t, "", "can", "--all", "VIEW_CUSTOMERS,COLLECT_PAYMENT")
	assert.NoError(t, r.runErr)

	r = e.run(t, "", "can", "--all", "VIEW_CUSTOMERS", "MANAGE_SETTINGS")
	assert.ErrorIs(t, r.runErr, cli.ErrAccessDenied)

	r = e.run(t, "", "can", "--role", "AGENT")
	assert.NoError(t, r.runErr)

	r = e.run(t, "", "can", "--role", "ADMIN", "--json")
	assert.ErrorIs(t, r.runErr, cli.ErrAccessDenied)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &out))
	assert.Equal(t, false, out["granted"])
}

func TestCan_SinSesionDeniega(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "", "can", "VIEW_CUSTOMERS")
	assert.ErrorIs(t, r.runErr, cli.ErrAccessDenied)
}

func TestMenu_FiltradoPorPermisos(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP005", "password123")

	r := e.run(t, "", "menu", "--json", "--current", "/customers/42")
	require.NoError(t, r.runErr, r.err)
	var entries []struct {
		Label  string `json:"label"`
		Href   string `json:"href"`
		Active bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.out), &entries))

	labels := make([]string, 0, len(entries))
	for _, en := range entries {
		labels = append(labels, en.Label)
		assert.Equal(t, en.Href == "/customers", en.Active, en.Label)
	}
	assert.Contains(t, labels, "Customers")
	assert.Contains(t, labels, "Payments")
	assert.NotContains(t, labels, "Settings")
	assert.NotContains(t, labels, "Audit Logs")
}

func TestMenu_SinSesionSoloPublicas(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "", "menu")
	require.NoError(t, r.runErr)
	assert.Contains(t, r.out, "Dashboard")
	assert.Contains(t, r.out, "Profile")
	assert.NotContains(t, r.out, "Customers")
	assert.Contains(t, r.err, "Not logged in")
}

// ──── request / upload ───────────────────────────────────────────────────────

func TestRequest_EnviaCuerpoQueryYCabeceras(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")

	r := e.run(t, "", "request", "post", "/echo", "-d", `{"a":1}`, "-q", "page=2", "-H", "x-trace: abc")
	require.NoError(t, r.runErr, r.err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &out))
	assert.Equal(t, "EMP001", out["employee"])
	assert.Equal(t, map[string]any{"a": float64(1)}, out["body"])
	assert.Equal(t, "2", out["page"])
	assert.Equal(t, "abc", out["trace"])
}

func TestRequest_DataDesdeStdin(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")

	r := e.run(t, `{"from":"stdin"}`, "request", "POST", "/echo", "-d", "@-")
	require.NoError(t, r.runErr, r.err)
	assert.Contains(t, r.out, `"from": "stdin"`)
}

func TestRequest_DataInvalidaEsErrorDeUso(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "", "request", "POST", "/echo", "-d", "{no json")
	require.Error(t, r.runErr)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(r.runErr))
}

func TestRequest_ErrorDelServidorMuestraMessage(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP005", "password123")

	r := e.run(t, "", "request", "GET", "/permissions/all")
	require.Error(t, r.runErr)
	assert.ErrorIs(t, r.runErr, domain.ErrRequestFailed)
	assert.Equal(t, "Access denied. Required permissions: VIEW_PERMISSIONS", r.runErr.Error())
	assert.NotEmpty(t, e.storedToken(t), "un 403 no cierra la sesión")
}

func TestUpload_Multipart(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")

	file := filepath.Join(t.TempDir(), "clientes.csv")
	require.NoError(t, os.WriteFile(file, []byte("id,name\n1,Acme\n"), 0o600))

	r := e.run(t, "", "upload", "/upload", file, "--field", "doc", "-F", "note=primera carga")
	require.NoError(t, r.runErr, r.err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &out))
	assert.Equal(t, "clientes.csv", out["name"])
	assert.Equal(t, float64(len("id,name\n1,Acme\n")), out["size"])
	assert.Equal(t, "primera carga", out["note"])
}

// ──── exports ────────────────────────────────────────────────────────────────

func TestExportsDownload_EscribePDF(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")

	target := filepath.Join(t.TempDir(), "informe.pdf")
	r := e.run(t, "", "exports", "download", "42", "-o", target)
	require.NoError(t, r.runErr, r.err)
	assert.Contains(t, r.out, "Saved "+target)

	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestExportsDownload_SinPermisoNoDejaArchivo(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP005", "password123")

	dir := t.TempDir()
	target := filepath.Join(dir, "informe.pdf")
	r := e.run(t, "", "exports", "download", "42", "-o", target)
	require.Error(t, r.runErr)
	assert.ErrorIs(t, r.runErr, domain.ErrRequestFailed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportsDownload_OpenUsaTokenEnQuery(t *testing.T) {
	e := newEnv(t)
	e.login(t, "EMP001", "password123")
	token := e.storedToken(t)

	r := e.run(t, "", "exports", "download", "exp 7", "--open")
	require.NoError(t, r.runErr, r.err)
	require.Len(t, e.opener.urls, 1)
	assert.Equal(t, e.srv.URL+"/api/reports/exports/exp%207/download?token="+token, e.opener.urls[0])

	// La URL abierta funciona sin cabeceras.
	resp, err := http.Get(e.opener.urls[0])
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "export-exp_7.pdf", params["filename"])
}

// ──── version / exit codes ───────────────────────────────────────────────────

func TestVersion_NoNecesitaConfiguracion(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "", "version")
	require.NoError(t, r.runErr)
	assert.Contains(t, r.out, "opshub v0.0.0-test")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitOK, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitUnauthorized, cli.ExitCode(domain.NewRequestError(domain.ErrSessionExpired, 401, domain.MsgSessionExpired, nil)))
	assert.Equal(t, cli.ExitError, cli.ExitCode(domain.NewRequestError(domain.ErrRequestFailed, 500, "", nil)))
	assert.Equal(t, cli.ExitError, cli.ExitCode(cli.ErrAccessDenied))
}
