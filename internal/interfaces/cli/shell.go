// Package cli es el shell de terminal de ops-hub: dueño del Auth Context,
// del Token Store en disco y del cliente REST.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jhoicas/opshub/internal/application/ports"
	"github.com/jhoicas/opshub/internal/application/session"
	"github.com/jhoicas/opshub/internal/domain/repository"
	"github.com/jhoicas/opshub/internal/infrastructure/opshub"
	"github.com/jhoicas/opshub/internal/infrastructure/tokenstore"
	"github.com/jhoicas/opshub/pkg/config"
	"github.com/jhoicas/opshub/pkg/logger"
)

// skipSetup anotación de los comandos que no necesitan configuración ni sesión.
const skipSetup = "opshub/skip-setup"

// Shell dependencias de E/S del CLI y estado construido en PersistentPreRunE.
type Shell struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Version string

	// ReadPassword lee la contraseña sin eco; nil usa la terminal (o una línea de In si no hay TTY).
	ReadPassword func(prompt string) (string, error)
	// Opener abre URLs de descarga; nil usa el navegador del sistema.
	Opener ports.Opener
	// HTTPClient permite inyectar transporte en tests.
	HTTPClient *http.Client

	apiURL     string
	configFile string
	sessionDir string
	jsonOut    bool
	verbose    bool

	cfg    *config.Config
	log    *logger.Logger
	store  repository.TokenStore
	client *opshub.Client
	auth   *session.AuthContext
	nav    *terminalNavigator
	styles styles
}

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	granted lipgloss.Style
	denied  lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00467F")),
		label:   r.NewStyle().Foreground(lipgloss.Color("8")),
		granted: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		denied:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		muted:   r.NewStyle().Faint(true),
	}
}

// NewShell shell sobre la E/S estándar del proceso.
func NewShell(version string) *Shell {
	return &Shell{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Version: version}
}

// NewRootCommand arma el árbol de comandos.
func NewRootCommand(sh *Shell) *cobra.Command {
	if sh.In == nil {
		sh.In = os.Stdin
	}
	if sh.Out == nil {
		sh.Out = os.Stdout
	}
	if sh.Err == nil {
		sh.Err = os.Stderr
	}
	sh.styles = newStyles(sh.Out)

	root := &cobra.Command{
		Use:   "opshub",
		Short: "Ops Hub desde la terminal",
		Long: `opshub es el cliente de terminal de Ops Hub.

Mantiene la sesión en el directorio de configuración del usuario, adjunta el token
a cada petición y cierra la sesión en cuanto el servidor responde 401.

Examples:
  opshub login -u EMP001
  opshub whoami
  opshub can VIEW_CUSTOMERS
  opshub exports download 42 -o informe.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return sh.setup(cmd)
		},
	}
	root.SetIn(sh.In)
	root.SetOut(sh.Out)
	root.SetErr(sh.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&sh.apiURL, "api-url", "", "URL base de la API (por defecto OPSHUB_API_URL)")
	pf.StringVar(&sh.configFile, "config", "", "archivo de configuración (.env, yaml, json)")
	pf.StringVar(&sh.sessionDir, "session-dir", "", "directorio de la sesión (por defecto OPSHUB_SESSION_DIR)")
	pf.BoolVar(&sh.jsonOut, "json", false, "salida en JSON")
	pf.BoolVarP(&sh.verbose, "verbose", "v", false, "logs de depuración en stderr")

	root.AddCommand(
		newLoginCommand(sh),
		newLogoutCommand(sh),
		newWhoamiCommand(sh),
		newCanCommand(sh),
		newMenuCommand(sh),
		newRequestCommand(sh),
		newUploadCommand(sh),
		newExportsCommand(sh),
		newVersionCommand(sh),
	)
	return root
}

// setup carga configuración, logger, Token Store, cliente y Auth Context.
// La URL base se lee una vez aquí y se inyecta en el cliente.
func (sh *Shell) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if sh.configFile != "" {
		cfg, err = config.LoadFile(sh.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if sh.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(sh.apiURL, "/")
	}
	if sh.sessionDir != "" {
		cfg.Session.Dir = sh.sessionDir
	}

	level := cfg.App.LogLevel
	if sh.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: sh.Err})

	store, err := tokenstore.NewFileStore(cfg.Session.Dir, log)
	if err != nil {
		return err
	}
	log.Debug().Str("api_url", cfg.API.BaseURL).Str("session_file", store.Path()).Msg("configuración cargada")

	nav := newTerminalNavigator(viewPath(cmd), sh.Err)
	client, err := opshub.New(opshub.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		HTTPClient: sh.HTTPClient,
		Store:      store,
		Navigator:  nav,
		Opener:     sh.Opener,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	auth, err := session.New(session.Options{API: client, Store: store, Navigator: nav, Logger: log})
	if err != nil {
		return err
	}

	sh.cfg, sh.log, sh.store, sh.client, sh.auth, sh.nav = cfg, log, store, client, auth, nav
	return nil
}

// viewPath equivalente a la ruta de la página: el comando login es la vista de login.
func viewPath(cmd *cobra.Command) string {
	if cmd.Name() == "login" {
		return ports.LoginPath
	}
	return "/" + strings.ReplaceAll(strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "), " ", "/")
}

// requireSession resuelve Init y falla si no hay sesión.
func (sh *Shell) requireSession(cmd *cobra.Command) error {
	if sh.auth.Init(cmd.Context()) != session.Authenticated {
		return errNotLoggedIn
	}
	return nil
}

func (sh *Shell) printJSON(v any) error {
	enc := json.NewEncoder(sh.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.Out, format, args...)
}

// printRaw imprime una respuesta de la API; JSON indentado si se puede.
func (sh *Shell) printRaw(raw json.RawMessage) error {
	if raw == nil {
		sh.printf("%s\n", sh.styles.muted.Render("(sin contenido)"))
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err = sh.Out.Write(append(raw, '\n'))
		return err
	}
	return sh.printJSON(v)
}
