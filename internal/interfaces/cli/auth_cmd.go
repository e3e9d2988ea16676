package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jhoicas/opshub/internal/application/session"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/pkg/jwt"
)

func newLoginCommand(sh *Shell) *cobra.Command {
	var (
		employeeID    string
		passwordStdin bool
		force         bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión con número de empleado",
		Long: `Inicia sesión y guarda el token y el perfil en el directorio de sesión.

La contraseña se pide sin eco en la terminal; con --password-stdin se lee
la primera línea de la entrada estándar.

Examples:
  opshub login -u EMP001
  echo "$PASS" | opshub login -u EMP001 --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if sh.auth.Init(ctx) == session.Authenticated {
				if !force {
					user, _ := sh.auth.User()
					return fmt.Errorf("already logged in as %s: use --force or run \"opshub logout\"", user.EmployeeID)
				}
				if err := sh.auth.Logout(ctx); err != nil {
					return err
				}
			}

			employeeID = strings.TrimSpace(employeeID)
			if employeeID == "" {
				return fmt.Errorf("%w: --employee-id is required", errUsage)
			}
			password, err := sh.readPassword(passwordStdin)
			if err != nil {
				return err
			}

			if err := sh.auth.Login(ctx, employeeID, password); err != nil {
				return err
			}
			user, _ := sh.auth.User()
			if sh.jsonOut {
				return sh.printJSON(whoamiView(sh, user))
			}
			sh.printf("Logged in as %s (%s)\n", sh.styles.title.Render(user.DisplayName()), user.EmployeeID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&employeeID, "employee-id", "u", "", "número de empleado")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "leer la contraseña de stdin")
	cmd.Flags().BoolVar(&force, "force", false, "cerrar la sesión actual antes de entrar")
	return cmd
}

func newLogoutCommand(sh *Shell) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar sesión",
		Long: `Cierra la sesión local siempre. Avisa al servidor si hay token;
si esa llamada falla la sesión local se borra igualmente.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hadSession := sh.store.Token() != ""
			if err := sh.auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("no se pudo borrar la sesión: %w", err)
			}
			if !hadSession {
				sh.printf("Not logged in.\n")
				return nil
			}
			sh.printf("Logged out.\n")
			return nil
		},
	}
}

// whoami es la vista serializable de la sesión actual.
type whoami struct {
	Profile     entity.UserProfile  `json:"profile"`
	Roles       []entity.Role       `json:"roles"`
	Permissions []entity.Permission `json:"permissions"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
}

func whoamiView(sh *Shell, user entity.UserProfile) whoami {
	perms := sh.auth.Permissions()
	view := whoami{Profile: user, Roles: perms.Roles(), Permissions: perms.Permissions()}
	if exp, ok := jwt.ExpiresAt(sh.store.Token()); ok {
		view.ExpiresAt = &exp
	}
	return view
}

func newWhoamiCommand(sh *Shell) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Perfil, roles y permisos de la sesión actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := sh.requireSession(cmd); err != nil {
				return err
			}
			user, _ := sh.auth.User()
			view := whoamiView(sh, user)
			if sh.jsonOut {
				return sh.printJSON(view)
			}

			st := sh.styles
			sh.printf("%s (%s)\n", st.title.Render(user.DisplayName()), user.EmployeeID)
			row := func(label, value string) {
				if value == "" {
					value = "-"
				}
				sh.printf("  %s %s\n", st.label.Render(fmt.Sprintf("%-12s", label)), value)
			}
			row("username", user.Username)
			row("user type", user.UserType)
			row("hierarchy", joinNonEmpty(" / ", user.CircleName, user.ZoneName, user.AreaName, user.ClusterName))
			row("roles", joinCodes(view.Roles))
			row("permissions", joinCodes(view.Permissions))
			if view.ExpiresAt != nil {
				row("expires", view.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

// readPassword prompt sin eco si stdin es una terminal; si no, una línea de In.
func (sh *Shell) readPassword(fromStdin bool) (string, error) {
	if !fromStdin && sh.ReadPassword != nil {
		return sh.ReadPassword("Password: ")
	}
	if !fromStdin {
		if f, ok := sh.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(sh.Err, "Password: ")
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(sh.Err)
			if err != nil {
				return "", fmt.Errorf("leer contraseña: %w", err)
			}
			return string(b), nil
		}
	}
	line, err := bufio.NewReader(sh.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: no password on stdin", errUsage)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func joinCodes[T ~string](codes []T) string {
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
