package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/opshub/internal/application/guard"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

func newCanCommand(sh *Shell) *cobra.Command {
	var (
		all   bool
		roles bool
	)
	cmd := &cobra.Command{
		Use:   "can CODE [CODE...]",
		Short: "Comprobar permisos o roles de la sesión actual",
		Long: `Evalúa un guard de permisos (o de roles con --role) contra la sesión.
Por defecto basta con uno de los códigos; con --all se exigen todos.
Sale con código 1 si el acceso se deniega.

Examples:
  opshub can VIEW_CUSTOMERS
  opshub can --all VIEW_REPORTS EXPORT_REPORTS
  opshub can --role ADMIN`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh.auth.Init(cmd.Context())

			codes := normalizeCodes(args)
			if len(codes) == 0 {
				return fmt.Errorf("%w: at least one code is required", errUsage)
			}
			g := buildGuard(codes, all, roles)
			show := func(granted bool) {
				if sh.jsonOut {
					_ = sh.printJSON(map[string]any{"codes": codes, "requireAll": all, "roles": roles, "granted": granted})
					return
				}
				if granted {
					sh.printf("%s %s\n", sh.styles.granted.Render("granted"), strings.Join(codes, ", "))
					return
				}
				sh.printf("%s %s\n", sh.styles.denied.Render("denied"), strings.Join(codes, ", "))
			}

			d := guard.Render(g, sh.auth, func() { show(true) }, func() { show(false) })
			if d != guard.Granted {
				return ErrAccessDenied
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "exigir todos los códigos")
	cmd.Flags().BoolVar(&roles, "role", false, "los códigos son roles")
	return cmd
}

func buildGuard(codes []string, all, roles bool) guard.Guard {
	if roles {
		rs := make([]entity.Role, 0, len(codes))
		for _, c := range codes {
			rs = append(rs, entity.Role(c))
		}
		if all {
			return guard.RequireAllRoles(rs...)
		}
		return guard.RequireAnyRole(rs...)
	}
	ps := make([]entity.Permission, 0, len(codes))
	for _, c := range codes {
		ps = append(ps, entity.Permission(c))
	}
	if all {
		return guard.RequireAllPermissions(ps...)
	}
	return guard.RequireAnyPermission(ps...)
}

// normalizeCodes mayúsculas y sin vacíos; acepta "A,B" además de argumentos sueltos.
func normalizeCodes(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, c := range strings.Split(a, ",") {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

type menuEntry struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

func newMenuCommand(sh *Shell) *cobra.Command {
	var current string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Entradas de navegación visibles para la sesión actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh.auth.Init(cmd.Context())

			items := guard.VisibleItems(sh.auth, guard.DefaultMenu())
			entries := make([]menuEntry, 0, len(items))
			for _, it := range items {
				entries = append(entries, menuEntry{Label: it.Label, Href: it.Href, Active: current != "" && guard.IsActive(current, it.Href)})
			}
			if sh.jsonOut {
				return sh.printJSON(entries)
			}
			for _, e := range entries {
				marker := " "
				label := e.Label
				if e.Active {
					marker = ">"
					label = sh.styles.title.Render(label)
				}
				sh.printf("%s %-20s %s\n", marker, label, sh.styles.muted.Render(e.Href))
			}
			if !sh.auth.IsAuthenticated() {
				fmt.Fprintln(sh.Err, `Not logged in: only public entries are shown.`)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "ruta actual para marcar la entrada activa")
	return cmd
}
