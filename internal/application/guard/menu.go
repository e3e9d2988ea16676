package guard

import (
	"strings"

	"github.com/jhoicas/opshub/internal/domain/entity"
)

// MenuItem entrada de navegación. Sin Guard es siempre visible.
type MenuItem struct {
	Label string
	Href  string
	Guard Guard
}

// DefaultMenu navegación lateral de ops-hub.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Customers", Href: "/customers", Guard: RequirePermission(entity.PermViewCustomers)},
		{Label: "Allocations", Href: "/allocations", Guard: RequirePermission(entity.PermAssignCustomers)},
		{Label: "Visits", Href: "/visits", Guard: RequirePermission(entity.PermViewVisits)},
		{Label: "Payments", Href: "/payments", Guard: RequireAnyPermission(entity.PermViewPayments, entity.PermCollectPayment)},
		{Label: "Profile Approvals", Href: "/profile-approvals", Guard: RequirePermission(entity.PermApproveProfile)},
		{Label: "Reports & MIS", Href: "/reports", Guard: RequirePermission(entity.PermViewReports)},
		{Label: "AI Assistant", Href: "/ai-assistant", Guard: RequirePermission(entity.PermUseAIAgent)},
		{Label: "Users", Href: "/users", Guard: RequirePermission(entity.PermViewCustomers)},
		{Label: "Audit Logs", Href: "/audit-logs", Guard: RequireRole(entity.RoleAdmin)},
		{Label: "Settings", Href: "/settings", Guard: RequirePermission(entity.PermManageSettings)},
		{Label: "Profile", Href: "/profile"},
	}
}

// VisibleItems filtra el menú. Mientras el Auth Context carga no se muestra ninguna entrada protegida.
func VisibleItems(c Checker, items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.Guard == nil || it.Guard.Evaluate(c) == Granted {
			out = append(out, it)
		}
	}
	return out
}

// IsActive la ruta actual es href o cuelga de él.
func IsActive(current, href string) bool {
	return current == href || strings.HasPrefix(current, href+"/")
}
