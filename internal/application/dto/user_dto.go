package dto

// RegisterRequest alta de usuario (seed y administración). Password en texto, se hashea en el use case.
type RegisterRequest struct {
	EmployeeID  string   `json:"employeeId" validate:"required"`
	Username    string   `json:"username" validate:"required"`
	Password    string   `json:"password" validate:"required,min=8"`
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	UserType    string   `json:"userType"`
	Role        string   `json:"role"`
	AreaName    string   `json:"areaName"`
	ZoneName    string   `json:"zoneName"`
	CircleName  string   `json:"circleName"`
	ClusterName string   `json:"clusterName"`
	Roles       []string `json:"roles"`
}

// LoginRequest entrada para login por número de empleado.
type LoginRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse token más el perfil, en un único objeto plano.
type LoginResponse struct {
	Token       string `json:"token"`
	EmployeeID  string `json:"employeeId"`
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	UserType    string `json:"userType"`
	Role        string `json:"role"`
	AreaName    string `json:"areaName,omitempty"`
	ZoneName    string `json:"zoneName,omitempty"`
	CircleName  string `json:"circleName,omitempty"`
	ClusterName string `json:"clusterName,omitempty"`
}

// UserPermissionsResponse cuerpo de GET /api/permissions/me. Nunca serializa null en las listas.
type UserPermissionsResponse struct {
	UserID      string   `json:"userId"`
	EmployeeID  string   `json:"employeeId"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// RoleResponse rol con sus permisos (GET /api/permissions/roles).
type RoleResponse struct {
	Code        string   `json:"code"`
	Permissions []string `json:"permissions"`
}

// PermissionResponse entrada del catálogo (GET /api/permissions/all).
// Action y Resource salen del código: VIEW_CUSTOMERS -> VIEW / CUSTOMERS.
type PermissionResponse struct {
	Code     string `json:"code"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Active   bool   `json:"active"`
}
