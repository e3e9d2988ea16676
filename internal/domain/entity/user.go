package entity

import "time"

// UserProfile perfil del usuario autenticado tal como lo devuelve el login.
// Solo lectura en el cliente; los cambios van por el flujo de solicitudes de actualización.
type UserProfile struct {
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

// DisplayName nombre para mostrar: fullName, o username si no hay.
func (p UserProfile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Username != "" {
		return p.Username
	}
	return p.EmployeeID
}

// User representa un usuario del backend de referencia.
type User struct {
	ID           string
	EmployeeID   string
	Username     string
	FullName     string
	Email        string
	Phone        string
	UserType     string // AREA_LEAD, ZONE_LEAD, CIRCLE_LEAD, ANALYST, ADMIN
	Role         string // campo legado: ADMIN, MANAGER, ANALYST
	AreaName     string
	ZoneName     string
	CircleName   string
	ClusterName  string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Active       bool
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile proyecta el usuario al perfil que se entrega en el login.
func (u *User) Profile() UserProfile {
	return UserProfile{
		EmployeeID:  u.EmployeeID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		UserType:    u.UserType,
		Role:        u.Role,
		AreaName:    u.AreaName,
		ZoneName:    u.ZoneName,
		CircleName:  u.CircleName,
		ClusterName: u.ClusterName,
	}
}
