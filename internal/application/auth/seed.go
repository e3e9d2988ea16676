package auth

import (
	"context"
	"errors"

	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

// DefaultUsers usuarios de prueba del entorno de desarrollo.
func DefaultUsers() []dto.RegisterRequest {
	geo := func(r dto.RegisterRequest, area string) dto.RegisterRequest {
		r.AreaName = area
		r.ZoneName = "Ghaziabad"
		r.CircleName = "Uttar Pradesh"
		r.ClusterName = "Bihar UP"
		return r
	}
	lead := []string{string(entity.RoleLead)}
	return []dto.RegisterRequest{
		geo(dto.RegisterRequest{EmployeeID: "EMP001", Username: "shivam", FullName: "Shivam Kumar", Email: "shivam@example.com",
			Phone: "9876543210", UserType: "AREA_LEAD", Role: "MANAGER", Password: "password123", Roles: lead}, "Behrampur"),
		geo(dto.RegisterRequest{EmployeeID: "EMP002", Username: "rahul", FullName: "Rahul Sharma", Email: "rahul@example.com",
			Phone: "9876543211", UserType: "ZONE_LEAD", Role: "MANAGER", Password: "password123", Roles: lead}, "Behrampur"),
		geo(dto.RegisterRequest{EmployeeID: "EMP003", Username: "priya", FullName: "Priya Singh", Email: "priya@example.com",
			Phone: "9876543212", UserType: "CIRCLE_LEAD", Role: "MANAGER", Password: "password123", Roles: lead}, "Behrampur"),
		geo(dto.RegisterRequest{EmployeeID: "EMP004", Username: "admin", FullName: "Admin User", Email: "admin@example.com",
			Phone: "9876543213", UserType: "ADMIN", Role: "ADMIN", Password: "admin123", Roles: []string{string(entity.RoleAdmin)}}, "Behrampur"),
		geo(dto.RegisterRequest{EmployeeID: "EMP005", Username: "analyst1", FullName: "Analyst One", Email: "analyst1@example.com",
			Phone: "9876543214", UserType: "ANALYST", Role: "ANALYST", Password: "password123", Roles: []string{string(entity.RoleAgent)}}, "Meerut"),
		geo(dto.RegisterRequest{EmployeeID: "EMP006", Username: "manager1", FullName: "Manager One", Email: "manager1@example.com",
			Phone: "9876543215", UserType: "ZONE_LEAD", Role: "MANAGER", Password: "password123", Roles: lead}, "Meerut"),
	}
}

// SeedUsers registra los usuarios por defecto que falten. Devuelve cuántos creó.
func (uc *AuthUseCase) SeedUsers(ctx context.Context, users []dto.RegisterRequest) (int, error) {
	created := 0
	for _, u := range users {
		if _, err := uc.RegisterUser(ctx, u); err != nil {
			if errors.Is(err, domain.ErrEmployeeExists) {
				continue
			}
			return created, err
		}
		created++
	}
	if created > 0 {
		uc.log.Info().Int("created", created).Msg("usuarios de prueba sembrados")
	}
	return created, nil
}
