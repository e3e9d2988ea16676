package opshub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

type loginRequest struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// loginResponse token más los campos del perfil, planos en el mismo objeto.
type loginResponse struct {
	Token string `json:"token"`
	entity.UserProfile
}

// permissionsResponse cuerpo de GET /permissions/me. Campos ausentes o null quedan vacíos.
type permissionsResponse struct {
	EmployeeID  string   `json:"employeeId"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	Roles       []string `json:"roles"`
}

// Login autentica contra POST /auth/login y persiste la sesión completa (token + perfil).
// Un 401 llega como domain.ErrLoginRejected y no toca el Token Store.
func (c *Client) Login(ctx context.Context, employeeID, password string) (*entity.Session, error) {
	var resp loginResponse
	if err := c.Do(ctx, http.MethodPost, loginEndpoint, loginRequest{EmployeeID: employeeID, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, domain.NewRequestError(domain.ErrMalformedResponse, http.StatusOK, "login response without token", nil)
	}
	if resp.EmployeeID == "" {
		resp.EmployeeID = employeeID
	}

	sess := entity.Session{Token: resp.Token, User: resp.UserProfile}
	if err := c.store.Save(sess); err != nil {
		return nil, fmt.Errorf("opshub: guardar sesión: %w", err)
	}
	c.log.Info().Str("employee_id", sess.User.EmployeeID).Msg("sesión iniciada")
	return &sess, nil
}

// Logout invalida el token en el servidor. No toca el Token Store: eso es del Auth Context.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// MyPermissions GET /permissions/me normalizado a PermissionSet.
func (c *Client) MyPermissions(ctx context.Context) (entity.PermissionSet, error) {
	var resp permissionsResponse
	if err := c.Do(ctx, http.MethodGet, "/permissions/me", nil, &resp); err != nil {
		return entity.PermissionSet{}, err
	}
	return entity.NewPermissionSet(resp.Permissions, resp.Roles), nil
}

// MyProfile GET /profile/my-profile.
func (c *Client) MyProfile(ctx context.Context) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	if err := c.Do(ctx, http.MethodGet, "/profile/my-profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
