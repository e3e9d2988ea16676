package reports

import (
	"context"
	"time"

	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

// ExportDocument datos que necesita el generador para renderizar una exportación.
type ExportDocument struct {
	ID          string
	RequestedBy entity.UserProfile
	Roles       []string
	Permissions []string
	GeneratedAt time.Time
}

// ExportPDFGenerator genera el PDF de una exportación (lo implementa infrastructure/pdf).
type ExportPDFGenerator interface {
	GenerateExportPDF(ctx context.Context, doc ExportDocument) ([]byte, error)
}

// AccessReader perfil y permisos efectivos del solicitante. Lo implementa *auth.AuthUseCase.
type AccessReader interface {
	Profile(ctx context.Context, employeeID string) (*entity.UserProfile, error)
	Permissions(ctx context.Context, employeeID string) (*dto.UserPermissionsResponse, error)
}
