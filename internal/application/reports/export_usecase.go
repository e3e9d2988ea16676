package reports

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/opshub/internal/domain"
)

var exportIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]{0,63}$`)

// ExportUseCase genera el documento descargable de una exportación de reportes.
type ExportUseCase struct {
	access    AccessReader
	generator ExportPDFGenerator
	now       func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(access AccessReader, generator ExportPDFGenerator) *ExportUseCase {
	return &ExportUseCase{access: access, generator: generator, now: time.Now}
}

// DownloadExport renderiza la exportación exportID para el empleado autenticado.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrInvalidInput si el identificador no es válido.
//   - domain.ErrUserNotFound / domain.ErrInactiveUser si el solicitante ya no puede operar.
func (uc *ExportUseCase) DownloadExport(ctx context.Context, employeeID, exportID string) ([]byte, string, error) {
	if !exportIDPattern.MatchString(exportID) {
		return nil, "", fmt.Errorf("%w: identificador de exportación %q", domain.ErrInvalidInput, exportID)
	}

	profile, err := uc.access.Profile(ctx, employeeID)
	if err != nil {
		return nil, "", err
	}
	perms, err := uc.access.Permissions(ctx, employeeID)
	if err != nil {
		return nil, "", err
	}

	doc := ExportDocument{
		ID:          exportID,
		RequestedBy: *profile,
		Roles:       perms.Roles,
		Permissions: perms.Permissions,
		GeneratedAt: uc.now(),
	}
	out, err := uc.generator.GenerateExportPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("reports: generar exportación %s: %w", exportID, err)
	}
	return out, ExportFilename(exportID), nil
}

// ExportFilename nombre del adjunto: espacios a guiones bajos.
func ExportFilename(exportID string) string {
	return "export-" + strings.ReplaceAll(exportID, " ", "_") + ".pdf"
}
