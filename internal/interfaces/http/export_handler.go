package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/application/reports"
	"github.com/jhoicas/opshub/internal/domain"
)

// ExportHandler descarga de exportaciones de reportes.
type ExportHandler struct {
	uc *reports.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *reports.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Download godoc
// @Summary      Descargar la exportación en PDF
// @Description  Acepta el token en Authorization o en ?token= (enlaces abiertos en el navegador).
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id     path   string  true   "ID de la exportación"
// @Param        token  query  string  false  "Token de sesión"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/exports/{id}/download [get]
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION", "identificador inválido")
	}
	out, filename, err := h.uc.DownloadExport(c.UserContext(), GetEmployeeID(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
		}
		return accountError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out)
}
