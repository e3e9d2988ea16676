// Package pdf genera el documento de una exportación de reportes.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ops Hub + título     │  N° Exportación + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITANTE: Nombre + empleado + jerarquía                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ROLES                                                       │
//	│  TABLA: # | Permiso | Catálogo                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de confidencialidad                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/opshub/internal/application/reports"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 90, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ExportPDFGenerator implementa reports.ExportPDFGenerator usando Maroto v2.
type ExportPDFGenerator struct{}

// NewExportPDFGenerator construye el generador.
func NewExportPDFGenerator() *ExportPDFGenerator { return &ExportPDFGenerator{} }

var _ reports.ExportPDFGenerator = (*ExportPDFGenerator)(nil)

// GenerateExportPDF genera el PDF y devuelve sus bytes.
func (g *ExportPDFGenerator) GenerateExportPDF(ctx context.Context, doc reports.ExportDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ops Hub - Exportación "+doc.ID, true).
		WithAuthor(doc.RequestedBy.DisplayName(), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requesterRow(doc.RequestedBy))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(rolesRow(doc.Roles))
	m.AddRows(tableHeaderRow())
	m.AddRows(permissionRows(doc.Permissions)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc reports.ExportDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("OPS HUB", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de accesos del solicitante", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("EXPORTACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.ID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// requesterRow: identidad del empleado y su posición en la jerarquía.
func requesterRow(p entity.UserProfile) core.Row {
	hierarchy := joinNonEmpty(" / ", p.CircleName, p.ZoneName, p.AreaName, p.ClusterName)
	return row.New(16).Add(
		col.New(12).Add(
			text.New("SOLICITANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.DisplayName(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Empleado: %s   |   Tipo: %s   |   Jerarquía: %s",
				p.EmployeeID,
				nonEmpty(p.UserType, "-"),
				nonEmpty(hierarchy, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func rolesRow(roles []string) core.Row {
	return row.New(10).Add(
		col.New(2).Add(text.New("Roles:", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		})),
		col.New(10).Add(text.New(nonEmpty(strings.Join(roles, ", "), "sin roles"), props.Text{
			Size: 9, Top: 2,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Permiso", 8, align.Left),
		h("Catálogo", 3, align.Center),
	)
}

// permissionRows una fila por permiso; los códigos fuera del catálogo se marcan.
func permissionRows(perms []string) []core.Row {
	if len(perms) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(text.New(
			"El solicitante no tiene permisos asignados.",
			props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorWarn},
		)))}
	}
	result := make([]core.Row, 0, len(perms))
	for i, p := range perms {
		catalog := "conocido"
		style := props.Text{Size: 8, Align: align.Center, Top: 1}
		if !entity.Permission(p).Known() {
			catalog = "desconocido"
			style.Color = colorWarn
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(p, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(catalog, style)),
		))
	}
	return result
}

// footerRow: QR con el identificador + leyenda.
func footerRow(doc reports.ExportDocument) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(doc.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento de uso interno generado por Ops Hub.", props.Text{
				Size: 8, Top: 2, Left: 3, Color: colorGray,
			}),
			text.New("Refleja los accesos vigentes en el momento de la exportación.", props.Text{
				Size: 6.5, Top: 9, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
