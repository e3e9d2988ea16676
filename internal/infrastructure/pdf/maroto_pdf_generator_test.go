package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opshub/internal/application/reports"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/infrastructure/pdf"
)

func sampleDocument() reports.ExportDocument {
	return reports.ExportDocument{
		ID: "EXP-2024-001",
		RequestedBy: entity.UserProfile{
			EmployeeID: "EMP004",
			Username:   "admin",
			FullName:   "Admin User",
			UserType:   "ADMIN",
			CircleName: "Uttar Pradesh",
		},
		Roles:       []string{"ADMIN"},
		Permissions: []string{"EXPORT_REPORTS", "VIEW_REPORTS", "LEGACY_CODE"},
		GeneratedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestExportPDF_GeneraDocumentoPDF(t *testing.T) {
	out, err := pdf.NewExportPDFGenerator().GenerateExportPDF(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestExportPDF_SinPermisosTambienGenera(t *testing.T) {
	doc := sampleDocument()
	doc.Roles = nil
	doc.Permissions = nil
	out, err := pdf.NewExportPDFGenerator().GenerateExportPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestExportPDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewExportPDFGenerator().GenerateExportPDF(ctx, sampleDocument())
	assert.ErrorIs(t, err, context.Canceled)
}
