package opshub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// UploadFile archivo a enviar en un formulario multipart.
type UploadFile struct {
	Field   string // nombre del campo; por defecto "file"
	Name    string
	Content io.Reader
}

// Download metadatos de una descarga ya escrita en el destino.
type Download struct {
	Bytes       int64
	ContentType string
	Filename    string
}

// Upload envía un formulario multipart. No fija Content-Type JSON, pero sí el bearer token
// y la misma política de errores que Request.
func (c *Client) Upload(ctx context.Context, endpoint string, fields map[string]string, file UploadFile) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("opshub: campo %s: %w", k, err)
		}
	}
	if file.Content != nil {
		field := file.Field
		if field == "" {
			field = "file"
		}
		part, err := mw.CreateFormFile(field, file.Name)
		if err != nil {
			return nil, fmt.Errorf("opshub: crear parte multipart: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("opshub: copiar archivo: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("opshub: cerrar multipart: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", mw.FormDataContentType())
	return c.roundTrip(ctx, http.MethodPost, endpoint, nil, header, &buf)
}

// DownloadURL URL de descarga con el token en la query. La navegación del navegador no puede
// llevar cabeceras; el token queda expuesto en logs y referers, preferir StreamDownload.
func (c *Client) DownloadURL(endpoint string) string {
	var q url.Values
	if token := c.store.Token(); token != "" {
		q = url.Values{"token": {token}}
	}
	return c.url(endpoint, q)
}

// ExportDownloadURL URL de descarga de una exportación de reportes.
func (c *Client) ExportDownloadURL(exportID string) string {
	return c.DownloadURL(exportEndpoint(exportID))
}

// OpenDownload abre la URL de descarga en el navegador del sistema. Fire-and-forget:
// no devuelve nada y los fallos solo se registran.
func (c *Client) OpenDownload(endpoint string) {
	u := c.DownloadURL(endpoint)
	if err := c.opener.Open(u); err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("no se pudo abrir la descarga")
	}
}

// OpenExport OpenDownload de /reports/exports/{id}/download.
func (c *Client) OpenExport(exportID string) {
	c.OpenDownload(exportEndpoint(exportID))
}

// StreamDownload descarga autenticada por cabecera y copia el cuerpo en w.
// Los errores siguen la misma política que Request, incluido el 401.
func (c *Client) StreamDownload(ctx context.Context, endpoint string, w io.Writer) (*Download, error) {
	resp, ex, err := c.send(ctx, http.MethodGet, endpoint, nil, http.Header{}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, rerr := c.readBody(ex, resp)
		if rerr != nil {
			return nil, rerr
		}
		_, ferr := c.finish(ex, resp.StatusCode, raw)
		return nil, ferr
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		c.logFailure(ex, resp.StatusCode, err)
		return nil, fmt.Errorf("opshub: descargar %s: %w", endpoint, err)
	}
	return &Download{
		Bytes:       n,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
	}, nil
}

// StreamExport StreamDownload de /reports/exports/{id}/download, autenticado por cabecera.
func (c *Client) StreamExport(ctx context.Context, exportID string, w io.Writer) (*Download, error) {
	return c.StreamDownload(ctx, exportEndpoint(exportID), w)
}

func exportEndpoint(exportID string) string {
	return "/reports/exports/" + url.PathEscape(exportID) + "/download"
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["filename"])
}
