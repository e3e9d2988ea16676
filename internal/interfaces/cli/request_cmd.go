package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/opshub/internal/infrastructure/opshub"
)

func newRequestCommand(sh *Shell) *cobra.Command {
	var (
		data    string
		headers []string
		query   []string
	)
	cmd := &cobra.Command{
		Use:   "request METHOD ENDPOINT",
		Short: "Petición autenticada a cualquier endpoint de la API",
		Long: `Envía una petición con el token de la sesión y la misma política de errores
que el resto del cliente: un 401 cierra la sesión.

--data acepta JSON literal, @archivo o @- para leer de stdin.

Examples:
  opshub request GET /customers -q page=0 -q size=20
  opshub request POST /visits --data @visita.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := opshub.RequestOptions{Method: strings.ToUpper(args[0])}

			body, err := sh.readData(data)
			if err != nil {
				return err
			}
			if body != nil && !json.Valid(body) {
				return fmt.Errorf("%w: --data is not valid JSON", errUsage)
			}
			opts.Body = body

			if opts.Headers, err = parsePairs(headers, ":"); err != nil {
				return err
			}
			q, err := parsePairs(query, "=")
			if err != nil {
				return err
			}
			if len(q) > 0 {
				opts.Query = url.Values{}
				for k, v := range q {
					opts.Query.Set(k, v)
				}
			}

			raw, err := sh.client.Request(cmd.Context(), args[1], opts)
			if err != nil {
				return err
			}
			return sh.printRaw(raw)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "cuerpo JSON, @archivo o @-")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `cabecera "Nombre: valor" (repetible)`)
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "parámetro clave=valor (repetible)")
	return cmd
}

func newUploadCommand(sh *Shell) *cobra.Command {
	var (
		field  string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "upload ENDPOINT FILE",
		Short: "Subir un archivo como multipart/form-data",
		Long: `Sube FILE en el campo --field (por defecto "file") junto con los campos -F.

Examples:
  opshub upload /customers/upload clientes.xlsx
  opshub upload /visits/42/photos foto.jpg --field photo -F caption=fachada`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := parsePairs(fields, "=")
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("abrir %s: %w", args[1], err)
			}
			defer f.Close()

			raw, err := sh.client.Upload(cmd.Context(), args[0], form, opshub.UploadFile{
				Field:   field,
				Name:    filepath.Base(args[1]),
				Content: f,
			})
			if err != nil {
				return err
			}
			return sh.printRaw(raw)
		},
	}
	cmd.Flags().StringVar(&field, "field", "file", "nombre del campo del archivo")
	cmd.Flags().StringArrayVarP(&fields, "form", "F", nil, "campo clave=valor (repetible)")
	return cmd
}

// readData interpreta --data: vacío, literal, @archivo o @- (stdin).
func (sh *Shell) readData(data string) ([]byte, error) {
	switch {
	case data == "":
		return nil, nil
	case data == "@-":
		b, err := io.ReadAll(sh.In)
		if err != nil {
			return nil, fmt.Errorf("leer stdin: %w", err)
		}
		return b, nil
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", data[1:], err)
		}
		return b, nil
	default:
		return []byte(data), nil
	}
}

func parsePairs(pairs []string, sep string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, sep)
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q must be key%svalue", errUsage, p, sep)
		}
		if sep == ":" {
			k = http.CanonicalHeaderKey(k)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
