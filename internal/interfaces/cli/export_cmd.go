package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportsCommand(sh *Shell) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Exportaciones de reportes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newExportDownloadCommand(sh))
	return cmd
}

func newExportDownloadCommand(sh *Shell) *cobra.Command {
	var (
		output  string
		browser bool
	)
	cmd := &cobra.Command{
		Use:   "download EXPORT_ID",
		Short: "Descargar una exportación",
		Long: `Descarga la exportación con el token en la cabecera y la escribe en --output
(por defecto el nombre que propone el servidor).

Con --open se abre la URL de descarga en el navegador, con el token en la query;
esa URL queda en el historial del navegador.

Examples:
  opshub exports download 42
  opshub exports download 42 -o informe.pdf
  opshub exports download 42 --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if browser {
				sh.client.OpenExport(id)
				sh.printf("Opened %s in the browser.\n", id)
				return nil
			}

			// Se escribe en un temporal y se renombra: un 401 o un 404 no deja basura.
			dir := "."
			if output != "" {
				dir = filepath.Dir(output)
			}
			tmp, err := os.CreateTemp(dir, ".opshub-export-*")
			if err != nil {
				return fmt.Errorf("crear archivo temporal: %w", err)
			}
			defer os.Remove(tmp.Name())

			dl, err := sh.client.StreamExport(cmd.Context(), id, tmp)
			if cerr := tmp.Close(); err == nil && cerr != nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			target := output
			if target == "" {
				target = dl.Filename
				if target == "" {
					target = "export-" + id
				}
				target = filepath.Base(target)
			}
			if err := os.Rename(tmp.Name(), target); err != nil {
				return fmt.Errorf("guardar %s: %w", target, err)
			}
			if sh.jsonOut {
				return sh.printJSON(map[string]any{"file": target, "bytes": dl.Bytes, "contentType": dl.ContentType})
			}
			sh.printf("Saved %s (%d bytes)\n", target, dl.Bytes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo destino")
	cmd.Flags().BoolVar(&browser, "open", false, "abrir en el navegador en lugar de descargar")
	return cmd
}
