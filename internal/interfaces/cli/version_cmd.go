package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(sh *Shell) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Versión del cliente",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(_ *cobra.Command, _ []string) {
			v := sh.Version
			if v == "" {
				v = "dev"
			}
			if sh.jsonOut {
				_ = sh.printJSON(map[string]string{"version": v, "go": runtime.Version()})
				return
			}
			sh.printf("opshub %s (%s)\n", v, runtime.Version())
		},
	}
}
