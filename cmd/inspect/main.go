package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainfetch/internal/export"
	"chainfetch/internal/logging"
	"chainfetch/internal/summary"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	var rows int
	var logLevel string

	cmd := &cobra.Command{
		Use:           "inspect [path]",
		Short:         "Summarize an exported option chain CSV",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logLevel, "text")

			path := "data/option_chain_sample.csv"
			if len(args) == 1 {
				path = args[0]
			}
			return inspect(stdout, path, rows)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 10, "number of rows to preview, 0 for none")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

func inspect(w io.Writer, path string, preview int) error {
	rows, err := export.ReadFile(path)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": path, "rows": len(rows)}).Debug("loaded chain")

	fmt.Fprintf(w, "%s: %d rows\n", path, len(rows))
	summary.RenderSides(w, summary.BySide(rows))
	if preview > 0 && len(rows) > 0 {
		summary.RenderTable(w, rows, preview)
	}
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}
