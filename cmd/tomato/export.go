package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"tomato/internal/app"
	"tomato/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions, tasks and stats",
		Long: `Export every logged session, all tasks and the streak and focus totals.

Without --output the document is written to stdout. When --output names a
directory the file is called pomodoro-data-YYYY-MM-DD.<ext> inside it.`,
		Example: `  tomato export > backup.json
  tomato export --format markdown --output report.md
  tomato export --format csv --output .`,
		Args: cobra.NoArgs,
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "output format: json, markdown or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to FILE or directory instead of stdout")

	cmd.RunE = withController(opts, func(ctrl *app.Controller, out io.Writer, args []string) error {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		data, err := export.Render(ctrl.ExportDocument(), f)
		if err != nil {
			return err
		}

		if output == "" {
			_, err := out.Write(data)
			return err
		}

		path := output
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, export.DefaultFilename(time.Now(), f))
		}
		if err := export.WriteFile(path, data); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported to %s\n", path)
		return nil
	})
	return cmd
}
