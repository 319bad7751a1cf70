package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/impact-cli/internal/catalog"
	"github.com/sells-group/impact-cli/internal/export"
	"github.com/sells-group/impact-cli/internal/model"
	"github.com/sells-group/impact-cli/internal/pipeline"
)

// Output formats accepted by analyze --format.
const (
	formatJSON = "json"
	formatText = "text"
	formatXLSX = "xlsx"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one proposed building from a JSON request file",
	Long:  "Reads a BuildingRequest JSON document (use - for stdin), runs every impact calculator, and prints the result.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, _ := cmd.Flags().GetString("input")
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		noReport, _ := cmd.Flags().GetBool("no-report")
		save, _ := cmd.Flags().GetBool("save")

		if format != formatJSON && format != formatText && format != formatXLSX {
			return eris.Errorf("analyze: unknown format %q (want json, text or xlsx)", format)
		}
		if format == formatXLSX && out == "" {
			return eris.New("analyze: --out is required for xlsx output")
		}

		req, err := readRequest(input, cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initApp(ctx, "analyze", save || cfg.Catalog.Source == catalog.SourcePostgres)
		if err != nil {
			return err
		}
		defer env.Close()

		resp, err := env.Pipeline.Run(ctx, req, pipeline.RunOptions{SkipReport: noReport, SkipSave: !save})
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
			return writeAnalysis(w, format, resp)
		})
	},
}

// writeOutput runs write against stdout, or against the file at path when
// path is set. A failed close of the file is returned.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(f)
}

func readRequest(path string, stdin io.Reader) (model.BuildingRequest, error) {
	var req model.BuildingRequest

	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return req, eris.Wrapf(err, "analyze: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, eris.Wrapf(model.ErrInvalidInput, "decode %s: %v", path, err)
	}
	return req, nil
}

func writeAnalysis(w io.Writer, format string, resp *model.BuildingAnalysisResponse) error {
	switch format {
	case formatXLSX:
		return export.WriteXLSX(w, resp)
	case formatText:
		return writeText(w, resp)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
}

func writeText(w io.Writer, r *model.BuildingAnalysisResponse) error {
	status := "compliant"
	if !r.Zoning.Compliant {
		status = "NOT compliant"
	}
	_, _ = fmt.Fprintf(w, "Building %s: %d units, %d stories, zone %s (%s)\n",
		r.BuildingID, r.Building.Units, r.Building.Stories, r.Zoning.Zone, status)
	_, _ = fmt.Fprintf(w, "Bottlenecks: %d\n", len(r.Bottlenecks))
	for _, b := range r.Bottlenecks {
		_, _ = fmt.Fprintf(w, "  [%s] %s: %s\n", b.Severity, b.Type, b.Message)
	}

	if r.AIReport != nil {
		_, _ = fmt.Fprintf(w, "\n%s\n", r.AIReport.AISummary)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().String("input", "", "path to a BuildingRequest JSON file, or - for stdin")
	analyzeCmd.Flags().String("format", formatJSON, "output format: json, text or xlsx")
	analyzeCmd.Flags().String("out", "", "write output to this file instead of stdout")
	analyzeCmd.Flags().Bool("no-report", false, "skip the planning narrative")
	analyzeCmd.Flags().Bool("save", false, "store the result in the analysis history")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}
