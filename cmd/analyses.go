package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/impact-cli/internal/model"
	"github.com/sells-group/impact-cli/internal/store"
)

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Inspect the analysis history",
	Long:  "Commands for listing and viewing stored building analyses.",
}

// -- analyses list --

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		zone, _ := cmd.Flags().GetString("zone")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		list, err := st.ListAnalyses(ctx, store.AnalysisFilter{Zone: zone, Limit: limit, Offset: offset})
		if err != nil {
			return eris.Wrap(err, "analyses list")
		}

		if len(list) == 0 {
			fmt.Fprintln(os.Stderr, "No analyses found.")
			return nil
		}

		formatAnalysesList(cmd.OutOrStdout(), list)
		return nil
	},
}

// -- analyses show --

var analysesShowCmd = &cobra.Command{
	Use:   "show <building-id>",
	Short: "Show the full stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		resp, err := st.GetAnalysis(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "analyses show")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

// formatAnalysesList writes a tabular list of analyses to out.
func formatAnalysesList(out io.Writer, list []model.AnalysisSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tZONE\tTYPE\tUNITS\tSTORIES\tCOMPLIANT\tBOTTLENECKS\tCREATED")
	for _, a := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\t%d\t%s\n",
			a.BuildingID, a.Zone, a.Type, a.Units, a.Stories, a.Compliant, a.Bottlenecks,
			a.CreatedAt.Format(time.RFC3339),
		)
	}
	_ = w.Flush()
}

func init() {
	analysesListCmd.Flags().String("zone", "", "filter by zone code")
	analysesListCmd.Flags().Int("limit", 50, "max number of analyses to display")
	analysesListCmd.Flags().Int("offset", 0, "number of analyses to skip")

	analysesCmd.AddCommand(analysesListCmd)
	analysesCmd.AddCommand(analysesShowCmd)
	rootCmd.AddCommand(analysesCmd)
}
