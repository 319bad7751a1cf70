package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/catalog"
	"github.com/sells-group/impact-cli/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and load the reference catalog",
	Long:  "Commands for the schools, transit stations, intersections and zoning data the calculators run against.",
}

// -- catalog summary --

var catalogSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print entity counts of the configured catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var st store.Store
		if cfg.Catalog.Source == catalog.SourcePostgres {
			var err error
			if st, err = initStore(ctx); err != nil {
				return err
			}
			if st != nil {
				defer st.Close() //nolint:errcheck
			}
		}

		cat, err := initCatalog(ctx, st)
		if err != nil {
			return eris.Wrap(err, "catalog summary")
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cat.Counts())
		}
		formatCatalogCounts(cmd.OutOrStdout(), cat.Counts())
		return nil
	},
}

// -- catalog load --

var catalogLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Copy the configured catalog into Postgres",
	Long:  "Replaces the catalog.* tables with the file catalog (and zoning shapefile, if set) using COPY.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("catalog-load"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		pool := storePool(st)
		if pool == nil {
			return eris.New("catalog load: store is not postgres")
		}

		cat, err := initCatalog(ctx, nil)
		if err != nil {
			return eris.Wrap(err, "catalog load")
		}
		if err := catalog.CopyToPostgres(ctx, pool, cat); err != nil {
			return eris.Wrap(err, "catalog load")
		}

		zap.L().Info("catalog loaded into postgres", zap.Any("counts", cat.Counts()))
		return nil
	},
}

func formatCatalogCounts(out io.Writer, c catalog.Counts) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LAYER\tCOUNT")
	_, _ = fmt.Fprintf(w, "schools\t%d\n", c.Schools)
	_, _ = fmt.Fprintf(w, "marta-stations\t%d\n", c.Stations)
	_, _ = fmt.Fprintf(w, "intersections\t%d\n", c.Intersections)
	_, _ = fmt.Fprintf(w, "zoning-rules\t%d\n", c.ZoningRules)
	_, _ = fmt.Fprintf(w, "zones\t%d\n", c.Zones)
	_ = w.Flush()
}

func init() {
	catalogSummaryCmd.Flags().Bool("json", false, "print counts as JSON")

	catalogCmd.AddCommand(catalogSummaryCmd)
	catalogCmd.AddCommand(catalogLoadCmd)
	rootCmd.AddCommand(catalogCmd)
}
