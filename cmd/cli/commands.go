package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"popdash/internal/format"
	"popdash/ports"
)

func newRegionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the regions in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			regions, err := opts.container.Dashboard.Regions(cmd.Context())
			if err != nil {
				return err
			}
			for _, region := range regions {
				fmt.Fprintln(cmd.OutOrStdout(), region)
			}
			return nil
		},
	}
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var regions []string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print latest-year totals and the filtered rows",
		Example: `  popdash summary
  popdash summary --region 東京都 --region 大阪府`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := opts.selection(cmd, regions)
			if err != nil {
				return err
			}
			view, err := opts.container.Dashboard.BuildView(cmd.Context(), sel)
			if err != nil {
				return err
			}

			cols := opts.container.Config.Data.Columns
			s := view.Summary
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%d年の合計%s: %s\n", s.LatestYear, cols.Population, format.Int(s.LatestTotal))
			if s.HasPrior {
				fmt.Fprintf(out, "%d年比: %s (%s)\n", s.PriorYear, format.Signed(s.Delta), format.Percent(s.DeltaPct))
			} else {
				fmt.Fprintf(out, "%d年のデータなし\n", s.PriorYear)
			}
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", cols.Region, cols.Year, cols.Population)
			for _, rec := range view.Filtered {
				fmt.Fprintf(w, "%s\t%d\t%s\t\n", rec.Region, rec.Year, format.Int(rec.Population))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringArrayVar(&regions, "region", nil, "region to include (repeatable; presets when omitted)")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var regions []string
	var exportFormat string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows as CSV (with BOM) or xlsx",
		Example: `  popdash export --region 北海道 --out hokkaido.csv
  popdash export --format xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := opts.selection(cmd, regions)
			if err != nil {
				return err
			}
			out, err := opts.container.Dashboard.Export(cmd.Context(), sel, exportFormat)
			if err != nil {
				return err
			}

			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(out.Body)
				return err
			}
			if outPath == "" {
				outPath = out.Filename
			}
			if err := os.WriteFile(outPath, out.Body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			cmd.Printf("wrote %s (%d bytes)\n", outPath, len(out.Body))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&regions, "region", nil, "region to include (repeatable; presets when omitted)")
	cmd.Flags().StringVar(&exportFormat, "format", ports.ExportFormatCSV, "csv or xlsx")
	cmd.Flags().StringVar(&outPath, "out", "", "output file, - for stdout (default population_<year>.<format>)")
	return cmd
}

func newChartsCmd(opts *rootOptions) *cobra.Command {
	var regions []string
	var chartFormat string
	var outDir string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render the line and bar charts to files",
		Example: `  popdash charts --out ./charts
  popdash charts --format svg --region 東京都`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := opts.selection(cmd, regions)
			if err != nil {
				return err
			}
			view, err := opts.container.Dashboard.BuildView(cmd.Context(), sel)
			if err != nil {
				return err
			}
			charts, err := opts.container.Dashboard.RenderCharts(cmd.Context(), view, chartFormat)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}
			files := map[string][]byte{
				"line." + charts.Format: charts.Line,
				"bar." + charts.Format:  charts.Bar,
			}
			for name, body := range files {
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, body, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
			}
			cmd.Printf("wrote line.%s and bar.%s to %s (※%d年時点)\n", charts.Format, charts.Format, outDir, view.LatestYear)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&regions, "region", nil, "region to include (repeatable; presets when omitted)")
	cmd.Flags().StringVar(&chartFormat, "format", ports.ChartFormatPNG, "png or svg")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}
