// =============================================================================
// Order Document Generator - Furniture Commands
// =============================================================================
//
// COMMAND USAGE:
//   orderdoc furniture split <orders.xlsx> [--in-place] [--report]
//   orderdoc furniture catalog [--sample N]
//
// The split command copies the order sheet into the output directory as
// howser_result_<timestamp>.xlsx and rewrites the copy: multi-item rows are
// split into item/quantity column pairs, product names are replaced by
// catalog numbers, and rows with unknown products are moved to the bottom
// in red. With --in-place the given file is rewritten instead.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orderdoc/internal/furniture"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

var (
	splitInPlace  bool
	splitReport   bool
	catalogSample int
)

var furnitureCmd = &cobra.Command{
	Use:   "furniture",
	Short: "Convert furniture retailer order sheets",
}

var furnitureSplitCmd = &cobra.Command{
	Use:   "split <orders.xlsx>",
	Short: "Split multi-item rows and replace product names by catalog numbers",
	Args:  cobra.ExactArgs(1),
	RunE:  runFurnitureSplit,
}

var furnitureCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the loaded reference catalog",
	Args:  cobra.NoArgs,
	RunE:  runFurnitureCatalog,
}

func init() {
	furnitureSplitCmd.Flags().BoolVar(&splitInPlace, "in-place", false, "Rewrite the given file instead of a copy")
	furnitureSplitCmd.Flags().BoolVar(&splitReport, "report", false, "Also write a summary workbook of every item")
	furnitureCatalogCmd.Flags().IntVar(&catalogSample, "sample", 5, "Number of catalog entries to print")

	furnitureCmd.AddCommand(furnitureSplitCmd, furnitureCatalogCmd)
	rootCmd.AddCommand(furnitureCmd)
}

func runFurnitureSplit(cmd *cobra.Command, args []string) error {
	src := args[0]
	if ext := strings.ToLower(filepath.Ext(src)); ext != ".xlsx" && ext != ".xlsm" {
		return fmt.Errorf("%s: only .xlsx workbooks are supported", filepath.Base(src))
	}

	catalog, err := furniture.Open(env.cfg.Catalog, env.log)
	if err != nil {
		return err
	}

	now := time.Now().In(env.cfg.Location())
	target := src
	if !splitInPlace {
		target, err = env.files.CopyToOutput(src, furniture.ReportFilename(now))
		if err != nil {
			return err
		}
	}

	report, err := furniture.NewSplitter(catalog, env.log).SplitFile(target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  ✓ %s\n", target)
	fmt.Fprintf(out, "    rows: %d, items: %d, unmatched: %d\n", report.Rows, len(report.Items), report.Unmatched())
	for _, it := range report.Items {
		if it.Matched() {
			continue
		}
		fmt.Fprintf(out, "    ✗ %s\n", it.Error)
		for _, e := range catalog.Suggest(it.ProductName, 3) {
			fmt.Fprintf(out, "      ? (%s) %s (%s) -> %s\n", e.Model, e.Color, e.Height, e.Number)
		}
	}

	meta := map[string]string{
		"input_file":  filepath.Base(src),
		"output_file": target,
		"unmatched":   fmt.Sprint(report.Unmatched()),
	}
	if splitReport {
		name := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target)) + "_summary.xlsx"
		path := filepath.Join(env.files.OutputDir, name)
		if err := furniture.WriteReport(path, report.Items); err != nil {
			return err
		}
		fmt.Fprintf(out, "  ✓ %s\n", path)
		meta["report_file"] = path
	}

	if _, err := env.history.RecordJob(cmd.Context(), types.VendorFurniture, "엑셀 파일 변환", meta); err != nil {
		env.log.Warn("failed to record job: %v", err)
	}
	return nil
}

func runFurnitureCatalog(cmd *cobra.Command, args []string) error {
	catalog, err := furniture.Open(env.cfg.Catalog, env.log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "catalog: %s\n", env.cfg.Catalog.Path)
	fmt.Fprintf(out, "entries: %d\n", catalog.Len())
	for _, e := range catalog.Sample(catalogSample) {
		fmt.Fprintf(out, "  %-12s %-8s %-6s %s\n", e.Model, e.Color, e.Height, e.Number)
	}
	return nil
}
