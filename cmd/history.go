// =============================================================================
// Order Document Generator - History Commands
// =============================================================================
//
// COMMAND USAGE:
//   orderdoc history list [--limit N]
//   orderdoc history delete <id>
//   orderdoc history clear
//   orderdoc history inputs [--tool wholesale] [--date 2025-06-02]
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orderdoc/internal/history"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

var (
	historyLimit int
	inputsTool   string
	inputsDate   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and manage the job history and saved inputs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := env.history.ListJobs(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(jobs) == 0 {
			fmt.Fprintln(out, "No jobs recorded.")
			return nil
		}
		for _, j := range jobs {
			fmt.Fprintf(out, "%5d  %-10s %-20s %s  (%s)\n",
				j.ID, j.Tool, j.Description, formatMeta(j.Metadata), humanize.Time(j.CreatedAt))
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := env.history.DeleteJob(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted job %d.\n", id)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := env.history.ClearJobs(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s job(s).\n", humanize.Comma(n))
		return nil
	},
}

var historyInputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "List the field inputs saved on a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := env.cfg.Location()
		day := time.Now().In(loc)
		if inputsDate != "" {
			d, err := time.ParseInLocation("2006-01-02", inputsDate, loc)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", inputsDate, err)
			}
			day = d
		}

		inputs, err := env.history.SavedInputs(cmd.Context(), inputsTool, day)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(inputs) == 0 {
			fmt.Fprintf(out, "No %s inputs saved on %s.\n", inputsTool, day.Format("2006-01-02"))
			return nil
		}
		for _, in := range inputs {
			fm := types.NewFieldMap()
			summary := string(in.Data)
			if err := fm.UnmarshalJSON(in.Data); err == nil {
				summary = fmt.Sprintf("%d field(s)", fm.Len())
				if title := firstNonBlank(fm, "product_title", "product", "option_1_name"); title != "" {
					summary += ", " + title
				}
			}
			fmt.Fprintf(out, "%5d  %s  %s\n", in.ID, in.CreatedAt.In(loc).Format("15:04:05"), summary)
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultJobLimit, "Maximum number of jobs to list")
	historyInputsCmd.Flags().StringVar(&inputsTool, "tool", types.VendorWholesale, "Vendor whose inputs to list")
	historyInputsCmd.Flags().StringVar(&inputsDate, "date", "", "Day to list (YYYY-MM-DD, default today)")

	historyCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd, historyInputsCmd)
	rootCmd.AddCommand(historyCmd)
}

func formatMeta(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + meta[k]
	}
	return strings.Join(parts, " ")
}

func firstNonBlank(fm *types.FieldMap, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(fm.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
