// =============================================================================
// Order Document Generator - Shared Command Helpers
// =============================================================================
//
// Helpers used by the vendor commands to read field files and HTML inputs,
// apply the configured field rules, and hand finished documents to the
// result sink and the job history.
//
// FIELD FILES:
//   Field files are flat YAML (or JSON) mappings of field name to value.
//   Key order is preserved so option groups stay in file order:
//
//	product_title: 접이식 의자
//	option_count: 2
//	option_1_name: 블랙
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/fieldrules"
	"github.com/ginjaninja78/orderdoc/internal/preview"
	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
	"github.com/ginjaninja78/orderdoc/pkg/utils"
)

// inputFlags are the field input flags shared by the converting commands.
type inputFlags struct {
	fields    string
	html      string
	fromInput int64
	noSave    bool
	stdout    bool
	preview   bool
}

func (f *inputFlags) register(cmd *cobra.Command, withHTML bool) {
	cmd.Flags().StringVar(&f.fields, "fields", "", "YAML file with the field values")
	if withHTML {
		cmd.Flags().StringVar(&f.html, "html", "", "HTML source file to rewrite")
	}
	cmd.Flags().Int64Var(&f.fromInput, "from-input", 0, "Start from a saved input (see 'history inputs')")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not save the field values to the history")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "Print the document instead of writing a file")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "Render the document as text in the terminal")
}

// =============================================================================
// INPUT
// =============================================================================

// readFieldFile parses a YAML field file. An empty path yields an empty map.
func readFieldFile(path string) (*types.FieldMap, error) {
	fm := types.NewFieldMap()
	if path == "" {
		return fm, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field file: %w", err)
	}
	if err := yaml.Unmarshal(data, fm); err != nil {
		return nil, fmt.Errorf("failed to parse field file %s: %w", path, err)
	}
	return fm, nil
}

// readHTML reads an HTML source file. The empty path is reported as
// missing input.
func readHTML(path, name string) (string, error) {
	if path == "" {
		return "", validation.Missing(name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// loadFields builds the field map for a conversion: the saved input (if
// any), overlaid by the field file, then coerced by the vendor rules and
// checked against rules.
func loadFields(ctx context.Context, vendor string, in inputFlags, rules []validation.Rule) (*types.FieldMap, error) {
	fm := types.NewFieldMap()
	if in.fromInput > 0 {
		if err := env.history.LoadInput(ctx, in.fromInput, fm); err != nil {
			return nil, fmt.Errorf("failed to load saved input %d: %w", in.fromInput, err)
		}
	}

	file, err := readFieldFile(in.fields)
	if err != nil {
		return nil, err
	}
	fm.Merge(file)

	if err := fieldrules.ForVendor(env.cfg, vendor).Apply(fm); err != nil {
		return nil, fmt.Errorf("failed to apply field rules: %w", err)
	}

	result := validation.NewValidator(rules).Validate(fm)
	for _, w := range result.Warnings() {
		env.log.Warn("%v", w)
	}
	if err := reportInvalid(os.Stderr, result); err != nil {
		return nil, err
	}

	if !in.noSave && fm.Len() > 0 {
		id, err := env.history.SaveInput(ctx, vendor, fm)
		if err != nil {
			env.log.Warn("failed to save input: %v", err)
		} else {
			env.log.Debug("saved input %d", id)
		}
	}
	return fm, nil
}

// reportInvalid lists every blocking finding on w and returns an error
// wrapping the first one.
func reportInvalid(w io.Writer, result *validation.ValidationResult) error {
	err := result.Err()
	if err == nil {
		return nil
	}
	blocking := result.Blocking()
	fmt.Fprint(w, validation.FormatErrors(blocking))
	return fmt.Errorf("%d field(s) failed validation: %w", len(blocking), err)
}

// =============================================================================
// OUTPUT
// =============================================================================

// finish turns a converter result into a file (or stdout), reports the
// anchors that were not found, and records the job.
func finish(cmd *cobra.Command, in inputFlags, res types.ConversionResult, diag *domtree.Diagnostics) error {
	if err := types.FailureError(res.Document); err != nil {
		return err
	}
	if diag != nil {
		res.Missing = diag.Missing()
	}
	for _, field := range res.Missing {
		env.log.Warn("%s: anchor for %q not found, left unchanged", res.Vendor, field)
	}

	out := cmd.OutOrStdout()
	if in.preview {
		text, err := preview.New(preview.StyleAuto, 0).Render(res.Document)
		if err != nil {
			env.log.Warn("preview failed: %v", err)
		} else {
			fmt.Fprintln(out, text)
		}
	}
	if in.stdout {
		fmt.Fprintln(out, res.Document)
		return record(cmd.Context(), res, "")
	}

	path, err := env.files.WriteResult(res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  ✓ %s\n", path)
	if len(res.Missing) > 0 {
		fmt.Fprintf(out, "    not found: %s\n", strings.Join(res.Missing, ", "))
	}
	return record(cmd.Context(), res, path)
}

func record(ctx context.Context, res types.ConversionResult, path string) error {
	meta := map[string]string{"kind": res.Kind}
	if path != "" {
		meta["output_file"] = path
	}
	if len(res.Missing) > 0 {
		meta["missing"] = strings.Join(res.Missing, ",")
	}
	desc := fmt.Sprintf("%s 변환", types.KindLabel(res.Kind))
	if _, err := env.history.RecordJob(ctx, res.Vendor, desc, meta); err != nil {
		env.log.Warn("failed to record job: %v", err)
	}
	return nil
}

// suggest builds the download name of a text document in the configured
// time zone.
func suggest(product, kind string) string {
	return utils.SuggestFilename(time.Now().In(env.cfg.Location()), product, types.KindLabel(kind))
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
