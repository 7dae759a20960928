package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
)

var printer = message.NewPrinter(language.English)

type rankOptions struct {
	data    string
	weights []string
	filter  string
	top     int
	format  string
	details bool
}

func newRankCommand(a *app) *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the alternatives of a CSV file",
		Long: `Rank the alternatives of a CSV file with the configured criteria.

Weights can be overridden per criterion with --weight "Name=3" (1 to 5) and
the alternatives narrowed with --filter "Name:min:max" before scoring.`,
		Example: `  topsis rank --data data/smartphones.csv
  topsis rank --weight "Price (million IDR)=2" --filter "Price (million IDR):2:8" --top 5
  topsis rank --format json --details`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.rank(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "CSV file to rank (default dataset.path)")
	cmd.Flags().StringArrayVarP(&opts.weights, "weight", "w", nil, `weight override "Name=value", repeatable`)
	cmd.Flags().StringVar(&opts.filter, "filter", "", `inclusive range "Name:min:max" on one criterion`)
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "number of alternatives in the top list (default ranking.default_top_n)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format: table or json")
	cmd.Flags().BoolVar(&opts.details, "details", false, "also print the intermediate matrices and ideal solutions")

	return cmd
}

func (a *app) rank(cmd *cobra.Command, opts *rankOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return asConfigError(fmt.Errorf("unsupported format %q: must be table or json", opts.format))
	}
	req, err := opts.request()
	if err != nil {
		return asConfigError(err)
	}

	path := opts.data
	if path == "" {
		path = a.cfg.Dataset.Path
	}
	source := &dataset.CSVSource{
		Path:             path,
		IDColumn:         a.cfg.Dataset.IDColumn,
		Columns:          a.cfg.Criteria.Names(),
		ImageURLTemplate: a.cfg.Dataset.ImageURLTemplate,
	}
	svc := ranking.New(source, a.cfg.Criteria, a.engine(), nil, a.rankingOptions(), a.logger)

	report, err := svc.Rank(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(out, report, opts.details)
	return nil
}

func (o *rankOptions) request() (ranking.Request, error) {
	req := ranking.Request{TopN: o.top}
	if len(o.weights) > 0 {
		req.Weights = make(map[string]float64, len(o.weights))
		for _, s := range o.weights {
			name, w, err := parseWeight(s)
			if err != nil {
				return req, err
			}
			req.Weights[name] = w
		}
	}
	if o.filter != "" {
		f, err := parseFilter(o.filter)
		if err != nil {
			return req, err
		}
		req.Filter = &f
	}
	return req, nil
}

// parseWeight reads "Name=value". The name may itself contain '='.
func parseWeight(s string) (string, float64, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("invalid weight %q: want Name=value", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid weight %q: %w", s, err)
	}
	return strings.TrimSpace(s[:i]), w, nil
}

// parseFilter reads "Name:min:max". Bounds are split off from the right so
// names may contain ':'.
func parseFilter(s string) (dataset.RangeFilter, error) {
	var f dataset.RangeFilter
	hi := strings.LastIndex(s, ":")
	if hi <= 0 {
		return f, fmt.Errorf("invalid filter %q: want Name:min:max", s)
	}
	lo := strings.LastIndex(s[:hi], ":")
	if lo <= 0 {
		return f, fmt.Errorf("invalid filter %q: want Name:min:max", s)
	}
	minV, err := strconv.ParseFloat(strings.TrimSpace(s[lo+1:hi]), 64)
	if err != nil {
		return f, fmt.Errorf("invalid filter minimum in %q: %w", s, err)
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(s[hi+1:]), 64)
	if err != nil {
		return f, fmt.Errorf("invalid filter maximum in %q: %w", s, err)
	}
	if minV > maxV {
		return f, fmt.Errorf("invalid filter %q: minimum is greater than maximum", s)
	}
	f.Criterion = strings.TrimSpace(s[:lo])
	f.Min, f.Max = minV, maxV
	return f, nil
}

func printReport(w io.Writer, r *ranking.Report, details bool) {
	fmt.Fprintf(w, "\nTOPSIS ranking: %d of %d alternatives\n", r.Shown, r.Total)
	if r.Filter != nil {
		fmt.Fprintf(w, "Filter: %s in [%s, %s]\n", r.Filter.Criterion, num(r.Filter.Min), num(r.Filter.Max))
	}
	fmt.Fprintln(w)

	labelWidth := len("Alternative")
	for _, e := range r.Top {
		labelWidth = max(labelWidth, runewidth.StringWidth(e.Label))
	}

	fmt.Fprintf(w, "%-4s  %s  %s\n", "Rank", padRight("Alternative", labelWidth), "Score")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", 4+2+labelWidth+2+6))
	for _, e := range r.Top {
		fmt.Fprintf(w, "%-4d  %s  %s\n", e.Rank, padRight(e.Label, labelWidth), e.DisplayScore)
	}

	if r.Winner != nil {
		fmt.Fprintf(w, "\nWinner: %s (score %s)\n", r.Winner.Label, r.Entries[0].DisplayScore)
		if r.Winner.ImageURL != "" {
			fmt.Fprintf(w, "Image:  %s\n", r.Winner.ImageURL)
		}
		nameWidth := 0
		for _, ax := range r.Winner.Axes {
			nameWidth = max(nameWidth, runewidth.StringWidth(ax.Criterion))
		}
		for _, ax := range r.Winner.Axes {
			fmt.Fprintf(w, "  %s  %12s  %s %.2f\n",
				padRight(ax.Criterion, nameWidth), num(ax.Raw), bar(ax.Value, 20), ax.Value)
		}
	}

	for _, n := range r.Notes {
		fmt.Fprintf(w, "\nNote: %s", n)
	}
	if len(r.Notes) > 0 {
		fmt.Fprintln(w)
	}

	if details {
		printMatrix(w, "Normalized matrix", r.Normalized)
		printMatrix(w, "Weighted matrix", r.Weighted)
		printVector(w, "Ideal positive", r.Weighted.Columns, r.IdealPositive)
		printVector(w, "Ideal negative", r.Weighted.Columns, r.IdealNegative)
	}
	fmt.Fprintln(w)
}

func printMatrix(w io.Writer, title string, m ranking.LabelledMatrix) {
	fmt.Fprintf(w, "\n%s\n", title)
	labelWidth := 0
	for _, l := range m.Rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}
	widths := columnWidths(m.Columns)

	fmt.Fprint(w, padRight("", labelWidth))
	for j, c := range m.Columns {
		fmt.Fprintf(w, "  %s", padLeft(c, widths[j]))
	}
	fmt.Fprintln(w)
	for i, row := range m.Values {
		fmt.Fprint(w, padRight(m.Rows[i], labelWidth))
		for j, v := range row {
			fmt.Fprintf(w, "  %s", padLeft(fmt.Sprintf("%.4f", v), widths[j]))
		}
		fmt.Fprintln(w)
	}
}

func printVector(w io.Writer, title string, columns []string, v []float64) {
	fmt.Fprintf(w, "\n%s\n", title)
	width := 0
	for _, c := range columns {
		width = max(width, runewidth.StringWidth(c))
	}
	for j, c := range columns {
		fmt.Fprintf(w, "  %s  %.4f\n", padRight(c, width), v[j])
	}
}

func columnWidths(columns []string) []int {
	out := make([]int, len(columns))
	for j, c := range columns {
		out[j] = max(runewidth.StringWidth(c), 6)
	}
	return out
}

// num formats a raw criterion value with thousands separators.
func num(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func bar(v float64, width int) string {
	n := int(v*float64(width) + 0.5)
	n = max(0, min(n, width))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}
