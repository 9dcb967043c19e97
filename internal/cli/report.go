package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/domain/view"
)

func newReportCmd(st *state) *cobra.Command {
	var (
		in     service.Input
		bounds = map[string]**int{
			"rank-min":   &in.RankMin,
			"rank-max":   &in.RankMax,
			"points-min": &in.PointsMin,
			"points-max": &in.PointsMax,
		}
		values = map[string]*int{}
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run one render pass and print every section as text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for flag, dst := range bounds {
				if cmd.Flags().Changed(flag) {
					*dst = values[flag]
				}
			}
			svc, err := st.newService()
			if err != nil {
				return err
			}
			page := svc.Render(cmd.Context(), in)
			if err := writeReport(cmd.OutOrStdout(), page); err != nil {
				return err
			}
			if n := countErrors(page); n > 0 {
				return fmt.Errorf("%w: %d failed sections", ErrRenderFail, n)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "All", "competitor name")
	f.StringVar(&in.Country, "country", "All", "country")
	f.StringVar(&in.Detail, "detail", "", "competitor to show details for (default: first filtered row)")
	for flag := range bounds {
		values[flag] = f.Int(flag, 0, strings.ReplaceAll(flag, "-", " ")+" bound (default: global limit)")
	}
	return cmd
}

func countErrors(p *view.Page) int {
	n := 0
	for _, notice := range p.Notices {
		if notice.Level == view.LevelError {
			n++
		}
	}
	return n
}

// reportWriter keeps the first write error so sections can be written
// without checking each line.
type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...any) {
	if r.err == nil {
		_, r.err = fmt.Fprintf(r.w, format, args...)
	}
}

func (r *reportWriter) heading(title string, p *view.Page, section string) {
	r.printf("\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	for _, n := range p.NoticesFor(section) {
		r.printf("! %s\n", n.Message)
	}
}

func (r *reportWriter) table(t view.Table, empty string) {
	if r.err != nil {
		return
	}
	if t.Empty() {
		r.printf("%s\n", empty)
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = strings.ToUpper(c)
	}
	_, r.err = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range t.Rows {
		if r.err != nil {
			return
		}
		_, r.err = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if r.err == nil {
		r.err = tw.Flush()
	}
}

func writeReport(w io.Writer, p *view.Page) error {
	r := &reportWriter{w: w}

	r.heading("Summary Statistics", p, service.SectionSummary)
	r.printf("Total Competitors:      %s\n", humanize.Comma(int64(p.Summary.TotalCompetitors)))
	r.printf("Countries Represented:  %s\n", humanize.Comma(int64(p.Summary.Countries)))
	r.printf("Highest Points:         %s\n", humanize.Comma(int64(p.Summary.MaxPoints)))
	for _, section := range []string{service.SectionOptions, service.SectionLimits} {
		for _, n := range p.NoticesFor(section) {
			r.printf("! %s\n", n.Message)
		}
	}

	r.heading("Filtered Competitors", p, service.SectionFilter)
	if len(p.Rows) > 0 {
		r.printf("Showing %d competitors based on the filters.\n", len(p.Rows))
	}
	r.table(view.FilteredTable(p.Rows), "No competitors found.")
	if p.Detail != nil {
		r.printf("\nDetails for %s\n", p.Detail.Name)
		for _, f := range p.Detail.Fields() {
			r.printf("  %-20s %s\n", f.Label+":", f.Value)
		}
	}

	r.heading("Competitor Stats by Country", p, service.SectionCountries)
	r.table(view.CountryTable(p.Countries), "No countries found.")

	r.heading(fmt.Sprintf("Top %d Competitors by Rank", p.LeaderboardSize), p, service.SectionTopByRank)
	r.table(view.LeaderTable(p.TopByRank), "No ranked competitors.")

	r.heading(fmt.Sprintf("Top %d Competitors by Points", p.LeaderboardSize), p, service.SectionTopByPoints)
	r.table(view.LeaderTable(p.TopByPoints), "No ranked competitors.")
	return r.err
}
