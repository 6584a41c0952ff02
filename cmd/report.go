package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintReport writes a human-readable summary of r.
func PrintReport(w io.Writer, r *RunResult) {
	m := r.Metrics

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Run %s (%s)", r.RunID, r.Config.Queue)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Events fired", humanize.Comma(m.EventsFired)},
		{"Batches", humanize.Comma(m.Batches)},
		{"Distinct times", humanize.Comma(m.DistinctTimes)},
		{"Mean batch", fmt.Sprintf("%.3f", m.MeanBatch())},
		{"Max batch", humanize.Comma(int64(m.MaxBatch))},
		{"Scheduled", humanize.Comma(m.Scheduled)},
		{"Cancelled", humanize.Comma(m.Cancelled)},
		{"Rescheduled", humanize.Comma(m.Rescheduled)},
		{"Peak pending", humanize.Comma(int64(m.PeakPending))},
		{"Pending at end", humanize.Comma(int64(m.PendingAtEnd))},
		{"Simulated time", fmt.Sprintf("%.4f", m.SimEndedTime)},
		{"Wall time", r.Wall.String()},
	})
	if r.Wall > 0 {
		rate := float64(m.EventsFired) / r.Wall.Seconds()
		tbl.AppendFooter(table.Row{"Events/s", humanize.Comma(int64(rate))})
	}
	tbl.Render()

	if r.Dsplay == nil {
		return
	}
	st := r.Dsplay.Stats()
	tiers := table.NewWriter()
	tiers.SetOutputMirror(w)
	tiers.SetStyle(table.StyleLight)
	tiers.SetTitle("Tiers")
	tiers.AppendHeader(table.Row{"Tier", "Events", "Boundary"})
	tiers.AppendRows([]table.Row{
		{1, humanize.Comma(int64(st.Tier1Len)), st.Tier1Cur},
		{2, humanize.Comma(int64(st.Tier2Len)), st.Tier2Cur},
		{3, humanize.Comma(int64(st.Tier3Len)), st.Tier3Cur},
	})
	tiers.AppendFooter(table.Row{"Promotions",
		fmt.Sprintf("3->2: %s", humanize.Comma(int64(st.Tier3ToTier2))),
		fmt.Sprintf("2->1: %s", humanize.Comma(int64(st.Tier2ToTier1)))})
	tiers.Render()
}
