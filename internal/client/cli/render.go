package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/punchkeeper/internal/client/services"
	"github.com/dmitrijs2005/punchkeeper/internal/client/timeline"
	"github.com/dmitrijs2005/punchkeeper/internal/client/worktime"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func notice(w io.Writer, n string) {
	if n != "" {
		fmt.Fprintln(w, n)
	}
}

func formatMoney(amount decimal.Decimal, code string) string {
	scale := int32(2)
	if unit, err := currency.ParseISO(code); err == nil {
		digits, _ := currency.Standard.Rounding(unit)
		scale = int32(digits)
	}
	return amount.StringFixed(scale) + " " + code
}

func formatClockPtr(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return datex.FormatClock(*t)
}

func syncMark(synced bool) string {
	if synced {
		return ""
	}
	return "queued"
}

func renderOutcome(w io.Writer, what, id string, synced bool, n string) {
	if synced {
		fmt.Fprintf(w, "%s saved (%s)\n", what, id)
	} else {
		fmt.Fprintf(w, "%s saved locally (%s)\n", what, id)
	}
	notice(w, n)
}

func renderPunch(w io.Writer, out *services.Outcome[models.TimeEntry]) {
	e := out.Record
	fmt.Fprintf(w, "%s at %s\n", e.Type.Label(), datex.FormatClock(e.Timestamp))
	notice(w, out.Notice)
}

func renderDay(w io.Writer, d *services.DayView) {
	notice(w, d.Notice)
	fmt.Fprintf(w, "%s\n", d.Date.Format("Mon 2006-01-02"))
	if len(d.Timeline) == 0 {
		fmt.Fprintln(w, "  no punches yet")
	}
	for _, e := range d.Timeline {
		fmt.Fprintf(w, "  %s  %s\n", datex.FormatClock(e.Timestamp), e.InferredType.Label())
	}
	fmt.Fprintf(w, "Worked %s, balance %s, next %s\n",
		worktime.FormatDuration(d.Worked), worktime.FormatSigned(d.Balance), d.Next.Label())
}

func renderMonth(w io.Writer, m *services.MonthView) {
	s := m.Summary
	notice(w, m.Notice)
	fmt.Fprintf(w, "%s %d\n", s.Month, s.Year)

	tw := table(w)
	fmt.Fprintln(tw, "DATE\tPUNCHES\tWORKED\tBALANCE\t")
	for _, d := range s.Days {
		flag := ""
		if d.NeedsAdjustment {
			flag = "needs adjustment"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", datex.FormatDate(d.Date), d.Punches,
			worktime.FormatDuration(d.Worked), worktime.FormatSigned(d.Balance), flag)
	}
	tw.Flush()

	fmt.Fprintf(w, "Days worked %d, total %s, balance %s, needing adjustment %d\n",
		s.DaysWorked, worktime.FormatDuration(s.TotalWorked), worktime.FormatSigned(s.Balance), s.DaysNeedingAdjustment)
}

// renderPreview lists the merged timeline of the day being corrected.
// Drafts are numbered by creation order so they can be addressed.
func renderPreview(w io.Writer, day time.Time, entries []timeline.Entry, drafts []models.AdjustmentDraft, n string) {
	notice(w, n)
	number := make(map[string]int, len(drafts))
	for i, d := range drafts {
		number[d.ID] = i + 1
	}

	fmt.Fprintf(w, "Adjusting %s\n", datex.FormatDate(day))
	for _, e := range entries {
		at := datex.FormatClock(e.Timestamp)
		if e.Undecided {
			at = "--:--"
		}
		if e.IsNew {
			fmt.Fprintf(w, "  %s  %-3s  draft #%d\n", at, e.InferredType.Label(), number[e.DraftID])
			continue
		}
		fmt.Fprintf(w, "  %s  %-3s\n", at, e.InferredType.Label())
	}
	if idx := timeline.Mismatches(entries); len(idx) > 0 {
		fmt.Fprintf(w, "%d recorded punch(es) change type after this correction\n", len(idx))
	}
}

func renderAdjustments(w io.Writer, res reconcile.Result[models.AdjustmentRequest]) {
	notice(w, res.Notice())
	if res.Source == reconcile.SourceNone && len(res.Items) == 0 {
		return
	}
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No adjustment requests")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "DATE\tSTATUS\tIN\tOUT\tPUNCHES\tREASON\t")
	for _, a := range res.Items {
		status := string(a.Status)
		if models.IsProvisional(a.ID) {
			status += " (queued)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t\n", a.Date, status,
			formatClockPtr(a.RequestedClockIn), formatClockPtr(a.RequestedClockOut), len(a.RequestedPunches), a.Reason)
	}
	tw.Flush()
}

func renderLeaves(w io.Writer, res reconcile.Result[models.LeaveRequest]) {
	notice(w, res.Notice())
	if len(res.Items) == 0 {
		if res.Source != reconcile.SourceNone {
			fmt.Fprintln(w, "No leave requests")
		}
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tTYPE\tFROM\tTO\tDAYS\tSTATUS\t\t")
	for _, r := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t\n", r.ID, r.Type, r.StartDate, r.EndDate, r.Days, r.Status, syncMark(r.Synced))
	}
	tw.Flush()
}

func renderBalances(w io.Writer, res reconcile.Result[models.LeaveBalance], used int) {
	notice(w, res.Notice())
	if len(res.Items) > 0 {
		tw := table(w)
		fmt.Fprintln(tw, "TYPE\tENTITLED\tUSED\tPENDING\tREMAINING\t")
		for _, b := range res.Items {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", b.Type, b.EntitledDays, b.UsedDays, b.PendingDays, b.RemainingDays)
		}
		tw.Flush()
	}
	fmt.Fprintf(w, "Approved leave taken so far: %d day(s)\n", used)
}

func renderExpenses(w io.Writer, res reconcile.Result[models.ExpenseClaim]) {
	notice(w, res.Notice())
	if len(res.Items) == 0 {
		if res.Source != reconcile.SourceNone {
			fmt.Fprintln(w, "No expense claims")
		}
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tSTATUS\tRECEIPT\t\t")
	for _, c := range res.Items {
		receipt := "-"
		switch {
		case c.ReceiptURL != "":
			receipt = "attached"
		case c.LocalReceipt != "":
			receipt = "pending upload"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", c.ID, c.Date, c.Category,
			formatMoney(c.Amount, c.Currency), c.Status, receipt, syncMark(c.Synced))
	}
	tw.Flush()
}

func renderReport(w io.Writer, r *services.DrainReport) {
	fmt.Fprintln(w, strings.ToUpper(r.String()[:1])+r.String()[1:])
}

func renderStatus(w io.Writer, mode Mode, scope models.Scope, p services.PendingCounts) {
	fmt.Fprintf(w, "Mode: %s\n", mode)
	fmt.Fprintf(w, "Tenant %s, user %s\n", scope.TenantID, scope.UserID)
	if p.Total() == 0 {
		fmt.Fprintln(w, "Nothing waiting to sync")
		return
	}
	fmt.Fprintf(w, "Waiting to sync: %d punch(es), %d adjustment(s), %d leave request(s), %d expense claim(s)\n",
		p.Punches, p.Adjustments, p.Leaves, p.Expenses)
}
