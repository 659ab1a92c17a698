package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/punchkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/client/services"
	"github.com/dmitrijs2005/punchkeeper/internal/client/timeline"
	"github.com/dmitrijs2005/punchkeeper/internal/client/worktime"
	"github.com/dmitrijs2005/punchkeeper/internal/datex"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
)

var errNoEditor = errors.New("no adjustment open; start one with: adjust YYYY-MM-DD")

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

func (a *App) now() time.Time {
	if a.session.Now != nil {
		return a.session.Now().In(a.session.Location)
	}
	return time.Now().In(a.session.Location)
}

func (a *App) getStatus() string {
	s := a.session.Scope.UserID
	if a.editor != nil {
		s += " adjusting " + datex.FormatDate(a.editor.day)
	}
	return fmt.Sprintf("(%s %s)", s, a.Mode())
}

// Root serves the REPL on in. The prompt is only printed when in is a
// terminal.
func (a *App) Root(ctx context.Context, in io.Reader) {
	fmt.Fprintln(a.out, "PunchKeeper client")
	buildinfo.PrintBuildData(a.out)
	fmt.Fprintln(a.out, "Type 'help' for commands")

	a.reader = bufio.NewReader(in)
	prompt := false
	if f, ok := in.(*os.File); ok {
		prompt = isTerminal(int(f.Fd()))
	}
	runREPL(ctx, a.commands(), a.getStatus, a.reader, a.out, prompt)
}

func (a *App) logged(name string, fn func(context.Context, []string) error) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		ctx = logging.ContextWith(ctx, "command", name)
		err := fn(ctx, args)
		if err != nil && !errors.Is(err, errUsage) {
			a.log.Warn(ctx, "command failed", "error", err)
		}
		return err
	}
}

func (a *App) commands() []command {
	cmds := []command{
		{name: "in", usage: "in [@photo]", help: "clock in", run: a.punchAs(models.ClockIn)},
		{name: "out", usage: "out [@photo]", help: "clock out", run: a.punchAs(models.ClockOut)},
		{name: "punch", aliases: []string{"p"}, usage: "punch [@photo]", help: "clock in or out, whichever is next", run: a.punchAs("")},
		{name: "today", aliases: []string{"t"}, usage: "today", help: "show today's punches and balance", run: a.today},
		{name: "month", usage: "month [YYYY-MM]", help: "monthly summary", run: a.month},
		{name: "adjust", usage: "adjust YYYY-MM-DD", help: "start correcting a past day", run: a.adjust},
		{name: "draft", usage: "draft HH:MM|- reason... [@file]", help: "add a punch to the open correction", run: a.draft},
		{name: "settime", usage: "settime N HH:MM", help: "set the time of draft N", run: a.setTime},
		{name: "drop", usage: "drop N", help: "remove draft N", run: a.drop},
		{name: "submit", usage: "submit [reason...]", help: "submit the open correction", run: a.submit},
		{name: "discard", usage: "discard", help: "close the open correction without submitting", run: a.discard},
		{name: "adjustments", usage: "adjustments", help: "list adjustment requests", run: a.listAdjustments},
		{name: "leave", usage: "leave TYPE START END|Nd [reason...]", help: "request leave", run: a.requestLeave},
		{name: "editleave", usage: "editleave ID START END|Nd [reason...]", help: "change a pending leave request", run: a.editLeave},
		{name: "leaves", usage: "leaves", help: "list leave requests", run: a.listLeaves},
		{name: "cancelleave", usage: "cancelleave ID", help: "cancel a pending leave request", run: a.cancelLeave},
		{name: "balances", usage: "balances", help: "leave balances", run: a.balances},
		{name: "expense", usage: "expense", help: "file an expense claim", run: a.fileExpense},
		{name: "expenses", usage: "expenses", help: "list expense claims", run: a.listExpenses},
		{name: "cancelexpense", usage: "cancelexpense ID", help: "cancel a pending expense claim", run: a.cancelExpense},
		{name: "sync", usage: "sync", help: "send queued records now", run: a.syncNow},
		{name: "status", usage: "status", help: "connection and queue status", run: a.status},
	}
	for i := range cmds {
		cmds[i].run = a.logged(cmds[i].name, cmds[i].run)
	}
	return cmds
}

func (a *App) punchAs(typ models.PunchType) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		var photo string
		if len(args) > 0 {
			if !strings.HasPrefix(args[0], "@") {
				return errUsage
			}
			photo = strings.TrimPrefix(args[0], "@")
		}
		out, err := a.punch.PunchWithPhoto(ctx, typ, photo)
		if err != nil {
			return err
		}
		renderPunch(a.out, out)
		return nil
	}
}

func (a *App) today(ctx context.Context, _ []string) error {
	renderDay(a.out, a.punch.Today(ctx))
	return nil
}

func (a *App) month(ctx context.Context, args []string) error {
	now := a.now()
	year, month := now.Year(), now.Month()
	if len(args) > 0 {
		t, err := time.ParseInLocation("2006-01", args[0], a.session.Location)
		if err != nil {
			return errUsage
		}
		year, month = t.Year(), t.Month()
	}
	renderMonth(a.out, a.punch.Month(ctx, year, month))
	return nil
}

func (a *App) adjust(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	day, err := datex.ParseDate(args[0], a.session.Location)
	if err != nil {
		return errUsage
	}
	a.editor = &editor{day: day, drafts: timeline.NewDrafts()}
	return a.preview(ctx)
}

func (a *App) preview(ctx context.Context) error {
	if a.editor == nil {
		return errNoEditor
	}
	drafts := a.editor.drafts.List()
	entries, n := a.adjustments.Preview(ctx, a.editor.day, drafts)
	renderPreview(a.out, a.editor.day, entries, drafts, n)
	return nil
}

// draftAt returns the id of the 1-based draft number arg.
func (a *App) draftAt(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	drafts := a.editor.drafts.List()
	if err != nil || n < 1 || n > len(drafts) {
		return "", fmt.Errorf("no draft #%s: %w", arg, timeline.ErrDraftNotFound)
	}
	return drafts[n-1].ID, nil
}

func (a *App) draft(ctx context.Context, args []string) error {
	if a.editor == nil {
		return errNoEditor
	}
	if len(args) < 1 {
		return errUsage
	}

	hhmm := args[0]
	if hhmm == "-" {
		hhmm = ""
	}
	rest := args[1:]
	var doc string
	if len(rest) > 0 && strings.HasPrefix(rest[len(rest)-1], "@") {
		doc = strings.TrimPrefix(rest[len(rest)-1], "@")
		rest = rest[:len(rest)-1]
	}

	a.editor.drafts.Add(hhmm, strings.Join(rest, " "), doc)
	return a.preview(ctx)
}

func (a *App) setTime(ctx context.Context, args []string) error {
	if a.editor == nil {
		return errNoEditor
	}
	if len(args) != 2 {
		return errUsage
	}
	id, err := a.draftAt(args[0])
	if err != nil {
		return err
	}
	if err := a.editor.drafts.SetTime(id, args[1]); err != nil {
		return err
	}
	return a.preview(ctx)
}

func (a *App) drop(ctx context.Context, args []string) error {
	if a.editor == nil {
		return errNoEditor
	}
	if len(args) != 1 {
		return errUsage
	}
	id, err := a.draftAt(args[0])
	if err != nil {
		return err
	}
	if err := a.editor.drafts.Remove(id); err != nil {
		return err
	}
	return a.preview(ctx)
}

func (a *App) discard(_ context.Context, _ []string) error {
	a.editor = nil
	fmt.Fprintln(a.out, "Correction discarded")
	return nil
}

func (a *App) submit(ctx context.Context, args []string) error {
	if a.editor == nil {
		return errNoEditor
	}
	out, err := a.adjustments.Submit(ctx, a.editor.day, a.editor.drafts.List(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.editor = nil
	renderOutcome(a.out, "Adjustment request", out.Record.ID, out.Synced, out.Notice)
	return nil
}

func (a *App) listAdjustments(ctx context.Context, _ []string) error {
	renderAdjustments(a.out, a.adjustments.Load(ctx))
	return nil
}

// leaveForm fills a form from START END|Nd [reason...], the way the form
// screen would: an "Nd" third argument is typed into the day-count field.
func (a *App) leaveForm(typ models.LeaveType, args []string) *worktime.LeaveForm {
	form := worktime.NewLeaveForm(typ, a.session.Location)
	form.SetStart(args[0])
	if n, ok := strings.CutSuffix(args[1], "d"); ok {
		form.SetNumDays(n, datex.Midnight(a.now()))
	} else {
		form.SetEnd(args[1])
	}
	form.Reason = strings.Join(args[2:], " ")
	return form
}

func (a *App) requestLeave(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	typ := models.LeaveType(strings.ToUpper(args[0]))
	form := a.leaveForm(typ, args[1:])
	notice(a.out, form.Notice)

	out, err := a.leaves.Create(ctx, form)
	if err != nil {
		return err
	}
	renderOutcome(a.out, fmt.Sprintf("Leave request for %d day(s)", out.Record.Days), out.Record.ID, out.Synced, out.Notice)
	return nil
}

func (a *App) editLeave(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	id := args[0]

	var typ models.LeaveType
	for _, r := range a.leaves.List(ctx).Items {
		if r.ID == id {
			typ = r.Type
		}
	}
	if typ == "" {
		typ = models.LeaveAnnual
	}

	form := a.leaveForm(typ, args[1:])
	notice(a.out, form.Notice)
	out, err := a.leaves.Edit(ctx, id, form)
	if err != nil {
		return err
	}
	renderOutcome(a.out, "Leave request", out.Record.ID, out.Synced, out.Notice)
	return nil
}

func (a *App) listLeaves(ctx context.Context, _ []string) error {
	renderLeaves(a.out, a.leaves.List(ctx))
	return nil
}

func (a *App) cancelLeave(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	out, err := a.leaves.Cancel(ctx, args[0])
	if err != nil {
		return err
	}
	renderOutcome(a.out, "Leave request cancelled", out.Record.ID, out.Synced, out.Notice)
	return nil
}

func (a *App) balances(ctx context.Context, _ []string) error {
	used, _ := a.leaves.DaysUsed(ctx)
	renderBalances(a.out, a.leaves.Balances(ctx), used)
	return nil
}

func (a *App) fileExpense(ctx context.Context, _ []string) error {
	in, err := promptExpense(a.reader, a.out, datex.FormatDate(a.now()))
	if err != nil {
		return err
	}
	out, err := a.expenses.Create(ctx, in)
	if err != nil {
		return err
	}
	renderOutcome(a.out, "Expense claim", out.Record.ID, out.Synced, out.Notice)
	return nil
}

// promptExpense asks for every field of a claim. Date and currency have
// defaults.
func promptExpense(r *bufio.Reader, w io.Writer, today string) (services.ExpenseInput, error) {
	in := services.ExpenseInput{}
	fields := []struct {
		prompt string
		dst    *string
		def    string
	}{
		{"Date (YYYY-MM-DD) [" + today + "]", &in.Date, today},
		{"Category (" + strings.Join(services.ExpenseCategories, ", ") + ")", &in.Category, ""},
		{"Amount", &in.Amount, ""},
		{"Currency [" + services.DefaultCurrency + "]", &in.Currency, services.DefaultCurrency},
		{"Description", &in.Description, ""},
		{"Receipt file (optional)", &in.Receipt, ""},
	}
	for _, f := range fields {
		v, err := GetSimpleText(r, f.prompt, w)
		if err != nil {
			return in, err
		}
		if v == "" {
			v = f.def
		}
		*f.dst = v
	}
	return in, nil
}

func (a *App) listExpenses(ctx context.Context, _ []string) error {
	renderExpenses(a.out, a.expenses.List(ctx))
	return nil
}

func (a *App) cancelExpense(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	out, err := a.expenses.Cancel(ctx, args[0])
	if err != nil {
		return err
	}
	renderOutcome(a.out, "Expense claim cancelled", out.Record.ID, out.Synced, out.Notice)
	return nil
}

func (a *App) syncNow(ctx context.Context, _ []string) error {
	report, err := a.sync.Drain(ctx)
	if err != nil {
		return err
	}
	renderReport(a.out, report)
	return nil
}

func (a *App) status(ctx context.Context, _ []string) error {
	p, err := a.sync.Pending(ctx)
	if err != nil {
		return err
	}
	renderStatus(a.out, a.Mode(), a.session.Scope, p)
	return nil
}
