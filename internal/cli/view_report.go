package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/prreport/internal/cli/formatter"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/report"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/alexanderramin/prreport/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

var reportKeys = struct {
	Generate, Later, Earlier, Scroll, SignOut key.Binding
}{
	Generate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
	Later:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "next day")),
	Earlier:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "previous day")),
	Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	SignOut:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "sign out")),
}

// reportViewChrome is the number of lines the report view draws above the
// result viewport.
const reportViewChrome = 7

// reportView is the SessionAuthenticated view. It owns the date selection
// and the report Controller.
type reportView struct {
	state    *SharedState
	identity domain.Identity
	ctrl     *report.Controller
	load     uint64

	input      textinput.Model
	picked     *time.Time // set while the date came from the arrow-key picker
	validation string

	spinner spinner.Model
	vp      viewport.Model
}

func newReportView(state *SharedState, id domain.Identity) *reportView {
	today := reportdate.Of(state.App.now())

	ti := textinput.New()
	ti.Prompt = "Date: "
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.SetValue(today.String())
	ti.Focus()

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = state.Palette.Purple

	v := &reportView{
		state:    state,
		identity: id,
		ctrl:     report.NewController(state.App.logger()),
		load:     state.Load,
		input:    ti,
		spinner:  s,
		vp:       viewport.New(state.ContentWidth(), max(state.ContentHeight()-reportViewChrome, 3)),
	}
	return v
}

func (v *reportView) Init() tea.Cmd {
	return textinput.Blink
}

// Close cancels the in-flight request when the view is torn down.
func (v *reportView) Close() {
	v.ctrl.Close()
}

func (v *reportView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case reportResultMsg:
		if v.ctrl.Resolve(msg.outcome) {
			v.refreshContent()
		}
		return v, nil

	case spinner.TickMsg:
		if _, pending := v.ctrl.State().(domain.ReportPending); !pending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.WindowSizeMsg:
		v.vp.Width = v.state.ContentWidth()
		v.vp.Height = max(v.state.ContentHeight()-reportViewChrome, 3)
		v.refreshContent()
		return v, nil

	case themeChangedMsg:
		v.spinner.Style = v.state.Palette.Purple
		v.refreshContent()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *reportView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, reportKeys.Generate):
		return v, v.generate()
	case key.Matches(msg, reportKeys.Later):
		v.step(1)
		return v, nil
	case key.Matches(msg, reportKeys.Earlier):
		v.step(-1)
		return v, nil
	case key.Matches(msg, reportKeys.SignOut):
		return v, requestLogout()
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() != before {
		v.picked = nil
	}
	return v, cmd
}

// selection is the current date value, from the picker when the last change
// came from the arrow keys and from the text field otherwise.
func (v *reportView) selection() reportdate.Value {
	if v.picked != nil {
		return reportdate.FromPicker(*v.picked)
	}
	return reportdate.FromText(v.input.Value())
}

// step moves the selection by days, starting from today when the field
// does not hold a valid date.
func (v *reportView) step(days int) {
	base, err := reportdate.Normalize(v.selection())
	if err != nil {
		base = reportdate.Of(v.state.App.now())
	}
	next := base.AddDays(days)
	t := next.Time(time.Local)
	v.picked = &t
	v.input.SetValue(next.String())
	v.input.CursorEnd()
}

func (v *reportView) generate() tea.Cmd {
	req, err := v.ctrl.Trigger(context.Background(), v.selection())
	if err != nil {
		v.validation = reportdate.Message(err)
		return nil
	}
	v.validation = ""
	return tea.Batch(fetchReportCmd(v.state.App.Client, req, v.load), v.spinner.Tick)
}

// refreshContent re-renders a successful report into the viewport.
func (v *reportView) refreshContent() {
	st, ok := v.ctrl.State().(domain.ReportSucceeded)
	if !ok {
		v.vp.SetContent("")
		return
	}
	if strings.TrimSpace(st.Text) == "" {
		v.vp.SetContent(v.state.Palette.Dim("  No pull requests found for this day."))
		return
	}
	v.vp.SetContent(theme.RenderMarkdown(st.Text, v.state.Palette.Mode, v.state.ContentWidth()-2))
	v.vp.GotoTop()
}

// divergenceNote warns when the shown result is for a different date than
// the one currently selected.
func (v *reportView) divergenceNote(forDate string) string {
	sel, err := reportdate.Normalize(v.selection())
	if err != nil || sel.String() == forDate {
		return ""
	}
	return v.state.Palette.Warn("Showing " + forDate + "; the selected date is now " + sel.String() + ".")
}

func (v *reportView) View() string {
	p := v.state.Palette
	var b strings.Builder

	b.WriteString("  " + p.Bold(v.identity.DisplayName))
	if v.identity.LoginHandle != "" && v.identity.LoginHandle != v.identity.DisplayName {
		b.WriteString(" " + p.Dim("@"+v.identity.LoginHandle))
	}
	b.WriteString("\n\n  " + v.input.View())
	if sel, err := reportdate.Normalize(v.selection()); err == nil {
		b.WriteString("  " + p.Dim(formatter.RelativeDay(sel.Time(time.Local), v.state.App.now())))
	}
	b.WriteString("\n")
	if v.validation != "" {
		b.WriteString("  " + p.Error(v.validation))
	}
	b.WriteString("\n\n")

	switch st := v.ctrl.State().(type) {
	case domain.ReportIdle:
		b.WriteString("  " + p.Dim("Choose a date and press enter to generate your report."))
	case domain.ReportPending:
		b.WriteString("  " + v.spinner.View() + " " + p.Dim("Generating report for "+st.Date+"…"))
	case domain.ReportSucceeded:
		b.WriteString("  " + p.Head.Render("Report for "+st.Date))
		if note := v.divergenceNote(st.Date); note != "" {
			b.WriteString("  " + note)
		}
		b.WriteString("\n" + v.vp.View())
	case domain.ReportFailed:
		b.WriteString("  " + p.Error(st.Message) + "\n")
		b.WriteString("  " + p.Dim("Report for "+st.Date+". Press enter to try again."))
		if note := v.divergenceNote(st.Date); note != "" {
			b.WriteString("\n  " + note)
		}
	}
	return b.String()
}

func (v *reportView) ID() ViewID    { return ViewReport }
func (v *reportView) Title() string { return "report" }
func (v *reportView) ShortHelp() []key.Binding {
	return []key.Binding{reportKeys.Generate, reportKeys.Earlier, reportKeys.Later, reportKeys.Scroll, reportKeys.SignOut}
}
