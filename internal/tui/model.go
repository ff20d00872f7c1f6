// Package tui is the interactive dashboard: a search box, a status line and
// the stock panel with its price chart, driven by a dashboard.Controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stock-insights/internal/chart"
	"stock-insights/internal/dashboard"
)

type focus int

const (
	focusInput focus = iota
	focusChart
)

// frameMsg carries a view-model produced by the controller.
type frameMsg struct {
	vm dashboard.ViewModel
}

// settledMsg is returned by the submit command once Submit has returned.
type settledMsg struct {
	vm  dashboard.ViewModel
	err error
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	input   textinput.Model
	spinner spinner.Model
	styles  styles

	vm     dashboard.ViewModel
	focus  focus
	cursor int
}

// NewModel creates the model around ctrl. initial pre-fills the search box.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, initial string) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter company name (e.g. Apple, Microsoft, Tesla)"
	ti.Prompt = "› "
	ti.CharLimit = 120
	ti.Width = 50
	ti.SetValue(initial)
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#667eea"))),
	)

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		spinner: sp,
		styles:  defaultStyles(),
		vm:      ctrl.View(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.input.Width = max(10, min(50, msg.Width-4))
		return m, nil

	case frameMsg:
		return m.apply(msg.vm)

	case settledMsg:
		return m.apply(msg.vm)

	case spinner.TickMsg:
		if !m.vm.Visibility.Spinner {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		return m.submit()

	case "tab", "shift+tab":
		if m.focus == focusInput && m.vm.Visibility.Dashboard && m.pointCount() > 0 {
			m.focus = focusChart
			m.input.Blur()
			return m, nil
		}
		m.focus = focusInput
		return m, m.input.Focus()
	}

	if m.focus == focusChart {
		switch msg.String() {
		case "left", "h":
			m.moveCursor(-1)
		case "right", "l":
			m.moveCursor(1)
		case "home":
			m.cursor = 0
		case "end":
			m.moveCursor(m.pointCount())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a search unless one is already running.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanSubmit() {
		return m, nil
	}
	ctrl, ctx, query := m.ctrl, m.ctx, m.input.Value()
	run := func() tea.Msg {
		vm, err := ctrl.Submit(ctx, query)
		return settledMsg{vm: vm, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

// apply swaps in a new view-model. Stale loading frames that arrive after
// the settled one are dropped.
func (m Model) apply(vm dashboard.ViewModel) (tea.Model, tea.Cmd) {
	if vm.State == dashboard.StateLoading && m.ctrl.View().State != dashboard.StateLoading {
		return m, nil
	}
	m.vm = vm
	if !vm.Visibility.Dashboard {
		m.cursor = 0
		if m.focus == focusChart {
			m.focus = focusInput
			return m, m.input.Focus()
		}
		return m, nil
	}
	m.cursor = m.pointCount() - 1
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := m.pointCount()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m Model) pointCount() int {
	if m.vm.Panel == nil {
		return 0
	}
	return m.vm.Panel.Chart.Len()
}

// ViewModel returns the frame currently on screen.
func (m Model) ViewModel() dashboard.ViewModel {
	return m.vm
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.title.Render("📈 Stock Market Insights"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.vm.Visibility.Spinner:
		b.WriteString(fmt.Sprintf("%s Fetching stock data...\n", m.spinner.View()))
	case m.vm.Visibility.ErrorBanner:
		b.WriteString(s.errBox.Render(m.vm.Error))
		b.WriteString("\n")
	case m.vm.Visibility.Dashboard && m.vm.Panel != nil:
		b.WriteString(m.panelView(m.vm.Panel))
	}

	b.WriteString("\n")
	b.WriteString(s.hint.Render(m.helpLine()))
	return b.String()
}

func (m Model) panelView(p *dashboard.Panel) string {
	s := m.styles

	info := lipgloss.JoinVertical(lipgloss.Left,
		s.company.Render(p.CompanyName),
		s.label.Render("Symbol")+p.Symbol,
		s.label.Render("Region")+p.Region,
		s.label.Render("Currency")+p.Currency,
	)
	price := lipgloss.JoinVertical(lipgloss.Left,
		s.price.Render(p.CurrentPrice),
		trendStyle(p.ChangeColor).Render(p.PriceChange),
	)
	stats := lipgloss.JoinVertical(lipgloss.Left,
		s.label.Render("Open")+p.Open,
		s.label.Render("Previous Close")+p.PreviousClose,
		s.label.Render("Day High")+p.DayHigh,
		s.label.Render("Day Low")+p.DayLow,
		s.label.Render("Volume")+p.Volume,
	)

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		s.card.Render(info), " ", s.card.Render(price), " ", s.card.Render(stats))

	chartView := ""
	if t, ok := m.ctrl.Chart().(*chart.Terminal); ok {
		chartView = t.View()
	}
	if chartView == "" {
		return top + "\n"
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n\n")
	b.WriteString(s.company.Render(fmt.Sprintf("Price History (%d days)", p.Chart.Len())))
	b.WriteString("\n")
	b.WriteString(chartView)
	b.WriteString("\n")
	if m.focus == focusChart {
		b.WriteString(s.tooltip.Render(p.Chart.Tooltip(m.cursor)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	if m.focus == focusChart {
		return "←/→ move  •  tab search  •  esc quit"
	}
	if m.vm.Visibility.Dashboard {
		return "enter search  •  tab inspect chart  •  esc quit"
	}
	return "enter search  •  esc quit"
}
