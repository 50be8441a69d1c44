package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/streakr/internal/export"
	"github.com/sadopc/streakr/internal/habit"
	"github.com/sadopc/streakr/internal/service"
)

// WarnMsg carries a background warning into the program, for example a
// failed daily log append. Delivered through Program.Send.
type WarnMsg struct {
	Text string
}

// VaultChangedMsg signals that another tool edited the vault and the
// current view should re-read it.
type VaultChangedMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	svc    *service.Service
	today  habit.Day
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	habits habitsModel
	stats  statsModel

	help   help.Model
	status string
}

func NewApp(svc *service.Service) App {
	h := help.New()
	h.ShowAll = false

	today := habit.Today()
	return App{
		svc:        svc,
		today:      today,
		activeView: viewHabits,
		habits:     newHabitsModel(svc, today),
		stats:      newStatsModel(svc, today),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.habits.refresh()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.habits.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If the create form is capturing input, delegate first.
		if a.habits.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHabits
			return a, a.habits.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 2
			return a, a.refreshCurrentView()
		}

	case DayChangedMsg:
		a.today = msg.New
		a.habits.today = msg.New
		a.stats.today = msg.New
		a.status = "New day: " + string(msg.New)
		return a, tea.Batch(a.habits.refresh(), a.stats.refresh())

	case WarnMsg:
		a.status = msg.Text
		return a, nil

	case VaultChangedMsg:
		return a, a.refreshCurrentView()

	case statusMsg:
		a.status = msg.text
		return a, nil

	case habitMarkedMsg:
		a.status = "Done: " + msg.record.Title
		return a.updateActiveView(msg)

	case habitCreatedMsg:
		a.status = "Created " + msg.record.Path
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHabits:
		return a.habits.refresh()
	case viewStats:
		return a.stats.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHabits:
		content = a.habits.view()
	case viewStats:
		content = a.stats.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("streakr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	dayInfo := highlightStyle.Render(" " + string(a.today))

	left := footerStyle.Render(helpView)
	right := dayInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	today := a.today
	return func() tea.Msg {
		records, err := a.svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("streakr-export-%s.csv", today))
			if err := export.ToCSV(records, today, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("streakr-export-%s.json", today))
			if err := export.ToJSON(records, today, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
