package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/streakr/internal/habit"
	"github.com/sadopc/streakr/internal/service"
)

type habitsModel struct {
	svc    *service.Service
	today  habit.Day
	width  int
	height int

	records []habit.Record
	cursor  int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formTrigger  *string
	formSchedule *string
	formPath     *string
}

func newHabitsModel(svc *service.Service, today habit.Day) habitsModel {
	title, trigger, schedule, path := "", "", "", ""
	return habitsModel{
		svc:          svc,
		today:        today,
		formTitle:    &title,
		formTrigger:  &trigger,
		formSchedule: &schedule,
		formPath:     &path,
	}
}

func (m *habitsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m habitsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := m.svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return habitsDataMsg{records: records}
	}
}

func (m habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		m.records = msg.records
		if m.cursor >= len(m.records) {
			m.cursor = max(0, len(m.records)-1)
		}
		return m, nil

	case habitMarkedMsg:
		for i := range m.records {
			if m.records[i].Path == msg.record.Path {
				m.records[i] = msg.record
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
			return m, m.markDone()
		case key.Matches(msg, keys.New):
			return m.showNewHabitForm()
		}
	}
	return m, nil
}

func (m habitsModel) markDone() tea.Cmd {
	if len(m.records) == 0 {
		return nil
	}
	rec := m.records[m.cursor]
	day := m.today
	return func() tea.Msg {
		updated, err := m.svc.Increment(rec, day)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return habitMarkedMsg{record: updated}
	}
}

func (m habitsModel) showNewHabitForm() (habitsModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formTrigger = ""
	*m.formSchedule = ""
	*m.formPath = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Trigger (optional)").Value(m.formTrigger),
			huh.NewInput().Title("Schedule (optional)").Value(m.formSchedule),
			huh.NewInput().Title("Path (optional, e.g. Habits/run.md)").Value(m.formPath),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	// Escape cancels the form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if strings.TrimSpace(*m.formTitle) == "" {
			return m, nil
		}
		rec, err := m.svc.Create(*m.formPath, *m.formTitle, *m.formTrigger, *m.formSchedule)
		if err != nil {
			return m, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return m, tea.Batch(
			m.refresh(),
			func() tea.Msg { return habitCreatedMsg{record: rec} },
		)
	}

	return m, cmd
}

func (m habitsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Habit")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Habits")
	dayLabel := mutedStyle.Render(string(m.today))
	header := fmt.Sprintf("%s  %s", title, dayLabel)

	if len(m.records) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No habits yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-1s %-28s %7s %6s %6s", "", "Habit", "Streak", "Best", "30d")))

	for i, rec := range m.records {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		streak := rec.CurrentStreak(m.today)
		streakLabel := fmt.Sprintf("%7d", streak)
		if streak > 0 {
			streakLabel = streakStyle.Render(streakLabel)
		}

		row := fmt.Sprintf("%s%s %s %s %6d %5d%%",
			cursor,
			checkMark(rec.IsDone(m.today)),
			style.Render(fmt.Sprintf("%-28s", truncate(rec.Title, 28))),
			streakLabel,
			rec.LongestStreak(),
			rec.CompletionRate(30, m.today),
		)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	if rec := m.records[m.cursor]; rec.Trigger != "" || rec.Schedule != "" {
		detail := "  "
		if rec.Trigger != "" {
			detail += highlightStyle.Render("trigger: ") + rec.Trigger
		}
		if rec.Schedule != "" {
			if rec.Trigger != "" {
				detail += "   "
			}
			detail += highlightStyle.Render("schedule: ") + rec.Schedule
		}
		rows = append(rows, detail)
		rows = append(rows, "")
	}
	rows = append(rows, mutedStyle.Render("  space: mark done  n: new  e: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
