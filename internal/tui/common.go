package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/streakr/internal/habit"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHabits viewState = iota
	viewStats
)

var viewNames = []string{"Habits", "Stats"}

// --- Messages ---

type habitsDataMsg struct {
	records []habit.Record
}

type habitMarkedMsg struct {
	record habit.Record
}

type habitCreatedMsg struct {
	record habit.Record
}

type statusMsg struct {
	text    string
	isError bool
}

// DayChangedMsg is sent into the program when the clock crosses midnight.
// The rollover watch delivers it through Program.Send.
type DayChangedMsg struct {
	Old habit.Day
	New habit.Day
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func checkMark(done bool) string {
	if done {
		return successStyle.Render("✓")
	}
	return mutedStyle.Render("·")
}
