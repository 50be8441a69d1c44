package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/streakr/internal/habit"
	"github.com/sadopc/streakr/internal/service"
)

const statsWindow = 14

type statsModel struct {
	svc    *service.Service
	today  habit.Day
	width  int
	height int

	records []habit.Record
	offset  int // 14-day blocks back from today (0 = current)

	chart barchart.Model
}

func newStatsModel(svc *service.Service, today habit.Day) statsModel {
	return statsModel{
		svc:   svc,
		today: today,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	records []habit.Record
}

func (s statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := s.svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statsDataMsg{records: records}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.records = msg.records
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			s.offset++
			s.buildChart()
			return s, nil
		case key.Matches(msg, keys.Right):
			if s.offset > 0 {
				s.offset--
			}
			s.buildChart()
			return s, nil
		}
	}
	return s, nil
}

// window returns the days of the visible 14-day block, oldest first.
func (s statsModel) window() []habit.Day {
	end := s.today
	for i := 0; i < statsWindow*s.offset; i++ {
		end = end.Prev()
	}

	days := make([]habit.Day, statsWindow)
	d := end
	for i := statsWindow - 1; i >= 0; i-- {
		days[i] = d
		d = d.Prev()
	}
	return days
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range s.window() {
		done := 0
		for _, rec := range s.records {
			if rec.IsDone(day) {
				done++
			}
		}

		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if done == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: day.Time().Format("02"),
			Values: []barchart.BarValue{
				{Name: string(day), Value: float64(done), Style: style},
			},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	days := s.window()
	rangeLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		days[0].Time().Format("Jan 02"),
		days[len(days)-1].Time().Format("Jan 02, 2006"),
	))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Completions"), "  ", rangeLabel,
	)

	chartView := s.chart.View()
	summary := s.renderSummary(w)
	nav := mutedStyle.Render("  ←/→: navigate")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", summary, "", nav,
		),
	)
}

func (s statsModel) renderSummary(w int) string {
	if len(s.records) == 0 {
		return mutedStyle.Render("  No habits yet")
	}

	doneToday := 0
	bestStreak := 0
	bestTitle := ""
	longest := 0
	for _, rec := range s.records {
		if rec.IsDone(s.today) {
			doneToday++
		}
		if cur := rec.CurrentStreak(s.today); cur > bestStreak {
			bestStreak = cur
			bestTitle = rec.Title
		}
		if l := rec.LongestStreak(); l > longest {
			longest = l
		}
	}

	var rows []string
	rows = append(rows, titleStyle.Render("  Today"))
	rows = append(rows, fmt.Sprintf("  %s done",
		highlightStyle.Render(fmt.Sprintf("%d/%d", doneToday, len(s.records)))))
	if bestStreak > 0 {
		rows = append(rows, fmt.Sprintf("  %s %s (%s)",
			streakStyle.Render(fmt.Sprintf("%d day streak", bestStreak)),
			mutedStyle.Render("leader:"),
			truncate(bestTitle, min(w-24, 40)),
		))
	}
	rows = append(rows, fmt.Sprintf("  %s %d days",
		mutedStyle.Render("longest ever:"), longest))

	return strings.Join(rows, "\n")
}
