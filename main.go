package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/streakr/internal/config"
	"github.com/sadopc/streakr/internal/habit"
	"github.com/sadopc/streakr/internal/rollover"
	"github.com/sadopc/streakr/internal/service"
	"github.com/sadopc/streakr/internal/store"
	"github.com/sadopc/streakr/internal/tui"
	"github.com/sadopc/streakr/internal/vault"
)

func main() {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	indexPath, err := vault.DefaultIndexPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	v, err := vault.Open(cfg.VaultDir, indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening vault: %v\n", err)
		os.Exit(1)
	}
	defer v.Close()

	st := store.New(v, store.Config{
		FlagField:   cfg.FlagField,
		DeriveCount: cfg.DeriveCount,
	})
	svc := service.New(st, v, cfg)

	app := tui.NewApp(svc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	svc.Warnf = func(format string, args ...any) {
		p.Send(tui.WarnMsg{Text: fmt.Sprintf(format, args...)})
	}

	// External edits refresh the UI.
	v.OnDocumentModified(func(string) { p.Send(tui.VaultChangedMsg{}) })
	v.OnDocumentDeleted(func(string) { p.Send(tui.VaultChangedMsg{}) })
	if err := v.StartWatch(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: vault watch disabled: %v\n", err)
	}

	watch := rollover.New(cfg.RolloverInterval())
	watch.AddCallback(func(old, new habit.Day) {
		p.Send(tui.DayChangedMsg{Old: old, New: new})
	})
	watch.Start()
	defer watch.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
