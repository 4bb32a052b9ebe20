// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     viewer
// Description: Bubbletea model of the operation viewer
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/operation"
	viewmodel "github.com/msto63/alarmview/internal/viewer"
	"github.com/msto63/alarmview/pkg/command"
)

// ErrNilViewModel is returned by New without a view-model
var ErrNilViewModel = mdwerror.New("tui: view-model must not be nil").WithCode(mdwerror.CodePrecondition)

// shell holds the viewer's own commands. They are bound by naming
// convention.
type shell struct {
	Quit       command.Slot
	ToggleHelp command.Slot

	quitting bool
	showAll  bool
}

// QuitExecute ends the program
func (s *shell) QuitExecute(param any) {
	s.quitting = true
}

// ToggleHelpExecute switches between short and full help
func (s *shell) ToggleHelpExecute(param any) {
	s.showAll = !s.showAll
}

// Config holds viewer configuration
type Config struct {
	Title      string
	ViewModel  *viewmodel.ViewModel
	Operations <-chan *operation.Operation
	FeedStatus <-chan FeedStatus
	// FeedEnabled shows the feed state in the status bar
	FeedEnabled bool
	Binder      *command.Binder
	Logger      *log.Logger
	Clock       func() time.Time
}

// Model is the Bubbletea model of the operation viewer
type Model struct {
	width  int
	height int

	title string
	now   time.Time
	clock func() time.Time

	vm     *viewmodel.ViewModel
	shell  *shell
	binder *command.Binder
	keys   *keyMap
	help   help.Model
	// unfollow ends the enablement subscriptions of keys
	unfollow []func()
	logger *log.Logger

	operations <-chan *operation.Operation
	feedStatus <-chan FeedStatus
	feed       bool
	feedOnline bool
	err        error
}

// New creates a viewer model and binds the shell commands
func New(cfg Config) (Model, error) {
	if cfg.ViewModel == nil {
		return Model{}, ErrNilViewModel
	}
	if cfg.Title == "" {
		cfg.Title = "Einsatz-Monitor"
	}
	if cfg.Binder == nil {
		cfg.Binder = command.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetDefault()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	sh := &shell{}
	if _, err := cfg.Binder.Bind(sh); err != nil {
		return Model{}, err
	}

	h := help.New()
	h.ShortSeparator = " · "

	keys := defaultKeyMap().withVehicles(cfg.ViewModel.VehicleConfiguration())
	unfollow := keys.follow(cfg.ViewModel)

	return Model{
		title:      cfg.Title,
		now:        cfg.Clock(),
		clock:      cfg.Clock,
		vm:         cfg.ViewModel,
		shell:      sh,
		binder:     cfg.Binder,
		keys:       &keys,
		unfollow:   unfollow,
		help:       h,
		logger:     cfg.Logger.WithField("component", "tui"),
		operations: cfg.Operations,
		feedStatus: cfg.FeedStatus,
		feed:       cfg.FeedEnabled,
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return refreshMsg{} },
		waitForOperation(m.operations),
		waitForStatus(m.feedStatus),
		tick(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case refreshMsg:
		m.err = m.vm.Refresh.Execute(nil)

	case operationMsg:
		if err := m.vm.AddOperation(msg.op); err != nil {
			m.logger.ErrorWithErr("failed to add operation", err)
			m.err = err
		} else {
			m.err = nil
		}
		return m, waitForOperation(m.operations)

	case feedStatusMsg:
		m.feedOnline = msg.Connected
		if msg.Err != nil && !msg.Connected {
			m.logger.Debug("feed offline", log.Fields{"error": msg.Err.Error()})
		}
		return m, waitForStatus(m.feedStatus)

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	}

	return m, nil
}

// handleKeyPress dispatches keys to the bound commands. Built-in bindings
// take precedence over vehicle shortcuts.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		_, err = m.shell.Quit.TryExecute(nil)
	case key.Matches(msg, m.keys.Help):
		_, err = m.shell.ToggleHelp.TryExecute(nil)
		m.help.ShowAll = m.shell.showAll
	case key.Matches(msg, m.keys.Acknowledge):
		_, err = m.vm.Acknowledge.TryExecute(nil)
	case key.Matches(msg, m.keys.Next):
		_, err = m.vm.Next.TryExecute(nil)
	case key.Matches(msg, m.keys.Previous):
		_, err = m.vm.Previous.TryExecute(nil)
	case key.Matches(msg, m.keys.Refresh):
		_, err = m.vm.Refresh.TryExecute(nil)
	default:
		for _, vk := range m.keys.Vehicles {
			if key.Matches(msg, vk.binding) {
				_, err = m.vm.ToggleVehicle.TryExecute(vk.identifier)
				break
			}
		}
	}

	m.err = err
	if m.shell.quitting {
		return m, tea.Quit
	}
	return m, nil
}

// Close ends the key subscriptions and unbinds the shell commands
func (m Model) Close() error {
	for _, cancel := range m.unfollow {
		cancel()
	}
	return m.binder.Unbind(m.shell)
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderOperation())
	b.WriteString("\n")
	b.WriteString(m.renderVehicles())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(*m.keys))

	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render(m.title)
	clock := ClockStyle.Render(m.now.Format("02.01.2006 15:04:05"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", clock)
}

func (m Model) renderOperation() string {
	op := m.vm.Current()
	if op == nil {
		return EmptyStyle.Render("Kein Einsatz vorhanden")
	}

	var b strings.Builder
	b.WriteString(KeywordStyle.Render(op.Title()))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(ValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Nummer", op.Number)
	row("Zeit", fmt.Sprintf("%s (vor %s)", op.Timestamp.Local().Format("02.01.2006 15:04"), since(m.now, op.Timestamp)))
	row("Einsatzort", op.Location.String())
	row("Bemerkung", op.Comment)

	if op.IsAcknowledged() {
		row("Status", AcknowledgedStyle.Render("quittiert "+op.AcknowledgedAt.Local().Format("15:04")))
	} else {
		row("Status", PendingStyle.Render("nicht quittiert"))
	}

	resources := m.vm.Resources()
	if len(resources) > 0 {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Einheiten"))
		b.WriteString("\n")
		for _, rv := range resources {
			line := "  " + rv.Resource.Name
			if rv.Vehicle != nil {
				mark := ""
				if rv.Marked {
					mark = " ✓"
				}
				b.WriteString(OwnResourceStyle.Render(line + " → " + rv.Vehicle.DisplayName() + mark))
			} else {
				b.WriteString(OtherResourceStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderVehicles() string {
	views := m.vm.Vehicles()
	if len(views) == 0 {
		return ""
	}

	tiles := make([]string, 0, len(views))
	for _, v := range views {
		label := v.Vehicle.DisplayName()
		if !v.Vehicle.Shortkey.IsNone() {
			label = fmt.Sprintf("%s [%s]", label, v.Vehicle.Shortkey)
		}

		style := VehicleStyle
		switch {
		case v.Marked:
			style = VehicleMarkedStyle
		case v.Requested:
			style = VehicleRequestedStyle
		}
		tiles = append(tiles, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m Model) renderStatusBar() string {
	idx, total := m.vm.Position()
	parts := []string{}
	if total > 0 {
		parts = append(parts, fmt.Sprintf("Einsatz %d/%d", idx+1, total))
	} else {
		parts = append(parts, "Einsatz 0/0")
	}

	if m.feed {
		if m.feedOnline {
			parts = append(parts, StatusOnlineStyle.Render("● Verbunden"))
		} else {
			parts = append(parts, StatusOfflineStyle.Render("● Getrennt"))
		}
	}

	if m.err != nil {
		parts = append(parts, ErrorStyle.Render("Fehler: "+m.err.Error()))
	}

	return StatusBarStyle.Render(strings.Join(parts, "  "))
}

// since formats the time elapsed since t in minutes or hours
func since(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
	return fmt.Sprintf("%d h %02d min", int(d.Hours()), int(d.Minutes())%60)
}

// Run starts the viewer until the user quits or ctx is cancelled
func Run(ctx context.Context, cfg Config) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
