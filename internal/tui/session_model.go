package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/balkashynov/grind/internal/audio"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/session"
	"github.com/balkashynov/grind/internal/speech"
)

// Recorder persists a completed session
type Recorder func(*models.Completion) error

// SessionOptions wires a session screen. Music, Flash and Recorder may be nil.
type SessionOptions struct {
	Engine        *session.Engine
	Cue           *speech.Cue
	Music         *audio.Channel
	Flash         *Flash
	Recorder      Recorder
	ExtendSeconds int
	Now           func() time.Time
	Log           zerolog.Logger
}

// completionSavedMsg reports the outcome of persisting the completion
type completionSavedMsg struct {
	err error
}

// SessionModel is the live workout screen
type SessionModel struct {
	width  int
	height int

	engine *session.Engine
	cue    *speech.Cue
	music  *audio.Channel
	flash  *Flash
	record Recorder
	extend int
	now    func() time.Time
	log    zerolog.Logger

	keys sessionKeyMap
	help help.Model
	bar  progress.Model

	sessionID  string
	startedAt  time.Time
	completion *models.Completion
	saving     bool
	saved      bool
	saveErr    error
	exited     bool
}

// NewSessionModel creates the session screen. Speech ducks the music from
// here on.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Flash == nil {
		opts.Flash = NewFlash(nil)
	}
	if opts.ExtendSeconds <= 0 {
		opts.ExtendSeconds = 15
	}
	if opts.Cue == nil {
		opts.Cue = speech.NewCue(nil, opts.Log)
	}
	if opts.Music != nil {
		opts.Cue.OnActiveChange(opts.Music.SetDucked)
	}

	return SessionModel{
		engine:    opts.Engine,
		cue:       opts.Cue,
		music:     opts.Music,
		flash:     opts.Flash,
		record:    opts.Recorder,
		extend:    opts.ExtendSeconds,
		now:       opts.Now,
		log:       opts.Log,
		keys:      newSessionKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithoutPercentage()),
		sessionID: uuid.NewString(),
		startedAt: opts.Now(),
	}
}

// Init starts the session and the music
func (m SessionModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.engine.Start()}
	if m.music != nil {
		cmds = append(cmds, m.music.Play())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width/2-10, 10), 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.CompletedMsg:
		return m.onCompleted(msg)

	case completionSavedMsg:
		m.saving = false
		m.saveErr = msg.err
		m.saved = msg.err == nil
		m.keys.Retry.SetEnabled(msg.err != nil)
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("session", m.sessionID).Msg("failed to save completion")
		}
		return m, nil

	case audio.TrackEndedMsg:
		if m.music == nil {
			return m, nil
		}
		return m, m.music.Update(msg)

	case flashTickMsg:
		return m, m.flash.step(msg)
	}

	cmd := m.engine.Update(msg)
	return m, tea.Batch(cmd, m.flash.Cmd())
}

func (m SessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Exit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.engine.Position().Phase == session.PhaseCompleted {
		switch {
		case key.Matches(msg, m.keys.Retry):
			if m.saveErr != nil && !m.saving {
				cmd := m.save()
				return m, cmd
			}
		case key.Matches(msg, m.keys.Done):
			m.teardown()
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Done):
		cmd = m.engine.Advance()
	case key.Matches(msg, m.keys.SkipRest):
		cmd = m.engine.SkipRest()
	case key.Matches(msg, m.keys.Extend):
		m.engine.ExtendRest(m.extend)
	case key.Matches(msg, m.keys.Pause):
		cmd = m.engine.TogglePause()
	case m.music == nil:
	case key.Matches(msg, m.keys.Mute):
		if m.music.Muted() {
			m.music.Unmute()
		} else {
			m.music.Mute()
		}
	case key.Matches(msg, m.keys.NextTrack):
		cmd = m.music.Next()
	case key.Matches(msg, m.keys.PrevTrack):
		cmd = m.music.Previous()
	case key.Matches(msg, m.keys.VolumeDown):
		m.music.SetVolume(m.music.Volume() - 10)
	case key.Matches(msg, m.keys.VolumeUp):
		m.music.SetVolume(m.music.Volume() + 10)
	}
	return m, tea.Batch(cmd, m.flash.Cmd())
}

func (m SessionModel) onCompleted(msg session.CompletedMsg) (tea.Model, tea.Cmd) {
	c := models.NewCompletion(m.sessionID, m.engine.Workout(), msg.Summary, m.startedAt, m.now())
	m.completion = &c
	if m.music != nil {
		m.music.Stop()
	}
	cmd := m.save()
	return m, cmd
}

// save persists the completion in the background. Retrying resends the
// same record.
func (m *SessionModel) save() tea.Cmd {
	if m.record == nil || m.completion == nil {
		return nil
	}
	m.saving = true
	m.saveErr = nil
	m.keys.Retry.SetEnabled(false)
	c, record := *m.completion, m.record
	return func() tea.Msg {
		return completionSavedMsg{err: record(&c)}
	}
}

func (m *SessionModel) teardown() {
	if !m.engine.Position().Phase.Terminal() {
		m.engine.Exit()
		m.exited = true
	}
	m.cue.Cancel()
	if m.music != nil {
		m.music.Stop()
	}
}

// Completion returns the completion record once the session has completed
func (m SessionModel) Completion() (*models.Completion, bool) {
	return m.completion, m.saved
}

// View renders the session TUI
func (m SessionModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))
	helpBarHeight := lipgloss.Height(helpBar)
	contentHeight := m.height - helpBarHeight - 1

	snap := m.engine.Snapshot()
	if snap.Phase == session.PhaseCompleted {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderSummary(snap, m.width, contentHeight), helpBar)
	}

	// Narrow view: just the live panel
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderLivePanel(snap, m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2 // -2 for gap

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLivePanel(snap, leftWidth, contentHeight),
		"  ",
		m.renderOutlinePanel(snap, rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
}

// renderLivePanel renders the current set or rest with its countdown
func (m SessionModel) renderLivePanel(snap session.Snapshot, width, height int) string {
	var components []string

	headerText, headerColor := "▶  WORK  ◀", ColorAccentBright
	if snap.Phase == session.PhaseResting {
		headerText, headerColor = "☕  REST  ☕", ColorWarning
	}
	if snap.Paused {
		headerText, headerColor = "⏸  PAUSED  ⏸", ColorDisabledText
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Render(headerText))

	sectionLine := snap.Section.Name
	if sectionLine == "" {
		sectionLine = snap.Workout
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(sectionLine))

	ex := snap.Exercise
	title := ex.Name
	if snap.Phase == session.PhaseResting && snap.Next != nil {
		title = "Next: " + snap.Next.Exercise.Name
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(truncate(title, width-4)))

	setLine := fmt.Sprintf("Set %d of %d", snap.SetIndex+1, ex.Sets())
	if snap.Phase == session.PhaseResting && snap.Next != nil {
		setLine = fmt.Sprintf("Then set %d of %d · %s", snap.Next.SetIndex+1, snap.Next.Exercise.Sets(), snap.Next.Exercise.Target())
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorAccentMain)).
		Render(setLine))

	// Big clock for timed phases, rep target otherwise
	clockColor := ColorAccentBright
	if snap.Phase == session.PhaseResting {
		clockColor = ColorWarning
	}
	if m.flash.Lit() {
		clockColor = ColorError
	}
	var big string
	switch {
	case snap.HasTimer:
		big = renderBigText(clockText(snap.Timer.RemainingSeconds), clockColor)
	default:
		if n, ok := parser.ParseRepsTarget(ex.RepsTarget); ok {
			big = renderBigText(fmt.Sprintf("x%d", n), clockColor)
		} else {
			big = lipgloss.NewStyle().
				Foreground(lipgloss.Color(clockColor)).
				Bold(true).
				Render(ex.Target())
		}
	}
	components = append(components, centerLines(big, width))

	if snap.HasTimer {
		components = append(components, centered(width).Render(m.bar.ViewAs(snap.Timer.Progress())))
	}

	overall := fmt.Sprintf("%d / %d sets done", snap.SetsDone, snap.SetsTotal)
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(overall))

	if snap.Speaking {
		components = append(components, centered(width).
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("🔊 "+truncate(snap.SpeechText, width-6)))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderOutlinePanel renders the workout outline and the music status
func (m SessionModel) renderOutlinePanel(snap session.Snapshot, width, height int) string {
	def := m.engine.Workout()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-4).
		Padding(0, 1)
	b.WriteString(titleStyle.Render(def.Title))
	b.WriteString("\n")

	meta := []string{string(def.Difficulty)}
	if len(def.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(def.Tags, " #"))
	}
	b.WriteString(centered(width - 2).
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	for si, s := range def.Sections {
		name := s.Name
		if s.OrderPolicy == models.OrderCircuit {
			name += " (circuit)"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(name))
		b.WriteString("\n")
		if len(s.Exercises) == 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("  (empty)"))
			b.WriteString("\n")
		}
		for ei, ex := range s.Exercises {
			b.WriteString(outlineRow(snap, si, ei, ex, width-4))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderMusicStatus(width - 4))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width - 2).
		MaxHeight(height).
		Render(b.String())
}

// outlineRow renders one exercise with its done-sets count
func outlineRow(snap session.Snapshot, si, ei int, ex models.Exercise, width int) string {
	done := setsDone(snap, si, ei, ex)
	marker, color := "·", ColorSecondaryText
	switch {
	case si == snap.SectionIndex && ei == snap.ExerciseIndex && snap.Phase == session.PhasePerforming:
		marker, color = "▸", ColorAccentBright
	case done == ex.Sets():
		marker, color = "✓", ColorDisabledText
	}
	row := fmt.Sprintf(" %s %s  %s  %d/%d", marker, ex.Name, ex.Target(), done, ex.Sets())
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(truncate(row, width))
}

func setsDone(snap session.Snapshot, si, ei int, ex models.Exercise) int {
	switch {
	case si < snap.SectionIndex || (si == snap.SectionIndex && ei < snap.ExerciseIndex):
		return ex.Sets()
	case si == snap.SectionIndex && ei == snap.ExerciseIndex:
		if snap.Phase == session.PhaseResting {
			return snap.SetIndex + 1
		}
		return snap.SetIndex
	}
	return 0
}

func (m SessionModel) renderMusicStatus(width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	if m.music == nil || m.music.Inert() {
		return style.Foreground(lipgloss.Color(ColorDisabledText)).Render("♪ no music")
	}

	var flags []string
	switch {
	case m.music.Muted():
		flags = append(flags, "muted")
	case m.music.Ducked():
		flags = append(flags, "ducked")
	}
	if !m.music.Playing() {
		flags = append(flags, "stopped")
	}
	line := fmt.Sprintf("♪ %s (%d/%d) · vol %d", filepath.Base(m.music.Track()), m.music.Index()+1, m.music.Len(), m.music.Volume())
	if len(flags) > 0 {
		line += " · " + strings.Join(flags, ", ")
	}
	return style.Render(truncate(line, width))
}

// renderSummary renders the reward screen shown after completion
func (m SessionModel) renderSummary(snap session.Snapshot, width, height int) string {
	var components []string

	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorSuccess)).
		Bold(true).
		Render("🏆  WORKOUT COMPLETE  🏆"))
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(snap.Workout))

	var summary models.SessionSummary
	if snap.Summary != nil {
		summary = *snap.Summary
	}
	components = append(components, centerLines(renderBigText(fmt.Sprintf("%d", summary.XPEarned), ColorAccentBright), width))
	components = append(components, centered(width).Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).Render("XP EARNED"))

	timing := fmt.Sprintf("Estimated %s", parser.FormatSeconds(summary.EstimatedDurationSeconds))
	if m.completion != nil {
		timing += fmt.Sprintf(" · took %s", parser.FormatSeconds(m.completion.ElapsedSeconds))
	}
	components = append(components, centered(width).Foreground(lipgloss.Color(ColorSecondaryText)).Render(timing))

	if bars := renderDistribution(summary, min(width-20, 40)); bars != "" {
		components = append(components, centerLines(bars, width))
	}

	var status string
	switch {
	case m.saving:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("saving…")
	case m.saveErr != nil:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("❌ not saved: " + m.saveErr.Error() + " · press r to retry")
	case m.saved:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✅ saved to history")
	}
	if status != "" {
		components = append(components, centered(width).Render(status))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderDistribution draws one bar per rewarded attribute, scaled to the largest share
func renderDistribution(s models.SessionSummary, width int) string {
	top := 0
	for _, xp := range s.AttributeDistribution {
		top = max(top, xp)
	}
	if top == 0 || width <= 0 {
		return ""
	}

	var lines []string
	for _, attr := range models.Attributes {
		xp, ok := s.AttributeDistribution[attr]
		if !ok {
			continue
		}
		n := xp * width / top
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(AttributeColors[attr])).
			Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%-12s %s %d", attr, bar, xp))
	}
	return strings.Join(lines, "\n")
}

func centerLines(block string, width int) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = centered(width).Render(line)
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
