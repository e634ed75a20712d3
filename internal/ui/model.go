package ui

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/snkscrub/internal/chain"
	"github.com/olivier-w/snkscrub/internal/draw"
	"github.com/olivier-w/snkscrub/internal/scrub"
	"github.com/olivier-w/snkscrub/internal/spring"
	"github.com/olivier-w/snkscrub/internal/util"
)

// Config carries the knobs the scrubber view passes to its controller.
type Config struct {
	Params      spring.Params
	MaxTicks    int
	PrefixCache bool
	Profile     draw.Profile
	Logger      *slog.Logger
}

// Model is the Bubbletea model for the scrubber view.
type Model struct {
	ctrl   *scrub.Controller
	sched  *teaScheduler
	canvas *draw.Canvas
	bar    progress.Model
	name   string
	fps    int
	log    *slog.Logger

	target    int
	autoplay  bool
	loopMode  LoopMode
	camMoving bool

	gotoMode  bool
	gotoInput textinput.Model
	gotoErr   string

	width    int
	height   int
	quitting bool
}

// New creates a scrubber over scene. The controller's first tick is queued
// and handed to bubbletea by Init.
func New(scene *chain.Scene, cfg Config) (Model, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fps := cfg.Params.FPS
	if fps <= 0 {
		fps = spring.DefaultFPS
	}
	sched := newTeaScheduler(fps)
	canvas := draw.NewCanvas(draw.Options{Profile: cfg.Profile, FPS: fps})

	opts := []scrub.Option{
		scrub.WithParams(cfg.Params),
		scrub.WithMaxTicks(cfg.MaxTicks),
		scrub.WithLogger(log),
	}
	if cfg.PrefixCache {
		opts = append(opts, scrub.WithPrefixCache())
	}
	ctrl, err := scrub.New(scene.Chain, scene.Base, canvas, sched, opts...)
	if err != nil {
		return Model{}, fmt.Errorf("open %s: %w", scene.Name, err)
	}

	ti := textinput.New()
	ti.Placeholder = "0-" + strconv.Itoa(ctrl.Len())
	ti.CharLimit = 8
	ti.Width = 12

	bar := progress.New(
		progress.WithScaledGradient("#0E4429", "#39D353"),
		progress.WithoutPercentage(),
	)
	bar.Width = 40

	return Model{
		ctrl:      ctrl,
		sched:     sched,
		canvas:    canvas,
		bar:       bar,
		name:      scene.Name,
		fps:       fps,
		log:       log,
		gotoInput: ti,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sched.Cmd(), tea.SetWindowTitle(windowTitle(m.name)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.gotoMode {
			return m.updateGoto(msg)
		}
		if isQuit(msg) {
			m.quitting = true
			m.ctrl.Dispose()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		n := m.ctrl.Len()
		switch msg.String() {
		case "left", "h":
			return m.scrubTo(m.target - 1)
		case "right", "l":
			return m.scrubTo(m.target + 1)
		case "shift+left", "H":
			return m.scrubTo(m.target - 10)
		case "shift+right", "L":
			return m.scrubTo(m.target + 10)
		case "home", "0":
			return m.scrubTo(0)
		case "end", "$":
			return m.scrubTo(n)
		case "g":
			m.gotoMode = true
			m.gotoErr = ""
			m.gotoInput.Reset()
			return m, m.gotoInput.Focus()
		case " ":
			if m.autoplay {
				m.autoplay = false
				return m, nil
			}
			m.autoplay = true
			if m.target >= n {
				return m.retarget(0)
			}
			return m.retarget(n)
		case "r":
			m.loopMode = m.loopMode.Next()
			return m, nil
		}
		return m, nil

	case frameMsg:
		if !m.sched.fire(msg) {
			return m, nil
		}
		cmds := []tea.Cmd{m.sched.Cmd()}
		if st := m.ctrl.Status(); st.State == scrub.Idle {
			var cmd tea.Cmd
			m, cmd = m.settled(st)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case cameraMsg:
		if m.quitting || m.ctrl.Status().State != scrub.Idle {
			m.camMoving = false
			return m, nil
		}
		if m.canvas.StepCamera() {
			m.camMoving = false
			return m, nil
		}
		return m, cameraCmd(m.fps)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.SetViewport((msg.Width - 4) / 2)
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	}

	return m, nil
}

// scrubTo is a manual scrub: it stops autoplay before retargeting.
func (m Model) scrubTo(target int) (Model, tea.Cmd) {
	m.autoplay = false
	return m.retarget(target)
}

func (m Model) retarget(target int) (Model, tea.Cmd) {
	n := m.ctrl.Len()
	if target < 0 {
		target = 0
	}
	if target > n {
		target = n
	}
	m.target = target
	m.ctrl.SetTarget(float64(target))
	return m, m.sched.Cmd()
}

// settled runs once the controller goes idle: autoplay bounces or stops,
// and the camera finishes its pan.
func (m Model) settled(st scrub.Status) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if st.Bounded {
		m.autoplay = false
	}
	if m.autoplay {
		n := m.ctrl.Len()
		switch {
		case m.loopMode == LoopOn && m.target >= n:
			var cmd tea.Cmd
			m, cmd = m.retarget(0)
			cmds = append(cmds, cmd)
		case m.loopMode == LoopOn && m.target <= 0:
			var cmd tea.Cmd
			m, cmd = m.retarget(n)
			cmds = append(cmds, cmd)
		default:
			m.autoplay = false
		}
	}
	if !m.autoplay && !m.camMoving {
		m.camMoving = true
		cmds = append(cmds, cameraCmd(m.fps))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateGoto(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		raw := strings.TrimSpace(m.gotoInput.Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			m.gotoErr = fmt.Sprintf("not an index: %q", raw)
			return m, nil
		}
		m.gotoMode = false
		m.gotoInput.Blur()
		v = math.Max(0, math.Min(float64(m.ctrl.Len()), v))
		return m.scrubTo(int(math.Round(v)))
	case "esc":
		m.gotoMode = false
		m.gotoErr = ""
		m.gotoInput.Blur()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		m.ctrl.Dispose()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.ctrl.Status()
	n := m.ctrl.Len()

	header := headerStyle.Render("snkscrub")
	title := titleStyle.Render(m.name)

	posStr := timeStyle.Render(util.FormatPosition(st.Spring.X, n))
	caret := renderCaret(float64(m.target), n, m.bar.Width)

	statusText := fmt.Sprintf("target %d  tick %d  %s  %s", m.target, st.Ticks, util.FormatTicks(st.Ticks, m.fps), st.State)
	if m.autoplay {
		statusText += "  ▶ play"
	}
	if icon := m.loopMode.Icon(); icon != "" {
		statusText += "  " + icon
	}
	if st.Bounded {
		statusText += "  (tick bound)"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + header + "  " + title + "\n")
	b.WriteString("\n")
	b.WriteString(util.Indent(m.canvas.View(), "  ") + "\n")
	b.WriteString("\n")
	b.WriteString("  " + m.bar.ViewAs(ratio(st.Spring.X, n)) + "  " + posStr + "\n")
	b.WriteString("  " + timeStyle.Render(caret) + "\n")
	b.WriteString("  " + statusStyle.Render(statusText) + "\n")
	if m.gotoMode {
		b.WriteString("\n  " + statusStyle.Render("Go to index:") + " " + m.gotoInput.View() + "\n")
		if m.gotoErr != "" {
			b.WriteString("  " + errorStyle.Render(m.gotoErr) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString("  " + helpStyle.Render(helpText(m.gotoMode)) + "\n")

	view := b.String()
	if pad := m.height - lipgloss.Height(view); pad > 0 {
		view += strings.Repeat("\n", pad)
	}
	return view
}

// Dispose releases the controller. Safe to call more than once.
func (m Model) Dispose() {
	if m.ctrl != nil {
		m.ctrl.Dispose()
	}
}

func windowTitle(name string) string {
	return name + " | snkscrub"
}
