package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/snkscrub/internal/chain"
	"github.com/olivier-w/snkscrub/internal/draw"
	"github.com/olivier-w/snkscrub/internal/scrub"
	"github.com/olivier-w/snkscrub/internal/spring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	scene, err := chain.Parse([]byte("name: line\ngrid: \"1234\"\nsnake: [[-1, 0]]\nmoves: RRRR\n"))
	require.NoError(t, err)
	m, err := New(scene, Config{Params: spring.DefaultParams(), Profile: draw.ProfileNone})
	require.NoError(t, err)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runFrames delivers current frames until the controller idles.
func runFrames(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if m.ctrl.Status().State == scrub.Idle {
			return m
		}
		m, _ = m.handleMsg(frameMsg{seq: m.sched.seq})
	}
	require.Failf(t, "controller never went idle", "%+v", m.ctrl.Status())
	return m
}

// gotoValue opens the goto prompt, types s and submits it.
func gotoValue(m Model, s string) Model {
	m, _ = m.handleMsg(key("g"))
	m, _ = m.handleMsg(key(s))
	m, _ = m.handleMsg(key("enter"))
	return m
}

func TestNewQueuesFirstFrame(t *testing.T) {
	m := newTestModel(t)

	require.NotNil(t, m.sched.pending, "first frame queued")
	assert.NotNil(t, m.Init(), "init command")
	assert.Nil(t, m.sched.pending, "Init hands the frame to bubbletea")
	assert.Equal(t, scrub.Scheduled, m.ctrl.Status().State)
}

func TestArrowKeysRetarget(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.handleMsg(key("right"))
	assert.Equal(t, 1, next.target)
	assert.NotNil(t, cmd, "frame command after retarget")
	assert.Equal(t, 1.0, next.ctrl.Status().Spring.Target)

	next, _ = next.handleMsg(key("L"))
	assert.Equal(t, 4, next.target, "jump clamped to the end")
	next, _ = next.handleMsg(key("left"))
	assert.Equal(t, 3, next.target)
}

func TestScrubClampsAtEnds(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.handleMsg(key("end"))
	assert.Equal(t, 4, m.target)
	m, _ = m.handleMsg(key("right"))
	assert.Equal(t, 4, m.target)
	m, _ = m.handleMsg(key("home"))
	m, _ = m.handleMsg(key("left"))
	assert.Equal(t, 0, m.target)
}

func TestStaleFrameIgnored(t *testing.T) {
	m := newTestModel(t)
	stale := frameMsg{seq: m.sched.seq}

	m, _ = m.handleMsg(key("right"))

	next, cmd := m.handleMsg(stale)
	assert.Nil(t, cmd, "no command for a stale frame")
	assert.Equal(t, 0, next.ctrl.Status().Ticks)

	next, cmd = next.handleMsg(frameMsg{seq: next.sched.seq})
	assert.Equal(t, 1, next.ctrl.Status().Ticks)
	assert.NotNil(t, cmd, "next frame command")
}

func TestFramesSettleOnTarget(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleMsg(key("end"))
	m = runFrames(t, m)

	st := m.ctrl.Status()
	assert.Equal(t, 4.0, st.Spring.X)
	assert.Zero(t, st.Spring.V)
	assert.True(t, m.camMoving, "camera pan starts once idle")
	assert.NotZero(t, m.canvas.Renders())
	assert.Contains(t, m.canvas.View(), "eaten 4")
}

func TestAutoplayStopsAtEnd(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.handleMsg(key(" "))
	require.True(t, m.autoplay)
	require.Equal(t, 4, m.target)
	m = runFrames(t, m)
	assert.False(t, m.autoplay, "autoplay stops without loop")

	m, _ = m.handleMsg(key(" "))
	assert.Equal(t, 0, m.target, "autoplay from the end heads back to 0")
	m, _ = m.handleMsg(key(" "))
	assert.False(t, m.autoplay, "space toggles autoplay off")
}

func TestAutoplayLoopBounces(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleMsg(key("r"))
	require.Equal(t, LoopOn, m.loopMode)

	m, _ = m.handleMsg(key(" "))
	for i := 0; i < 1000 && m.target == 4; i++ {
		m, _ = m.handleMsg(frameMsg{seq: m.sched.seq})
	}
	assert.Equal(t, 0, m.target, "loop bounces back to 0")
	assert.True(t, m.autoplay, "autoplay continues while looping")
	assert.Equal(t, scrub.Scheduled, m.ctrl.Status().State)
}

func TestManualScrubStopsAutoplay(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleMsg(key(" "))
	m, _ = m.handleMsg(key("left"))
	assert.False(t, m.autoplay)
	assert.Equal(t, 3, m.target)
}

func TestGotoJumpsToRoundedIndex(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.handleMsg(key("g"))
	require.True(t, m.gotoMode)
	m, _ = m.handleMsg(key("2.6"))
	m, _ = m.handleMsg(key("enter"))
	assert.False(t, m.gotoMode, "goto mode closes")
	assert.Equal(t, 3, m.target)
}

func TestGotoClampsHugeValues(t *testing.T) {
	m := newTestModel(t)

	m = gotoValue(m, "1e300")
	assert.False(t, m.gotoMode)
	assert.Equal(t, 4, m.target)
	assert.Equal(t, 4.0, m.ctrl.Status().Spring.Target)

	m = gotoValue(m, "-1e300")
	assert.Equal(t, 0, m.target)
	assert.Equal(t, 0.0, m.ctrl.Status().Spring.Target)
}

func TestGotoRejectsGarbage(t *testing.T) {
	m := newTestModel(t)

	m = gotoValue(m, "abc")
	assert.True(t, m.gotoMode, "goto mode stays open")
	assert.NotEmpty(t, m.gotoErr)
	assert.Equal(t, 0, m.target)

	m, _ = m.handleMsg(key("esc"))
	assert.False(t, m.gotoMode)
	assert.Empty(t, m.gotoErr)
}

func TestQuitDisposesController(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.handleMsg(key("q"))
	assert.NotNil(t, cmd, "quit command")
	assert.True(t, m.quitting)
	assert.Equal(t, scrub.Disposed, m.ctrl.Status().State)
	assert.True(t, m.canvas.Released())
	assert.Empty(t, m.View())

	m.Dispose()
	assert.Equal(t, 1, m.canvas.Releases(), "a single release")
}

func TestViewPadsToWindowHeight(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = runFrames(t, m)

	view := m.View()
	assert.Equal(t, 40, lipgloss.Height(view))
	assert.Contains(t, view, "line")
}

func TestCameraMsgStopsWhileScheduled(t *testing.T) {
	m := newTestModel(t)
	m.camMoving = true

	next, cmd := m.handleMsg(cameraMsg{})
	assert.Nil(t, cmd, "no camera command while a tick is pending")
	assert.False(t, next.camMoving)
}

func TestTeaSchedulerDropsCancelledFrames(t *testing.T) {
	s := newTeaScheduler(60)
	ran := 0

	s.ScheduleNextTick(func() { ran++ })
	first := frameMsg{seq: s.seq}
	s.CancelPendingTick()
	assert.Nil(t, s.Cmd(), "cancel drops the queued command")
	assert.False(t, s.fire(first), "cancelled frame dropped")

	s.ScheduleNextTick(func() { ran++ })
	assert.NotNil(t, s.Cmd(), "queued command")
	assert.Nil(t, s.Cmd(), "Cmd drains")
	current := frameMsg{seq: s.seq}
	assert.True(t, s.fire(current))
	assert.False(t, s.fire(current), "a frame runs once")
	assert.Equal(t, 1, ran)
}

func TestRenderCaret(t *testing.T) {
	assert.Equal(t, strings.Repeat(" ", 17)+"^", renderCaret(4, 4, 18))
	assert.Equal(t, strings.Repeat(" ", 10)+"^", renderCaret(2, 4, 21))
	assert.Equal(t, "^", renderCaret(9, 0, 10), "caret at start for empty chain")
}

func TestBarWidthBounds(t *testing.T) {
	assert.Equal(t, 20, barWidth(10))
	assert.Equal(t, 50, barWidth(70))
	assert.Equal(t, 80, barWidth(300))
}

func TestLoopModeCycles(t *testing.T) {
	assert.Equal(t, LoopOn, LoopOff.Next())
	assert.Equal(t, LoopOff, LoopOn.Next())
	assert.Empty(t, LoopOff.Icon())
	assert.NotEmpty(t, LoopOn.Icon())
}
