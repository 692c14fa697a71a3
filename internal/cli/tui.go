package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/battlemap/pkg/board"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/gesture"
	"github.com/matzehuels/battlemap/pkg/token"
)

const (
	// pollInterval is how often the view re-reads the store so changes made
	// elsewhere show up.
	pollInterval = 2 * time.Second

	// snapshotTimeout bounds a single token read.
	snapshotTimeout = 5 * time.Second
)

// panStep is how far an arrow key pans, in viewport units.
var panStep = geom.V(4, 2).TimesVec(cellPixels)

var (
	statusBarStyle = lipgloss.NewStyle().Foreground(colorGray)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorRed)
	modeDrawStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	modePickStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// =============================================================================
// Messages
// =============================================================================

// snapshotMsg carries a fresh token read.
type snapshotMsg struct {
	tokens []token.Token
	err    error
}

// commitMsg reports a finished background write.
type commitMsg token.Result

// pollMsg triggers the periodic re-read.
type pollMsg struct{}

// =============================================================================
// MapModel - Interactive battle map
// =============================================================================

// MapModel is the bubbletea model for the terminal map view. Mouse input is
// translated into pointer events for the board; keys drive the commands.
type MapModel struct {
	ctx    context.Context
	board  *board.Board
	store  token.Store
	logger *log.Logger

	width  int
	height int

	// held is the button set of the press in progress. Terminals do not
	// always report which button was released.
	held gesture.Button

	status    string
	statusErr bool
}

// NewMapModel creates a map model for b reading snapshots from store.
func NewMapModel(ctx context.Context, b *board.Board, store token.Store, logger *log.Logger) MapModel {
	if logger == nil {
		logger = log.Default()
	}
	return MapModel{ctx: ctx, board: b, store: store, logger: logger, width: 80, height: 23}
}

func (m MapModel) Init() tea.Cmd {
	return tea.Batch(m.fetchSnapshot, poll())
}

func (m MapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(1, msg.Height-1)

	case tea.MouseMsg:
		ev, held, ok := pointerEvent(msg, m.held)
		m.held = held
		if ok {
			m.board.Handle(ev)
		}

	case tea.BlurMsg:
		m.held = 0
		m.board.Handle(gesture.Event{Kind: gesture.Blur})

	case tea.KeyMsg:
		return m.key(msg)

	case commitMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("save %s %s: %w", msg.Kind, msg.Key, msg.Err))
		}
		return m, m.fetchSnapshot

	case snapshotMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("read tokens: %w", msg.err))
			return m, nil
		}
		m.board.SetSnapshot(msg.tokens)

	case pollMsg:
		return m, tea.Batch(m.fetchSnapshot, poll())
	}
	return m, nil
}

func (m MapModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.board.Handle(gesture.Event{Kind: gesture.Cancel})
		return m, tea.Quit
	case "esc":
		m.board.Handle(gesture.Event{Kind: gesture.Cancel})
	case "d":
		if m.board.ToggleDrawMode() {
			m.setStatus("draw mode: drag to mark an area")
		} else {
			m.setStatus("select mode")
		}
	case "h":
		if len(m.board.Selected()) == 0 {
			m.setStatus("nothing selected")
			break
		}
		if m.board.ToggleSelectedVisibility() {
			m.setStatus("revealed selection")
		} else {
			m.setStatus("hid selection")
		}
	case "0":
		m.board.ResetCamera()
	case "+", "=":
		m.board.Handle(gesture.Event{Kind: gesture.Wheel, Wheel: -1, Client: m.center()})
	case "-":
		m.board.Handle(gesture.Event{Kind: gesture.Wheel, Wheel: 1, Client: m.center()})
	case "left":
		m.pan(geom.V(panStep.X, 0))
	case "right":
		m.pan(geom.V(-panStep.X, 0))
	case "up":
		m.pan(geom.V(0, panStep.Y))
	case "down":
		m.pan(geom.V(0, -panStep.Y))
	case "r":
		return m, m.fetchSnapshot
	}
	return m, nil
}

func (m *MapModel) pan(delta geom.Vec) {
	m.board.SetCamera(m.board.Camera().MovedBy(delta))
}

// center returns the middle of the map area in viewport units.
func (m MapModel) center() geom.Vec {
	return geom.V(float64(m.width), float64(m.height)).TimesVec(cellPixels).DividedBy(2)
}

func (m *MapModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *MapModel) setError(err error) {
	m.logger.Warn("map view", "err", err)
	m.status, m.statusErr = err.Error(), true
}

func (m MapModel) fetchSnapshot() tea.Msg {
	ctx, cancel := context.WithTimeout(m.ctx, snapshotTimeout)
	defer cancel()
	tokens, err := m.store.Tokens(ctx, m.board.Scene().ID)
	return snapshotMsg{tokens: tokens, err: err}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m MapModel) View() string {
	var b strings.Builder
	b.WriteString(paintBoard(m.board, m.width, m.height).Render())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m MapModel) statusBar() string {
	sc := m.board.Scene()
	cam := m.board.Camera()

	mode := modePickStyle.Render("SELECT")
	if m.board.DrawMode() {
		mode = modeDrawStyle.Render("DRAW")
	}
	parts := []string{
		mode,
		sceneTitle(sc),
		fmt.Sprintf("zoom %+d (%.0f%%)", cam.ZoomTick, cam.Scale()*100),
		fmt.Sprintf("%d selected", len(m.board.Selected())),
	}

	line := strings.Join(parts, StyleDim.Render(" · "))
	switch {
	case m.statusErr:
		line += "  " + statusErrStyle.Render(m.status)
	case m.status != "":
		line += "  " + StyleDim.Render(m.status)
	default:
		line += "  " + StyleDim.Render("drag select · right-drag pan · wheel zoom · d draw · h hide · 0 reset · q quit")
	}
	return statusBarStyle.MaxWidth(max(m.width, 1)).Render(line)
}

// =============================================================================
// Mouse translation
// =============================================================================

// pointerEvent translates a terminal mouse message into a board pointer
// event. held is the button set of the press in progress; the returned set
// replaces it. Messages with no board meaning report false.
func pointerEvent(msg tea.MouseMsg, held gesture.Button) (gesture.Event, gesture.Button, bool) {
	ev := gesture.Event{
		Client: geom.V(float64(msg.X)+0.5, float64(msg.Y)+0.5).TimesVec(cellPixels),
		Shift:  msg.Shift,
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.Kind, ev.Wheel = gesture.Wheel, -1
		return ev, held, msg.Action == tea.MouseActionPress
	case tea.MouseButtonWheelDown:
		ev.Kind, ev.Wheel = gesture.Wheel, 1
		return ev, held, msg.Action == tea.MouseActionPress
	}

	switch msg.Action {
	case tea.MouseActionPress:
		b, ok := mouseButton(msg.Button)
		if !ok {
			return ev, held, false
		}
		ev.Kind, ev.Buttons = gesture.Down, b
		return ev, held | b, true
	case tea.MouseActionRelease:
		ev.Kind, ev.Buttons = gesture.Up, held
		if b, ok := mouseButton(msg.Button); ok {
			ev.Buttons = b
		}
		return ev, 0, true
	case tea.MouseActionMotion:
		ev.Kind, ev.Buttons = gesture.Move, held
		return ev, held, true
	}
	return ev, held, false
}

func mouseButton(b tea.MouseButton) (gesture.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return gesture.ButtonLeft, true
	case tea.MouseButtonRight:
		return gesture.ButtonRight, true
	case tea.MouseButtonMiddle:
		return gesture.ButtonMiddle, true
	}
	return 0, false
}
