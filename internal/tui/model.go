package tui

import (
	"strings"

	"agentui/internal/clock"
	agentrender "agentui/internal/render"
	"agentui/internal/theme"
	"agentui/internal/tui/render"
	"agentui/internal/view"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options 控制交互式渲染程序。
type Options struct {
	Theme theme.Name
	View  view.Options
	Clock clock.Clock
	// AltScreen 使用备用屏幕与可滚动的 transcript 视口，渲染结束后等待按 q 退出；
	// 默认内联输出，结束后 transcript 留在终端滚动区。
	AltScreen bool
	// DisableInput 不读取键盘（stdin 被消息流占用时）。
	DisableInput bool
}

type instructionMsg struct{ ins agentrender.Instruction }

type statusMsg struct{ ind agentrender.Indicator }

type doneMsg struct{ err error }

// Model 是渲染一个 session 的 Bubble Tea 模型：已完成的 cell 通过
// tea.Println 写入滚动区，正在打字的 segment 与状态行留在 View 中重绘。
type Model struct {
	builder *view.Builder
	status  *StatusIndicatorWidget
	spin    spinner.Model
	active  view.HistoryCell
	// pending 是等待工具结果的 cell，结果到达前留在 View 中重绘。
	pending []view.HistoryCell
	// viewport 仅在 AltScreen 模式下承载 transcript。
	altScreen bool
	viewport  render.Viewport
	styles    theme.Styles

	transcript  []string
	width       int
	height      int
	done        bool
	interrupted bool
	err         error
	onInterrupt func()
}

// New 构造模型。
func New(opts Options) *Model {
	ctx := view.NewContext(opts.Theme, opts.View)
	spin := spinner.New()
	spin.Spinner = spinner.Spinner{Frames: ctx.Theme.SpinnerFrames(), FPS: spinnerInterval}
	spin.Style = lipgloss.NewStyle()

	return &Model{
		builder: view.NewBuilder(ctx),
		status: NewStatusIndicatorWidget(StatusIndicatorOptions{
			State:             StatusIdle,
			Theme:             ctx.Theme,
			ShowInterruptHint: !opts.DisableInput,
			Clock:             opts.Clock,
		}),
		spin:      spin,
		altScreen: opts.AltScreen && !opts.DisableInput,
		viewport:  render.NewViewport(80, 23),
		styles:    ctx.Styles,
		width:     80,
		height:    24,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.viewport.Resize(m.width, m.height-1)
	case instructionMsg:
		cmds = append(cmds, m.apply(msg.ins)...)
	case statusMsg:
		m.status.SetState(StateFor(msg.ind))
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.status.SetFrame(m.spin.View())
		cmds = append(cmds, cmd)
	case doneMsg:
		m.done = true
		m.err = msg.err
		m.active = nil
		m.pending = nil
		m.status.SetState(StatusIdle)
		flushed := m.appendDone(m.builder.Flush().Done)
		// 全屏模式保留画面，等待用户浏览后退出
		if !m.altScreen {
			if len(flushed) == 0 {
				return m, tea.Quit
			}
			return m, tea.Sequence(append(flushed, tea.Quit)...)
		}
		cmds = append(cmds, flushed...)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			if !m.done {
				m.interrupted = true
				if m.onInterrupt != nil {
					m.onInterrupt()
				}
			}
			m.done = true
			m.altScreen = false
			cmds = append(cmds, tea.Quit)
		default:
			if m.altScreen {
				cmds = append(cmds, m.viewport.HandleUpdate(msg))
			}
		}
	case tea.MouseMsg:
		if m.altScreen {
			cmds = append(cmds, m.viewport.HandleUpdate(msg))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) apply(ins agentrender.Instruction) []tea.Cmd {
	frame := m.builder.Apply(ins)
	cmds := m.appendDone(frame.Done)
	m.pending = frame.Pending
	m.active = frame.Active
	return cmds
}

// appendDone moves completed cells into the transcript.
func (m *Model) appendDone(cells []view.HistoryCell) []tea.Cmd {
	var cmds []tea.Cmd
	for _, cell := range cells {
		lines := render.LinesToStrings(cell.Render(m.width))
		if len(lines) == 0 {
			continue
		}
		m.transcript = append(m.transcript, lines...)
		if m.altScreen {
			m.viewport.AppendLines(lines...)
			continue
		}
		cmds = append(cmds, tea.Println(strings.Join(lines, "\n")))
	}
	return cmds
}

func (m *Model) View() string {
	if m.altScreen {
		return m.fullscreenView()
	}
	if m.done {
		return ""
	}
	return strings.Join(m.liveLines(), "\n")
}

// liveLines are the cells waiting on a tool result, the typing segment and
// the status line.
func (m *Model) liveLines() []string {
	var lines []string
	for _, cell := range m.pending {
		lines = append(lines, render.LinesToStrings(cell.Render(m.width))...)
	}
	if m.active != nil {
		lines = append(lines, render.LinesToStrings(m.active.Render(m.width))...)
	}
	return append(lines, render.LinesToStrings(m.status.Render(m.width))...)
}

func (m *Model) fullscreenView() string {
	footer := m.liveLines()
	if m.done {
		footer = []string{m.styles.Dim.Render("Done · ↑/↓ pgup/pgdn to scroll · q to quit")}
	}
	// 视口高度随底部内容变化
	m.viewport.Resize(m.width, m.height-len(footer))
	return strings.Join(append([]string{m.viewport.View()}, footer...), "\n")
}

// Transcript returns the lines printed to the scrollback so far.
func (m *Model) Transcript() []string {
	return append([]string(nil), m.transcript...)
}

// Interrupted reports whether the user stopped the program.
func (m *Model) Interrupted() bool { return m.interrupted }

// Err is the error the render loop finished with.
func (m *Model) Err() error { return m.err }
