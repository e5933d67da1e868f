package render

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewport 包装 bubbles viewport，用于全屏模式下的 transcript：内容只追加，
// 位于底部时自动跟随新内容。
type Viewport struct {
	viewport.Model
	lines []string
}

// NewViewport 创建视口。
func NewViewport(width, height int) Viewport {
	return Viewport{Model: viewport.New(width, height)}
}

// Resize 更新宽高，保持底部锚定。
func (v *Viewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if height < 1 {
		height = 1
	}
	stick := v.AtBottom()
	v.Width = width
	v.Height = height
	if stick {
		v.GotoBottom()
	}
}

// HandleUpdate 代理 bubbles 的 Update（按键、鼠标滚动）。
func (v *Viewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// AppendLines 追加内容；追加前位于底部时跟随到新的底部。
func (v *Viewport) AppendLines(lines ...string) {
	if v == nil || len(lines) == 0 {
		return
	}
	stick := v.AtBottom() || len(v.lines) == 0
	v.lines = append(v.lines, lines...)
	v.SetContent(strings.Join(v.lines, "\n"))
	if stick {
		v.GotoBottom()
	}
}

// LineCount 返回已追加的行数。
func (v *Viewport) LineCount() int {
	if v == nil {
		return 0
	}
	return len(v.lines)
}

// ScrollPageDown 下翻一页。
func (v *Viewport) ScrollPageDown() {
	if v == nil {
		return
	}
	v.PageDown()
}

// ScrollPageUp 上翻一页。
func (v *Viewport) ScrollPageUp() {
	if v == nil {
		return
	}
	v.PageUp()
}
