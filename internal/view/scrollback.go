package view

import (
	"fmt"
	"io"
	"os"

	tuirender "agentui/internal/tui/render"
)

// Scrollback 是历史区：内容一旦完成，就作为不可变的 block 追加写入终端的
// 自然滚动缓冲（或任意 io.Writer）。
type Scrollback struct {
	w     io.Writer
	width int
	err   error
}

type ScrollbackOptions struct {
	Writer io.Writer
	Width  int
}

func NewScrollback(opts ScrollbackOptions) *Scrollback {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	return &Scrollback{w: w, width: width}
}

// AppendCell 将一个已完成的 HistoryCell 写入 scrollback。
func (s *Scrollback) AppendCell(cell HistoryCell) error {
	if cell == nil {
		return nil
	}
	for _, line := range tuirender.LinesToStrings(cell.Render(s.width)) {
		if _, err := fmt.Fprintln(s.w, line); err != nil {
			return s.fail(err)
		}
	}
	return nil
}

// WriteRaw writes text as-is, for streamed deltas and status redraws.
func (s *Scrollback) WriteRaw(text string) error {
	if text == "" {
		return nil
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		return s.fail(err)
	}
	return nil
}

// Err is the first write error.
func (s *Scrollback) Err() error { return s.err }

func (s *Scrollback) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return err
}
