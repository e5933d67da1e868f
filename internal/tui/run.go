package tui

import (
	"context"
	"errors"

	agentrender "agentui/internal/render"

	tea "github.com/charmbracelet/bubbletea"
)

// Presenter forwards session output into a running Bubble Tea program.
type Presenter struct {
	send func(tea.Msg)
}

var _ agentrender.Presenter = (*Presenter)(nil)

func (p *Presenter) Present(ins agentrender.Instruction) error {
	p.send(instructionMsg{ins: ins})
	return nil
}

func (p *Presenter) Status(ind agentrender.Indicator) error {
	p.send(statusMsg{ind: ind})
	return nil
}

func (p *Presenter) Close() error { return nil }

// RenderFunc drives a session against the presenter until it is done.
type RenderFunc func(ctx context.Context, p agentrender.Presenter) error

// Run 封装 Bubble Tea 入口：fn 在后台 goroutine 中渲染，程序在 fn 返回或用户
// 中断后退出。用户中断时返回 context.Canceled。
func Run(ctx context.Context, opts Options, fn RenderFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(opts)
	model.onInterrupt = cancel

	programOptions := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen && !opts.DisableInput {
		programOptions = append(programOptions, tea.WithAltScreen(), tea.WithMouseCellMotion())
	}
	if opts.DisableInput {
		programOptions = append(programOptions, tea.WithInput(nil))
	}
	program := tea.NewProgram(model, programOptions...)

	fnDone := make(chan struct{})
	go func() {
		defer close(fnDone)
		err := fn(ctx, &Presenter{send: program.Send})
		program.Send(doneMsg{err: err})
	}()

	final, err := program.Run()
	cancel()
	<-fnDone
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) || errors.Is(err, tea.ErrProgramKilled) {
			return context.Canceled
		}
		return err
	}
	m, ok := final.(*Model)
	if !ok {
		return errors.New("unexpected tui model")
	}
	if m.Interrupted() {
		return context.Canceled
	}
	return m.Err()
}
