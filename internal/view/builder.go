package view

import (
	"fmt"

	"agentui/internal/message"
	"agentui/internal/render"
	"agentui/internal/stream"
	"agentui/internal/toolstate"
)

// Frame is what one instruction adds to the screen.
type Frame struct {
	// Done are completed cells, in order, to append to scrollback.
	Done []HistoryCell
	// Pending are cells held back behind a tool call that has no result
	// yet, in order. They are redrawn from every later frame and move to
	// Done once the call resolves.
	Pending []HistoryCell
	// Active is the segment still being typed, if any. It comes after
	// Pending.
	Active HistoryCell
}

// CellBuilder handles one message category.
type CellBuilder interface {
	Category() message.Category
	Build(b *Builder, ins render.Instruction) Frame
}

// Builder maps instructions to cells. It remembers which assistant segments
// were already emitted so repeated frames of a typed message only add what
// is new.
type Builder struct {
	ctx      *Context
	builders map[message.Category]CellBuilder
	emitted  map[string]bool
	toolUses map[string]message.Block
	// held 以第一个未出结果的工具调用开头，之后的 cell 按序排队。
	held []heldCell
}

type heldCell struct {
	cell HistoryCell
	seq  int
}

// resolvable is a cell whose look depends on tool state. resolve reports
// whether the cell is settled.
type resolvable interface {
	resolve(tools toolstate.States) (HistoryCell, bool)
}

// NewBuilder returns a builder with the default category handlers.
func NewBuilder(ctx *Context) *Builder {
	b := &Builder{
		ctx:      ctx,
		builders: map[message.Category]CellBuilder{},
		emitted:  map[string]bool{},
		toolUses: map[string]message.Block{},
	}
	for _, cb := range defaultCellBuilders() {
		b.Register(cb)
	}
	return b
}

// Context returns the shared cell context.
func (b *Builder) Context() *Context { return b.ctx }

// Register replaces the handler for a category.
func (b *Builder) Register(cb CellBuilder) {
	if cb == nil {
		return
	}
	b.builders[cb.Category()] = cb
}

// Apply builds the frame for ins. Unknown categories produce nothing of
// their own. Cells behind an unresolved tool call are held until the call
// resolves; a later assistant message or the final result releases them as
// they are.
func (b *Builder) Apply(ins render.Instruction) Frame {
	var f Frame
	if cb := b.builders[ins.Category]; cb != nil {
		f = cb.Build(b, ins)
	}
	var out []HistoryCell
	if len(b.held) > 0 && (ins.Category == message.CategoryResult ||
		(ins.Category == message.CategoryAssistant && ins.Seq > b.held[0].seq)) {
		out = b.release()
	}
	queue := b.held
	for _, c := range f.Done {
		queue = append(queue, heldCell{cell: c, seq: ins.Seq})
	}
	b.held = nil
	for i, hc := range queue {
		settled := true
		if r, ok := hc.cell.(resolvable); ok {
			hc.cell, settled = r.resolve(ins.Tools)
		}
		if !settled {
			b.held = append([]heldCell{hc}, queue[i+1:]...)
			break
		}
		out = append(out, hc.cell)
	}
	f.Done = out
	f.Pending = b.pending()
	return f
}

// Flush releases every held cell, unresolved tool calls included.
func (b *Builder) Flush() Frame {
	return Frame{Done: b.release()}
}

func (b *Builder) release() []HistoryCell {
	out := make([]HistoryCell, 0, len(b.held))
	for _, hc := range b.held {
		out = append(out, hc.cell)
	}
	b.held = nil
	return out
}

func (b *Builder) pending() []HistoryCell {
	if len(b.held) == 0 {
		return nil
	}
	out := make([]HistoryCell, 0, len(b.held))
	for _, hc := range b.held {
		out = append(out, hc.cell)
	}
	return out
}

func defaultCellBuilders() []CellBuilder {
	return []CellBuilder{
		assistantBuilder{},
		userBuilder{},
		systemInitBuilder{},
		systemBuilder{},
		resultBuilder{},
	}
}

type assistantBuilder struct{}

func (assistantBuilder) Category() message.Category { return message.CategoryAssistant }

func (assistantBuilder) Build(b *Builder, ins render.Instruction) Frame {
	var f Frame
	for _, v := range ins.Views {
		key := fmt.Sprintf("%d:%d", ins.Seq, v.Index)
		if !ins.Historical && b.emitted[key] {
			continue
		}
		if v.Segment.Kind == stream.KindToolUse && v.Segment.Tool.ID != "" {
			b.toolUses[v.Segment.Tool.ID] = v.Segment.Tool
		}
		cell := b.segmentCell(key, v, ins)
		// tool 调用不逐字输出，出现即完成
		if v.Final || v.Segment.Kind == stream.KindToolUse {
			if !ins.Historical {
				b.emitted[key] = true
			}
			f.Done = append(f.Done, cell)
			continue
		}
		f.Active = cell
	}
	return f
}

func (b *Builder) segmentCell(key string, v stream.View, ins render.Instruction) HistoryCell {
	switch v.Segment.Kind {
	case stream.KindThinking:
		return thinkingCell{ctx: b.ctx, id: key, text: v.Text}
	case stream.KindToolUse:
		return toolUseCell{ctx: b.ctx, id: key, block: v.Segment.Tool, status: ins.Tools.StatusOf(v.Segment.Tool.ID)}
	default:
		return textCell{ctx: b.ctx, id: key, text: v.Text, final: v.Final}
	}
}

type userBuilder struct{}

func (userBuilder) Category() message.Category { return message.CategoryUser }

func (userBuilder) Build(b *Builder, ins render.Instruction) Frame {
	results := ins.Message.ToolResults()
	if len(results) == 0 {
		text := ins.Message.Text()
		if text == "" {
			return Frame{}
		}
		return Frame{Done: []HistoryCell{userTextCell{ctx: b.ctx, text: text}}}
	}
	var f Frame
	for i, r := range results {
		f.Done = append(f.Done, toolResultCell{
			ctx:     b.ctx,
			id:      fmt.Sprintf("%d:%d", ins.Seq, i),
			output:  r.ToolResultText(),
			isError: r.IsError,
			path:    readPath(b.toolUses[r.ToolUseID]),
		})
	}
	return f
}

type systemInitBuilder struct{}

func (systemInitBuilder) Category() message.Category { return message.CategorySystemInit }

func (systemInitBuilder) Build(b *Builder, ins render.Instruction) Frame {
	if !b.ctx.Opts.ShowSessionInfo {
		return Frame{}
	}
	return Frame{Done: []HistoryCell{sessionInfoCell{ctx: b.ctx, msg: ins.Message}}}
}

type systemBuilder struct{}

func (systemBuilder) Category() message.Category { return message.CategorySystem }

func (systemBuilder) Build(b *Builder, ins render.Instruction) Frame {
	return Frame{Done: []HistoryCell{systemCell{ctx: b.ctx, msg: ins.Message}}}
}

type resultBuilder struct{}

func (resultBuilder) Category() message.Category { return message.CategoryResult }

func (resultBuilder) Build(b *Builder, ins render.Instruction) Frame {
	return Frame{Done: []HistoryCell{finalResultCell{ctx: b.ctx, msg: ins.Message}}}
}
