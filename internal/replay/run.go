package replay

import (
	"context"

	"agentui/internal/clock"
	"agentui/internal/message"
)

// Sink receives replayed messages in order.
type Sink func(ctx context.Context, msg message.Message) error

// Run sleeps each step's delay on clk and hands the message to sink. It
// returns the number of messages delivered.
func Run(ctx context.Context, steps []Step, clk clock.Clock, sink Sink) (int, error) {
	clk = clock.OrReal(clk)
	delivered := 0
	for _, s := range steps {
		if s.Delay > 0 {
			if err := clk.Sleep(ctx, s.Delay); err != nil {
				return delivered, err
			}
		} else if err := ctx.Err(); err != nil {
			return delivered, err
		}
		if err := sink(ctx, s.Message); err != nil {
			return delivered, err
		}
		delivered++
	}
	return delivered, nil
}
