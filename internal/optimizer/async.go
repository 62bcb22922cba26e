package optimizer

import "context"

// Outcome is the single value delivered by RunAsync.
type Outcome struct {
	Response *Response
	Err      error
}

// RunAsync runs Run on its own goroutine so interactive callers stay
// responsive. Exactly one Outcome is sent on the returned channel, which is
// buffered so the goroutine never blocks if the caller walks away. Cancel ctx
// to abandon the solve.
func (o *Optimizer) RunAsync(ctx context.Context, req Request) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		resp, err := o.Run(ctx, req)
		out <- Outcome{Response: resp, Err: err}
	}()
	return out
}
