// Package fold reduces an ordered sequence of text windows into one state
// string through repeated completion calls.
//
// Each window is combined with the current state into a prompt, the model's
// answer becomes the next state, and that state is appended to an optional
// sink before the next window is processed:
//
//	folder := fold.New(client, builder,
//	    fold.WithSink(sink),
//	    fold.WithGeneration(provider.DefaultGeneration()),
//	)
//	result, err := folder.Run(ctx, windows, initialState)
//
// Windows are processed strictly in order, one call at a time. The first
// failure stops the run; the returned Result still describes the state as of
// the last successful window, and states already written to the sink stay
// there.
package fold
