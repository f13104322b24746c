// Package prompt assembles the prompt sent for each window of a fold.
//
// A prompt has four parts in fixed order: the instructions, a labeled
// example, a labeled current state, and a labeled block holding the window
// text, followed by a cue for the new state:
//
//	<instructions>
//
//	example:
//	<example>
//
//	current_state:
//	<state>
//
//	prompt:
//	update_graph(<window>)
//
//	new state:
//
// Assemble produces exactly that layout. A Builder fixes the instructions
// and example for a whole run and may use a custom layout written with
// {{variable}} placeholders:
//
//	b, err := prompt.NewBuilder(instructions, example,
//	    prompt.WithLayout("{{instructions}}\n\nState:\n{{state}}\n\nText:\n{{window}}\n"))
//	p, err := b.Build(state, windowText)
//
// Layouts may reference instructions, example, state and window, and may
// call the helpers trim, upper, lower and indent:
//
//	{{indent state 2}}
//
// The values are inserted verbatim. Braces inside the state or the window
// text are never interpreted.
package prompt
