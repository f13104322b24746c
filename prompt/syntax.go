package prompt

import (
	"regexp"
	"sort"
	"strings"
	"text/template"
)

// Layout variable names.
const (
	VarInstructions = "instructions"
	VarExample      = "example"
	VarState        = "state"
	VarWindow       = "window"
)

// requiredVars must appear in every layout; a fold that never shows the
// model its state or the window cannot make progress.
var requiredVars = []string{VarState, VarWindow}

var (
	varPattern    = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)\s*\}\}`)
	helperPattern = regexp.MustCompile(`\{\{\s*(trim|upper|lower|indent)\s+([a-zA-Z_]\w*)((?:\s+\d+)?)\s*\}\}`)
)

// helpers are the functions a layout may call.
func helpers() template.FuncMap {
	return template.FuncMap{
		"trim":   strings.TrimSpace,
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"indent": indent,
	}
}

// convertSyntax rewrites the placeholder syntax into text/template syntax.
//
//   - {{state}} -> {{.state}}
//   - {{indent state 2}} -> {{indent .state 2}}
func convertSyntax(layout string) string {
	out := helperPattern.ReplaceAllString(layout, "{{$1 .$2$3}}")
	return varPattern.ReplaceAllStringFunc(out, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		if _, ok := helpers()[name]; ok {
			return match
		}
		return "{{." + name + "}}"
	})
}

// extractVariables returns the distinct variable names a layout references,
// in order of first appearance.
func extractVariables(layout string) []string {
	seen := make(map[string]bool)
	var names []string

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for _, m := range varPattern.FindAllStringSubmatchIndex(layout, -1) {
		hits = append(hits, hit{m[2], layout[m[2]:m[3]]})
	}
	for _, m := range helperPattern.FindAllStringSubmatchIndex(layout, -1) {
		hits = append(hits, hit{m[4], layout[m[4]:m[5]]})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	for _, h := range hits {
		add(h.name)
	}
	return names
}

// indent adds spaces to the start of each line.
func indent(s string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
