package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// OverlayFromResult highlights the states a run went through.
// The last state of the trace is marked as current.
func OverlayFromResult(res domain.Result) *GraphOverlay {
	if len(res.Trace) == 0 {
		return nil
	}
	return &GraphOverlay{
		VisitedStates: res.Trace,
		CurrentState:  res.FinalState(),
	}
}

// GenerateMermaid produces a Mermaid flowchart syntax string from an automaton.
// It applies semantic styling:
// - Start: ((Circle))
// - Final: (((Double Circle)))
// - Default: (Rounded)
// Edges sharing source and target are merged into one edge labelled with all symbols.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(def *domain.Automaton, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	if def == nil {
		return sb.String()
	}

	for _, state := range def.States {
		safeID := sanitizeMermaidID(state)

		opener, closer := "(", ")"
		switch {
		case def.IsFinal(state):
			opener, closer = "(((", ")))"
		case state == def.StartState:
			opener, closer = "((", "))"
		}

		text := state
		if label := def.Label(state); label != "" {
			text = fmt.Sprintf("%s <br/> %s", state, label)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(text), closer)
	}

	if def.StartState != "" {
		sb.WriteString("    __start__[ ] --> " + sanitizeMermaidID(def.StartState) + "\n")
		sb.WriteString("    style __start__ fill:none,stroke:none;\n")
	}

	for _, source := range sources(def) {
		for _, edge := range edgesFrom(def, source) {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
				sanitizeMermaidID(source),
				escapeLabel(strings.Join(edge.symbols, ", ")),
				sanitizeMermaidID(edge.target),
			)
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

type edge struct {
	target  string
	symbols []string
}

// sources lists declared states first, then undeclared transition sources sorted.
func sources(def *domain.Automaton) []string {
	out := append([]string(nil), def.States...)
	var extra []string
	for state := range def.Transitions {
		if !def.HasState(state) {
			extra = append(extra, state)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// edgesFrom groups the outgoing transitions of source by target.
// Symbols follow alphabet order; symbols outside the alphabet come last, sorted.
func edgesFrom(def *domain.Automaton, source string) []edge {
	row := def.Transitions[source]
	if len(row) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(row))
	for _, sym := range def.Alphabet {
		if _, ok := row[sym]; ok {
			symbols = append(symbols, sym)
		}
	}
	var extra []string
	for sym := range row {
		if !def.HasSymbol(sym) {
			extra = append(extra, sym)
		}
	}
	sort.Strings(extra)
	symbols = append(symbols, extra...)

	var edges []edge
	index := make(map[string]int)
	for _, sym := range symbols {
		target := row[sym]
		if target == "" {
			continue
		}
		i, ok := index[target]
		if !ok {
			i = len(edges)
			index[target] = i
			edges = append(edges, edge{target: target})
		}
		edges[i].symbols = append(edges[i].symbols, sym)
	}
	return edges
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
