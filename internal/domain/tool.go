package domain

import (
	"fmt"
	"slices"
)

// Tool is the active annotation tool.
type Tool string

// Tools. ToolNone means clicks on the page do nothing.
const (
	ToolNone      Tool = "none"
	ToolHighlight Tool = "highlight"
	ToolUnderline Tool = "underline"
	ToolComment   Tool = "comment"
	ToolSignature Tool = "signature"
)

// DefaultColor is the initial active color.
const DefaultColor = "#FFDE17"

// Tools lists every selectable tool in toolbar order.
var Tools = []Tool{ToolHighlight, ToolUnderline, ToolComment, ToolSignature}

var palettes = map[Tool][]string{
	ToolHighlight: {"#FFDE17", "#FFB340", "#FF9F0A", "#FFD60A", "#E7FF0A"},
	ToolUnderline: {"#0A84FF", "#30B0C7", "#64D2FF", "#5AC8FA", "#30C7B0"},
	ToolComment:   {"#34C759", "#30C79E", "#30C7B0", "#A2E4B8", "#B0E9C5"},
	ToolSignature: {"#FF2D55", "#FF375F", "#FF453A", "#FF6482", "#FF7AC1"},
}

// ParseTool converts a string to a Tool. An empty string is ToolNone.
func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if s == "" || t == ToolNone {
		return ToolNone, nil
	}
	if !slices.Contains(Tools, t) {
		return ToolNone, fmt.Errorf("unknown tool %q", s)
	}
	return t, nil
}

// Kind returns the annotation kind the tool creates. ToolNone creates nothing.
func (t Tool) Kind() (Kind, bool) {
	switch t {
	case ToolHighlight:
		return KindHighlight, true
	case ToolUnderline:
		return KindUnderline, true
	case ToolComment:
		return KindComment, true
	case ToolSignature:
		return KindSignature, true
	default:
		return "", false
	}
}

// Palette returns a copy of the tool's suggested colors.
func (t Tool) Palette() []string {
	return slices.Clone(palettes[t])
}

// Palettes returns a copy of every tool's palette.
func Palettes() map[Tool][]string {
	out := make(map[Tool][]string, len(palettes))
	for t, p := range palettes {
		out[t] = slices.Clone(p)
	}
	return out
}
