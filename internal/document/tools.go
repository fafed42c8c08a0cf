package document

import (
	"fmt"
	"strings"
)

// Tool is the active pointer tool.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolPan
	ToolZoom
	ToolEyedropper
	// Selection, text and smudge are accepted but paint nothing.
	ToolSelection
	ToolText
	ToolSmudge
)

var toolNames = [...]string{"brush", "eraser", "pan", "zoom", "eyedropper", "selection", "text", "smudge"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool looks a tool up by name.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return ToolBrush, fmt.Errorf("unknown tool %q", s)
}

// showsCursor reports whether the brush ring is drawn for the tool.
func (t Tool) showsCursor() bool {
	switch t {
	case ToolPan, ToolEyedropper, ToolText:
		return false
	}
	return true
}

// EraserKind selects the eraser falloff.
type EraserKind int

const (
	EraserHard EraserKind = iota
	EraserSoft
)

func (k EraserKind) String() string {
	if k == EraserSoft {
		return "soft"
	}
	return "hard"
}
