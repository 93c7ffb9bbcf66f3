package chart

import (
	"bytes"
	"fmt"
)

// Color is a CSS hex color such as "#10b981".
type Color string

// Palette colors.
const (
	TrackColor  Color = "#e5e7eb"
	WindowColor Color = "#fef3c7"
	InColor     Color = "#10b981"
	BelowColor  Color = "#3b82f6"
	AboveColor  Color = "#ef4444"
	MarkerColor Color = "#000000"
	TextColor   Color = "#000000"
)

// RGB returns the color's components. Malformed colors decode as black.
func (c Color) RGB() (r, g, b uint8) {
	var v uint32
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0
	}
	if _, err := fmt.Sscanf(string(c[1:]), "%06x", &v); err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// Font describes label text.
type Font struct {
	Size float64
	Bold bool
}

// LabelFont is used for every chart label.
var LabelFont = Font{Size: 16, Bold: true}

// Surface is a 2D drawing target. Coordinates are in pixels with the origin
// at the top left; Text positions the baseline start of the string.
type Surface interface {
	FillRect(x, y, w, h float64, c Color)
	Text(x, y float64, text string, f Font)
}

// Op names a recorded drawing command.
type Op string

const (
	OpRect Op = "rect"
	OpText Op = "text"
)

// Command is one recorded draw call.
type Command struct {
	Op    Op
	X, Y  float64
	W, H  float64
	Color Color
	Text  string
	Font  Font
}

// Recorder is a Surface that keeps every draw call in order.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.Commands = append(r.Commands, Command{Op: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) Text(x, y float64, text string, f Font) {
	r.Commands = append(r.Commands, Command{Op: OpText, X: x, Y: y, Text: text, Font: f, Color: TextColor})
}

// Reset discards recorded commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

// Replay draws the recorded commands onto s.
func (r *Recorder) Replay(s Surface) {
	for _, c := range r.Commands {
		switch c.Op {
		case OpRect:
			s.FillRect(c.X, c.Y, c.W, c.H, c.Color)
		case OpText:
			s.Text(c.X, c.Y, c.Text, c.Font)
		}
	}
}

// Bytes serializes the commands, one per line.
func (r *Recorder) Bytes() []byte {
	var buf bytes.Buffer
	for _, c := range r.Commands {
		switch c.Op {
		case OpRect:
			fmt.Fprintf(&buf, "rect %.2f %.2f %.2f %.2f %s\n", c.X, c.Y, c.W, c.H, c.Color)
		case OpText:
			fmt.Fprintf(&buf, "text %.2f %.2f %.0f %t %q\n", c.X, c.Y, c.Font.Size, c.Font.Bold, c.Text)
		}
	}
	return buf.Bytes()
}

// Texts returns the recorded strings in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Commands {
		if c.Op == OpText {
			out = append(out, c.Text)
		}
	}
	return out
}
