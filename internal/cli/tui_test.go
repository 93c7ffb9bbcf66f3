package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/brewtower/pkg/brew"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m StyleListModel, keys ...string) StyleListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(StyleListModel)
	}
	return m
}

func TestStyleListStartsOnCurrent(t *testing.T) {
	m := NewStyleListModel(brew.DefaultStyles(), "18b")
	if m.Cursor != 4 {
		t.Errorf("cursor = %d, want 4 (row of 18B)", m.Cursor)
	}
	if m := NewStyleListModel(brew.DefaultStyles(), ""); m.Cursor != 0 {
		t.Errorf("cursor without current = %d", m.Cursor)
	}
}

func TestStyleListSelect(t *testing.T) {
	m := press(NewStyleListModel(brew.DefaultStyles(), ""), "down", "j", "enter")
	if !m.Chosen || m.Selected == nil || m.Selected.ID != "5B" {
		t.Errorf("selected = %+v chosen = %v", m.Selected, m.Chosen)
	}
}

func TestStyleListNoStyleRow(t *testing.T) {
	m := press(NewStyleListModel(brew.DefaultStyles(), "21A"), "g", "enter")
	if !m.Chosen || m.Selected != nil {
		t.Errorf("first row should choose no style, got %+v", m.Selected)
	}
}

func TestStyleListBounds(t *testing.T) {
	styles := brew.DefaultStyles()
	m := press(NewStyleListModel(styles, ""), "up", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after moving above the top", m.Cursor)
	}
	m = press(m, "G", "down")
	if m.Cursor != len(styles) {
		t.Errorf("cursor = %d, want %d", m.Cursor, len(styles))
	}
}

func TestStyleListQuit(t *testing.T) {
	m := NewStyleListModel(brew.DefaultStyles(), "")
	next, cmd := m.Update(key("esc"))
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if next.(StyleListModel).Chosen {
		t.Error("quitting should not choose")
	}
}

func TestStyleListScrolls(t *testing.T) {
	m := NewStyleListModel(brew.DefaultStyles(), "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = press(next.(StyleListModel), "G")
	if m.Offset == 0 || m.Cursor >= m.Offset+m.Height {
		t.Errorf("offset = %d height = %d cursor = %d", m.Offset, m.Height, m.Cursor)
	}
	view := m.View()
	if !strings.Contains(view, "20C") || !strings.Contains(view, "[9/9]") {
		t.Errorf("view should show the last style:\n%s", view)
	}
}
