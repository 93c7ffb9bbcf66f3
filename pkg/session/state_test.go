package session

import (
	"sync"
	"testing"

	"github.com/matzehuels/brewtower/pkg/brew"
)

var ipa = brew.Style{
	ID:   "21A",
	Name: "American IPA",
	IBU:  brew.Range{Low: 40, High: 70},
	SRM:  brew.Range{Low: 6, High: 14},
	OG:   brew.Range{Low: 1.056, High: 1.070},
	FG:   brew.Range{Low: 1.008, High: 1.014},
}

func TestStateSelection(t *testing.T) {
	var s State
	if s.Selected() != nil {
		t.Fatal("zero state should have no style")
	}
	if err := s.Select(ipa); err != nil {
		t.Fatal(err)
	}
	got := s.Selected()
	if got == nil || got.ID != "21A" {
		t.Fatalf("Selected() = %+v", got)
	}
	got.Name = "changed"
	if s.Selected().Name != "American IPA" {
		t.Error("Selected returned an alias to internal state")
	}

	s.Clear()
	if s.Selected() != nil {
		t.Error("Clear did not remove the style")
	}
}

func TestStateSelectRejectsMalformedStyle(t *testing.T) {
	var s State
	bad := ipa
	bad.IBU = brew.Range{Low: 70, High: 40}
	if err := s.Select(bad); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if s.Selected() != nil {
		t.Error("malformed style was stored")
	}
}

func TestStateNewestResponseWins(t *testing.T) {
	var s State
	first := s.Begin()
	second := s.Begin()

	if !s.Complete(second, brew.Stats{OG: 1.060, IBU: 50, SRM: 8}) {
		t.Fatal("newest response should apply")
	}
	if s.Complete(first, brew.Stats{OG: 1.040, IBU: 10, SRM: 3}) {
		t.Error("stale response applied")
	}

	snap := s.Snapshot()
	if snap.Stats == nil || snap.Stats.IBU != 50 || snap.Ticket != second {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStateInOrderResponsesApply(t *testing.T) {
	var s State
	a := s.Begin()
	b := s.Begin()
	if !s.Complete(a, brew.Stats{IBU: 1}) || !s.Complete(b, brew.Stats{IBU: 2}) {
		t.Fatal("in-order responses should both apply")
	}
	if s.Snapshot().Stats.IBU != 2 {
		t.Error("latest response not visible")
	}
}

func TestStateRejectsUnissuedTicket(t *testing.T) {
	var s State
	if s.Complete(Ticket(5), brew.Stats{}) {
		t.Error("unissued ticket applied")
	}
}

func TestStateConcurrentCompletions(t *testing.T) {
	var s State
	tickets := make([]Ticket, 50)
	for i := range tickets {
		tickets[i] = s.Begin()
	}

	var wg sync.WaitGroup
	for i, tk := range tickets {
		wg.Add(1)
		go func(i int, tk Ticket) {
			defer wg.Done()
			s.Complete(tk, brew.Stats{IBU: float64(i)})
			_ = s.Snapshot()
		}(i, tk)
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.Ticket != tickets[len(tickets)-1] {
		t.Errorf("applied ticket = %d, want newest %d", snap.Ticket, tickets[len(tickets)-1])
	}
	if snap.Stats.IBU != 49 {
		t.Errorf("stats = %+v, want newest request's", snap.Stats)
	}
}

func TestSnapshotComparison(t *testing.T) {
	var s State
	if _, ok := s.Snapshot().Comparison(); ok {
		t.Error("comparison available before any statistics")
	}

	s.Complete(s.Begin(), brew.Stats{OG: 1.060, IBU: 50, SRM: 8})
	cmp, ok := s.Snapshot().Comparison()
	if !ok || cmp.Styled() {
		t.Errorf("expected simple comparison, got styled=%v ok=%v", cmp.Styled(), ok)
	}

	_ = s.Select(ipa)
	cmp, _ = s.Snapshot().Comparison()
	if !cmp.Styled() || cmp.Style.ID != "21A" {
		t.Error("expected comparison against selected style")
	}
}

func TestStatePersistRestore(t *testing.T) {
	var s State
	_ = s.Select(ipa)
	s.Complete(s.Begin(), brew.Stats{OG: 1.06, IBU: 55, SRM: 9})

	sess := New("", 0)
	s.Persist(sess)
	if sess.StyleID != "21A" || sess.Stats == nil || sess.Stats.IBU != 55 {
		t.Fatalf("persisted = %+v", sess)
	}

	var restored State
	if err := restored.Restore(sess, &ipa); err != nil {
		t.Fatal(err)
	}
	snap := restored.Snapshot()
	if snap.Style == nil || snap.Stats == nil || snap.Stats.IBU != 55 {
		t.Errorf("restored snapshot = %+v", snap)
	}
}
