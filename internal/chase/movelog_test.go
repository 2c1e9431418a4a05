package chase

import (
	"testing"

	"github.com/vovakirdan/catch-bash/internal/atlas"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"France", "******"},
		{"New Zealand", "*** *******"},
		{"Guinea-Bissau", "******-******"},
		{"Côte d'Ivoire", "**** *'******"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestMoveLogBoundedNewestFirst(t *testing.T) {
	l := NewMoveLog(3)
	names := []string{"Peru", "Chile", "Bolivia", "Brazil", "Paraguay"}
	for i, n := range names {
		l.Push(Entry{Actor: ActorChaser, Destination: n, Region: "Americas"})
		if l.Len() > 3 {
			t.Fatalf("log grew to %d entries", l.Len())
		}
		if got := l.Entries()[0].Destination; got != n {
			t.Errorf("after push %d newest = %q, expected %q", i, got, n)
		}
	}

	got := l.Entries()
	want := []string{"Paraguay", "Brazil", "Bolivia"}
	for i := range want {
		if got[i].Destination != want[i] {
			t.Errorf("entry %d = %q, expected %q", i, got[i].Destination, want[i])
		}
	}
}

func TestMoveLogCapsOversizedLog(t *testing.T) {
	l := NewMoveLog(6)
	if l.Cap() != DefaultLogSize {
		t.Fatalf("Cap() = %d, expected %d", l.Cap(), DefaultLogSize)
	}
	for _, n := range []string{"Peru", "Chile", "Bolivia", "Brazil", "Paraguay"} {
		l.Push(Entry{Actor: ActorChaser, Destination: n})
	}
	if l.Len() != DefaultLogSize {
		t.Errorf("Len() = %d, expected %d", l.Len(), DefaultLogSize)
	}

	if small := NewMoveLog(2); small.Cap() != 2 {
		t.Errorf("NewMoveLog(2).Cap() = %d, a smaller log is allowed", small.Cap())
	}
}

func TestMoveLogMasksRunner(t *testing.T) {
	l := NewMoveLog(0)
	if l.Cap() != DefaultLogSize {
		t.Errorf("Cap() = %d, expected %d", l.Cap(), DefaultLogSize)
	}

	l.Push(Entry{Actor: ActorRunner, Destination: "Spain", Region: "Europe"})
	l.Push(Entry{Actor: ActorChaser, Destination: "Spain", Region: "Europe"})

	e := l.Entries()
	if e[1].Destination != "*****" {
		t.Errorf("runner entry = %q, expected masked", e[1].Destination)
	}
	if e[1].Region != "Europe" {
		t.Errorf("runner region = %q, expected it kept", e[1].Region)
	}
	if e[0].Destination != "Spain" {
		t.Errorf("chaser entry = %q, expected unmasked", e[0].Destination)
	}

	// Entries is a copy.
	e[0].Destination = "Mars"
	if l.Entries()[0].Destination != "Spain" {
		t.Error("Entries() exposed internal storage")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() after Clear = %d", l.Len())
	}
}

func TestSessionLogNeverExceedsSize(t *testing.T) {
	// The runner walks AFG -> CHN -> BTN -> IND ..., far from Chile.
	s := NewSession(atlas.Default(), zeros(), DefaultConfig())
	if _, err := s.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		s.Submit("Chile")
		s.Tick()
		if n := len(s.Log()); n > DefaultLogSize {
			t.Fatalf("log has %d entries", n)
		}
	}
	if s.LogCap() != DefaultLogSize {
		t.Errorf("LogCap() = %d, expected %d", s.LogCap(), DefaultLogSize)
	}
	log := s.Log()
	if log[0].Actor != ActorRunner {
		t.Errorf("newest actor = %v, expected the runner", log[0].Actor)
	}
	if log[1].Destination != "Chile" {
		t.Errorf("second entry = %q, expected Chile", log[1].Destination)
	}
}
