package chase

import (
	"strings"
	"unicode"

	"github.com/vovakirdan/catch-bash/internal/core"
)

// DefaultLogSize is the number of moves kept for display.
const DefaultLogSize = 3

// Actor identifies who made a move.
type Actor int

const (
	ActorRunner Actor = iota
	ActorChaser
)

func (a Actor) String() string {
	switch a {
	case ActorRunner:
		return "Bash"
	case ActorChaser:
		return "You"
	default:
		return "?"
	}
}

// Entry is one line of the move log. Runner destinations are stored masked.
type Entry struct {
	Actor       Actor
	Destination string
	Region      string
}

// MoveLog is a bounded log of recent moves, newest first.
type MoveLog struct {
	size    int
	entries []Entry
}

// NewMoveLog creates a log holding at most size entries. A non-positive size
// means DefaultLogSize, and the log never holds more than that.
func NewMoveLog(size int) *MoveLog {
	if size <= 0 {
		size = DefaultLogSize
	}
	size = core.Clamp(size, 1, DefaultLogSize)
	return &MoveLog{size: size, entries: make([]Entry, 0, size)}
}

// Push adds e as the newest entry, evicting the oldest if full.
// Runner destinations are masked on the way in.
func (l *MoveLog) Push(e Entry) {
	if e.Actor == ActorRunner {
		e.Destination = Mask(e.Destination)
	}
	if len(l.entries) == l.size {
		l.entries = l.entries[:l.size-1]
	}
	l.entries = append([]Entry{e}, l.entries...)
}

// Entries returns a copy of the log, newest first.
func (l *MoveLog) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *MoveLog) Len() int { return len(l.entries) }

// Cap returns the maximum number of entries.
func (l *MoveLog) Cap() int { return l.size }

// Clear drops all entries.
func (l *MoveLog) Clear() {
	l.entries = l.entries[:0]
}

// Mask hides a name: every letter or digit becomes '*', everything else
// (spaces, hyphens, apostrophes) is kept so the shape stays readable.
func Mask(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune('*')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
