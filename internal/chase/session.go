package chase

import (
	"errors"
	"slices"

	"github.com/vovakirdan/catch-bash/internal/atlas"
	"github.com/vovakirdan/catch-bash/internal/geo"
)

// ErrAlreadyRunning is returned by Start on a running session.
var ErrAlreadyRunning = errors.New("chase: session already running")

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseWon // transient: reported to OnPhase, then the session resets
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRunning:
		return "running"
	case PhaseWon:
		return "won"
	default:
		return "unknown"
	}
}

// TickOutcome describes what a runner tick did.
type TickOutcome int

const (
	TickIdle    TickOutcome = iota // session not running
	TickMoved                      // stepped to a neighbour
	TickFlew                       // jumped to a non-neighbour
	TickStalled                    // nowhere left to go
)

// GuessOutcome classifies a player-typed name.
type GuessOutcome int

const (
	GuessIgnored GuessOutcome = iota // session not running
	GuessInvalid                     // not a known country
	GuessCatch                       // the runner's current country
	GuessMove                        // any other country
)

func (g GuessOutcome) String() string {
	switch g {
	case GuessIgnored:
		return "ignored"
	case GuessInvalid:
		return "invalid"
	case GuessCatch:
		return "catch"
	case GuessMove:
		return "move"
	default:
		return "unknown"
	}
}

// CatchReason records how the runner was caught. Both reasons end the
// chase in exactly the same way.
type CatchReason int

const (
	CatchByName CatchReason = iota
	CatchByDistance
)

func (r CatchReason) String() string {
	if r == CatchByDistance {
		return "distance"
	}
	return "name"
}

// Catch reports a won chase. It is captured before the session resets.
type Catch struct {
	Reason   CatchReason
	Runner   atlas.Country
	Guesses  int
	Hops     int
	Progress float64
}

// TickResult is returned by Session.Tick.
type TickResult struct {
	Outcome TickOutcome
	Hop     Hop
	Catch   *Catch
}

// SubmitResult is returned by Session.Submit.
type SubmitResult struct {
	Outcome GuessOutcome
	Country atlas.Country
	Catch   *Catch
}

// Config tunes a session. Zero fields take defaults.
type Config struct {
	NormalizerKm float64
	WinThreshold float64
	LogSize      int
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		NormalizerKm: DefaultNormalizerKm,
		WinThreshold: DefaultWinThreshold,
		LogSize:      DefaultLogSize,
	}
}

// Session is one chase: a runner walking the border graph and a chaser
// moved by guesses. It is not safe for concurrent use.
type Session struct {
	atlas *atlas.Atlas
	rnd   RandomSource
	eval  Evaluator

	phase         Phase
	runner        *atlas.Country
	chaser        *atlas.Country
	runnerVisited map[string]bool
	chaserVisited map[string]bool
	progress      float64
	log           *MoveLog
	stalled       bool
	guesses       int
	hops          int

	onPhase func(from, to Phase)
}

// NewSession creates a not-started session over a.
func NewSession(a *atlas.Atlas, rnd RandomSource, cfg Config) *Session {
	return &Session{
		atlas:         a,
		rnd:           rnd,
		eval:          Evaluator{NormalizerKm: cfg.NormalizerKm, WinThreshold: cfg.WinThreshold}.normalized(),
		runnerVisited: make(map[string]bool),
		chaserVisited: make(map[string]bool),
		log:           NewMoveLog(cfg.LogSize),
	}
}

// OnPhase registers a callback invoked on every phase transition,
// including the transient PhaseWon.
func (s *Session) OnPhase(fn func(from, to Phase)) {
	s.onPhase = fn
}

func (s *Session) setPhase(p Phase) {
	from := s.phase
	s.phase = p
	if s.onPhase != nil && from != p {
		s.onPhase(from, p)
	}
}

// Start places the runner on a random country and begins the chase.
func (s *Session) Start() (atlas.Country, error) {
	if s.phase == PhaseRunning {
		return atlas.Country{}, ErrAlreadyRunning
	}
	start := PickStart(s.atlas, s.rnd)
	s.runner = &start
	s.runnerVisited[start.Code] = true
	s.setPhase(PhaseRunning)
	return start, nil
}

// Reset abandons the chase and returns to the not-started state.
func (s *Session) Reset() {
	s.wipe()
	s.setPhase(PhaseNotStarted)
}

func (s *Session) wipe() {
	s.runner = nil
	s.chaser = nil
	clear(s.runnerVisited)
	clear(s.chaserVisited)
	s.progress = 0
	s.log.Clear()
	s.stalled = false
	s.guesses = 0
	s.hops = 0
}

// Tick advances the runner by one hop. Ticks on a stalled runner are no-ops.
func (s *Session) Tick() TickResult {
	if s.phase != PhaseRunning {
		return TickResult{Outcome: TickIdle}
	}
	if s.stalled {
		return TickResult{Outcome: TickStalled}
	}

	hop, ok := NextRunner(s.atlas, s.runner.Code, s.runnerVisited, s.rnd)
	if !ok {
		s.stalled = true
		return TickResult{Outcome: TickStalled}
	}

	to := hop.To
	s.runner = &to
	s.runnerVisited[to.Code] = true
	s.hops++
	s.log.Push(Entry{Actor: ActorRunner, Destination: to.Name, Region: to.Region})

	res := TickResult{Outcome: TickMoved, Hop: hop}
	if hop.Flew {
		res.Outcome = TickFlew
	}
	res.Catch = s.recompute()
	return res
}

// Resolve classifies name without changing any state.
func (s *Session) Resolve(name string) (GuessOutcome, atlas.Country) {
	if s.phase != PhaseRunning {
		return GuessIgnored, atlas.Country{}
	}
	c, ok := s.atlas.FindByName(name)
	if !ok {
		return GuessInvalid, atlas.Country{}
	}
	if c.Code == s.runner.Code {
		return GuessCatch, c
	}
	return GuessMove, c
}

// MoveChaser puts the chaser on c and counts it as a guess.
// It returns a catch if the move closes the distance.
func (s *Session) MoveChaser(c atlas.Country) *Catch {
	if !s.CountGuess() {
		return nil
	}
	return s.PlaceChaser(c)
}

// CountGuess records an accepted guess whose move lands later. It reports
// false when no chase is running.
func (s *Session) CountGuess() bool {
	if s.phase != PhaseRunning {
		return false
	}
	s.guesses++
	return true
}

// PlaceChaser puts the chaser on c without counting a guess. It is the
// landing half of a guess already counted with CountGuess.
func (s *Session) PlaceChaser(c atlas.Country) *Catch {
	if s.phase != PhaseRunning {
		return nil
	}
	s.chaser = &c
	s.chaserVisited[c.Code] = true
	s.log.Push(Entry{Actor: ActorChaser, Destination: c.Name, Region: c.Region})
	return s.recompute()
}

// ClaimCatch records a correct guess of the runner's country.
func (s *Session) ClaimCatch() *Catch {
	if s.phase != PhaseRunning {
		return nil
	}
	s.guesses++
	return s.win(CatchByName)
}

// Submit resolves name and applies it immediately.
func (s *Session) Submit(name string) SubmitResult {
	outcome, c := s.Resolve(name)
	res := SubmitResult{Outcome: outcome, Country: c}
	switch outcome {
	case GuessCatch:
		res.Catch = s.ClaimCatch()
	case GuessMove:
		res.Catch = s.MoveChaser(c)
	}
	return res
}

// recompute refreshes progress from the current positions and reports a
// distance catch.
func (s *Session) recompute() *Catch {
	if s.runner == nil || s.chaser == nil {
		s.progress = 0
		return nil
	}
	s.progress = s.eval.Between(s.runner.LatLng, s.chaser.LatLng)
	if s.eval.Won(s.progress) {
		return s.win(CatchByDistance)
	}
	return nil
}

func (s *Session) win(reason CatchReason) *Catch {
	c := &Catch{
		Reason:   reason,
		Runner:   *s.runner,
		Guesses:  s.guesses,
		Hops:     s.hops,
		Progress: s.progress,
	}
	s.setPhase(PhaseWon)
	s.wipe()
	s.setPhase(PhaseNotStarted)
	return c
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Running reports whether a chase is in progress.
func (s *Session) Running() bool { return s.phase == PhaseRunning }

// Runner returns the runner's country, if placed.
func (s *Session) Runner() (atlas.Country, bool) {
	if s.runner == nil {
		return atlas.Country{}, false
	}
	return *s.runner, true
}

// Chaser returns the chaser's country, if placed.
func (s *Session) Chaser() (atlas.Country, bool) {
	if s.chaser == nil {
		return atlas.Country{}, false
	}
	return *s.chaser, true
}

// Distance returns the great-circle distance between runner and chaser.
func (s *Session) Distance() (float64, bool) {
	if s.runner == nil || s.chaser == nil {
		return 0, false
	}
	return geo.Haversine(s.runner.LatLng, s.chaser.LatLng), true
}

// Progress returns the current progress in [0, 100].
func (s *Session) Progress() float64 { return s.progress }

// Log returns the move log, newest first.
func (s *Session) Log() []Entry { return s.log.Entries() }

// LogCap is the most entries Log will ever return.
func (s *Session) LogCap() int { return s.log.Cap() }

// Stalled reports whether the runner has run out of countries.
func (s *Session) Stalled() bool { return s.stalled }

// Guesses returns the number of accepted guesses.
func (s *Session) Guesses() int { return s.guesses }

// Hops returns the number of runner moves.
func (s *Session) Hops() int { return s.hops }

// RunnerVisited returns the runner's visited codes, sorted.
func (s *Session) RunnerVisited() []string { return sortedKeys(s.runnerVisited) }

// ChaserVisited returns the chaser's visited codes, sorted.
func (s *Session) ChaserVisited() []string { return sortedKeys(s.chaserVisited) }

// Atlas returns the atlas the session plays on.
func (s *Session) Atlas() *atlas.Atlas { return s.atlas }

// Evaluator returns the progress evaluator in use.
func (s *Session) Evaluator() Evaluator { return s.eval }

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
