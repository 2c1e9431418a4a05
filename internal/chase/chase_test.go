package chase

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/catch-bash/internal/atlas"
	"github.com/vovakirdan/catch-bash/internal/geo"
)

// seqSource replays a fixed list of choices, reduced modulo n.
type seqSource struct {
	seq []int
	i   int
}

func (s *seqSource) Intn(n int) int {
	if len(s.seq) == 0 {
		return 0
	}
	v := s.seq[s.i%len(s.seq)] % n
	s.i++
	return v
}

func zeros() *seqSource { return &seqSource{seq: []int{0}} }

func mustAtlas(t *testing.T, countries ...atlas.Country) *atlas.Atlas {
	t.Helper()
	a, err := atlas.New(countries)
	require.NoError(t, err)
	return a
}

// lineAtlas is A <-> B <-> C, nothing else.
func lineAtlas(t *testing.T) *atlas.Atlas {
	return mustAtlas(t,
		atlas.Country{Code: "A", Name: "Alpha", Region: "Test", LatLng: geo.LatLng{Lat: 10, Lng: 10}, Borders: []string{"B"}},
		atlas.Country{Code: "B", Name: "Beta", Region: "Test", LatLng: geo.LatLng{Lat: 20, Lng: 20}, Borders: []string{"C"}},
		atlas.Country{Code: "C", Name: "Gamma", Region: "Test", LatLng: geo.LatLng{Lat: 30, Lng: 30}},
	)
}

func TestRunnerStallsOnExhaustedLine(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())

	start, err := s.Start()
	require.NoError(t, err)
	require.Equal(t, "A", start.Code)

	res := s.Tick()
	require.Equal(t, TickMoved, res.Outcome)
	require.Equal(t, "B", res.Hop.To.Code)

	res = s.Tick()
	require.Equal(t, TickMoved, res.Outcome)
	require.Equal(t, "C", res.Hop.To.Code)

	res = s.Tick()
	require.Equal(t, TickStalled, res.Outcome)
	require.True(t, s.Stalled())

	// Further ticks change nothing.
	for i := 0; i < 5; i++ {
		res = s.Tick()
		require.Equal(t, TickStalled, res.Outcome)
	}
	runner, _ := s.Runner()
	require.Equal(t, "C", runner.Code)
	require.Equal(t, 2, s.Hops())
	require.Equal(t, []string{"A", "B", "C"}, s.RunnerVisited())
	require.Len(t, s.Log(), 2)
	require.True(t, s.Running())
}

func TestStalledRunnerCanStillBeCaught(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		s.Tick()
	}
	require.True(t, s.Stalled())

	res := s.Submit("gamma")
	require.Equal(t, GuessCatch, res.Outcome)
	require.NotNil(t, res.Catch)
	require.Equal(t, PhaseNotStarted, s.Phase())
	require.False(t, s.Stalled())
}

func TestRunnerFliesWhenBoxedIn(t *testing.T) {
	a := mustAtlas(t,
		atlas.Country{Code: "A", Name: "Alpha", LatLng: geo.LatLng{Lat: 0, Lng: 0}, Borders: []string{"B"}},
		atlas.Country{Code: "B", Name: "Beta", LatLng: geo.LatLng{Lat: 0, Lng: 5}},
		atlas.Country{Code: "X", Name: "Island", LatLng: geo.LatLng{Lat: 50, Lng: 50}},
	)
	s := NewSession(a, zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)

	require.Equal(t, TickMoved, s.Tick().Outcome)
	res := s.Tick()
	require.Equal(t, TickFlew, res.Outcome)
	require.True(t, res.Hop.Flew)
	require.Equal(t, "X", res.Hop.To.Code)
}

func TestNextRunnerChoosesFromAllowedSet(t *testing.T) {
	a := atlas.Default()
	rnd := rand.New(rand.NewSource(7))

	for _, c := range a.Countries() {
		for trial := 0; trial < 5; trial++ {
			visited := map[string]bool{c.Code: true}
			for _, code := range a.Codes() {
				if rnd.Intn(3) == 0 {
					visited[code] = true
				}
			}

			var open []string
			for _, n := range c.Borders {
				if !visited[n] {
					open = append(open, n)
				}
			}

			hop, ok := NextRunner(a, c.Code, visited, rnd)
			if !ok {
				require.Len(t, visited, a.Len(), "stalled with unvisited countries left")
				continue
			}
			require.False(t, visited[hop.To.Code], "picked visited %s from %s", hop.To.Code, c.Code)
			if len(open) > 0 {
				require.Contains(t, open, hop.To.Code)
				require.False(t, hop.Flew)
			} else {
				require.True(t, hop.Flew)
			}
		}
	}
}

func TestNextRunnerAllVisited(t *testing.T) {
	a := lineAtlas(t)
	_, ok := NextRunner(a, "B", map[string]bool{"A": true, "B": true, "C": true}, zeros())
	require.False(t, ok)
}

func TestNextRunnerDeterministic(t *testing.T) {
	a := atlas.Default()
	walk := func() []string {
		rnd := rand.New(rand.NewSource(42))
		visited := map[string]bool{"FRA": true}
		cur := "FRA"
		var path []string
		for i := 0; i < 30; i++ {
			hop, ok := NextRunner(a, cur, visited, rnd)
			require.True(t, ok)
			cur = hop.To.Code
			visited[cur] = true
			path = append(path, cur)
		}
		return path
	}
	require.Equal(t, walk(), walk())
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	prev := Progress(0)
	require.Equal(t, 100.0, prev)
	for d := 50.0; d <= 40000; d += 50 {
		p := Progress(d)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 100.0)
		require.LessOrEqual(t, p, prev, "progress grew as distance grew at %v km", d)
		prev = p
	}
	require.Equal(t, 0.0, Progress(20000))
	require.Equal(t, 0.0, Progress(25000))
	require.InDelta(t, 50.0, Progress(10000), 1e-9)
}

func TestEvaluatorDefaults(t *testing.T) {
	var e Evaluator
	require.InDelta(t, 50.0, e.Progress(10000), 1e-9)
	require.True(t, e.Won(100))
	require.False(t, e.Won(99.9))

	loose := Evaluator{NormalizerKm: 20000, WinThreshold: 95}
	require.True(t, loose.Won(loose.Progress(900)))
	require.False(t, loose.Won(loose.Progress(1100)))
}

func TestHaversineOverCountries(t *testing.T) {
	cs := atlas.Default().Countries()
	for i, a := range cs {
		require.Zero(t, geo.Haversine(a.LatLng, a.LatLng))
		b := cs[(i*37+11)%len(cs)]
		require.InDelta(t, geo.Haversine(a.LatLng, b.LatLng), geo.Haversine(b.LatLng, a.LatLng), 1e-9)
	}
}

func TestExactNameAlwaysWins(t *testing.T) {
	a := atlas.Default()
	for seed := int64(1); seed <= 20; seed++ {
		s := NewSession(a, rand.New(rand.NewSource(seed)), DefaultConfig())
		_, err := s.Start()
		require.NoError(t, err)

		// Put the chaser somewhere far first, so progress is low.
		far := a.MustCode("NZL")
		if r, _ := s.Runner(); r.Code == far.Code {
			far = a.MustCode("ISL")
		}
		require.Nil(t, s.MoveChaser(far))

		runner, _ := s.Runner()
		guess := strings.ToUpper(runner.Name)
		if seed%2 == 0 {
			guess = strings.ToLower(runner.Name)
		}
		res := s.Submit(guess)
		require.Equal(t, GuessCatch, res.Outcome, "seed %d", seed)
		require.NotNil(t, res.Catch)
		require.Equal(t, CatchByName, res.Catch.Reason)
		require.Equal(t, runner.Code, res.Catch.Runner.Code)
		require.Equal(t, PhaseNotStarted, s.Phase())
	}
}

func TestInvalidGuessChangesNothing(t *testing.T) {
	// Runner starts in AFG and steps to CHN.
	s := NewSession(atlas.Default(), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	s.Submit("Brazil")
	s.Tick()

	runner, _ := s.Runner()
	chaser, _ := s.Chaser()
	progress := s.Progress()
	guesses := s.Guesses()
	log := s.Log()

	for _, name := range []string{"Atlantis", "", "   ", "Franc", "FRA"} {
		res := s.Submit(name)
		require.Equal(t, GuessInvalid, res.Outcome, name)
		require.Nil(t, res.Catch)

		r, _ := s.Runner()
		c, _ := s.Chaser()
		require.Equal(t, runner.Code, r.Code)
		require.Equal(t, chaser.Code, c.Code)
		require.Equal(t, progress, s.Progress())
		require.Equal(t, guesses, s.Guesses())
		require.Equal(t, log, s.Log())
	}
}

func TestDistanceWinResetsSession(t *testing.T) {
	a := mustAtlas(t,
		atlas.Country{Code: "NUL", Name: "Null Island", Region: "Sea", LatLng: geo.LatLng{Lat: 0, Lng: 0}},
		atlas.Country{Code: "ZER", Name: "Zero Point", Region: "Sea", LatLng: geo.LatLng{Lat: 0, Lng: 0}},
	)
	s := NewSession(a, zeros(), DefaultConfig())

	var phases []Phase
	s.OnPhase(func(from, to Phase) { phases = append(phases, to) })

	start, err := s.Start()
	require.NoError(t, err)
	require.Equal(t, "NUL", start.Code)

	res := s.Submit("zero point")
	require.Equal(t, GuessMove, res.Outcome)
	require.NotNil(t, res.Catch)
	require.Equal(t, CatchByDistance, res.Catch.Reason)
	require.Equal(t, 100.0, res.Catch.Progress)
	require.Equal(t, 1, res.Catch.Guesses)

	require.Equal(t, PhaseNotStarted, s.Phase())
	require.Empty(t, s.Log())
	require.Empty(t, s.RunnerVisited())
	require.Empty(t, s.ChaserVisited())
	require.Zero(t, s.Progress())
	_, ok := s.Runner()
	require.False(t, ok)
	require.Equal(t, []Phase{PhaseRunning, PhaseWon, PhaseNotStarted}, phases)

	// A fresh chase can start right away.
	_, err = s.Start()
	require.NoError(t, err)
}

func TestRunnerWalkingOntoChaserWins(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	require.Nil(t, s.MoveChaser(s.Atlas().MustCode("B")))

	res := s.Tick()
	require.Equal(t, TickMoved, res.Outcome)
	require.NotNil(t, res.Catch)
	require.Equal(t, CatchByDistance, res.Catch.Reason)
	require.Equal(t, 1, res.Catch.Hops)
	require.False(t, s.Running())
}

func TestGuessInFlightCountsInCatch(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	require.Nil(t, s.MoveChaser(s.Atlas().MustCode("B")))

	// A second guess is accepted but has not landed when the runner arrives.
	require.True(t, s.CountGuess())
	require.Equal(t, 2, s.Guesses())

	res := s.Tick()
	require.NotNil(t, res.Catch)
	require.Equal(t, 2, res.Catch.Guesses)
}

func TestPlaceChaserDoesNotCount(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	require.False(t, s.CountGuess(), "nothing to count before the start")
	_, err := s.Start()
	require.NoError(t, err)

	require.Nil(t, s.PlaceChaser(s.Atlas().MustCode("C")))
	require.Zero(t, s.Guesses())
	c, ok := s.Chaser()
	require.True(t, ok)
	require.Equal(t, "C", c.Code)
}

func TestProgressZeroUntilChaserPlaced(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	s.Tick()
	require.Zero(t, s.Progress())
	_, ok := s.Distance()
	require.False(t, ok)

	s.Submit("gamma")
	d, ok := s.Distance()
	require.True(t, ok)
	require.InDelta(t, Progress(d), s.Progress(), 1e-9)
}

func TestChaserMayRevisit(t *testing.T) {
	s := NewSession(atlas.Default(), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	// zeros() starts the runner on the first code, AFG.
	for _, name := range []string{"Chile", "Peru", "Chile"} {
		res := s.Submit(name)
		require.Equal(t, GuessMove, res.Outcome)
	}
	chaser, _ := s.Chaser()
	require.Equal(t, "CHL", chaser.Code)
	require.Equal(t, []string{"CHL", "PER"}, s.ChaserVisited())
	require.Equal(t, 3, s.Guesses())
}

func TestResolveDoesNotMutate(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	outcome, _ := s.Resolve("Alpha")
	require.Equal(t, GuessIgnored, outcome)

	_, err := s.Start()
	require.NoError(t, err)
	outcome, c := s.Resolve("ALPHA")
	require.Equal(t, GuessCatch, outcome)
	require.Equal(t, "A", c.Code)
	require.True(t, s.Running())

	outcome, c = s.Resolve("gamma")
	require.Equal(t, GuessMove, outcome)
	require.Equal(t, "C", c.Code)
	_, placed := s.Chaser()
	require.False(t, placed)
	require.Zero(t, s.Guesses())
}

func TestStartTwice(t *testing.T) {
	s := NewSession(lineAtlas(t), zeros(), DefaultConfig())
	_, err := s.Start()
	require.NoError(t, err)
	_, err = s.Start()
	require.ErrorIs(t, err, ErrAlreadyRunning)

	s.Reset()
	require.Equal(t, PhaseNotStarted, s.Phase())
	require.Equal(t, TickIdle, s.Tick().Outcome)
}
