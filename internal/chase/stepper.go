// Package chase implements the rules of the game independent of any
// rendering or timing: the runner's random walk over the border graph,
// chaser moves, the distance-based progress metric and the move log.
package chase

import (
	"github.com/vovakirdan/catch-bash/internal/atlas"
)

// RandomSource picks an index in [0, n). *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Hop is one step of the runner.
type Hop struct {
	To   atlas.Country
	Flew bool // no unvisited neighbour was left, so the runner jumped anywhere
}

// NextRunner chooses where the runner goes from current.
// It prefers unvisited neighbours; when every neighbour has been visited it
// falls back to any unvisited country. It returns false when the whole atlas
// has been visited. Candidates are ordered by code, so a fixed random
// sequence always produces the same walk.
func NextRunner(a *atlas.Atlas, current string, visited map[string]bool, rnd RandomSource) (Hop, bool) {
	var candidates []atlas.Country
	for _, n := range a.Neighbors(current) {
		if !visited[n.Code] {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) > 0 {
		return Hop{To: candidates[rnd.Intn(len(candidates))]}, true
	}

	for _, c := range a.Countries() {
		if !visited[c.Code] {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Hop{}, false
	}
	return Hop{To: candidates[rnd.Intn(len(candidates))], Flew: true}, true
}

// PickStart chooses the runner's first country uniformly over the atlas.
func PickStart(a *atlas.Atlas, rnd RandomSource) atlas.Country {
	all := a.Countries()
	return all[rnd.Intn(len(all))]
}
