// Package atlas holds the static country dataset the chase is played on:
// country records keyed by ISO alpha-3 code and the land-border graph
// between them.
package atlas

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vovakirdan/catch-bash/internal/geo"
)

var (
	ErrEmpty          = errors.New("atlas: no countries")
	ErrInvalidCountry = errors.New("atlas: invalid country")
	ErrDuplicate      = errors.New("atlas: duplicate country")
	ErrUnknownCountry = errors.New("atlas: unknown country")
)

// Country is one node of the border graph. Records handed out by an Atlas
// are copies; mutating them does not affect the atlas.
type Country struct {
	Code    string
	Name    string
	Region  string
	LatLng  geo.LatLng
	Borders []string
	Aliases []string
}

func (c Country) clone() Country {
	c.Borders = slices.Clone(c.Borders)
	c.Aliases = slices.Clone(c.Aliases)
	return c
}

// Atlas is an immutable, validated set of countries.
type Atlas struct {
	countries map[string]Country
	codes     []string          // sorted
	names     map[string]string // folded name or alias -> code
	pruned    []string
}

// New validates countries and builds an atlas from them.
// Codes are upper-cased and must be unique; names and aliases must be unique
// after folding. Borders pointing outside the set are dropped (see Pruned)
// and the remaining border relation is made symmetric.
func New(countries []Country) (*Atlas, error) {
	if len(countries) == 0 {
		return nil, ErrEmpty
	}

	a := &Atlas{
		countries: make(map[string]Country, len(countries)),
		codes:     make([]string, 0, len(countries)),
		names:     make(map[string]string, len(countries)),
	}

	for i, c := range countries {
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		c.Name = strings.TrimSpace(c.Name)
		if c.Code == "" || c.Name == "" {
			return nil, fmt.Errorf("%w: entry %d needs a code and a name", ErrInvalidCountry, i)
		}
		if !c.LatLng.Valid() {
			return nil, fmt.Errorf("%w: %s has coordinates out of range (%v)", ErrInvalidCountry, c.Code, c.LatLng)
		}
		if _, dup := a.countries[c.Code]; dup {
			return nil, fmt.Errorf("%w: code %s", ErrDuplicate, c.Code)
		}
		if err := a.addName(c.Name, c.Code); err != nil {
			return nil, err
		}
		for _, alias := range c.Aliases {
			if err := a.addName(alias, c.Code); err != nil {
				return nil, err
			}
		}
		a.countries[c.Code] = c.clone()
		a.codes = append(a.codes, c.Code)
	}
	slices.Sort(a.codes)

	// Build a symmetric adjacency out of whatever both ends agree exists.
	adj := make(map[string]map[string]bool, len(a.codes))
	for _, code := range a.codes {
		adj[code] = make(map[string]bool)
	}
	for _, code := range a.codes {
		for _, b := range a.countries[code].Borders {
			b = strings.ToUpper(strings.TrimSpace(b))
			if b == code {
				continue
			}
			if _, ok := a.countries[b]; !ok {
				a.pruned = append(a.pruned, code+"->"+b)
				continue
			}
			adj[code][b] = true
			adj[b][code] = true
		}
	}
	for _, code := range a.codes {
		c := a.countries[code]
		c.Borders = make([]string, 0, len(adj[code]))
		for b := range adj[code] {
			c.Borders = append(c.Borders, b)
		}
		slices.Sort(c.Borders)
		a.countries[code] = c
	}

	return a, nil
}

func (a *Atlas) addName(name, code string) error {
	key := Fold(name)
	if key == "" {
		return nil
	}
	if owner, ok := a.names[key]; ok {
		if owner == code {
			return nil
		}
		return fmt.Errorf("%w: name %q used by %s and %s", ErrDuplicate, name, owner, code)
	}
	a.names[key] = code
	return nil
}

// Len returns the number of countries.
func (a *Atlas) Len() int { return len(a.codes) }

// ByCode looks a country up by its code (case-insensitive).
func (a *Atlas) ByCode(code string) (Country, bool) {
	c, ok := a.countries[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Country{}, false
	}
	return c.clone(), true
}

// MustCode is ByCode for codes known to exist.
func (a *Atlas) MustCode(code string) Country {
	c, ok := a.ByCode(code)
	if !ok {
		panic(fmt.Sprintf("%v: %s", ErrUnknownCountry, code))
	}
	return c
}

// Neighbors returns the bordering countries of code ordered by code.
// Unknown codes have no neighbours.
func (a *Atlas) Neighbors(code string) []Country {
	c, ok := a.countries[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil
	}
	out := make([]Country, 0, len(c.Borders))
	for _, b := range c.Borders {
		out = append(out, a.countries[b].clone())
	}
	return out
}

// FindByName resolves free-form input against common names and aliases.
// Matching ignores case, accents and surrounding or repeated whitespace.
func (a *Atlas) FindByName(name string) (Country, bool) {
	code, ok := a.names[Fold(name)]
	if !ok {
		return Country{}, false
	}
	return a.countries[code].clone(), true
}

// Countries returns every country ordered by code.
func (a *Atlas) Countries() []Country {
	out := make([]Country, 0, len(a.codes))
	for _, code := range a.codes {
		out = append(out, a.countries[code].clone())
	}
	return out
}

// Codes returns all codes in sorted order.
func (a *Atlas) Codes() []string {
	return slices.Clone(a.codes)
}

// Regions returns the distinct regions in sorted order.
func (a *Atlas) Regions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, code := range a.codes {
		r := a.countries[code].Region
		if r != "" && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out
}

// Pruned lists border references dropped while building the atlas,
// formatted as "FROM->TO".
func (a *Atlas) Pruned() []string {
	return slices.Clone(a.pruned)
}

// Subset returns a new atlas holding only the countries of region
// (case-insensitive). Borders leaving the region are pruned.
func (a *Atlas) Subset(region string) (*Atlas, error) {
	var picked []Country
	for _, code := range a.codes {
		c := a.countries[code]
		if SameName(c.Region, region) {
			picked = append(picked, c.clone())
		}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("%w in region %q", ErrEmpty, region)
	}
	return New(picked)
}

// Bounds returns the bounding box of every country centre.
func (a *Atlas) Bounds() geo.Bounds {
	pts := make([]geo.LatLng, 0, len(a.codes))
	for _, code := range a.codes {
		pts = append(pts, a.countries[code].LatLng)
	}
	return geo.BoundsOf(pts...)
}
