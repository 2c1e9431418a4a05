package atlas

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/catch-bash/internal/geo"
)

func TestDefaultDataset(t *testing.T) {
	a := Default()
	require.Equal(t, 194, a.Len())
	require.Empty(t, a.Pruned())
	require.Equal(t, []string{"Africa", "Americas", "Asia", "Europe", "Oceania"}, a.Regions())

	fra, ok := a.ByCode("fra")
	require.True(t, ok)
	require.Equal(t, "France", fra.Name)
	require.Equal(t, "Europe", fra.Region)
	require.Contains(t, fra.Borders, "DEU")
}

func TestDefaultBordersSymmetric(t *testing.T) {
	a := Default()
	for _, c := range a.Countries() {
		for _, b := range c.Borders {
			other, ok := a.ByCode(b)
			if !ok {
				t.Fatalf("%s borders unknown %s", c.Code, b)
			}
			if !slices.Contains(other.Borders, c.Code) {
				t.Errorf("%s borders %s but not the other way round", c.Code, b)
			}
		}
	}
}

func TestCountriesSortedByCode(t *testing.T) {
	codes := Default().Codes()
	if !slices.IsSorted(codes) {
		t.Errorf("codes not sorted: %v", codes[:5])
	}
	countries := Default().Countries()
	for i, c := range countries {
		if c.Code != codes[i] {
			t.Fatalf("Countries()[%d] = %s, expected %s", i, c.Code, codes[i])
		}
	}
}

func TestFindByName(t *testing.T) {
	a := Default()
	tests := []struct {
		input string
		code  string
		found bool
	}{
		{"France", "FRA", true},
		{"  fRaNcE ", "FRA", true},
		{"united   kingdom", "GBR", true},
		{"UK", "GBR", true},
		{"Côte d'Ivoire", "CIV", true},
		{"cote d'ivoire", "CIV", true},
		{"Sao Tome and Principe", "STP", true},
		{"Guinea", "GIN", true},
		{"Guinea-Bissau", "GNB", true},
		{"Atlantis", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := a.FindByName(tt.input)
			if ok != tt.found {
				t.Fatalf("FindByName(%q) found = %v, expected %v", tt.input, ok, tt.found)
			}
			if ok && c.Code != tt.code {
				t.Errorf("FindByName(%q) = %s, expected %s", tt.input, c.Code, tt.code)
			}
		})
	}
}

func TestNeighborsSorted(t *testing.T) {
	a := Default()
	n := a.Neighbors("ESP")
	codes := make([]string, len(n))
	for i, c := range n {
		codes[i] = c.Code
	}
	require.Equal(t, []string{"AND", "FRA", "MAR", "PRT"}, codes)

	require.Empty(t, a.Neighbors("JPN"))
	require.Nil(t, a.Neighbors("XXX"))
}

func TestReturnedCountriesAreCopies(t *testing.T) {
	a := Default()
	c := a.MustCode("FRA")
	c.Borders[0] = "ZZZ"
	c.Name = "Gaul"

	again := a.MustCode("FRA")
	require.Equal(t, "France", again.Name)
	require.NotEqual(t, "ZZZ", again.Borders[0])
}

func TestNewPrunesAndSymmetrizes(t *testing.T) {
	a, err := New([]Country{
		{Code: "a", Name: "Alpha", LatLng: geo.LatLng{Lat: 1, Lng: 1}, Borders: []string{"B", "ZZZ", "A"}},
		{Code: "B", Name: "Beta", LatLng: geo.LatLng{Lat: 2, Lng: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A->ZZZ"}, a.Pruned())
	require.Equal(t, []string{"B"}, a.MustCode("A").Borders)
	require.Equal(t, []string{"A"}, a.MustCode("B").Borders)
}

func TestNewValidation(t *testing.T) {
	ok := func(code, name string) Country {
		return Country{Code: code, Name: name, LatLng: geo.LatLng{Lat: 10, Lng: 10}}
	}
	tests := []struct {
		name      string
		countries []Country
		want      error
	}{
		{"empty", nil, ErrEmpty},
		{"missing code", []Country{ok("", "Alpha")}, ErrInvalidCountry},
		{"missing name", []Country{ok("AAA", " ")}, ErrInvalidCountry},
		{"bad coordinates", []Country{{Code: "AAA", Name: "Alpha", LatLng: geo.LatLng{Lat: 95}}}, ErrInvalidCountry},
		{"duplicate code", []Country{ok("AAA", "Alpha"), ok("aaa", "Beta")}, ErrDuplicate},
		{"duplicate name", []Country{ok("AAA", "Alpha"), ok("BBB", "ALPHA")}, ErrDuplicate},
		{"alias clash", []Country{ok("AAA", "Alpha"), {Code: "BBB", Name: "Beta", Aliases: []string{"alpha"}}}, ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.countries)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestSubset(t *testing.T) {
	eu, err := Default().Subset("europe")
	require.NoError(t, err)
	require.Equal(t, 46, eu.Len())

	for _, c := range eu.Countries() {
		require.Equal(t, "Europe", c.Region)
	}
	// Russia keeps only its European borders.
	rus := eu.MustCode("RUS")
	require.NotContains(t, rus.Borders, "CHN")
	require.Contains(t, rus.Borders, "FIN")
	require.Contains(t, eu.Pruned(), "RUS->CHN")

	spaced, err := Default().Subset("  EUROPE ")
	require.NoError(t, err)
	require.Equal(t, eu.Len(), spaced.Len())

	_, err = Default().Subset("Atlantis")
	require.ErrorIs(t, err, ErrEmpty)
	_, err = Default().Subset("")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestParse(t *testing.T) {
	a, err := Parse([]byte(`
countries:
  - {code: AAA, name: Alpha, region: Test, latlng: [0, 0], borders: [BBB]}
  - {code: BBB, name: Beta, region: Test, latlng: [0, 1], borders: []}
`))
	require.NoError(t, err)
	require.Equal(t, 2, a.Len())
	require.Equal(t, geo.LatLng{Lat: 0, Lng: 1}, a.MustCode("BBB").LatLng)

	_, err = Parse([]byte(`countries: [{code: AAA, name: Alpha, latlng: [1]}]`))
	require.ErrorIs(t, err, ErrInvalidCountry)

	_, err = Parse([]byte(`countries: {`))
	require.Error(t, err)
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countries.yaml")
	err := os.WriteFile(path, []byte(`countries: [{code: AAA, name: Alpha, latlng: [5, 5]}]`), 0o644)
	require.NoError(t, err)

	a, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, a.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestDumpedDatasetLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, DefaultYAML(), 0o644))

	a, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Len(), a.Len())
	require.Equal(t, Default().Regions(), a.Regions())
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"France", "france"},
		{"  New   Zealand ", "new zealand"},
		{"Türkiye", "turkiye"},
		{"São Tomé and Príncipe", "sao tome and principe"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
	if SameName("", "") {
		t.Error("empty names should never match")
	}
	if !SameName("FRANCE", "france") {
		t.Error("SameName should ignore case")
	}
}
