package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/catch-bash/internal/atlas"
)

var flagCountriesDump bool

var countriesCmd = &cobra.Command{
	Use:   "countries [region]",
	Short: "Browse the country dataset",
	Long: `List the regions of the country dataset, or the countries of one
region with their neighbours. Uses --countries when given.
--dump prints the built-in dataset as a starting point for your own.

Examples:
  catchbash countries
  catchbash countries Europe
  catchbash countries --countries ./islands.yaml
  catchbash countries --dump > islands.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCountries,
}

func init() {
	countriesCmd.Flags().BoolVar(&flagCountriesDump, "dump", false, "Print the built-in country dataset as YAML")
}

func runCountries(_ *cobra.Command, args []string) {
	if flagCountriesDump {
		_, _ = os.Stdout.Write(atlas.DefaultYAML())
		return
	}

	a, err := atlas.Load(flagCountries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading countries: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 0 {
		fmt.Printf("%d countries\n\n", a.Len())
		for _, region := range a.Regions() {
			sub, err := a.Subset(region)
			if err != nil {
				continue
			}
			fmt.Printf("  %-12s %3d\n", region, sub.Len())
		}
		if pruned := a.Pruned(); len(pruned) > 0 {
			fmt.Printf("\n%d borders point outside the dataset and were dropped.\n", len(pruned))
		}
		fmt.Println()
		fmt.Println("Run 'catchbash countries <region>' for the countries of a region.")
		return
	}

	sub, err := a.Subset(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Regions: %s\n", strings.Join(a.Regions(), ", "))
		os.Exit(1)
	}

	for _, c := range sub.Countries() {
		names := make([]string, 0, len(c.Borders))
		for _, n := range sub.Neighbors(c.Code) {
			names = append(names, n.Name)
		}
		neighbours := strings.Join(names, ", ")
		if neighbours == "" {
			neighbours = "(no land borders)"
		}
		fmt.Printf("  %-3s %-28s %s\n", c.Code, c.Name, neighbours)
	}
}
