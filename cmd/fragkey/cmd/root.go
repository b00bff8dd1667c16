// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fragkey/fragkey/pkg/core"
	"github.com/fragkey/fragkey/pkg/filter"
	"github.com/spf13/cobra"
)

var (
	// Flags shared by generate and batch
	sequence   string
	modString  string
	ionTypes   string
	maxCharge  int
	lossNames  string
	minMZ      float64
	maxMZ      float64
	keepTypes  string
	modCSV     string
	precision  int
	inputFile  string
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "fragkey",
	Short: "FragKey - Theoretical fragment ion generator",
	Long: `FragKey enumerates the theoretical fragment ions of modified peptides:
terminal ions (a/b/c, x/y/z), internal ions, immonium ions, the precursor,
and their neutral-loss variants across a charge range.

Fragments are reported with their canonical annotation strings and
theoretical m/z, ascending by mass, as TSV or as a SQLite fragment library.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)

	for _, c := range []*cobra.Command{generateCmd, batchCmd} {
		c.Flags().StringVar(&ionTypes, "ion-types", "by", "Ion types to generate (any of a,b,c,x,y,z,I,m,p)")
		c.Flags().IntVar(&maxCharge, "max-charge", 1, "Generate fragments up to and including this charge")
		c.Flags().StringVar(&lossNames, "losses", "", "Comma-separated neutral losses to apply (e.g. 'H2O,NH3')")
		c.Flags().Float64Var(&minMZ, "min-mz", 0, "Keep only fragments at or above this m/z (0 = no limit)")
		c.Flags().Float64Var(&maxMZ, "max-mz", 0, "Keep only fragments at or below this m/z (0 = no limit)")
		c.Flags().StringVar(&keepTypes, "keep", "", "Comma-separated ion type prefixes to keep (e.g. 'b,y')")
		c.Flags().StringVar(&modCSV, "mod-csv", "", "Path to a CSV file with extra modification definitions")
		c.Flags().IntVar(&precision, "precision", 4, "Decimal places for m/z output")
	}

	generateCmd.Flags().StringVarP(&sequence, "sequence", "s", "", "Peptide sequence (required)")
	generateCmd.Flags().StringVarP(&modString, "mods", "m", "", "Modification string (e.g. 'Oxidation@M4;Acetyl@N-term')")
	generateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output SQLite database (default: TSV on stdout)")
	generateCmd.MarkFlagRequired("sequence")

	batchCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input peptide list file (required)")
	batchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output SQLite database (required)")
	batchCmd.MarkFlagRequired("in")
	batchCmd.MarkFlagRequired("out")
}

// loadModDatabase builds the modification registry, including any custom
// CSV definitions.
func loadModDatabase() (*core.ModDatabase, error) {
	modDB := core.DefaultModDatabase()
	if modCSV == "" {
		return modDB, nil
	}

	f, err := os.Open(modCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to open modification CSV: %w", err)
	}
	defer f.Close()

	if err := modDB.LoadFromCSV(f); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", modCSV, err)
	}
	return modDB, nil
}

// resolveLosses maps the --losses flag to a neutral-loss table. Unknown
// names are an error rather than a silent zero delta.
func resolveLosses() (map[string]float64, error) {
	if lossNames == "" {
		return nil, nil
	}

	losses := map[string]float64{"": 0}
	for _, name := range strings.Split(lossNames, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		delta, ok := core.NeutralLosses[name]
		if !ok {
			return nil, fmt.Errorf("unknown neutral loss '%s'", name)
		}
		losses[name] = delta
	}
	return losses, nil
}

// filterConfig builds the fragment filter from the shared flags.
func filterConfig() *filter.Config {
	cfg := &filter.Config{MinMZ: minMZ, MaxMZ: maxMZ}
	if keepTypes != "" {
		for _, t := range strings.Split(keepTypes, ",") {
			cfg.IonTypes = append(cfg.IonTypes, strings.TrimSpace(t))
		}
	}
	return cfg
}
