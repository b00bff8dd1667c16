package cmd

import (
	"fmt"
	"os"

	"github.com/fragkey/fragkey/pkg/core"
	"github.com/fragkey/fragkey/pkg/writer/sqlite"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate theoretical fragments for a single peptide",
	Long: `Generate the theoretical fragment ions of one peptide and print them as
TSV (annotation, ion type, charge, m/z) or write them to a SQLite database.

Examples:
  # b and y ions of an unmodified peptide
  fragkey generate --sequence PEPTIDE

  # Oxidized peptide, b/y/precursor up to charge 2, with water loss
  fragkey generate --sequence PEPTIDE --mods Oxidation@M4 --ion-types byp --max-charge 2 --losses H2O

  # Write a fragment library
  fragkey generate --sequence PEPTIDE --out fragments.db`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	modDB, err := loadModDatabase()
	if err != nil {
		return err
	}

	mods, err := modDB.ParseModString(modString)
	if err != nil {
		return fmt.Errorf("invalid --mods: %w", err)
	}

	proteoform := &core.Proteoform{
		Sequence:      sequence,
		Modifications: mods,
	}

	losses, err := resolveLosses()
	if err != nil {
		return err
	}

	fragments, err := core.GetTheoreticalFragments(proteoform, ionTypes, maxCharge, losses)
	if err != nil {
		return fmt.Errorf("failed to generate fragments: %w", err)
	}
	fragments = filterConfig().Apply(fragments)

	if outputFile == "" {
		printFragments(fragments)
		return nil
	}

	writer, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}

	if err := writer.WritePeptide(proteoform, fragments); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write %s: %w", proteoform.Name(), err)
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d fragments for %s to %s\n",
		len(fragments), proteoform.Name(), outputFile)
	return nil
}

// printFragments writes fragments as TSV on stdout
func printFragments(fragments []core.Fragment) {
	fmt.Println("annotation\tion_type\tcharge\tmz")
	for _, frag := range fragments {
		fmt.Printf("%s\t%s\t%d\t%v\n",
			frag.Annotation,
			frag.Annotation.IonType(),
			frag.Annotation.Charge(),
			core.RoundFloat(frag.MZ, precision),
		)
	}
}
