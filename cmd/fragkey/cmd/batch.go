package cmd

import (
	"fmt"
	"os"

	"github.com/fragkey/fragkey/pkg/core"
	"github.com/fragkey/fragkey/pkg/reader/peplist"
	"github.com/fragkey/fragkey/pkg/writer/sqlite"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate a fragment library for a peptide list",
	Long: `Stream a peptide list file through the fragment generator into a SQLite
fragment library. Each line holds a sequence, optionally followed by a
modification string:

  PEPTIDE
  PEPTIDEK Oxidation@M4;Acetyl@N-term

Examples:
  fragkey batch --in peptides.txt --out fragments.db --ion-types by --max-charge 2`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	inFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	modDB, err := loadModDatabase()
	if err != nil {
		return err
	}

	losses, err := resolveLosses()
	if err != nil {
		return err
	}
	cfg := filterConfig()

	reader := peplist.NewReader(inFile, modDB)

	writer, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	count := 0
	skipped := 0

	for reader.Next() {
		proteoform := reader.Proteoform()

		fragments, err := core.GetTheoreticalFragments(proteoform, ionTypes, maxCharge, losses)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", proteoform.Name(), err)
			skipped++
			continue
		}
		fragments = cfg.Apply(fragments)

		if err := writer.WritePeptide(proteoform, fragments); err != nil {
			return fmt.Errorf("failed to write %s: %w", proteoform.Name(), err)
		}

		count++
		if count%1000 == 0 {
			fmt.Printf("Processed %d peptides...\n", count)
		}
	}

	if err := reader.Err(); err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	fmt.Printf("\nGeneration complete!\n")
	fmt.Printf("Processed: %d peptides\n", count)
	if skipped > 0 {
		fmt.Printf("Skipped: %d peptides (generation errors)\n", skipped)
	}
	fmt.Printf("Output: %s\n", outputFile)

	return nil
}
