package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/fragkey/fragkey/pkg/core"
)

func TestWriterRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fragments.db")

	p := &core.Proteoform{
		Sequence:      "PEPTIDE",
		Modifications: []core.Modification{{Mass: 15.994915, Kind: core.PosResidue, Index: 3, Name: "Oxidation"}},
	}
	fragments, err := core.GetTheoreticalFragments(p, "by", 2, nil)
	if err != nil {
		t.Fatalf("GetTheoreticalFragments() error = %v", err)
	}

	writer, err := NewWriter(dbPath)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := writer.WritePeptide(p, fragments); err != nil {
		t.Fatalf("WritePeptide() error = %v", err)
	}
	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	var peptides int
	if err := db.QueryRow("SELECT COUNT(*) FROM PeptideTable").Scan(&peptides); err != nil {
		t.Fatalf("failed to count peptides: %v", err)
	}
	if peptides != 1 {
		t.Errorf("PeptideTable has %d rows, want 1", peptides)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM FragmentTable").Scan(&count); err != nil {
		t.Fatalf("failed to count fragments: %v", err)
	}
	if count != len(fragments) {
		t.Errorf("FragmentTable has %d rows, want %d", count, len(fragments))
	}

	var mods string
	if err := db.QueryRow("SELECT Mods FROM PeptideTable WHERE PeptideId = 1").Scan(&mods); err != nil {
		t.Fatalf("failed to read mods: %v", err)
	}
	if mods != "Oxidation@4" {
		t.Errorf("Mods = %q, want %q", mods, "Oxidation@4")
	}

	// Fragments must come back in ascending m/z via the index.
	rows, err := db.Query("SELECT MZ FROM FragmentTable ORDER BY MZ")
	if err != nil {
		t.Fatalf("failed to query fragments: %v", err)
	}
	defer rows.Close()

	prev := 0.0
	for rows.Next() {
		var mz float64
		if err := rows.Scan(&mz); err != nil {
			t.Fatalf("failed to scan m/z: %v", err)
		}
		if mz < prev {
			t.Fatal("fragments not ascending by m/z")
		}
		prev = mz
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows error: %v", err)
	}
}
