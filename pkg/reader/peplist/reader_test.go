package peplist

import (
	"strings"
	"testing"

	"github.com/fragkey/fragkey/pkg/core"
)

func TestReaderPlainSequences(t *testing.T) {
	input := "PEPTIDE\n\nELVISLIVES\n"
	reader := NewReader(strings.NewReader(input), nil)

	var sequences []string
	for reader.Next() {
		sequences = append(sequences, reader.Proteoform().Sequence)
	}
	if err := reader.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	want := []string{"PEPTIDE", "ELVISLIVES"}
	if len(sequences) != len(want) {
		t.Fatalf("read %d peptides, want %d", len(sequences), len(want))
	}
	for i := range want {
		if sequences[i] != want[i] {
			t.Errorf("peptide %d = %q, want %q", i, sequences[i], want[i])
		}
	}
}

func TestReaderCommentsAndMods(t *testing.T) {
	input := "# peptides for the QC run\nPEPTIDE Oxidation@M4;Acetyl@N-term\n"
	reader := NewReader(strings.NewReader(input), nil)

	if !reader.Next() {
		t.Fatalf("Next() = false, err = %v", reader.Err())
	}
	p := reader.Proteoform()
	if p.Sequence != "PEPTIDE" {
		t.Errorf("sequence = %q, want %q", p.Sequence, "PEPTIDE")
	}
	if len(p.Modifications) != 2 {
		t.Fatalf("expected 2 modifications, got %d", len(p.Modifications))
	}
	// Scanning order: N-term first.
	if p.Modifications[0].Kind != core.PosNTerm {
		t.Errorf("first modification kind = %v, want N-term", p.Modifications[0].Kind)
	}
	if p.Modifications[1].Kind != core.PosResidue || p.Modifications[1].Index != 3 {
		t.Errorf("second modification = %+v, want Oxidation on index 3", p.Modifications[1])
	}

	if reader.Next() {
		t.Error("expected end of input")
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown modification", "PEPTIDE NotAMod@3\n"},
		{"too many fields", "PEPTIDE Oxidation@M4 extra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewReader(strings.NewReader(tt.input), nil)
			if reader.Next() {
				t.Fatal("Next() = true, want false")
			}
			if reader.Err() == nil {
				t.Error("Err() = nil, want parse error")
			}
		})
	}
}
