// Theoretical fragment generation for modified peptides.
package core

import (
	"fmt"
	"sort"
	"strings"
)

// Fragment pairs a fragment annotation with its theoretical m/z.
type Fragment struct {
	Annotation *FragmentAnnotation
	MZ         float64
}

// AmbiguousResidueError reports a sequence containing an ambiguous residue
// code whose mass cannot be resolved.
type AmbiguousResidueError struct {
	Residue byte
	Options string
}

func (e *AmbiguousResidueError) Error() string {
	return fmt.Sprintf(
		"explicitly specify %s instead of the ambiguous %s to compute the fragment annotations",
		e.Options, string(e.Residue))
}

// baseFragment is one uncharged fragment before charge and neutral-loss
// expansion. series selects the mass calculation ('a'..'z' or 'M' for the
// precursor); label is the annotation ion type ("b3", "m2:5", "p").
type baseFragment struct {
	sequence string
	series   byte
	label    string
	modMass  float64
}

// modCursor walks a scanning-ordered modification list monotonically while
// fragment boundaries slide across the sequence, accumulating modification
// mass. One cursor makes a single pass per ion series, so the per-series
// cost stays O(n) instead of recomputing sums per fragment.
type modCursor struct {
	mods []Modification
	i    int
	mass float64
}

// forward folds every modification located at the N-terminus or on a
// residue index strictly before the cleavage index, skipping unlocalized
// entries. Returns the accumulated mass.
func (c *modCursor) forward(cleavage int) float64 {
	for c.i < len(c.mods) && c.mods[c.i].Kind == PosUnlocalized {
		c.i++
	}
	for c.i < len(c.mods) &&
		(c.mods[c.i].Kind == PosNTerm ||
			(c.mods[c.i].Kind == PosResidue && c.mods[c.i].Index < cleavage)) {
		c.mass += c.mods[c.i].Mass
		c.i++
	}
	return c.mass
}

// backward folds every modification located at the C-terminus or on a
// residue index at or after the cleavage index, walking the list from the
// tail. Returns the accumulated mass.
func (c *modCursor) backward(cleavage int) float64 {
	for c.i >= 0 &&
		(c.mods[c.i].Kind == PosCTerm ||
			(c.mods[c.i].Kind == PosResidue && c.mods[c.i].Index >= cleavage)) {
		c.mass += c.mods[c.i].Mass
		c.i--
	}
	return c.mass
}

// GetTheoreticalFragments enumerates all theoretical fragments for the
// proteoform across the requested ion types and charges 1..maxCharge,
// expanded with the given neutral losses, in ascending m/z order.
//
// ionTypes can be any combination of 'a', 'b', 'c', 'x', 'y' and 'z' for
// peptide backbone fragments, 'I' for immonium ions, 'm' for internal
// fragments and 'p' for the precursor; order and duplicates are ignored.
// losses maps neutral-loss names to signed mass deltas; nil means no losses
// (the empty-name entry is the no-loss placeholder and is never expanded).
func GetTheoreticalFragments(p *Proteoform, ionTypes string, maxCharge int, losses map[string]float64) ([]Fragment, error) {
	if strings.ContainsRune(p.Sequence, 'B') {
		return nil, &AmbiguousResidueError{Residue: 'B', Options: "aspartic acid (D) or asparagine (N)"}
	}
	if strings.ContainsRune(p.Sequence, 'Z') {
		return nil, &AmbiguousResidueError{Residue: 'Z', Options: "glutamic acid (E) or glutamine (Q)"}
	}
	if maxCharge < 1 {
		return nil, fmt.Errorf("max charge must be positive, got %d", maxCharge)
	}
	if losses == nil {
		losses = map[string]float64{"": 0}
	}

	seq := p.Sequence
	n := len(seq)
	var bases []baseFragment

	// N-terminal series: forward cleavage walk with a fresh cursor per
	// series.
	for _, series := range []byte{'a', 'b', 'c'} {
		if !strings.ContainsRune(ionTypes, rune(series)) {
			continue
		}
		cur := modCursor{mods: p.Modifications}
		for i := 1; i < n; i++ {
			bases = append(bases, baseFragment{
				sequence: seq[:i],
				series:   series,
				label:    fmt.Sprintf("%c%d", series, i),
				modMass:  cur.forward(i),
			})
		}
	}

	// C-terminal series: backward walk, cursor starting at the tail of the
	// modification list.
	for _, series := range []byte{'x', 'y', 'z'} {
		if !strings.ContainsRune(ionTypes, rune(series)) {
			continue
		}
		cur := modCursor{mods: p.Modifications, i: len(p.Modifications) - 1}
		for i := n - 1; i > 0; i-- {
			bases = append(bases, baseFragment{
				sequence: seq[i:],
				series:   series,
				label:    fmt.Sprintf("%c%d", series, n-i),
				modMass:  cur.backward(i),
			})
		}
	}

	// Internal fragments, mass-equivalent to a b ion over the slice.
	// Fragments starting at index 0 are b ions and single-residue internal
	// fragments are immonium ions, so both are excluded here.
	if strings.ContainsRune(ionTypes, 'm') {
		for start := 1; start < n; start++ {
			modI := 0
			for modI < len(p.Modifications) &&
				(p.Modifications[modI].Kind != PosResidue ||
					p.Modifications[modI].Index < start) {
				modI++
			}
			modMass := 0.0
			for stop := start + 2; stop < n; stop++ {
				for modI < len(p.Modifications) &&
					p.Modifications[modI].Kind == PosResidue &&
					p.Modifications[modI].Index < stop {
					modMass += p.Modifications[modI].Mass
					modI++
				}
				bases = append(bases, baseFragment{
					sequence: seq[start:stop],
					series:   'b',
					label:    fmt.Sprintf("m%d:%d", start+1, stop+1),
					modMass:  modMass,
				})
			}
		}
	}

	// Unfragmented precursor, carrying every modification.
	if strings.ContainsRune(ionTypes, 'p') {
		bases = append(bases, baseFragment{
			sequence: seq,
			series:   'M',
			label:    "p",
			modMass:  p.TotalModMass(),
		})
	}

	// Charge expansion. The modification mass is charge-normalized like the
	// ionizing protons: it belongs to the molecule, not to the ionization.
	var fragments []Fragment
	for _, base := range bases {
		for charge := 1; charge <= maxCharge; charge++ {
			annot, err := NewFragmentAnnotation(base.label, WithCharge(charge))
			if err != nil {
				return nil, err
			}
			mz, err := FragmentMZ(base.sequence, base.series, charge)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, Fragment{
				Annotation: annot,
				MZ:         mz + base.modMass/float64(charge),
			})
		}
	}

	// Immonium ions, one per residue code in the mass table except the
	// wildcard, regardless of the residues actually present in the peptide.
	// Codes are enumerated in fixed order so the output is deterministic.
	if strings.ContainsRune(ionTypes, 'I') {
		for _, code := range immoniumCodes() {
			annot, err := NewFragmentAnnotation("I"+string(code), WithCharge(1))
			if err != nil {
				return nil, err
			}
			mz, err := ImmoniumMZ(code)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, Fragment{Annotation: annot, MZ: mz})
		}
	}

	// Neutral-loss expansion: every loss applies to every fragment generated
	// so far, additively. Loss names iterate in sorted order for
	// deterministic output.
	lossNames := make([]string, 0, len(losses))
	for name := range losses {
		if name == "" {
			continue
		}
		lossNames = append(lossNames, name)
	}
	sort.Strings(lossNames)

	var lossFragments []Fragment
	for _, name := range lossNames {
		delta := losses[name]
		token := "+" + name
		if delta < 0 {
			token = "-" + name
		}
		for _, frag := range fragments {
			annot, err := NewFragmentAnnotation(
				frag.Annotation.IonType(),
				WithNeutralLoss(token),
				WithCharge(frag.Annotation.Charge()),
			)
			if err != nil {
				return nil, err
			}
			lossFragments = append(lossFragments, Fragment{
				Annotation: annot,
				MZ:         frag.MZ + delta/float64(frag.Annotation.Charge()),
			})
		}
	}
	fragments = append(fragments, lossFragments...)

	// Stable sort: equal masses keep generation order.
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].MZ < fragments[j].MZ
	})
	return fragments, nil
}

// immoniumCodes returns the residue codes with an immonium ion, in sorted
// order.
func immoniumCodes() []byte {
	codes := make([]byte, 0, len(ResidueMass))
	for code := range ResidueMass {
		if code != 'X' {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
