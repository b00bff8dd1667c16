// Proteoform and modification handling.
package core

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// PositionKind says where on the peptide a modification is localized.
type PositionKind int

const (
	// PosResidue is a modification localized on a residue index.
	PosResidue PositionKind = iota
	// PosNTerm is an N-terminal modification.
	PosNTerm
	// PosCTerm is a C-terminal modification.
	PosCTerm
	// PosUnlocalized is a modification whose site is not known.
	PosUnlocalized
)

func (k PositionKind) String() string {
	switch k {
	case PosResidue:
		return "residue"
	case PosNTerm:
		return "N-term"
	case PosCTerm:
		return "C-term"
	default:
		return "unlocalized"
	}
}

// Modification is a mass shift applied to a peptide at a given position.
// Index is the 0-based residue index and is only meaningful when Kind is
// PosResidue.
type Modification struct {
	Mass  float64
	Kind  PositionKind
	Index int
	Name  string
}

// Proteoform is a peptide sequence together with its localized
// modifications. The fragment generator requires Modifications to be sorted
// in scanning order: unlocalized and N-terminal entries first, residue
// positions ascending, C-terminal entries last (see SortModifications).
type Proteoform struct {
	Sequence      string
	Modifications []Modification
}

// SortModifications orders the modification list the way the fragment
// generator's cursors expect. The sort is stable so equal positions keep
// their input order.
func (p *Proteoform) SortModifications() {
	rank := func(m Modification) int {
		switch m.Kind {
		case PosUnlocalized:
			return 0
		case PosNTerm:
			return 1
		case PosResidue:
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(p.Modifications, func(i, j int) bool {
		mi, mj := p.Modifications[i], p.Modifications[j]
		if ri, rj := rank(mi), rank(mj); ri != rj {
			return ri < rj
		}
		return mi.Kind == PosResidue && mj.Kind == PosResidue && mi.Index < mj.Index
	})
}

// TotalModMass returns the sum of all modification masses.
func (p *Proteoform) TotalModMass() float64 {
	total := 0.0
	for _, mod := range p.Modifications {
		total += mod.Mass
	}
	return total
}

// ModString returns a string representation of the modifications in the
// format accepted by ParseModString.
func (p *Proteoform) ModString() string {
	if len(p.Modifications) == 0 {
		return ""
	}

	var parts []string
	for _, mod := range p.Modifications {
		name := mod.Name
		if name == "" {
			name = strconv.FormatFloat(mod.Mass, 'f', 6, 64)
		}
		switch mod.Kind {
		case PosNTerm:
			parts = append(parts, fmt.Sprintf("%s@N-term", name))
		case PosCTerm:
			parts = append(parts, fmt.Sprintf("%s@C-term", name))
		case PosUnlocalized:
			parts = append(parts, fmt.Sprintf("%s@?", name))
		default:
			parts = append(parts, fmt.Sprintf("%s@%d", name, mod.Index+1))
		}
	}
	return strings.Join(parts, ";")
}

// Name returns the proteoform name in format "Sequence" or
// "Sequence//mods".
func (p *Proteoform) Name() string {
	if len(p.Modifications) == 0 {
		return p.Sequence
	}
	return fmt.Sprintf("%s//%s", p.Sequence, p.ModString())
}

// ModDatabase stores modification definitions
type ModDatabase struct {
	mods map[string]float64 // name -> mass shift
}

// NewModDatabase creates an empty modification database
func NewModDatabase() *ModDatabase {
	return &ModDatabase{
		mods: make(map[string]float64),
	}
}

// LoadFromCSV loads modifications from a CSV file (format: mod,massshift,aa)
func (db *ModDatabase) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	if scanner.Scan() {
		// header line
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		modName := strings.TrimSpace(parts[0])
		massStr := strings.TrimSpace(parts[1])

		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid mass value '%s': %w", lineNum, massStr, err)
		}

		db.mods[modName] = mass
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// GetMass returns the mass shift for a modification name
func (db *ModDatabase) GetMass(name string) (float64, bool) {
	mass, ok := db.mods[name]
	return mass, ok
}

// Add adds or updates a modification
func (db *ModDatabase) Add(name string, mass float64) {
	db.mods[name] = mass
}

// ParseModString parses a modification string like
// "57.021464@2;15.994915@8", "Carbamidomethyl@C2;Oxidation@M8" or
// "Acetyl@N-term". Positions are 1-based residue positions, optionally
// prefixed with the residue letter, or the symbolic terminals "N-term" and
// "C-term"; "?" marks an unlocalized modification. The returned list is in
// scanning order.
func (db *ModDatabase) ParseModString(modStr string) ([]Modification, error) {
	if modStr == "" {
		return nil, nil
	}

	var mods []Modification
	parts := strings.Split(modStr, ";")

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		atParts := strings.Split(part, "@")
		if len(atParts) != 2 {
			return nil, fmt.Errorf("invalid modification format '%s', expected 'name@position' or 'mass@position'", part)
		}

		nameOrMass := strings.TrimSpace(atParts[0])
		posStr := strings.TrimSpace(atParts[1])

		mass, err := strconv.ParseFloat(nameOrMass, 64)
		if err != nil {
			// Not a number, try to look up as a name
			var ok bool
			mass, ok = db.GetMass(nameOrMass)
			if !ok {
				return nil, fmt.Errorf("unknown modification '%s'", nameOrMass)
			}
		}

		mod, err := parsePosition(posStr)
		if err != nil {
			return nil, fmt.Errorf("invalid position '%s': %w", posStr, err)
		}
		mod.Mass = mass
		mod.Name = nameOrMass
		mods = append(mods, mod)
	}

	p := &Proteoform{Modifications: mods}
	p.SortModifications()
	return p.Modifications, nil
}

// parsePosition parses a position string into a modification with its Kind
// and Index set. Examples: "2", "C2", "N-term", "C-term", "?".
func parsePosition(posStr string) (Modification, error) {
	switch posStr {
	case "N-term":
		return Modification{Kind: PosNTerm}, nil
	case "C-term":
		return Modification{Kind: PosCTerm}, nil
	case "?":
		return Modification{Kind: PosUnlocalized}, nil
	}

	// Remove leading amino acid letter if present
	numStr := strings.TrimLeft(posStr, "ACDEFGHIJKLMNOPQRSTUVWXY")

	pos, err := strconv.Atoi(numStr)
	if err != nil {
		return Modification{}, fmt.Errorf("invalid position number: %w", err)
	}
	if pos < 1 {
		return Modification{}, fmt.Errorf("residue positions are 1-based, got %d", pos)
	}

	return Modification{Kind: PosResidue, Index: pos - 1}, nil
}

// DefaultModDatabase returns a ModDatabase pre-loaded with common modifications
func DefaultModDatabase() *ModDatabase {
	db := NewModDatabase()

	// Common modifications from unimod
	db.Add("Acetyl", 42.010565)
	db.Add("Amidated", -0.984016)
	db.Add("Biotin", 226.077598)
	db.Add("Carbamidomethyl", 57.021464)
	db.Add("Carbamyl", 43.005814)
	db.Add("Carboxymethyl", 58.005479)
	db.Add("Deamidated", 0.984016)
	db.Add("NIPCAM", 99.068414)
	db.Add("Phospho", 79.966331)
	db.Add("Dehydrated", -18.010565)
	db.Add("Propionamide", 71.037114)
	db.Add("Glu->pyro-Glu", -18.010565)
	db.Add("Gln->pyro-Glu", -17.026549)
	db.Add("Cation:Na", 21.981943)
	db.Add("Methyl", 14.01565)
	db.Add("Oxidation", 15.994915)
	db.Add("Dimethyl", 28.0313)
	db.Add("Trimethyl", 42.04695)
	db.Add("Methylthio", 45.987721)
	db.Add("Sulfo", 79.956815)
	db.Add("Hex", 162.052824)
	db.Add("HexNAc", 203.079373)
	db.Add("Glutathione", 305.068156)
	db.Add("Propionyl", 56.026215)
	db.Add("TMT", 229.162932)
	db.Add("TMTPro", 304.207146)
	db.Add("TMT6plex", 229.162932)
	db.Add("TMT16plex", 304.207146)
	db.Add("iTRAQ4plex", 144.102063)
	db.Add("iTRAQ8plex", 304.205360)

	return db
}
