// Package core provides the chemistry tables and mass calculations used to
// generate theoretical peptide fragment ions.
package core

import (
	"fmt"
	"math"
)

// Atomic masses (monoisotopic)
const (
	MassH = 1.0078250321
	MassC = 12.0000000000
	MassN = 14.0030740052
	MassO = 15.9949146221
	MassS = 31.9720706900
	MassP = 30.9737615100

	// Proton mass for charge calculations
	ProtonMass = 1.00727646688
)

// Small-molecule masses derived from the atomic constants.
const (
	MassH2O = 2*MassH + MassO
	MassNH3 = MassN + 3*MassH
	MassCO  = MassC + MassO
	MassCO2 = MassC + 2*MassO
)

// ResidueMass maps amino acid one-letter codes to monoisotopic residue
// masses in Daltons. The ambiguous codes B (Asp/Asn) and Z (Glu/Gln) are
// deliberately absent so that lookups fail loudly instead of assuming a
// mass. X is the zero-mass wildcard (any residue / gap).
var ResidueMass = map[byte]float64{
	'G': 57.02146,
	'A': 71.03711,
	'S': 87.03203,
	'P': 97.05276,
	'V': 99.06841,
	'T': 101.04768,
	'C': 103.00919,
	'L': 113.08406,
	'I': 113.08406,
	// Leucine / isoleucine.
	'J': 113.08406,
	'N': 114.04293,
	'D': 115.02694,
	'Q': 128.05858,
	'K': 128.09496,
	'E': 129.04259,
	'M': 131.04049,
	'H': 137.05891,
	'F': 147.06841,
	// Selenocysteine.
	'U': 150.95364,
	'R': 156.10111,
	'Y': 163.06333,
	'W': 186.07931,
	// Pyrrolysine.
	'O': 237.14773,
	// Any amino acid, gaps (zero mass).
	'X': 0,
}

// NeutralLosses maps common neutral-loss names to their signed mass deltas.
// The empty string is the "no loss" entry.
var NeutralLosses = map[string]float64{
	// No neutral loss.
	"": 0,
	// Hydrogen.
	"H": -1.007825,
	// Ammonia.
	"NH3": -17.026549,
	// Water.
	"H2O": -18.010565,
	// Carbon monoxide.
	"CO": -27.994915,
	// Carbon dioxide.
	"CO2": -43.989829,
	// Formamide.
	"HCONH2": -45.021464,
	// Formic acid.
	"HCOOH": -46.005479,
	// Methanesulfenic acid.
	"CH4OS": -63.998301,
	// Sulfur trioxide.
	"SO3": -79.956818,
	// Metaphosphoric acid.
	"HPO3": -79.966331,
	// Mercaptoacetamide.
	"C2H5NOS": -91.009195,
	// Mercaptoacetic acid.
	"C2H4O2S": -91.993211,
	// Phosphoric acid.
	"H3PO4": -97.976896,
}

// seriesShift maps an ion series to the mass offset of its neutral fragment
// relative to the plain sum of residue masses. 'M' is the unfragmented
// precursor.
var seriesShift = map[byte]float64{
	'a': -MassCO,
	'b': 0,
	'c': MassNH3,
	'x': MassCO2,
	'y': MassH2O,
	'z': MassH2O - MassNH3,
	'M': MassH2O,
}

// FragmentMZ computes the theoretical m/z of a fragment ion over the given
// subsequence for one ion series ('a'..'c', 'x'..'z', or 'M' for the
// precursor) at the given charge. A residue code missing from ResidueMass or
// an unknown series is an error, never a silent zero.
func FragmentMZ(sequence string, series byte, charge int) (float64, error) {
	shift, ok := seriesShift[series]
	if !ok {
		return 0, fmt.Errorf("unknown ion series %q", string(series))
	}
	if charge < 1 {
		return 0, fmt.Errorf("charge must be positive, got %d", charge)
	}

	var sum float64
	for i := 0; i < len(sequence); i++ {
		m, ok := ResidueMass[sequence[i]]
		if !ok {
			return 0, fmt.Errorf("no mass for residue %q", string(sequence[i]))
		}
		sum += m
	}

	return (sum + shift + float64(charge)*ProtonMass) / float64(charge), nil
}

// ImmoniumMZ computes the m/z of the immonium ion for a single residue code:
// the residue mass minus carbon monoxide plus a hydrogen.
func ImmoniumMZ(residue byte) (float64, error) {
	m, ok := ResidueMass[residue]
	if !ok {
		return 0, fmt.Errorf("no mass for residue %q", string(residue))
	}
	return m - MassCO + MassH, nil
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
