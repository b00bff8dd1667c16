// Fragment annotation value objects and their canonical string form.
//
// The annotation format follows the PSI peak interpretation notation:
//
//	(analyte_number)[ion_type](neutral_loss)(isotope)(charge)(adduct)(mz_delta)
//
// e.g. "y4-H2O+2i^2[M+H+Na]" is a y4 ion with a water neutral loss, the
// second isotopic peak, charge 2 and a [M+H+Na] adduct.
package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Errors reported by NewFragmentAnnotation.
var (
	ErrInvalidIonType         = errors.New("unknown ion type")
	ErrUnsupportedIonType     = errors.New("advanced ion types are not supported")
	ErrInconsistentUnknownIon = errors.New("unknown ions cannot carry additional information")
	ErrInvalidCharge          = errors.New("invalid charge")
	ErrInvalidMzDeltaUnit     = errors.New("m/z delta must be specified in Da or ppm units")
)

// defaultAdduct matches hydrogen adducts of the form [M+xH], which are
// implied by the charge and omitted from the canonical string.
var defaultAdduct = regexp.MustCompile(`^\[M\+\d+H\]`)

// MzDelta is the observed minus theoretical m/z of a matched peak, in
// Daltons ("Da") or parts per million ("ppm").
type MzDelta struct {
	Value float64
	Unit  string
}

// FragmentAnnotation is one candidate identity for a fragment peak. It is
// validated on construction and immutable afterwards.
type FragmentAnnotation struct {
	ionType       string
	neutralLoss   string
	isotope       int
	charge        int
	adduct        string
	analyteNumber int
	mzDelta       *MzDelta
}

// AnnotationOption sets an optional field on a FragmentAnnotation under
// construction.
type AnnotationOption func(*FragmentAnnotation)

// WithNeutralLoss sets the neutral-loss token. The token must carry its own
// sign (typically "-" for a loss), e.g. "-H2O".
func WithNeutralLoss(loss string) AnnotationOption {
	return func(a *FragmentAnnotation) { a.neutralLoss = loss }
}

// WithIsotope sets the isotope number above or below the monoisotope.
func WithIsotope(isotope int) AnnotationOption {
	return func(a *FragmentAnnotation) { a.isotope = isotope }
}

// WithCharge sets the fragment charge. Required for all known ion types.
func WithCharge(charge int) AnnotationOption {
	return func(a *FragmentAnnotation) { a.charge = charge }
}

// WithAdduct sets the ionizing adduct, e.g. "[M+H+Na]".
func WithAdduct(adduct string) AnnotationOption {
	return func(a *FragmentAnnotation) { a.adduct = adduct }
}

// WithAnalyteNumber tags the annotation with the analyte it belongs to in a
// multi-analyte spectrum. Analyte numbers start at 1.
func WithAnalyteNumber(n int) AnnotationOption {
	return func(a *FragmentAnnotation) { a.analyteNumber = n }
}

// WithMzDelta sets the observed minus theoretical m/z and its unit.
func WithMzDelta(value float64, unit string) AnnotationOption {
	return func(a *FragmentAnnotation) { a.mzDelta = &MzDelta{Value: value, Unit: unit} }
}

// NewFragmentAnnotation builds a validated fragment annotation. The first
// character of ionType selects the category:
//
//	"?"                          unknown ion
//	"a", "b", "c", "x", "y", "z" peptide backbone fragments
//	"I"                          immonium ion
//	"m"                          internal fragment ion
//	"_"                          named compound
//	"p"                          precursor ion
//	"r"                          reporter ion
//	"f"                          chemical formula
//
// All cross-field invariants are checked here; a returned annotation is
// never in a partially valid state.
func NewFragmentAnnotation(ionType string, opts ...AnnotationOption) (*FragmentAnnotation, error) {
	if ionType == "" {
		return nil, ErrInvalidIonType
	}
	if strings.ContainsRune("GLXS", rune(ionType[0])) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedIonType, ionType)
	}
	if !strings.ContainsRune("?abcxyzIm_prf", rune(ionType[0])) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIonType, ionType)
	}

	a := &FragmentAnnotation{ionType: ionType}
	for _, opt := range opts {
		opt(a)
	}

	if ionType == "?" {
		if a.neutralLoss != "" || a.isotope != 0 || a.adduct != "" ||
			a.analyteNumber != 0 || a.mzDelta != nil {
			return nil, ErrInconsistentUnknownIon
		}
		if a.charge != 0 {
			return nil, fmt.Errorf("%w: unknown ions have no charge", ErrInvalidCharge)
		}
		return a, nil
	}

	if a.charge <= 0 {
		return nil, fmt.Errorf(
			"%w: the charge must be specified and strictly positive for known ion types",
			ErrInvalidCharge)
	}
	if a.mzDelta != nil && a.mzDelta.Unit != "Da" && a.mzDelta.Unit != "ppm" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMzDeltaUnit, a.mzDelta.Unit)
	}
	if a.adduct == "" {
		a.adduct = fmt.Sprintf("[M+%dH]", a.charge)
	}
	return a, nil
}

// IonType returns the ion type, e.g. "b2", "m3:6", "p" or "?".
func (a *FragmentAnnotation) IonType() string { return a.ionType }

// NeutralLoss returns the signed neutral-loss token, or "" when none.
func (a *FragmentAnnotation) NeutralLoss() string { return a.neutralLoss }

// Isotope returns the isotope offset from the monoisotopic peak.
func (a *FragmentAnnotation) Isotope() int { return a.isotope }

// Charge returns the fragment charge, or 0 for unknown ions.
func (a *FragmentAnnotation) Charge() int { return a.charge }

// Adduct returns the ionizing adduct, e.g. "[M+2H]".
func (a *FragmentAnnotation) Adduct() string { return a.adduct }

// AnalyteNumber returns the analyte number, or 0 when not set.
func (a *FragmentAnnotation) AnalyteNumber() int { return a.analyteNumber }

// MzDelta returns the observed minus theoretical m/z, or nil when not set.
func (a *FragmentAnnotation) MzDelta() *MzDelta {
	if a.mzDelta == nil {
		return nil
	}
	d := *a.mzDelta
	return &d
}

// String renders the canonical annotation string. Unknown ions render as
// "?" regardless of other fields (guaranteed empty by construction).
func (a *FragmentAnnotation) String() string {
	if a.ionType == "?" {
		return "?"
	}

	var sb strings.Builder
	if a.analyteNumber != 0 {
		fmt.Fprintf(&sb, "%d@", a.analyteNumber)
	}
	sb.WriteString(a.ionType)
	sb.WriteString(a.neutralLoss)
	switch {
	case a.isotope == 1:
		sb.WriteString("+i")
	case a.isotope == -1:
		sb.WriteString("-i")
	case a.isotope != 0:
		fmt.Fprintf(&sb, "%+di", a.isotope)
	}
	if a.charge > 1 {
		fmt.Fprintf(&sb, "^%d", a.charge)
	}
	if !defaultAdduct.MatchString(a.adduct) {
		sb.WriteString(a.adduct)
	}
	if a.mzDelta != nil {
		fmt.Fprintf(&sb, "/%v", a.mzDelta.Value)
		if a.mzDelta.Unit == "ppm" {
			sb.WriteString("ppm")
		}
	}
	return sb.String()
}

// Equal reports whether two annotations have the same canonical string.
// Equality is intentionally defined on the rendered form: two annotations
// with different field combinations that render identically (e.g. a default
// versus an explicit matching adduct) are equal.
func (a *FragmentAnnotation) Equal(other *FragmentAnnotation) bool {
	return other != nil && a.String() == other.String()
}

// PeakInterpretation collects the fragment annotations explaining a single
// observed peak. Annotations are appended, never removed.
type PeakInterpretation struct {
	annotations []*FragmentAnnotation
}

// Append adds a candidate annotation for the peak.
func (p *PeakInterpretation) Append(a *FragmentAnnotation) {
	p.annotations = append(p.annotations, a)
}

// Annotations returns the annotations in insertion order.
func (p *PeakInterpretation) Annotations() []*FragmentAnnotation {
	return p.annotations
}

// String renders the comma-joined annotation strings, or "?" when the peak
// has no interpretation.
func (p *PeakInterpretation) String() string {
	if len(p.annotations) == 0 {
		return "?"
	}
	parts := make([]string, len(p.annotations))
	for i, a := range p.annotations {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
