// Package filter provides filtering of generated theoretical fragments
package filter

import (
	"strings"

	"github.com/fragkey/fragkey/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	IonTypes  []string // Keep only specified ion types (nil = all)
	MinMZ     float64  // Keep only fragments at or above this m/z (0 = no limit)
	MaxMZ     float64  // Keep only fragments at or below this m/z (0 = no limit)
	MaxCharge int      // Keep only fragments up to this charge (0 = no limit)
}

// Apply applies all configured filters, preserving the input order.
func (c *Config) Apply(fragments []core.Fragment) []core.Fragment {
	if len(c.IonTypes) == 0 && c.MinMZ == 0 && c.MaxMZ == 0 && c.MaxCharge == 0 {
		return fragments
	}

	var filtered []core.Fragment
	for _, frag := range fragments {
		if len(c.IonTypes) > 0 && !matchesIonType(frag.Annotation.IonType(), c.IonTypes) {
			continue
		}
		if c.MinMZ > 0 && frag.MZ < c.MinMZ {
			continue
		}
		if c.MaxMZ > 0 && frag.MZ > c.MaxMZ {
			continue
		}
		if c.MaxCharge > 0 && frag.Annotation.Charge() > c.MaxCharge {
			continue
		}
		filtered = append(filtered, frag)
	}
	return filtered
}

// matchesIonType checks if an ion type matches any of the allowed prefixes
// (e.g. "y" matches "y3", "b" matches "b2").
func matchesIonType(ionType string, ionTypes []string) bool {
	for _, prefix := range ionTypes {
		if strings.HasPrefix(ionType, prefix) {
			return true
		}
	}
	return false
}
