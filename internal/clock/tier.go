package clock

import (
	"math"
)

// TierKind is the cosmetic classification of how far back a projection lands.
type TierKind string

const (
	// TierRecent is closer than the tease threshold.
	TierRecent TierKind = "recent"
	// TierGeologic lies between the tease threshold and Earth's formation.
	TierGeologic TierKind = "geologic"
	// TierPreEarth is before Earth formed.
	TierPreEarth TierKind = "pre-earth"
	// TierUnknown is used when the year count is NaN.
	TierUnknown TierKind = "unknown"
)

// Tier classifies a year count. Image is the index of the nearest Earth
// image and is only set for TierGeologic.
type Tier struct {
	Kind  TierKind `json:"kind"`
	Image int      `json:"image,omitempty"`
}

// Thresholds configure Classify. All values are in millions of years ago.
type Thresholds struct {
	TeaseMya       float64
	EarthFormedMya float64
	// Images are CoarseStepMya apart from EarthFormedMya down to
	// ImageSplitMya and FineStepMya apart below it.
	ImageSplitMya float64
	CoarseStepMya float64
	FineStepMya   float64
}

// DefaultThresholds returns the stock tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TeaseMya:       0.02,
		EarthFormedMya: 4540,
		ImageSplitMya:  3600,
		CoarseStepMya:  0.5,
		FineStepMya:    0.2,
	}
}

// ImageNumber maps an age in Mya to a fractional image index. Index 1 is the
// image of the newly formed Earth and indices grow towards the present.
func (th Thresholds) ImageNumber(mya float64) float64 {
	if mya >= th.ImageSplitMya {
		return 1 + (th.EarthFormedMya-mya)/th.CoarseStepMya
	}
	return th.ImageNumber(th.ImageSplitMya) + (th.ImageSplitMya-mya)/th.FineStepMya
}

// Classify returns the tier for a projection years back.
func (th Thresholds) Classify(years float64) Tier {
	if math.IsNaN(years) {
		return Tier{Kind: TierUnknown}
	}

	mya := years / 1_000_000
	switch {
	case mya < th.TeaseMya:
		return Tier{Kind: TierRecent}
	case mya > th.EarthFormedMya:
		return Tier{Kind: TierPreEarth}
	default:
		return Tier{Kind: TierGeologic, Image: int(math.Round(th.ImageNumber(mya)))}
	}
}
