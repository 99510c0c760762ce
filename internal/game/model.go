package game

import (
	"errors"
	"math"
)

const (
	// Money is stored in micros of one unit, where 1 unit = $1k. All
	// persistent state is integer so that replays are bit-identical across
	// machines and toolchains.
	MicrosPerUnit = int64(1_000_000)

	// Fractions (margins, rates, ownership) are stored in basis points.
	BpsScale = int64(10_000)

	// Valuation multiples are stored in centi-x: 400 = 4.00x.
	CentiScale = int64(100)

	MinQuality    = 1
	MaxQuality    = 5
	MedianQuality = 3
)

var (
	ErrIneligible       = errors.New("action not permitted under current state")
	ErrInsufficientCash = errors.New("insufficient cash")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrOwnershipFloor   = errors.New("issuance would breach founder ownership floor")
	ErrGameOver         = errors.New("game is over")
	ErrUnknownDeal      = errors.New("deal not found")
	ErrUnknownBusiness  = errors.New("business not found")
	ErrUnknownAction    = errors.New("unknown action kind")
	ErrSchemaVersion    = errors.New("unsupported save schema version")
)

func UnitsToMicros(v float64) int64 {
	return int64(math.Round(v * float64(MicrosPerUnit)))
}

func MicrosToUnits(v int64) float64 {
	return float64(v) / float64(MicrosPerUnit)
}

func FracToBps(f float64) int32 {
	return int32(math.Round(f * float64(BpsScale)))
}

func BpsToFrac(bps int32) float64 {
	return float64(bps) / float64(BpsScale)
}

func MultToCenti(m float64) int64 {
	return int64(math.Round(m * float64(CentiScale)))
}

func CentiToMult(c int64) float64 {
	return float64(c) / float64(CentiScale)
}

// mulMicros scales an integer money amount by a float factor and
// re-quantizes. Every money mutation funnels through here or UnitsToMicros.
func mulMicros(v int64, f float64) int64 {
	return int64(math.Round(float64(v) * f))
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampQuality(q, ceiling int32) int32 {
	hi := int32(MaxQuality)
	if ceiling >= MinQuality && ceiling < hi {
		hi = ceiling
	}
	return clampInt32(q, MinQuality, hi)
}
