package game

import (
	"fmt"
	"math"
)

// exitMultiple prices a business as signed premiums over its acquisition
// multiple. Earned premiums are aggregate-capped; the forged-platform
// expansion lands after the cap so forging always pays in full; the result
// never goes below the configured floor.
func (e *Engine) exitMultiple(st *GameState, b *Business) float64 {
	t := e.tun()
	base := CentiToMult(b.AcqMultCenti)

	var earned float64

	if b.AcqEBITDAMicros > 0 {
		growth := float64(b.EBITDAMicros)/float64(b.AcqEBITDAMicros) - 1
		earned += clampFloat(growth*1.5, -t.GrowthPremiumCap, t.GrowthPremiumCap)
	}

	earned += t.QualityPremiumStep * float64(b.Quality-MedianQuality)

	hold := t.HoldPremiumPerYear * float64(st.Round-b.AcqRound)
	earned += minFloat(hold, t.HoldPremiumCap)

	improvements := 0.15 * float64(len(b.Improvements))
	earned += minFloat(improvements, t.ImprovementsCap)

	earned += sizeTierPremium(MicrosToUnits(b.EBITDAMicros))

	var scalePremium float64
	plat := st.platform(b.PlatformID)
	if plat != nil {
		scalePremium = t.ScalePremiumRate * math.Log(1+float64(plat.Scale))
		earned += scalePremium
	}

	if b.TurnaroundGain >= 2 {
		earned += t.TurnaroundPremium
	}

	switch st.Macro {
	case MacroBull:
		earned += t.MarketPremium
	case MacroRecession:
		earned -= t.MarketPremium
	}

	cap := maxFloat(t.PremiumCapBase+scalePremium, t.PremiumCapBaseFactor*base)
	if base+earned > cap {
		earned = cap - base
	}

	mult := base + earned
	if plat != nil && plat.Forged {
		if recipe, ok := e.tables.Recipe(plat.RecipeID); ok {
			mult += recipe.MultipleExpansion
		}
	}
	if mult < t.ExitFloor {
		mult = t.ExitFloor
	}
	return mult
}

func (e *Engine) exitPriceMicros(st *GameState, b *Business) int64 {
	return mulMicros(b.EBITDAMicros, e.exitMultiple(st, b))
}

// sizeTierPremium rewards sheer scale; buyers pay up for bigger checks.
func sizeTierPremium(ebitdaUnits float64) float64 {
	switch {
	case ebitdaUnits >= 12_000:
		return 1.0
	case ebitdaUnits >= 6_000:
		return 0.7
	case ebitdaUnits >= 3_000:
		return 0.45
	case ebitdaUnits >= 1_500:
		return 0.25
	case ebitdaUnits >= 800:
		return 0.10
	default:
		return 0
	}
}

// settleExit retires a business from the portfolio at the given price and
// returns the holdco's share of net proceeds. Rollover holders are paid
// their pro-rata share of net proceeds first.
func (e *Engine) settleExit(st *GameState, b *Business, priceMicros int64, kind Lifecycle) int64 {
	// Realized multiple, recorded before the business is detached so any
	// platform premium or haircut in the price stays visible.
	var multCenti int64
	if b.EBITDAMicros > 0 {
		multCenti = priceMicros * CentiScale / b.EBITDAMicros
	}
	net := priceMicros - b.DebtMicros() - b.EarnoutMicros
	var holdcoShare int64
	if net > 0 {
		rollover := mulMicros(net, BpsToFrac(b.RolloverBps))
		holdcoShare = net - rollover
	} else {
		holdcoShare = net // the holdco eats the shortfall
	}

	b.SellerNote = DebtInstrument{}
	b.BankDebt = DebtInstrument{}
	b.EarnoutMicros = 0
	b.Status = kind

	if plat := st.platform(b.PlatformID); plat != nil {
		members := plat.Members[:0]
		for _, id := range plat.Members {
			if id != b.ID {
				members = append(members, id)
			}
		}
		plat.Members = members
	}
	b.PlatformID = ""

	st.Exited = append(st.Exited, ExitRecord{
		BusinessID:     b.ID,
		Name:           b.Name,
		Round:          st.Round,
		Kind:           kind,
		MultCenti:      multCenti,
		ProceedsMicros: holdcoShare,
		InvestedMicros: b.TotalCostMicros,
	})
	return holdcoShare
}

func (e *Engine) applySell(st *GameState, in SellAction) (ActionResult, error) {
	if e.restructureRequired(st) {
		return ActionResult{}, fmt.Errorf("%w: restructuring is required first", ErrIneligible)
	}
	b := st.business(in.BusinessID)
	if b == nil || !b.Active() {
		return ActionResult{}, ErrUnknownBusiness
	}
	price := e.exitPriceMicros(st, b)
	proceeds := e.settleExit(st, b, price, StatusSold)
	st.CashMicros += proceeds

	res := okResult(KindSell, proceeds)
	res.Details["price_micros"] = price
	res.Details["proceeds_micros"] = proceeds
	return res, nil
}

func (e *Engine) applyWindDown(st *GameState, in WindDownAction) (ActionResult, error) {
	if e.restructureRequired(st) {
		return ActionResult{}, fmt.Errorf("%w: restructuring is required first", ErrIneligible)
	}
	b := st.business(in.BusinessID)
	if b == nil || !b.Active() {
		return ActionResult{}, ErrUnknownBusiness
	}
	// A wind-down recovers roughly half of a marketed sale.
	price := mulMicros(e.exitPriceMicros(st, b), 0.5)
	proceeds := e.settleExit(st, b, price, StatusWoundDown)
	st.CashMicros += proceeds

	res := okResult(KindWindDown, proceeds)
	res.Details["proceeds_micros"] = proceeds
	return res, nil
}

// equityValueMicros marks the whole book: exit prices on every live
// business net of debt, earn-outs, and rollover claims, plus cash. The
// restructuring penalty applies here permanently.
func (e *Engine) equityValueMicros(st *GameState) int64 {
	total := st.CashMicros
	for _, b := range st.Portfolio {
		if !b.Active() {
			continue
		}
		net := e.exitPriceMicros(st, b) - b.DebtMicros() - b.EarnoutMicros
		if net > 0 {
			net -= mulMicros(net, BpsToFrac(b.RolloverBps))
		}
		total += net
	}
	total -= st.HoldcoDebt.BalanceMicros
	if st.Restructured && total > 0 {
		total = mulMicros(total, e.tun().RestructurePenalty)
	}
	return total
}

// FounderEquityValue marks the founder's stake to exit prices.
func (e *Engine) FounderEquityValue(st *GameState) int64 {
	return e.fevMicros(st)
}

// LeaderboardFEV is founder equity value weighted by the mode's leaderboard
// multiplier, so harder modes rank ahead of easier ones at equal outcomes.
// Challenge runs rank on this number.
func (e *Engine) LeaderboardFEV(st *GameState) int64 {
	mode, err := e.mode(st)
	if err != nil {
		return e.fevMicros(st)
	}
	return mulMicros(e.fevMicros(st), mode.LeaderboardMultiplier)
}

// fevMicros is founder equity value: equity marked-to-exit times the founder
// ownership fraction.
func (e *Engine) fevMicros(st *GameState) int64 {
	equity := e.equityValueMicros(st)
	if equity <= 0 {
		return 0
	}
	return mulMicros(equity, BpsToFrac(st.FounderOwnershipBps()))
}
