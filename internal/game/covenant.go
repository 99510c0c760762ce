package game

import "fmt"

// leverageRatio is net debt over portfolio EBITDA. Non-positive EBITDA is
// handled by the solvency branch of classifyCovenant, not here.
func leverageRatio(st *GameState) float64 {
	ebitda := st.PortfolioEBITDAMicros()
	if ebitda <= 0 {
		return 0
	}
	net := st.NetDebtMicros()
	if net <= 0 {
		return 0
	}
	return float64(net) / float64(ebitda)
}

// classifyCovenant is a pure function of current net debt and EBITDA.
// Thresholds are inclusive on the high side: exactly 4.5x is Breach.
func (e *Engine) classifyCovenant(st *GameState) CovenantState {
	t := e.tun()
	ebitda := st.PortfolioEBITDAMicros()
	if ebitda <= 0 {
		if st.TotalDebtMicros() == 0 {
			return CovenantHealthy
		}
		// Solvency check: can cash retire the whole stack?
		if st.CashMicros >= st.TotalDebtMicros() {
			return CovenantWatch
		}
		return CovenantBreach
	}
	net := st.NetDebtMicros()
	if net <= 0 {
		return CovenantHealthy
	}
	lev := float64(net) / float64(ebitda)
	switch {
	case lev >= t.BreachAt:
		return CovenantBreach
	case lev >= t.WatchAt:
		return CovenantWatch
	case lev >= t.ElevatedAt:
		return CovenantElevated
	default:
		return CovenantHealthy
	}
}

// evaluateCovenant updates the distress state at round close and applies the
// terminal rules. Pre-restructuring the breach counter resets on exit;
// post-restructuring it only ever climbs.
func (e *Engine) evaluateCovenant(st *GameState) {
	t := e.tun()
	st.Covenant = e.classifyCovenant(st)

	if st.Covenant == CovenantBreach {
		st.BreachRounds++
		if st.Restructured && st.BreachRounds >= t.BreachRoundsToBust {
			e.finishGame(st, OutcomeBankrupt)
			return
		}
	} else if !st.Restructured {
		st.BreachRounds = 0
	}

	if st.Restructured {
		if e.equityValueMicros(st) <= 0 && (st.TotalDebtMicros() > 0 || len(st.ActivePortfolio()) == 0) {
			e.finishGame(st, OutcomeInsolvent)
		}
	}
}

func (e *Engine) applyRestructure(st *GameState, in RestructureAction) (ActionResult, error) {
	t := e.tun()
	if st.Restructured {
		return ActionResult{}, fmt.Errorf("%w: restructuring has already been used", ErrIneligible)
	}
	if st.Covenant != CovenantBreach {
		return ActionResult{}, fmt.Errorf("%w: restructuring is only available in covenant breach", ErrIneligible)
	}

	res := okResult(KindRestructure, 0)
	res.Details["mode"] = string(in.Mode)

	switch in.Mode {
	case RestructureDistressedSale:
		b := st.business(in.BusinessID)
		if b == nil || !b.Active() {
			return ActionResult{}, ErrUnknownBusiness
		}
		price := mulMicros(e.exitPriceMicros(st, b), t.DistressedSaleRate)
		proceeds := e.settleExit(st, b, price, StatusSold)
		st.CashMicros += proceeds
		res.CashDeltaMicros = proceeds
		res.Details["business_id"] = b.ID
		res.Details["proceeds_micros"] = proceeds

	case RestructureEmergencyRaise:
		if in.AmountMicros <= 0 {
			return ActionResult{}, fmt.Errorf("%w: raise amount must be positive", ErrIneligible)
		}
		equity := e.equityValueMicros(st)
		if equity <= 0 {
			return ActionResult{}, fmt.Errorf("%w: no equity value to issue against", ErrIneligible)
		}
		// Fixed-discount issuance: new money buys in below the mark.
		discounted := mulMicros(equity, 1-t.EmergencyDiscount)
		newShares := int64(float64(in.AmountMicros) / float64(discounted) * float64(st.SharesOut))
		if newShares <= 0 {
			return ActionResult{}, fmt.Errorf("%w: raise amount too small", ErrIneligible)
		}
		nextOut := st.SharesOut + newShares
		if st.FounderShares*BpsScale/nextOut < int64(FracToBps(t.FounderFloor)) {
			return ActionResult{}, ErrOwnershipFloor
		}
		st.SharesOut = nextOut
		st.CashMicros += in.AmountMicros
		res.CashDeltaMicros = in.AmountMicros
		res.Details["new_shares"] = newShares

	case RestructureBankruptcy:
		st.Restructured = true
		e.finishGame(st, OutcomeBankrupt)
		return res, nil

	default:
		return ActionResult{}, fmt.Errorf("%w: unknown restructuring mode %q", ErrIneligible, in.Mode)
	}

	// The counter restarts once here, then climbs monotonically for the rest
	// of the game.
	st.Restructured = true
	st.BreachRounds = 0
	st.Covenant = e.classifyCovenant(st)
	res.Details["covenant"] = string(st.Covenant)
	return res, nil
}
