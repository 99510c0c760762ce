package game

import "fmt"

func (e *Engine) applySourcingTier(st *GameState, in SourcingTierAction) (ActionResult, error) {
	if in.Tier != st.SourcingTier+1 {
		return ActionResult{}, fmt.Errorf("%w: sourcing tiers unlock in order, next is %d", ErrIneligible, st.SourcingTier+1)
	}
	tier, ok := e.tables.SourcingTier(in.Tier)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: no sourcing tier %d", ErrIneligible, in.Tier)
	}
	cost := UnitsToMicros(tier.UnlockCost)
	if cost > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}
	st.CashMicros -= cost
	st.SourcingTier = in.Tier

	res := okResult(KindSourcingTier, -cost)
	res.Details["tier"] = in.Tier
	return res, nil
}

func (e *Engine) applyActivateService(st *GameState, in ServiceAction) (ActionResult, error) {
	svc, ok := e.tables.Service(in.ServiceID)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: unknown service %q", ErrIneligible, in.ServiceID)
	}
	if st.hasService(svc.ID) {
		return ActionResult{}, fmt.Errorf("%w: %s is already active", ErrIneligible, svc.ID)
	}
	if len(st.ActivePortfolio()) < svc.MinPortfolio {
		return ActionResult{}, fmt.Errorf("%w: %s needs a portfolio of %d+", ErrIneligible, svc.ID, svc.MinPortfolio)
	}
	cost := UnitsToMicros(svc.UnlockCost)
	if cost > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}
	st.CashMicros -= cost
	st.Services = append(st.Services, svc.ID)

	res := okResult(KindActivateSvc, -cost)
	res.Details["service_id"] = svc.ID
	return res, nil
}

func (e *Engine) applyDeactivateService(st *GameState, in ServiceAction) (ActionResult, error) {
	if !st.hasService(in.ServiceID) {
		return ActionResult{}, fmt.Errorf("%w: %s is not active", ErrIneligible, in.ServiceID)
	}
	out := st.Services[:0]
	for _, s := range st.Services {
		if s != in.ServiceID {
			out = append(out, s)
		}
	}
	st.Services = out
	return okResult(KindDeactivateSvc, 0), nil
}

// applyIssueEquity sells new shares at the current equity mark. The founder
// can never be diluted through the 51% floor, whatever the price.
func (e *Engine) applyIssueEquity(st *GameState, in IssueEquityAction) (ActionResult, error) {
	if in.AmountMicros <= 0 {
		return ActionResult{}, fmt.Errorf("%w: amount must be positive", ErrIneligible)
	}
	equity := e.equityValueMicros(st)
	if equity <= 0 {
		return ActionResult{}, fmt.Errorf("%w: no equity value to issue against", ErrIneligible)
	}
	newShares := int64(float64(in.AmountMicros) / float64(equity) * float64(st.SharesOut))
	if newShares <= 0 {
		return ActionResult{}, fmt.Errorf("%w: amount too small to issue a share", ErrIneligible)
	}
	nextOut := st.SharesOut + newShares
	if st.FounderShares*BpsScale/nextOut < int64(FracToBps(e.tun().FounderFloor)) {
		return ActionResult{}, ErrOwnershipFloor
	}
	st.SharesOut = nextOut
	st.CashMicros += in.AmountMicros

	res := okResult(KindIssueEquity, in.AmountMicros)
	res.Details["new_shares"] = newShares
	return res, nil
}

func (e *Engine) applyBuyback(st *GameState, in BuybackAction) (ActionResult, error) {
	if st.Covenant == CovenantBreach {
		return ActionResult{}, fmt.Errorf("%w: buybacks are blocked in covenant breach", ErrIneligible)
	}
	if in.AmountMicros <= 0 {
		return ActionResult{}, fmt.Errorf("%w: amount must be positive", ErrIneligible)
	}
	if in.AmountMicros > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}
	equity := e.equityValueMicros(st)
	if equity <= 0 {
		return ActionResult{}, fmt.Errorf("%w: no equity value to buy against", ErrIneligible)
	}
	bought := int64(float64(in.AmountMicros) / float64(equity) * float64(st.SharesOut))
	float := st.SharesOut - st.FounderShares
	if bought <= 0 || bought > float {
		return ActionResult{}, fmt.Errorf("%w: only %d shares are in the float", ErrIneligible, float)
	}
	st.SharesOut -= bought
	st.CashMicros -= in.AmountMicros

	res := okResult(KindBuyback, -in.AmountMicros)
	res.Details["shares_bought"] = bought
	return res, nil
}

func (e *Engine) applyDistribution(st *GameState, in DistributionAction) (ActionResult, error) {
	if st.Covenant == CovenantBreach {
		return ActionResult{}, fmt.Errorf("%w: distributions are blocked in covenant breach", ErrIneligible)
	}
	if in.AmountMicros <= 0 {
		return ActionResult{}, fmt.Errorf("%w: amount must be positive", ErrIneligible)
	}
	if in.AmountMicros > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}
	st.CashMicros -= in.AmountMicros
	st.DistributedMicros += in.AmountMicros
	return okResult(KindDistribution, -in.AmountMicros), nil
}

func (e *Engine) applyRepayDebt(st *GameState, in RepayDebtAction) (ActionResult, error) {
	if in.AmountMicros <= 0 {
		return ActionResult{}, fmt.Errorf("%w: amount must be positive", ErrIneligible)
	}
	if in.AmountMicros > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}

	var d *DebtInstrument
	switch in.Instrument {
	case "holdco":
		d = &st.HoldcoDebt
	case "seller_note", "bank_debt":
		b := st.business(in.BusinessID)
		if b == nil || !b.Active() {
			return ActionResult{}, ErrUnknownBusiness
		}
		if in.Instrument == "seller_note" {
			d = &b.SellerNote
		} else {
			d = &b.BankDebt
		}
	default:
		return ActionResult{}, fmt.Errorf("%w: unknown instrument %q", ErrIneligible, in.Instrument)
	}
	if d.BalanceMicros <= 0 {
		return ActionResult{}, fmt.Errorf("%w: nothing outstanding", ErrIneligible)
	}
	amount := in.AmountMicros
	if amount > d.BalanceMicros {
		amount = d.BalanceMicros
	}
	d.BalanceMicros -= amount
	if d.BalanceMicros == 0 {
		d.RemainingTerm = 0
		d.RateBps = 0
	}
	st.CashMicros -= amount

	res := okResult(KindRepayDebt, -amount)
	res.Details["repaid_micros"] = amount
	return res, nil
}
