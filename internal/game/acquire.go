package game

import (
	"fmt"

	"holdco/internal/refdata"
)

// structureTerms resolves a financing structure's split of price, rates, and
// amortization from the tables. Kind values double as table ids.
func (e *Engine) structureTerms(kind StructureKind) (refdata.Structure, bool) {
	return e.tables.Structure(string(kind))
}

func (e *Engine) applyAcquire(st *GameState, rng *RNG, in AcquireAction) (ActionResult, error) {
	if e.restructureRequired(st) {
		return ActionResult{}, fmt.Errorf("%w: restructuring is required first", ErrIneligible)
	}
	if st.Covenant == CovenantBreach {
		return ActionResult{}, fmt.Errorf("%w: acquisitions are blocked in covenant breach", ErrIneligible)
	}
	deal, ok := st.deal(in.DealID)
	if !ok {
		return ActionResult{}, ErrUnknownDeal
	}
	terms, ok := e.structureTerms(in.Structure)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: unknown structure %q", ErrIneligible, in.Structure)
	}

	// Seller-side exclusions baked into the deal.
	if !dealAllows(deal, in.Structure) {
		return ActionResult{}, fmt.Errorf("%w: seller will not take %s", ErrIneligible, in.Structure)
	}
	// Sourcing tier gates which structures the holdco can execute.
	tier, ok := e.tables.SourcingTier(st.SourcingTier)
	if !ok || !tierAllows(tier.Structures, in.Structure) {
		return ActionResult{}, fmt.Errorf("%w: structure %s needs a higher sourcing tier", ErrIneligible, in.Structure)
	}
	if deal.Quality < int32(terms.MinQuality) {
		return ActionResult{}, fmt.Errorf("%w: %s requires quality %d+", ErrIneligible, in.Structure, terms.MinQuality)
	}
	if terms.UsesBankDebt {
		if st.Macro == MacroCreditTighten {
			return ActionResult{}, fmt.Errorf("%w: credit markets are closed", ErrIneligible)
		}
		if st.Covenant == CovenantWatch {
			return ActionResult{}, fmt.Errorf("%w: new bank debt is blocked on covenant watch", ErrIneligible)
		}
	}

	acqType := AcqStandalone
	var plat *Platform
	if in.PlatformID != "" {
		plat = st.platform(in.PlatformID)
		if plat == nil {
			return ActionResult{}, fmt.Errorf("%w: platform %s", ErrInvalidTarget, in.PlatformID)
		}
		if err := e.platformAccepts(st, plat, deal.Sector, deal.SubType); err != nil {
			return ActionResult{}, err
		}
		acqType = AcqTuckIn
	}

	price := deal.AskPriceMicros()
	if acqType == AcqTuckIn {
		price = mulMicros(price, 1-e.tuckInDiscount(deal.Quality))
	}
	equity := mulMicros(price, terms.EquityFrac)
	if equity > st.CashMicros {
		return ActionResult{}, fmt.Errorf("%w: need %.0f, have %.0f", ErrInsufficientCash,
			MicrosToUnits(equity), MicrosToUnits(st.CashMicros))
	}

	// Validation complete; mutations (and RNG draws) start here.
	sector, _ := e.tables.Sector(deal.Sector)
	margin := rng.Between(sector.BaseMargin.Min, sector.BaseMargin.Max)
	margin += 0.01 * float64(deal.Quality-MedianQuality)
	margin = clampFloat(margin, e.tun().MarginFloor, e.tun().MarginCeiling)

	b := &Business{
		ID:              st.nextID("biz"),
		Name:            deal.Name,
		Sector:          deal.Sector,
		SubType:         deal.SubType,
		Quality:         deal.Quality,
		MarginBps:       FracToBps(margin),
		EBITDAMicros:    deal.EBITDAMicros,
		PeakEBITDAMicros: deal.EBITDAMicros,
		AcqRound:        st.Round,
		AcqEBITDAMicros: deal.EBITDAMicros,
		AcqPriceMicros:  price,
		AcqMultCenti:    deal.AskMultCenti,
		TotalCostMicros: price,
		QualityAtAcq:    deal.Quality,
		AcqType:         acqType,
		Signals:         deal.Signals,
		Integration:     IntegrationPending,
		Status:          StatusActive,
	}
	b.RevenueMicros = mulMicros(b.EBITDAMicros, 1/margin)
	b.IntegrationRounds = integrationPeriod(deal.Signals.Operator)
	b.IntegrationDragBps = FracToBps(e.tun().IntegrationDrag)

	if terms.SellerNoteFrac > 0 {
		b.SellerNote = DebtInstrument{
			BalanceMicros: mulMicros(price, terms.SellerNoteFrac),
			RateBps:       FracToBps(terms.SellerNoteRate),
			RemainingTerm: int32(terms.SellerNoteTerm),
		}
	}
	if terms.BankDebtFrac > 0 {
		b.BankDebt = DebtInstrument{
			BalanceMicros: mulMicros(price, terms.BankDebtFrac),
			RateBps:       FracToBps(terms.BankDebtRate),
			RemainingTerm: int32(terms.BankDebtTerm),
		}
	}
	if terms.EarnoutFrac > 0 {
		b.EarnoutMicros = mulMicros(price, terms.EarnoutFrac)
		b.EarnoutExpiry = st.Round + terms.EarnoutYears
	}
	if terms.RolloverFrac > 0 {
		b.RolloverBps = FracToBps(terms.RolloverFrac)
	}
	if plat != nil {
		b.PlatformID = plat.ID
		plat.Members = append(plat.Members, b.ID)
		plat.Scale++
	}

	st.CashMicros -= equity
	st.InvestedMicros += equity
	st.Portfolio = append(st.Portfolio, b)
	st.removeDeal(deal.ID)

	res := okResult(KindAcquire, -equity)
	res.Details["business_id"] = b.ID
	res.Details["price_micros"] = price
	res.Details["acquisition_type"] = string(acqType)
	return res, nil
}

func (e *Engine) applyPassDeal(st *GameState, in PassDealAction) (ActionResult, error) {
	if _, ok := st.deal(in.DealID); !ok {
		return ActionResult{}, ErrUnknownDeal
	}
	st.removeDeal(in.DealID)
	return okResult(KindPassDeal, 0), nil
}

// tuckInDiscount runs inverse with quality: scruffy bolt-ons are cheap.
func (e *Engine) tuckInDiscount(quality int32) float64 {
	t := e.tun()
	span := t.TuckInDiscountMax - t.TuckInDiscountMin
	frac := float64(MaxQuality-quality) / float64(MaxQuality-MinQuality)
	return t.TuckInDiscountMin + span*frac
}

// platformAccepts validates recipe diversity for tuck-ins and merges.
func (e *Engine) platformAccepts(st *GameState, plat *Platform, sector, subType string) error {
	if plat.RecipeID != "" {
		recipe, ok := e.tables.Recipe(plat.RecipeID)
		if !ok {
			return fmt.Errorf("%w: platform recipe %s missing from tables", ErrInvalidTarget, plat.RecipeID)
		}
		if recipe.Sector != sector {
			return fmt.Errorf("%w: platform is a %s recipe", ErrInvalidTarget, recipe.Sector)
		}
		for _, sub := range recipe.SubTypes {
			if sub == subType {
				return nil
			}
		}
		return fmt.Errorf("%w: sub-type %s breaks recipe diversity", ErrInvalidTarget, subType)
	}
	// Flagged-but-unforged platforms only require sector affinity.
	lead := st.business(plat.Members[0])
	if lead == nil || lead.Sector != sector {
		return fmt.Errorf("%w: sector mismatch with platform", ErrInvalidTarget)
	}
	return nil
}

func integrationPeriod(op OperatorStrength) int32 {
	switch op {
	case OperatorStrong:
		return 1
	case OperatorModerate:
		return 2
	default:
		return 3
	}
}

func dealAllows(d Deal, kind StructureKind) bool {
	for _, s := range d.Structures {
		if s == kind {
			return true
		}
	}
	return false
}

func tierAllows(structures []string, kind StructureKind) bool {
	for _, s := range structures {
		if s == string(kind) {
			return true
		}
	}
	return false
}
