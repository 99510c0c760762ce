package game

// CashFlow is one round's waterfall over the whole portfolio. The engine
// computes it once per round; consumers read it from the snapshot rather
// than re-deriving any line.
type CashFlow struct {
	GrossEBITDAMicros int64     `json:"gross_ebitda_micros"`
	CapExMicros       int64     `json:"capex_micros"`
	InterestMicros    int64     `json:"interest_micros"`
	PrincipalMicros   int64     `json:"principal_micros"`
	DebtServiceMicros int64     `json:"debt_service_micros"`
	OverheadMicros    int64     `json:"overhead_micros"`
	TaxableMicros     int64     `json:"taxable_micros"`
	TaxMicros         int64     `json:"tax_micros"`
	Shield            TaxShield `json:"shield"`
	PreTaxFCFMicros   int64     `json:"pre_tax_fcf_micros"`
	NetFCFMicros      int64     `json:"net_fcf_micros"`
}

// cashflow runs the waterfall and amortizes every debt instrument. Covenant
// interest penalties use the covenant state standing when service is paid.
func (e *Engine) cashflow(st *GameState) CashFlow {
	t := e.tun()
	var flow CashFlow

	var capexReduction, servicesShieldRate float64
	for _, id := range st.Services {
		if svc, ok := e.tables.Service(id); ok {
			capexReduction += svc.CapExReduction
			servicesShieldRate += svc.TaxShieldRate
		}
	}
	capexReduction = clampFloat(capexReduction, 0, 0.5)

	var lossOffset int64
	for _, b := range st.Portfolio {
		if !b.Active() {
			continue
		}
		flow.GrossEBITDAMicros += b.EBITDAMicros
		if b.EBITDAMicros < 0 {
			lossOffset += -b.EBITDAMicros
		}
		if sector, ok := e.tables.Sector(b.Sector); ok && b.EBITDAMicros > 0 {
			flow.CapExMicros += mulMicros(b.EBITDAMicros, sector.CapExRate*(1-capexReduction))
		}
	}

	penalty := e.covenantRatePenaltyBps(st)
	for _, b := range st.Portfolio {
		if !b.Active() {
			continue
		}
		p, i := amortize(&b.SellerNote, penalty)
		flow.PrincipalMicros += p
		flow.InterestMicros += i
		p, i = amortize(&b.BankDebt, penalty)
		flow.PrincipalMicros += p
		flow.InterestMicros += i
	}
	p, i := amortize(&st.HoldcoDebt, penalty)
	flow.PrincipalMicros += p
	flow.InterestMicros += i
	flow.DebtServiceMicros = flow.PrincipalMicros + flow.InterestMicros

	flow.OverheadMicros = e.overheadMicros(st)

	servicesDeduction := mulMicros(flow.GrossEBITDAMicros, servicesShieldRate) + flow.OverheadMicros
	taxable := flow.GrossEBITDAMicros - flow.InterestMicros - servicesDeduction
	if taxable < 0 {
		taxable = 0
	}
	flow.TaxableMicros = taxable
	flow.TaxMicros = mulMicros(taxable, t.TaxRate)
	flow.Shield = TaxShield{
		InterestMicros:   mulMicros(flow.InterestMicros, t.TaxRate),
		ServicesMicros:   mulMicros(servicesDeduction, t.TaxRate),
		LossOffsetMicros: mulMicros(lossOffset, t.TaxRate),
	}

	flow.PreTaxFCFMicros = flow.GrossEBITDAMicros - flow.CapExMicros - flow.DebtServiceMicros - flow.OverheadMicros
	flow.NetFCFMicros = flow.PreTaxFCFMicros - flow.TaxMicros
	return flow
}

// amortize pays one installment: straight-line principal over the remaining
// term plus interest on the declining balance. The final installment clears
// the balance exactly, independent of earlier rounding.
func amortize(d *DebtInstrument, penaltyBps int32) (principal, interest int64) {
	if d.BalanceMicros <= 0 {
		d.BalanceMicros = 0
		return 0, 0
	}
	interest = mulMicros(d.BalanceMicros, BpsToFrac(d.RateBps+penaltyBps))
	if d.RemainingTerm <= 1 {
		principal = d.BalanceMicros
	} else {
		principal = d.BalanceMicros / int64(d.RemainingTerm)
	}
	d.BalanceMicros -= principal
	d.RemainingTerm--
	if d.RemainingTerm <= 0 || d.BalanceMicros <= 0 {
		d.BalanceMicros = 0
		d.RemainingTerm = 0
	}
	return principal, interest
}

func (e *Engine) covenantRatePenaltyBps(st *GameState) int32 {
	switch st.Covenant {
	case CovenantWatch:
		return FracToBps(e.tun().WatchRatePenalty)
	case CovenantBreach:
		return FracToBps(e.tun().BreachRatePenalty)
	default:
		return 0
	}
}

// overheadMicros sums the annual costs of shared services, the sourcing
// tier, and every unlocked turnaround tier.
func (e *Engine) overheadMicros(st *GameState) int64 {
	var total float64
	for _, id := range st.Services {
		if svc, ok := e.tables.Service(id); ok {
			total += svc.AnnualCost
		}
	}
	if tier, ok := e.tables.SourcingTier(st.SourcingTier); ok {
		total += tier.AnnualCost
	}
	for tier := 1; tier <= st.TurnaroundTier; tier++ {
		if tt, ok := e.tables.TurnaroundTier(tier); ok {
			total += tt.AnnualCost
		}
	}
	return UnitsToMicros(total)
}
