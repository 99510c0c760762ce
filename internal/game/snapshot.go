package game

// snapshot records the round's derived metrics once; UI and scoring read
// these instead of recomputing totals independently.
func (e *Engine) snapshot(st *GameState, flow CashFlow) RoundSnapshot {
	var revenue int64
	active := 0
	for _, b := range st.Portfolio {
		if b.Active() {
			revenue += b.RevenueMicros
			active++
		}
	}
	var perShareNanos int64
	if st.SharesOut > 0 {
		perShareNanos = flow.NetFCFMicros * 1_000 / st.SharesOut
	}
	equity := e.equityValueMicros(st)
	return RoundSnapshot{
		Round:             st.Round,
		Macro:             st.Macro,
		CashMicros:        st.CashMicros,
		RevenueMicros:     revenue,
		EBITDAMicros:      flow.GrossEBITDAMicros,
		NetDebtMicros:     st.NetDebtMicros(),
		LeverageCenti:     MultToCenti(leverageRatio(st)),
		Covenant:          st.Covenant,
		CapExMicros:       flow.CapExMicros,
		DebtServiceMicros: flow.DebtServiceMicros,
		OverheadMicros:    flow.OverheadMicros,
		TaxMicros:         flow.TaxMicros,
		Shield:            flow.Shield,
		NetFCFMicros:      flow.NetFCFMicros,
		FCFPerShareNanos:  perShareNanos,
		PortfolioCount:    active,
		EVMicros:          equity + st.TotalDebtMicros(),
		FEVMicros:         e.fevMicros(st),
	}
}
