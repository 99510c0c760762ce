package game

import "holdco/internal/refdata"

// operate runs the annual per-business transform: a growth draw, a margin
// drift draw, then EBITDA recomputed against the acquisition floor. It reads
// nothing beyond the business record, active services, and the macro state.
func (e *Engine) operate(st *GameState, rng *RNG, b *Business) {
	t := e.tun()
	sector, ok := e.tables.Sector(b.Sector)
	if !ok {
		return
	}

	growth := rng.Between(sector.Growth.Min, sector.Growth.Max)
	growth += 0.01 * float64(b.Quality-MedianQuality)
	for _, id := range st.Services {
		if svc, ok := e.tables.Service(id); ok {
			growth += svc.GrowthBonus
		}
	}
	for _, imp := range b.Improvements {
		growth += BpsToFrac(imp.GrowthBps)
	}
	if b.Integration == IntegrationInProgress {
		growth -= BpsToFrac(b.IntegrationDragBps)
	}
	growth -= BpsToFrac(b.TroubledDragBps)
	growth += e.macroGrowthShift(st, b, sector)
	growth = clampFloat(growth, t.GrowthClampMin, t.GrowthClampMax)

	b.RevenueMicros = mulMicros(b.RevenueMicros, 1+growth)

	drift := rng.Between(sector.MarginDrift.Min, sector.MarginDrift.Max)
	drift += rng.Between(-sector.Volatility, sector.Volatility)
	if drift < 0 {
		// Defensive shared services absorb downside drift, never add upside.
		var defense float64
		for _, id := range st.Services {
			if svc, ok := e.tables.Service(id); ok {
				defense += svc.MarginDefense
			}
		}
		drift += defense
		if drift > 0 {
			drift = 0
		}
	}
	margin := clampFloat(BpsToFrac(b.MarginBps)+drift, t.MarginFloor, t.MarginCeiling)
	b.MarginBps = FracToBps(margin)

	recomputeEBITDA(b, t)
}

func (e *Engine) macroGrowthShift(st *GameState, b *Business, sector refdata.Sector) float64 {
	switch st.Macro {
	case MacroBull:
		return e.tun().BullGrowthLift
	case MacroRecession:
		resist := e.platformRecessionResistance(st, b)
		return -e.tun().RecessionGrowthImpact * sector.RecessionSensitivity * (1 - resist)
	case MacroSectorShock:
		if st.ShockedSector == b.Sector {
			return -e.tun().SectorShockImpact
		}
	}
	return 0
}

func (e *Engine) platformRecessionResistance(st *GameState, b *Business) float64 {
	plat := st.platform(b.PlatformID)
	if plat == nil || !plat.Forged {
		return 0
	}
	recipe, ok := e.tables.Recipe(plat.RecipeID)
	if !ok {
		return 0
	}
	return clampFloat(recipe.RecessionResistance, 0, 1)
}

// recomputeEBITDA derives EBITDA from revenue x margin and enforces the
// acquisition floor. The anchor never moves after purchase.
func recomputeEBITDA(b *Business, t refdata.Tuning) {
	ebitda := mulMicros(b.RevenueMicros, BpsToFrac(b.MarginBps))
	floor := mulMicros(b.AcqEBITDAMicros, t.EBITDAFloorRate)
	if ebitda < floor {
		ebitda = floor
	}
	b.EBITDAMicros = ebitda
	if ebitda > b.PeakEBITDAMicros {
		b.PeakEBITDAMicros = ebitda
	}
}
