package game

// resolveIntegration rolls how a newly acquired business lands in the
// portfolio. One weighted RNG draw per acquisition, in portfolio order.
func (e *Engine) resolveIntegration(st *GameState, rng *RNG, b *Business) {
	t := e.tun()

	score := t.IntegrationBaseP
	score += 0.05 * float64(b.Quality-MedianQuality)
	switch b.Signals.Operator {
	case OperatorStrong:
		score += 0.10
	case OperatorWeak:
		score -= 0.10
	}
	score += e.platformAffinityBonus(st, b)
	for _, id := range st.Services {
		if svc, ok := e.tables.Service(id); ok {
			score += svc.IntegrationBonus
		}
	}
	score += 0.03 * float64(MedianQuality-b.Signals.Concentration)
	score = clampFloat(score, 0.05, 0.95)

	// Probability bands: the failure mass splits fixed-ratio between rocky
	// and troubled.
	seamlessP := score
	rockyP := (1 - score) * 0.65
	troubledP := 1 - seamlessP - rockyP

	var outcome IntegrationOutcome
	switch rng.Weighted([]float64{seamlessP, rockyP, troubledP}) {
	case 0:
		outcome = OutcomeSeamless
	case 1:
		outcome = OutcomeRocky
	default:
		outcome = OutcomeTroubled
	}

	acqType := b.AcqType
	if acqType == "" {
		acqType = AcqStandalone
	}
	uplift := e.synergyRate(st, b, acqType, outcome)
	if uplift > 0 {
		b.RevenueMicros = mulMicros(b.RevenueMicros, 1+uplift)
		recomputeEBITDA(b, e.tun())
	}

	if outcome == OutcomeTroubled {
		cost := mulMicros(b.AcqEBITDAMicros, t.TroubledCostRate)
		st.CashMicros -= cost
		b.TroubledDragBps = FracToBps(0.04 * e.relativeSize(st, b))
	}

	b.Integration = IntegrationInProgress
	b.IntegrationResult = outcome
	e.log.Debug("integration resolved", "business", b.ID, "outcome", string(outcome), "score", score)
}

func (e *Engine) platformAffinityBonus(st *GameState, b *Business) float64 {
	if b.PlatformID != "" {
		plat := st.platform(b.PlatformID)
		if plat != nil && plat.Forged {
			return 0.10
		}
		return 0.06
	}
	for _, other := range st.Portfolio {
		if other.ID != b.ID && other.Active() && other.Sector == b.Sector {
			return 0.03
		}
	}
	return 0
}

// synergyRate is base(outcome, type) x sub-type affinity x size-ratio
// factor. Rocky and troubled outcomes capture reduced shares of the
// seamless rate, asymmetric by acquisition type.
func (e *Engine) synergyRate(st *GameState, b *Business, acqType AcquisitionType, outcome IntegrationOutcome) float64 {
	t := e.tun()

	var base float64
	switch acqType {
	case AcqTuckIn:
		base = t.SynergyTuckIn
	case AcqMerger:
		base = t.SynergyMerger
	default:
		base = t.SynergyStandalone
	}
	switch outcome {
	case OutcomeRocky:
		if acqType == AcqTuckIn {
			base *= t.RockyCaptureTuckIn
		} else {
			base *= t.RockyCaptureOther
		}
	case OutcomeTroubled:
		base *= t.TroubledCapture
	}

	affinity := 1.0
	if plat := st.platform(b.PlatformID); plat != nil && plat.RecipeID != "" {
		if recipe, ok := e.tables.Recipe(plat.RecipeID); ok {
			for _, sub := range recipe.SubTypes {
				if sub == b.SubType {
					affinity = 1.25
					break
				}
			}
		}
	}

	sizeFactor := 1.0
	if acqType != AcqStandalone {
		ratio := e.relativeSize(st, b)
		sizeFactor = clampFloat(1.2-0.4*ratio, 0.6, 1.2)
	}
	return base * affinity * sizeFactor
}

// relativeSize is the business's EBITDA share of its platform (or of the
// whole portfolio when standalone).
func (e *Engine) relativeSize(st *GameState, b *Business) float64 {
	var denom int64
	if plat := st.platform(b.PlatformID); plat != nil {
		for _, id := range plat.Members {
			if m := st.business(id); m != nil && m.Active() {
				denom += m.EBITDAMicros
			}
		}
	} else {
		denom = st.PortfolioEBITDAMicros()
	}
	if denom <= 0 {
		return 1
	}
	return clampFloat(float64(b.EBITDAMicros)/float64(denom), 0, 1)
}

// tickIntegrations advances integration clocks and decays troubled-merger
// drag geometrically until it vanishes.
func (e *Engine) tickIntegrations(st *GameState) {
	decay := e.tun().TroubledDragDecay
	for _, b := range st.Portfolio {
		if !b.Active() {
			continue
		}
		if b.Integration == IntegrationInProgress {
			b.IntegrationRounds--
			if b.IntegrationRounds <= 0 {
				b.Integration = IntegrationComplete
				b.IntegrationRounds = 0
				b.IntegrationDragBps = 0
			}
		}
		if b.TroubledDragBps > 0 {
			b.TroubledDragBps = int32(float64(b.TroubledDragBps) * decay)
			if b.TroubledDragBps < 10 {
				b.TroubledDragBps = 0
			}
		}
	}
}

// zeroExpiredEarnouts clears unpaid earn-outs past their expiry round.
func (e *Engine) zeroExpiredEarnouts(st *GameState) {
	for _, b := range st.Portfolio {
		if b.Active() && b.EarnoutMicros > 0 && st.Round >= b.EarnoutExpiry {
			b.EarnoutMicros = 0
		}
	}
}
