package game

import (
	"fmt"

	"holdco/internal/refdata"
)

func (e *Engine) applyUnlockTier(st *GameState, in UnlockTierAction) (ActionResult, error) {
	if in.Tier != st.TurnaroundTier+1 {
		return ActionResult{}, fmt.Errorf("%w: tiers unlock in order, next is %d", ErrIneligible, st.TurnaroundTier+1)
	}
	tier, ok := e.tables.TurnaroundTier(in.Tier)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: no tier %d", ErrIneligible, in.Tier)
	}
	if len(st.ActivePortfolio()) < tier.MinPortfolio {
		return ActionResult{}, fmt.Errorf("%w: tier %d needs a portfolio of %d+", ErrIneligible, in.Tier, tier.MinPortfolio)
	}
	cost := UnitsToMicros(tier.UnlockCost)
	if cost > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}
	st.CashMicros -= cost
	st.TurnaroundTier = in.Tier

	res := okResult(KindUnlockTier, -cost)
	res.Details["tier"] = in.Tier
	return res, nil
}

func (e *Engine) applyTurnaround(st *GameState, in TurnaroundAction) (ActionResult, error) {
	program, tier, ok := e.tables.Program(in.ProgramID)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: unknown program %q", ErrIneligible, in.ProgramID)
	}
	if tier > st.TurnaroundTier {
		return ActionResult{}, fmt.Errorf("%w: program %s needs turnaround tier %d", ErrIneligible, in.ProgramID, tier)
	}
	b := st.business(in.BusinessID)
	if b == nil || !b.Active() {
		return ActionResult{}, ErrUnknownBusiness
	}
	if b.Quality != int32(program.FromQuality) {
		return ActionResult{}, fmt.Errorf("%w: %s starts from quality %d", ErrIneligible, program.ID, program.FromQuality)
	}
	for _, ta := range st.Turnarounds {
		if ta.BusinessID == b.ID {
			return ActionResult{}, fmt.Errorf("%w: business already has a program running", ErrIneligible)
		}
	}
	cost := mulMicros(b.EBITDAMicros, program.CostRate)
	if cost > st.CashMicros {
		return ActionResult{}, ErrInsufficientCash
	}
	st.CashMicros -= cost
	st.Turnarounds = append(st.Turnarounds, Turnaround{
		ID:         st.nextID("ta"),
		BusinessID: b.ID,
		ProgramID:  program.ID,
		StartRound: st.Round,
		RoundsLeft: int32(program.Duration),
	})

	res := okResult(KindTurnaround, -cost)
	res.Details["program_id"] = program.ID
	return res, nil
}

// tickTurnarounds advances program clocks and resolves the ones that finish
// this round. Running four or more programs at once fatigues the whole book:
// a flat probability penalty on every resolution.
func (e *Engine) tickTurnarounds(st *GameState, rng *RNG) {
	t := e.tun()
	var fatigue float64
	if len(st.Turnarounds) >= t.FatigueAt {
		fatigue = t.FatiguePenalty
	}

	remaining := st.Turnarounds[:0]
	for _, ta := range st.Turnarounds {
		b := st.business(ta.BusinessID)
		if b == nil || !b.Active() {
			continue // business left the portfolio; program dies with it
		}
		ta.RoundsLeft--
		if ta.RoundsLeft > 0 {
			remaining = append(remaining, ta)
			continue
		}
		program, _, ok := e.tables.Program(ta.ProgramID)
		if !ok {
			continue
		}
		e.resolveTurnaround(st, rng, b, program, fatigue)
	}
	st.Turnarounds = remaining
}

func (e *Engine) resolveTurnaround(st *GameState, rng *RNG, b *Business, program refdata.TurnaroundProgram, fatigue float64) {
	successP := clampFloat(program.SuccessP-fatigue, 0.05, 0.95)
	partialP := clampFloat(program.PartialP-fatigue/2, 0.05, 0.95)

	sector, _ := e.tables.Sector(b.Sector)
	before := b.Quality

	roll := rng.Next()
	switch {
	case roll < successP:
		b.Quality = clampQuality(int32(program.TargetQuality), int32(sector.QualityCeiling))
		b.RevenueMicros = mulMicros(b.RevenueMicros, 1+program.SuccessBoost)
		b.Improvements = append(b.Improvements, Improvement{
			Kind:         "turnaround",
			AppliedRound: st.Round,
			TierDelta:    b.Quality - before,
		})
	case roll < successP+partialP:
		b.Quality = clampQuality(before+1, int32(sector.QualityCeiling))
		b.RevenueMicros = mulMicros(b.RevenueMicros, 1+program.PartialBoost)
		b.Improvements = append(b.Improvements, Improvement{
			Kind:         "turnaround_partial",
			AppliedRound: st.Round,
			TierDelta:    b.Quality - before,
		})
	default:
		b.RevenueMicros = mulMicros(b.RevenueMicros, 1-program.FailPenalty)
	}
	b.TurnaroundGain += b.Quality - before
	recomputeEBITDA(b, e.tun())
	e.log.Debug("turnaround resolved", "business", b.ID, "program", program.ID, "quality", b.Quality)
}
