package game

import (
	"fmt"
	"log/slog"

	"holdco/internal/refdata"
)

// Engine evaluates actions against a GameState. It owns no state of its own:
// every call takes the state explicitly, and all randomness flows through the
// RNG cursor stored on the state, so two processes replaying the same seed
// and action log land on identical bytes.
type Engine struct {
	tables *refdata.Tables
	log    *slog.Logger
}

func NewEngine(tables *refdata.Tables, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if tables == nil {
		tables = refdata.Default()
	}
	return &Engine{tables: tables, log: logger}
}

func (e *Engine) Tables() *refdata.Tables {
	return e.tables
}

func (e *Engine) tun() refdata.Tuning {
	return e.tables.Tuning
}

// mode resolves the state's difficulty mode. NewGame validates the mode, so
// a miss here means a save written under different tables; callers surface
// the error instead of trusting the state.
func (e *Engine) mode(st *GameState) (refdata.Mode, error) {
	m, ok := e.tables.Mode(st.Mode)
	if !ok {
		return refdata.Mode{}, fmt.Errorf("%w: unknown mode %q", ErrIneligible, st.Mode)
	}
	return m, nil
}

// NewGame constructs a fresh state and opens round 1. No prior flags carry
// over; a restart is always a brand-new state.
func (e *Engine) NewGame(id, modeID string, seed uint32) (*GameState, error) {
	mode, ok := e.tables.Mode(modeID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrIneligible, modeID)
	}
	founderShares := mulMicros(mode.SharesOutstanding, mode.FounderOwnership)
	st := &GameState{
		SchemaVersion: SchemaVersion,
		ID:            id,
		Mode:          modeID,
		Seed:          seed,
		Round:         1,
		MaxRounds:     mode.MaxRounds,
		CashMicros:    UnitsToMicros(mode.StartingCapital),
		SharesOut:     mode.SharesOutstanding,
		FounderShares: founderShares,
		Covenant:      CovenantHealthy,
		Macro:         MacroNeutral,
		SourcingTier:  1,
		Outcome:       OutcomeInProgress,
	}
	rng := NewRNG(seed)
	e.refreshPipeline(st, rng)
	st.Draws = rng.Draws()
	e.log.Info("game created", "id", id, "mode", modeID, "seed", seed)
	return st, nil
}

func (st *GameState) nextID(prefix string) string {
	st.Seq++
	return fmt.Sprintf("%s-%d", prefix, st.Seq)
}

// Apply validates and executes one action. Rejections leave the state
// byte-identical to before the call; in particular no RNG draw is consumed
// until validation has fully passed.
func (e *Engine) Apply(st *GameState, act Action) (ActionResult, error) {
	if st.Over() {
		return failResult(act.Kind, ErrGameOver), ErrGameOver
	}
	if _, err := e.mode(st); err != nil {
		return failResult(act.Kind, err), err
	}
	rng := At(st.Seed, st.Draws)

	var res ActionResult
	var err error
	switch act.Kind {
	case KindAcquire:
		if act.Acquire == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyAcquire(st, rng, *act.Acquire)
	case KindPassDeal:
		if act.PassDeal == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyPassDeal(st, *act.PassDeal)
	case KindSell:
		if act.Sell == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applySell(st, *act.Sell)
	case KindWindDown:
		if act.WindDown == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyWindDown(st, *act.WindDown)
	case KindMerge:
		if act.Merge == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyMerge(st, *act.Merge)
	case KindFlagPlatform:
		if act.FlagPlatform == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyFlagPlatform(st, *act.FlagPlatform)
	case KindForgePlatform:
		if act.ForgePlatform == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyForgePlatform(st, rng, *act.ForgePlatform)
	case KindTurnaround:
		if act.Turnaround == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyTurnaround(st, *act.Turnaround)
	case KindUnlockTier:
		if act.UnlockTier == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyUnlockTier(st, *act.UnlockTier)
	case KindSourcingTier:
		if act.SourcingTier == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applySourcingTier(st, *act.SourcingTier)
	case KindActivateSvc:
		if act.Service == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyActivateService(st, *act.Service)
	case KindDeactivateSvc:
		if act.Service == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyDeactivateService(st, *act.Service)
	case KindIssueEquity:
		if act.IssueEquity == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyIssueEquity(st, *act.IssueEquity)
	case KindBuyback:
		if act.Buyback == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyBuyback(st, *act.Buyback)
	case KindDistribution:
		if act.Distribution == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyDistribution(st, *act.Distribution)
	case KindRepayDebt:
		if act.RepayDebt == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyRepayDebt(st, *act.RepayDebt)
	case KindRestructure:
		if act.Restructure == nil {
			err = ErrUnknownAction
			break
		}
		res, err = e.applyRestructure(st, *act.Restructure)
	case KindEndRound:
		res, err = e.endRound(st, rng)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return failResult(act.Kind, err), err
	}
	st.Draws = rng.Draws()
	st.Actions = append(st.Actions, act)
	return res, nil
}

// restructureRequired reports whether the forced restructuring sub-phase is
// open: two consecutive breach rounds before the one-time restructuring has
// been used. While open, only restructuring (and reads) may proceed.
func (e *Engine) restructureRequired(st *GameState) bool {
	return !st.Restructured &&
		st.Covenant == CovenantBreach &&
		st.BreachRounds >= e.tun().BreachRoundsToBust
}

// endRound closes the year in a fixed order (integrations settle, every
// business operates, the cash waterfall runs, covenants re-evaluate,
// turnarounds tick) and then opens the next round with a macro event and a
// refreshed deal pipeline.
func (e *Engine) endRound(st *GameState, rng *RNG) (ActionResult, error) {
	if e.restructureRequired(st) {
		return ActionResult{}, fmt.Errorf("%w: restructuring is required before the round can close", ErrIneligible)
	}

	for _, b := range st.Portfolio {
		if b.Active() && b.Integration == IntegrationPending {
			e.resolveIntegration(st, rng, b)
		}
	}

	for _, b := range st.Portfolio {
		if b.Active() {
			e.operate(st, rng, b)
		}
	}

	flow := e.cashflow(st)
	st.CashMicros += flow.NetFCFMicros

	e.evaluateCovenant(st)

	e.tickTurnarounds(st, rng)
	e.tickIntegrations(st)
	e.zeroExpiredEarnouts(st)

	snap := e.snapshot(st, flow)
	st.History = append(st.History, snap)

	if st.Over() {
		// Covenant evaluation went terminal mid-close; score is already set.
		return okResult(KindEndRound, flow.NetFCFMicros), nil
	}

	st.Round++
	if st.Round > st.MaxRounds {
		e.finishGame(st, OutcomeCompleted)
		return okResult(KindEndRound, flow.NetFCFMicros), nil
	}

	e.drawMacro(st, rng)
	e.refreshPipeline(st, rng)

	res := okResult(KindEndRound, flow.NetFCFMicros)
	res.Details["round"] = st.Round
	res.Details["covenant"] = string(st.Covenant)
	res.Details["macro"] = string(st.Macro)
	return res, nil
}

// finishGame prices the remaining portfolio, computes the score, and marks
// the terminal outcome.
func (e *Engine) finishGame(st *GameState, outcome GameOutcome) {
	st.Outcome = outcome
	score := e.Score(st)
	st.Score = &score
	e.log.Info("game over", "id", st.ID, "outcome", string(outcome), "total", score.Total, "grade", score.Grade)
}

// drawMacro rolls the macro state for the opening round. One weighted draw
// per round keeps the cursor arithmetic predictable.
func (e *Engine) drawMacro(st *GameState, rng *RNG) {
	t := e.tun()
	idx := rng.Weighted([]float64{
		t.BullP,
		t.RecessionP,
		t.CreditTightenP,
		t.SectorShockP,
		1 - t.BullP - t.RecessionP - t.CreditTightenP - t.SectorShockP,
	})
	st.ShockedSector = ""
	switch idx {
	case 0:
		st.Macro = MacroBull
	case 1:
		st.Macro = MacroRecession
	case 2:
		st.Macro = MacroCreditTighten
	case 3:
		st.Macro = MacroSectorShock
		st.ShockedSector = e.tables.Sectors[rng.IntN(len(e.tables.Sectors))].ID
	default:
		st.Macro = MacroNeutral
	}
}
