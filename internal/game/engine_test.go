package game

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"holdco/internal/refdata"
)

func newTestEngine() *Engine {
	return NewEngine(refdata.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testState builds a minimal mid-game state with no pipeline noise.
func testState(cashUnits float64) *GameState {
	return &GameState{
		SchemaVersion: SchemaVersion,
		ID:            "t-1",
		Mode:          "standard_10",
		Seed:          7,
		Round:         1,
		MaxRounds:     10,
		CashMicros:    UnitsToMicros(cashUnits),
		SharesOut:     1_000_000,
		FounderShares: 1_000_000,
		Covenant:      CovenantHealthy,
		Macro:         MacroNeutral,
		SourcingTier:  1,
		Outcome:       OutcomeInProgress,
	}
}

func testDeal(id string, ebitdaUnits float64, multCenti int64, quality int32) Deal {
	return Deal{
		ID:           id,
		Name:         "Test Co",
		Sector:       "software",
		SubType:      "saas",
		Tier:         "core",
		Quality:      quality,
		EBITDAMicros: UnitsToMicros(ebitdaUnits),
		AskMultCenti: multCenti,
		Heat:         HeatWarm,
		Archetype:    SellerRetiringFounder,
		Structures:   []StructureKind{StructAllCash, StructSellerNote, StructEarnOut, StructBankDebt, StructLBO, StructRollover},
		Signals:      DiligenceSignals{Operator: OperatorModerate, Trend: 3, Retention: 3, Competitive: 3, Concentration: 3},
		Freshness:    2,
	}
}

func TestAcquireInsufficientCashLeavesStateUntouched(t *testing.T) {
	e := newTestEngine()
	st := testState(3_999)
	st.Deals = []Deal{testDeal("deal-1", 1_000, 400, 3)}
	st.Draws = 42

	res, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructAllCash}})
	if err == nil {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if res.OK {
		t.Fatalf("result marked ok on rejection")
	}
	if st.CashMicros != UnitsToMicros(3_999) {
		t.Fatalf("cash moved on rejection: %d", st.CashMicros)
	}
	if st.Draws != 42 {
		t.Fatalf("rng cursor moved on rejection: %d", st.Draws)
	}
	if len(st.Portfolio) != 0 || len(st.Deals) != 1 || len(st.Actions) != 0 {
		t.Fatalf("state mutated on rejection")
	}
}

func TestAcquireAllCashDebitsFullPrice(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)
	st.Deals = []Deal{testDeal("deal-1", 1_000, 400, 3)}

	res, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructAllCash}})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	want := UnitsToMicros(5_000) - UnitsToMicros(4_000)
	if st.CashMicros != want {
		t.Fatalf("cash=%d want %d", st.CashMicros, want)
	}
	if len(st.Portfolio) != 1 {
		t.Fatalf("portfolio size %d", len(st.Portfolio))
	}
	b := st.Portfolio[0]
	if b.AcqEBITDAMicros != UnitsToMicros(1_000) || b.AcqMultCenti != 400 {
		t.Fatalf("anchors wrong: ebitda=%d mult=%d", b.AcqEBITDAMicros, b.AcqMultCenti)
	}
	if b.DebtMicros() != 0 || b.EarnoutMicros != 0 || b.RolloverBps != 0 {
		t.Fatalf("all-cash deal carries obligations")
	}
	if res.CashDeltaMicros != -UnitsToMicros(4_000) {
		t.Fatalf("cash delta %d", res.CashDeltaMicros)
	}
	if len(st.Deals) != 0 {
		t.Fatalf("deal not consumed")
	}
}

func TestAcquireStructureGates(t *testing.T) {
	e := newTestEngine()

	t.Run("lbo needs quality", func(t *testing.T) {
		st := testState(10_000)
		st.SourcingTier = 3
		st.Deals = []Deal{testDeal("deal-1", 500, 400, 2)}
		if _, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructLBO}}); err == nil {
			t.Fatalf("expected quality gate to reject lbo")
		}
	})

	t.Run("bank debt blocked on watch", func(t *testing.T) {
		st := testState(10_000)
		st.SourcingTier = 2
		st.Covenant = CovenantWatch
		st.Deals = []Deal{testDeal("deal-1", 500, 400, 3)}
		if _, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructBankDebt}}); err == nil {
			t.Fatalf("expected covenant watch to block bank debt")
		}
	})

	t.Run("bank debt blocked when credit tightens", func(t *testing.T) {
		st := testState(10_000)
		st.SourcingTier = 2
		st.Macro = MacroCreditTighten
		st.Deals = []Deal{testDeal("deal-1", 500, 400, 3)}
		if _, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructBankDebt}}); err == nil {
			t.Fatalf("expected credit tightening to block bank debt")
		}
	})

	t.Run("sourcing tier gates lbo", func(t *testing.T) {
		st := testState(10_000)
		st.Deals = []Deal{testDeal("deal-1", 500, 400, 4)}
		if _, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructLBO}}); err == nil {
			t.Fatalf("expected tier 1 to reject lbo")
		}
	})
}

func TestAcquireSellerNoteBooksInstrument(t *testing.T) {
	e := newTestEngine()
	st := testState(3_000)
	st.Deals = []Deal{testDeal("deal-1", 375, 400, 3)} // price 1500

	if _, err := e.Apply(st, Action{Kind: KindAcquire, Acquire: &AcquireAction{DealID: "deal-1", Structure: StructSellerNote}}); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	b := st.Portfolio[0]
	if b.SellerNote.BalanceMicros != UnitsToMicros(600) {
		t.Fatalf("note balance %d want %d", b.SellerNote.BalanceMicros, UnitsToMicros(600))
	}
	if b.SellerNote.RemainingTerm != 4 || b.SellerNote.RateBps != 600 {
		t.Fatalf("note terms: %+v", b.SellerNote)
	}
	if st.CashMicros != UnitsToMicros(3_000-900) {
		t.Fatalf("cash %d", st.CashMicros)
	}
}

func TestApplyRejectsAfterGameOver(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	st.Outcome = OutcomeBankrupt
	if _, err := e.Apply(st, Action{Kind: KindEndRound}); err != ErrGameOver {
		t.Fatalf("want ErrGameOver, got %v", err)
	}
}

// A save written under different tables can carry a mode this engine does
// not know; that surfaces as a rejection, never a crash.
func TestApplyRejectsUnknownMode(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	raw, err := Encode(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decoded.Mode = "nightmare_40"
	if _, err := e.Apply(decoded, Action{Kind: KindEndRound}); !errors.Is(err, ErrIneligible) {
		t.Fatalf("want ErrIneligible for unknown mode, got %v", err)
	}
	if score := e.Score(decoded); score.Grade != "F" {
		t.Fatalf("unknown-mode score graded %q", score.Grade)
	}
}

func TestApplyNilPayloadRejected(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	if _, err := e.Apply(st, Action{Kind: KindAcquire}); err != ErrUnknownAction {
		t.Fatalf("want ErrUnknownAction, got %v", err)
	}
	if _, err := e.Apply(st, Action{Kind: ActionKind("bogus")}); err != ErrUnknownAction {
		t.Fatalf("want ErrUnknownAction for bogus kind, got %v", err)
	}
}

func TestNewGameOpensRoundOne(t *testing.T) {
	e := newTestEngine()
	st, err := e.NewGame("g-1", "standard_10", 99)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if st.Round != 1 || st.MaxRounds != 10 {
		t.Fatalf("round=%d max=%d", st.Round, st.MaxRounds)
	}
	if st.CashMicros != UnitsToMicros(5_000) {
		t.Fatalf("starting cash %d", st.CashMicros)
	}
	if len(st.Deals) < 3 || len(st.Deals) > 5 {
		t.Fatalf("opening pipeline size %d", len(st.Deals))
	}
	if st.FounderOwnershipBps() != 10_000 {
		t.Fatalf("founder ownership %d bps", st.FounderOwnershipBps())
	}
	if st.Draws == 0 {
		t.Fatalf("draw cursor not persisted")
	}
	if _, err := e.NewGame("g-2", "nope", 1); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
