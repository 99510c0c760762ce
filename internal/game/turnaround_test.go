package game

import "testing"

func TestUnlockTurnaroundTiersInOrder(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)
	st.Portfolio = []*Business{saasBusiness("biz-a", 1_000), saasBusiness("biz-b", 1_000)}

	if _, err := e.Apply(st, Action{Kind: KindUnlockTier, UnlockTier: &UnlockTierAction{Tier: 2}}); err == nil {
		t.Fatalf("skipping tier 1 allowed")
	}
	if _, err := e.Apply(st, Action{Kind: KindUnlockTier, UnlockTier: &UnlockTierAction{Tier: 1}}); err != nil {
		t.Fatalf("unlock tier 1: %v", err)
	}
	if st.TurnaroundTier != 1 || st.CashMicros != UnitsToMicros(4_500) {
		t.Fatalf("tier=%d cash=%d", st.TurnaroundTier, st.CashMicros)
	}

	// Tier 2 needs a portfolio of four.
	if _, err := e.Apply(st, Action{Kind: KindUnlockTier, UnlockTier: &UnlockTierAction{Tier: 2}}); err == nil {
		t.Fatalf("tier 2 unlocked with a two-business portfolio")
	}
}

func TestStartTurnaroundGates(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)
	st.TurnaroundTier = 1
	b := saasBusiness("biz-1", 1_000)
	b.Quality = 2
	st.Portfolio = []*Business{b}

	// ops_cleanup starts from quality 2; pricing_reset does not.
	if _, err := e.Apply(st, Action{Kind: KindTurnaround, Turnaround: &TurnaroundAction{BusinessID: "biz-1", ProgramID: "pricing_reset"}}); err == nil {
		t.Fatalf("wrong starting quality accepted")
	}
	// mgmt_upgrade sits in tier 2.
	if _, err := e.Apply(st, Action{Kind: KindTurnaround, Turnaround: &TurnaroundAction{BusinessID: "biz-1", ProgramID: "mgmt_upgrade"}}); err == nil {
		t.Fatalf("locked tier program accepted")
	}

	res, err := e.Apply(st, Action{Kind: KindTurnaround, Turnaround: &TurnaroundAction{BusinessID: "biz-1", ProgramID: "ops_cleanup"}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	wantCost := mulMicros(b.EBITDAMicros, 0.12)
	if res.CashDeltaMicros != -wantCost {
		t.Fatalf("cost %d want %d", res.CashDeltaMicros, wantCost)
	}
	if len(st.Turnarounds) != 1 || st.Turnarounds[0].RoundsLeft != 2 {
		t.Fatalf("program not booked: %+v", st.Turnarounds)
	}

	if _, err := e.Apply(st, Action{Kind: KindTurnaround, Turnaround: &TurnaroundAction{BusinessID: "biz-1", ProgramID: "ops_cleanup"}}); err == nil {
		t.Fatalf("second concurrent program on one business accepted")
	}
}

func TestTurnaroundResolutionMovesQuality(t *testing.T) {
	e := newTestEngine()
	program, _, ok := e.Tables().Program("ops_cleanup")
	if !ok {
		t.Fatalf("program missing")
	}

	var successes, partials, fails int
	for seed := uint32(1); seed <= 300; seed++ {
		st := testState(0)
		b := saasBusiness("biz-1", 1_000)
		b.Quality = 2
		st.Portfolio = []*Business{b}
		revBefore := b.RevenueMicros

		e.resolveTurnaround(st, NewRNG(seed), b, program, 0)
		switch {
		case b.Quality == 3 && b.TurnaroundGain == 1:
			if b.RevenueMicros <= revBefore {
				t.Fatalf("seed %d: success without a boost", seed)
			}
			if len(b.Improvements) != 1 {
				t.Fatalf("seed %d: improvement not recorded", seed)
			}
			if b.Improvements[0].Kind == "turnaround" {
				successes++
			} else {
				partials++
			}
		case b.Quality == 2 && b.TurnaroundGain == 0:
			if b.RevenueMicros >= revBefore {
				t.Fatalf("seed %d: failure without a penalty", seed)
			}
			fails++
		default:
			t.Fatalf("seed %d: unexpected quality %d gain %d", seed, b.Quality, b.TurnaroundGain)
		}
	}
	if successes == 0 || partials == 0 || fails == 0 {
		t.Fatalf("outcome mix degenerate: %d/%d/%d", successes, partials, fails)
	}
}

func TestTurnaroundRespectsSectorCeiling(t *testing.T) {
	e := newTestEngine()
	program, _, ok := e.Tables().Program("flagship_push") // targets quality 5
	if !ok {
		t.Fatalf("program missing")
	}

	for seed := uint32(1); seed <= 100; seed++ {
		st := testState(0)
		b := saasBusiness("biz-1", 1_000)
		b.Sector = "manufacturing" // quality ceiling 4
		b.Quality = 4
		st.Portfolio = []*Business{b}
		e.resolveTurnaround(st, NewRNG(seed), b, program, 0)
		if b.Quality > 4 {
			t.Fatalf("seed %d: quality %d above sector ceiling", seed, b.Quality)
		}
	}
}

func TestFatiguePenaltyKicksInAtFourPrograms(t *testing.T) {
	e := newTestEngine()
	st := testState(0)
	var ids []string
	for i := 0; i < 4; i++ {
		b := saasBusiness("", 500)
		b.ID = st.nextID("biz")
		b.Quality = 2
		st.Portfolio = append(st.Portfolio, b)
		ids = append(ids, b.ID)
	}
	for _, id := range ids {
		st.Turnarounds = append(st.Turnarounds, Turnaround{
			ID: st.nextID("ta"), BusinessID: id, ProgramID: "ops_cleanup", StartRound: 1, RoundsLeft: 1,
		})
	}

	rng := NewRNG(11)
	e.tickTurnarounds(st, rng)
	if len(st.Turnarounds) != 0 {
		t.Fatalf("programs not resolved: %d left", len(st.Turnarounds))
	}
	if rng.Draws() != 4 {
		t.Fatalf("resolutions drew %d, want one per program", rng.Draws())
	}
}

func TestTickTurnaroundsDropsDepartedBusinesses(t *testing.T) {
	e := newTestEngine()
	st := testState(0)
	b := saasBusiness("biz-1", 500)
	b.Status = StatusSold
	st.Portfolio = []*Business{b}
	st.Turnarounds = []Turnaround{{ID: "ta-1", BusinessID: "biz-1", ProgramID: "ops_cleanup", RoundsLeft: 2}}

	rng := NewRNG(1)
	e.tickTurnarounds(st, rng)
	if len(st.Turnarounds) != 0 {
		t.Fatalf("orphaned program survived")
	}
	if rng.Draws() != 0 {
		t.Fatalf("orphaned program consumed draws")
	}
}
