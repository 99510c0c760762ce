package game

import (
	"io"
	"log/slog"
	"testing"

	"holdco/internal/refdata"
)

func saasBusiness(id string, ebitdaUnits float64) *Business {
	b := testBusiness(ebitdaUnits*4, 2_500)
	b.ID = id
	return b
}

func TestFlagPlatformStartsAtScaleOne(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	st.Portfolio = []*Business{saasBusiness("biz-1", 1_000)}

	res, err := e.Apply(st, Action{Kind: KindFlagPlatform, FlagPlatform: &FlagPlatformAction{BusinessID: "biz-1"}})
	if err != nil {
		t.Fatalf("flag: %v", err)
	}
	if len(st.Platforms) != 1 {
		t.Fatalf("platforms %d", len(st.Platforms))
	}
	p := st.Platforms[0]
	if p.Scale != 1 || p.Forged || len(p.Members) != 1 {
		t.Fatalf("platform %+v", p)
	}
	if st.Portfolio[0].PlatformID != p.ID {
		t.Fatalf("membership not recorded")
	}
	if res.Details["platform_id"] != p.ID {
		t.Fatalf("result details missing platform id")
	}

	if _, err := e.Apply(st, Action{Kind: KindFlagPlatform, FlagPlatform: &FlagPlatformAction{BusinessID: "biz-1"}}); err == nil {
		t.Fatalf("double flag should be rejected")
	}
}

func TestMergeFoldsSourceIntoTarget(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	src := saasBusiness("biz-src", 500)
	dst := saasBusiness("biz-dst", 1_500)
	st.Portfolio = []*Business{src, dst}

	res, err := e.Apply(st, Action{Kind: KindMerge, Merge: &MergeAction{SourceID: "biz-src", TargetID: "biz-dst"}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if src.Status != StatusMerged {
		t.Fatalf("source status %s", src.Status)
	}
	if dst.RevenueMicros != UnitsToMicros(8_000) {
		t.Fatalf("combined revenue %d", dst.RevenueMicros)
	}
	// Both at 25% margin, so the weighted margin holds and EBITDA is additive.
	if dst.EBITDAMicros != UnitsToMicros(2_000) {
		t.Fatalf("combined EBITDA %d", dst.EBITDAMicros)
	}
	plat := st.platform(dst.PlatformID)
	if plat == nil {
		t.Fatalf("merge created no platform")
	}
	if plat.Scale != int32(2) { // 0 + 0 + merge bonus
		t.Fatalf("scale %d", plat.Scale)
	}
	if dst.Integration != IntegrationPending {
		t.Fatalf("target should re-integrate")
	}
	if res.Details["scale"] != plat.Scale {
		t.Fatalf("details scale mismatch")
	}
	if len(st.Exited) != 1 || st.Exited[0].Kind != StatusMerged {
		t.Fatalf("merge tombstone missing")
	}
}

func TestMergeGates(t *testing.T) {
	e := newTestEngine()

	t.Run("cross sector", func(t *testing.T) {
		st := testState(1_000)
		src := saasBusiness("biz-src", 500)
		src.Sector = "manufacturing"
		dst := saasBusiness("biz-dst", 1_500)
		st.Portfolio = []*Business{src, dst}
		if _, err := e.Apply(st, Action{Kind: KindMerge, Merge: &MergeAction{SourceID: "biz-src", TargetID: "biz-dst"}}); err == nil {
			t.Fatalf("cross-sector merge allowed")
		}
	})

	t.Run("leveraged source", func(t *testing.T) {
		st := testState(1_000)
		src := saasBusiness("biz-src", 500)
		src.BankDebt = DebtInstrument{BalanceMicros: UnitsToMicros(200), RateBps: 800, RemainingTerm: 2}
		dst := saasBusiness("biz-dst", 1_500)
		st.Portfolio = []*Business{src, dst}
		if _, err := e.Apply(st, Action{Kind: KindMerge, Merge: &MergeAction{SourceID: "biz-src", TargetID: "biz-dst"}}); err == nil {
			t.Fatalf("merge with outstanding source debt allowed")
		}
	})

	t.Run("self merge", func(t *testing.T) {
		st := testState(1_000)
		st.Portfolio = []*Business{saasBusiness("biz-1", 500)}
		if _, err := e.Apply(st, Action{Kind: KindMerge, Merge: &MergeAction{SourceID: "biz-1", TargetID: "biz-1"}}); err == nil {
			t.Fatalf("self merge allowed")
		}
	})
}

func TestForgePlatformAppliesOneTimeBonuses(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)
	a := saasBusiness("biz-a", 2_500)
	b := saasBusiness("biz-b", 2_500)
	st.Portfolio = []*Business{a, b}
	marginBefore := a.MarginBps

	res, err := e.Apply(st, Action{Kind: KindForgePlatform, ForgePlatform: &ForgePlatformAction{
		RecipeID:  "vertical_saas",
		MemberIDs: []string{"biz-a", "biz-b"},
	}})
	if err != nil {
		t.Fatalf("forge: %v", err)
	}
	if len(st.Platforms) != 1 {
		t.Fatalf("platforms %d", len(st.Platforms))
	}
	p := st.Platforms[0]
	if !p.Forged || !p.BonusesApplied || p.Scale != 2 {
		t.Fatalf("platform %+v", p)
	}
	if a.PlatformID != p.ID || b.PlatformID != p.ID {
		t.Fatalf("membership not recorded")
	}
	if a.MarginBps <= marginBefore {
		t.Fatalf("margin bonus not applied: %d -> %d", marginBefore, a.MarginBps)
	}
	if len(a.Improvements) != 1 || a.Improvements[0].Kind != "forge" || a.Improvements[0].GrowthBps <= 0 {
		t.Fatalf("growth bonus not recorded: %+v", a)
	}
	cost := -res.CashDeltaMicros
	combined := UnitsToMicros(5_000)
	if cost < mulMicros(combined, 0.18) || cost > mulMicros(combined, 0.25) {
		t.Fatalf("forge cost %d outside band", cost)
	}
}

// A forge bonus lives on the constituent's improvement record and nowhere
// else, so each operating round applies it exactly once.
func TestForgeGrowthBonusAppliedOnce(t *testing.T) {
	tables := refdata.Default()
	for i := range tables.Sectors {
		if tables.Sectors[i].ID == "software" {
			tables.Sectors[i].Growth = refdata.Range{}
			tables.Sectors[i].MarginDrift = refdata.Range{}
			tables.Sectors[i].Volatility = 0
		}
	}
	for i := range tables.Recipes {
		if tables.Recipes[i].ID == "vertical_saas" {
			tables.Recipes[i].GrowthBonus = refdata.Range{Min: 0.03, Max: 0.03}
			tables.Recipes[i].MarginBonus = refdata.Range{}
		}
	}
	e := NewEngine(tables, slog.New(slog.NewTextHandler(io.Discard, nil)))

	st := testState(5_000)
	a := saasBusiness("biz-a", 2_500)
	b := saasBusiness("biz-b", 2_500)
	st.Portfolio = []*Business{a, b}

	if _, err := e.Apply(st, Action{Kind: KindForgePlatform, ForgePlatform: &ForgePlatformAction{
		RecipeID:  "vertical_saas",
		MemberIDs: []string{"biz-a", "biz-b"},
	}}); err != nil {
		t.Fatalf("forge: %v", err)
	}

	before := a.RevenueMicros
	e.operate(st, NewRNG(3), a)
	want := mulMicros(before, 1.03)
	if a.RevenueMicros != want {
		t.Fatalf("post-forge revenue %d, want %d (a single 3%% bonus)", a.RevenueMicros, want)
	}
}

func TestForgeRejectionsAreDrawFree(t *testing.T) {
	e := newTestEngine()

	t.Run("below combined threshold", func(t *testing.T) {
		st := testState(10_000)
		st.Portfolio = []*Business{saasBusiness("biz-a", 1_000), saasBusiness("biz-b", 1_000)}
		st.Draws = 5
		if _, err := e.Apply(st, Action{Kind: KindForgePlatform, ForgePlatform: &ForgePlatformAction{RecipeID: "vertical_saas", MemberIDs: []string{"biz-a", "biz-b"}}}); err == nil {
			t.Fatalf("thin group forged")
		}
		if st.Draws != 5 {
			t.Fatalf("rejection consumed draws")
		}
	})

	t.Run("cannot afford worst-case cost", func(t *testing.T) {
		st := testState(1_000) // max cost would be 0.25 x 5000 = 1250
		st.Portfolio = []*Business{saasBusiness("biz-a", 2_500), saasBusiness("biz-b", 2_500)}
		st.Draws = 5
		if _, err := e.Apply(st, Action{Kind: KindForgePlatform, ForgePlatform: &ForgePlatformAction{RecipeID: "vertical_saas", MemberIDs: []string{"biz-a", "biz-b"}}}); err == nil {
			t.Fatalf("unaffordable forge allowed")
		}
		if st.Draws != 5 {
			t.Fatalf("rejection consumed draws")
		}
	})

	t.Run("wrong sub type", func(t *testing.T) {
		st := testState(10_000)
		a := saasBusiness("biz-a", 2_500)
		b := saasBusiness("biz-b", 2_500)
		b.SubType = "dev_agency" // software, but outside the recipe
		st.Portfolio = []*Business{a, b}
		if _, err := e.Apply(st, Action{Kind: KindForgePlatform, ForgePlatform: &ForgePlatformAction{RecipeID: "vertical_saas", MemberIDs: []string{"biz-a", "biz-b"}}}); err == nil {
			t.Fatalf("off-recipe sub-type forged")
		}
	})

	t.Run("already forged member", func(t *testing.T) {
		st := testState(10_000)
		a := saasBusiness("biz-a", 2_500)
		b := saasBusiness("biz-b", 2_500)
		st.Portfolio = []*Business{a, b}
		st.Platforms = []*Platform{{ID: "plat-0", RecipeID: "vertical_saas", Members: []string{a.ID}, Forged: true}}
		a.PlatformID = "plat-0"
		if _, err := e.Apply(st, Action{Kind: KindForgePlatform, ForgePlatform: &ForgePlatformAction{RecipeID: "vertical_saas", MemberIDs: []string{"biz-a", "biz-b"}}}); err == nil {
			t.Fatalf("double forge allowed")
		}
	})
}

func TestSellingMemberKeepsPlatformScale(t *testing.T) {
	e := newTestEngine()
	st := testState(0)
	a := saasBusiness("biz-a", 2_500)
	b := saasBusiness("biz-b", 2_500)
	st.Portfolio = []*Business{a, b}
	st.Platforms = []*Platform{{ID: "plat-1", RecipeID: "vertical_saas", Members: []string{a.ID, b.ID}, Scale: 4, Forged: true}}
	a.PlatformID = "plat-1"
	b.PlatformID = "plat-1"

	if _, err := e.Apply(st, Action{Kind: KindSell, Sell: &SellAction{BusinessID: "biz-a"}}); err != nil {
		t.Fatalf("sell: %v", err)
	}
	p := st.platform("plat-1")
	if p.Scale != 4 {
		t.Fatalf("scale moved on member exit: %d", p.Scale)
	}
	if len(p.Members) != 1 || p.Members[0] != "biz-b" {
		t.Fatalf("membership not updated: %v", p.Members)
	}
	if a.PlatformID != "" {
		t.Fatalf("sold business still attached")
	}
}
