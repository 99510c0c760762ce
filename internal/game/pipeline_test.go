package game

import "testing"

func TestGeneratedDealsStayInBounds(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)
	rng := NewRNG(101)

	for i := 0; i < 500; i++ {
		d := e.generateDeal(st, rng)
		sector, ok := e.Tables().Sector(d.Sector)
		if !ok {
			t.Fatalf("deal %d: unknown sector %q", i, d.Sector)
		}
		mult := CentiToMult(d.AskMultCenti)
		if mult < 1.5 || mult > sector.Multiple.Max+2.0 {
			t.Fatalf("deal %d: multiple %v out of band for %s", i, mult, d.Sector)
		}
		if d.Quality < MinQuality || d.Quality > int32(sector.QualityCeiling) {
			t.Fatalf("deal %d: quality %d", i, d.Quality)
		}
		if d.EBITDAMicros <= 0 {
			t.Fatalf("deal %d: EBITDA %d", i, d.EBITDAMicros)
		}
		if len(d.Structures) == 0 {
			t.Fatalf("deal %d: no structures", i)
		}
		if d.Name == "" || d.ID == "" {
			t.Fatalf("deal %d: blank identity", i)
		}
	}
}

func TestSellerArchetypeExclusions(t *testing.T) {
	for _, arch := range []SellerArchetype{SellerDistressed, SellerBurntOut} {
		for _, s := range eligibleStructures(arch) {
			if s == StructRollover || s == StructEarnOut {
				t.Fatalf("%s seller accepts %s", arch, s)
			}
		}
	}
	for _, s := range eligibleStructures(SellerCorporateCarveout) {
		if s == StructRollover || s == StructSellerNote {
			t.Fatalf("carveout accepts %s", s)
		}
	}
	found := map[StructureKind]bool{}
	for _, s := range eligibleStructures(SellerRetiringFounder) {
		found[s] = true
	}
	if len(found) != 6 {
		t.Fatalf("retiring founder should entertain every structure: %v", found)
	}
}

func TestRefreshPipelineAgesAndBackfills(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)
	st.Deals = []Deal{
		{ID: "deal-old", Freshness: 1, Heat: HeatWarm},
		{ID: "deal-fresh", Freshness: 2, Heat: HeatWarm},
	}

	e.refreshPipeline(st, NewRNG(55))

	for _, d := range st.Deals {
		if d.ID == "deal-old" {
			t.Fatalf("stale deal survived aging")
		}
	}
	keptFresh := false
	for _, d := range st.Deals {
		if d.ID == "deal-fresh" {
			keptFresh = true
			if d.Freshness != 1 {
				t.Fatalf("freshness not decremented: %d", d.Freshness)
			}
		}
	}
	if !keptFresh {
		t.Fatalf("fresh deal dropped")
	}
	if len(st.Deals) < 3 || len(st.Deals) > 5 {
		t.Fatalf("pipeline size %d", len(st.Deals))
	}
}

func TestSourcingTierWidensThePipeline(t *testing.T) {
	e := newTestEngine()

	sizes := func(tier int) int {
		st := testState(5_000)
		st.SourcingTier = tier
		e.refreshPipeline(st, NewRNG(7))
		return len(st.Deals)
	}
	if sizes(3) != sizes(1)+2 {
		t.Fatalf("tier 3 should add two deals: tier1=%d tier3=%d", sizes(1), sizes(3))
	}
}

func TestLeverageHeadroomShrinksDealSizing(t *testing.T) {
	e := newTestEngine()

	clean := testState(5_000)
	if got := e.leverageHeadroom(clean); got != 1.0 {
		t.Fatalf("unlevered headroom %v", got)
	}

	levered := stateWithLeverage(1_000, 4.0)
	if got := e.leverageHeadroom(levered); got >= 0.25+1e-9 {
		t.Fatalf("near-ceiling headroom %v, want the 0.25 floor", got)
	}
}

func TestTierForBudgetLadder(t *testing.T) {
	tests := []struct {
		budgetUnits float64
		want        string
	}{
		{500, "micro"},
		{4_000, "small"},
		{10_000, "lower_mid"},
		{15_000, "mid"},
		{30_000, "upper_mid"},
		{60_000, "large"},
		{120_000, "trophy"},
	}
	for _, tc := range tests {
		got := tierForBudget(tc.budgetUnits * float64(MicrosPerUnit))
		if got.Name != tc.want {
			t.Fatalf("budget=%v got=%s want=%s", tc.budgetUnits, got.Name, tc.want)
		}
	}
}
