package game

import "holdco/internal/refdata"

// dealTier buckets deal size. The ladder is structural (seven rungs, micro
// through trophy); the prices inside each rung come from sector tables.
type dealTier struct {
	Name         string
	EBITDAMin    float64 // units
	EBITDAMax    float64
	QualityFloor int32
	MultAdder    float64
}

var dealTiers = []dealTier{
	{Name: "micro", EBITDAMin: 150, EBITDAMax: 500, QualityFloor: 1, MultAdder: -0.5},
	{Name: "small", EBITDAMin: 400, EBITDAMax: 1_000, QualityFloor: 1, MultAdder: -0.25},
	{Name: "lower_mid", EBITDAMin: 800, EBITDAMax: 2_000, QualityFloor: 2, MultAdder: 0},
	{Name: "mid", EBITDAMin: 1_500, EBITDAMax: 4_000, QualityFloor: 2, MultAdder: 0.25},
	{Name: "upper_mid", EBITDAMin: 3_000, EBITDAMax: 8_000, QualityFloor: 3, MultAdder: 0.5},
	{Name: "large", EBITDAMin: 6_000, EBITDAMax: 15_000, QualityFloor: 3, MultAdder: 0.9},
	{Name: "trophy", EBITDAMin: 12_000, EBITDAMax: 30_000, QualityFloor: 4, MultAdder: 1.4},
}

var dealNameLead = []string{"Summit", "Cedar", "Harbor", "Blue Ridge", "Ironwood", "Lakeside", "Pioneer", "Granite", "Redwood", "Crescent", "North Fork", "Beacon", "Silverline", "Oakmont", "Caldera", "Highline"}
var dealNameTail = []string{"Group", "Holdings", "Partners", "Industries", "Services", "Works", "Co", "Brands", "Solutions", "Operations"}

// refreshPipeline opens a round's deal book: age what is on the table, let
// rivals pre-empt contested deals, then backfill with fresh candidates.
func (e *Engine) refreshPipeline(st *GameState, rng *RNG) {
	t := e.tun()

	kept := st.Deals[:0]
	for _, d := range st.Deals {
		d.Freshness--
		if d.Freshness <= 0 {
			continue
		}
		if d.Heat == HeatContested && rng.Chance(t.ContestedLossP) {
			continue // a competitor closed it first
		}
		kept = append(kept, d)
	}
	st.Deals = kept

	target := t.DealsPerRoundMin + rng.IntN(t.DealsPerRoundMax-t.DealsPerRoundMin+1)
	if tier, ok := e.tables.SourcingTier(st.SourcingTier); ok {
		target += tier.ExtraDeals
	}
	if st.Macro == MacroRecession && target > t.DealsPerRoundMin {
		target-- // sellers pull deals in a downturn
	}
	for len(st.Deals) < target {
		st.Deals = append(st.Deals, e.generateDeal(st, rng))
	}
}

func (e *Engine) generateDeal(st *GameState, rng *RNG) Deal {
	t := e.tun()

	stretch := rng.Between(t.StretchMin, t.StretchMax)
	budget := float64(st.CashMicros) * e.leverageHeadroom(st) * stretch
	tier := tierForBudget(budget)

	sector := e.tables.Sectors[rng.IntN(len(e.tables.Sectors))]
	subType := sector.SubTypes[rng.IntN(len(sector.SubTypes))]

	ebitdaLo := maxFloat(tier.EBITDAMin, sector.EBITDA.Min)
	ebitdaHi := minFloat(tier.EBITDAMax, sector.EBITDA.Max)
	if ebitdaHi <= ebitdaLo {
		ebitdaLo, ebitdaHi = sector.EBITDA.Min, sector.EBITDA.Max
	}
	ebitda := rng.Between(ebitdaLo, ebitdaHi)

	quality := e.drawQuality(st, rng, tier, sector)
	archetype := drawArchetype(rng, quality)
	signals := drawSignals(rng, quality)
	heat := drawHeat(rng, quality)

	mult := rng.Between(sector.Multiple.Min, sector.Multiple.Max)
	mult += tier.MultAdder
	mult += 0.15 * float64(quality-MedianQuality)
	switch heat {
	case HeatHot, HeatContested:
		mult *= 1 + t.HotPricePremium
	case HeatCold:
		mult *= 1 - t.ColdPriceDiscount
	}
	switch st.Macro {
	case MacroBull:
		mult *= 1 + t.HotPricePremium
	case MacroRecession:
		mult *= t.CrisisMultFactor
	}
	if st.Round > t.LateGameRound {
		mult += t.LateGameMultAdder
	}
	// Inflation cap relative to the sector's own band.
	mult = clampFloat(mult, 1.5, sector.Multiple.Max+t.MaxMultInflation)

	name := dealNameLead[rng.IntN(len(dealNameLead))] + " " + dealNameTail[rng.IntN(len(dealNameTail))]

	return Deal{
		ID:           st.nextID("deal"),
		Name:         name,
		Sector:       sector.ID,
		SubType:      subType,
		Tier:         tier.Name,
		Quality:      quality,
		EBITDAMicros: UnitsToMicros(ebitda),
		AskMultCenti: MultToCenti(mult),
		Heat:         heat,
		Archetype:    archetype,
		Structures:   eligibleStructures(archetype),
		Signals:      signals,
		Freshness:    int32(e.tun().DealFreshness),
	}
}

// leverageHeadroom scales deal sizing down as the holdco approaches the
// covenant ceiling.
func (e *Engine) leverageHeadroom(st *GameState) float64 {
	lev := leverageRatio(st)
	head := 1 - lev/e.tun().LeverageHeadroomAt
	return clampFloat(head, 0.25, 1.5)
}

func tierForBudget(budgetMicros float64) dealTier {
	budget := budgetMicros / float64(MicrosPerUnit)
	pick := dealTiers[0]
	for _, tier := range dealTiers {
		// Typical all-in price for the rung: midpoint EBITDA at ~4.5x.
		typical := (tier.EBITDAMin + tier.EBITDAMax) / 2 * 4.5
		if budget >= typical {
			pick = tier
		}
	}
	return pick
}

func (e *Engine) drawQuality(st *GameState, rng *RNG, tier dealTier, sector refdata.Sector) int32 {
	floor := tier.QualityFloor
	if s, ok := e.tables.SourcingTier(st.SourcingTier); ok && int32(s.QualityFloor) > floor {
		floor = int32(s.QualityFloor)
	}
	// Triangular-ish draw: two dice, keep the mean, biased low.
	a := rng.IntN(MaxQuality) + 1
	b := rng.IntN(MaxQuality) + 1
	q := int32((a + b) / 2)
	if q < floor {
		q = floor
	}
	return clampQuality(q, int32(sector.QualityCeiling))
}

// drawArchetype correlates the seller with quality: strong assets come from
// retiring founders and MBO candidates, weak ones from distress.
func drawArchetype(rng *RNG, quality int32) SellerArchetype {
	var weights []float64
	order := []SellerArchetype{
		SellerRetiringFounder, SellerMBOCandidate, SellerCorporateCarveout,
		SellerOpportunistic, SellerDistressed, SellerBurntOut,
	}
	switch {
	case quality >= 4:
		weights = []float64{0.35, 0.25, 0.15, 0.15, 0.04, 0.06}
	case quality == 3:
		weights = []float64{0.22, 0.18, 0.18, 0.20, 0.10, 0.12}
	default:
		weights = []float64{0.08, 0.07, 0.12, 0.18, 0.30, 0.25}
	}
	return order[rng.Weighted(weights)]
}

// drawSignals centers diligence readouts on quality with one notch of noise.
func drawSignals(rng *RNG, quality int32) DiligenceSignals {
	notch := func() int32 {
		v := quality + int32(rng.IntN(3)) - 1
		return clampInt32(v, 1, 5)
	}
	var operator OperatorStrength
	switch o := notch(); {
	case o >= 4:
		operator = OperatorStrong
	case o >= 3:
		operator = OperatorModerate
	default:
		operator = OperatorWeak
	}
	// Concentration runs inverse: better businesses are less concentrated.
	conc := clampInt32(6-notch(), 1, 5)
	return DiligenceSignals{
		Operator:      operator,
		Trend:         notch(),
		Retention:     notch(),
		Competitive:   notch(),
		Concentration: conc,
	}
}

func drawHeat(rng *RNG, quality int32) HeatTier {
	order := []HeatTier{HeatCold, HeatWarm, HeatHot, HeatContested}
	var weights []float64
	switch {
	case quality >= 4:
		weights = []float64{0.10, 0.30, 0.35, 0.25}
	case quality == 3:
		weights = []float64{0.25, 0.40, 0.25, 0.10}
	default:
		weights = []float64{0.45, 0.35, 0.15, 0.05}
	}
	return order[rng.Weighted(weights)]
}

// eligibleStructures lists what the seller will entertain. Distressed and
// burnt-out sellers want out clean: no rollover, no earn-out patience.
func eligibleStructures(archetype SellerArchetype) []StructureKind {
	switch archetype {
	case SellerDistressed, SellerBurntOut:
		return []StructureKind{StructAllCash, StructSellerNote, StructBankDebt, StructLBO}
	case SellerCorporateCarveout:
		return []StructureKind{StructAllCash, StructBankDebt, StructEarnOut, StructLBO}
	default:
		return []StructureKind{StructAllCash, StructSellerNote, StructBankDebt, StructEarnOut, StructLBO, StructRollover}
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
