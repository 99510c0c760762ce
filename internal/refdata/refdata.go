// Package refdata supplies the immutable configuration tables the simulation
// engine consumes: sector economics, platform recipes, shared services,
// sourcing and turnaround tiers, difficulty modes, and the tuning knobs.
// The engine never hard-codes a balance number; everything lives here so the
// game can be rebalanced without touching engine logic.
package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Range is an inclusive [Min, Max] draw range.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sector describes the economics of one industry vertical. Money fields are
// in units (1 unit = $1k of EBITDA or price).
type Sector struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	SubTypes             []string `yaml:"sub_types"`
	EBITDA               Range    `yaml:"ebitda"`
	Multiple             Range    `yaml:"multiple"`
	Growth               Range    `yaml:"growth"`
	MarginDrift          Range    `yaml:"margin_drift"`
	BaseMargin           Range    `yaml:"base_margin"`
	CapExRate            float64  `yaml:"capex_rate"`
	RecessionSensitivity float64  `yaml:"recession_sensitivity"`
	Volatility           float64  `yaml:"volatility"`
	QualityCeiling       int      `yaml:"quality_ceiling"`
}

// SharedService is a holdco-level capability with an unlock cost, an annual
// cost, and the operating effects it grants every portfolio business.
type SharedService struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	UnlockCost       float64 `yaml:"unlock_cost"`
	AnnualCost       float64 `yaml:"annual_cost"`
	GrowthBonus      float64 `yaml:"growth_bonus"`
	MarginDefense    float64 `yaml:"margin_defense"`
	CapExReduction   float64 `yaml:"capex_reduction"`
	IntegrationBonus float64 `yaml:"integration_bonus"`
	TaxShieldRate    float64 `yaml:"tax_shield_rate"`
	MinPortfolio     int     `yaml:"min_portfolio"`
}

// SourcingTier gates deal flow quality and the financing structures a player
// may use.
type SourcingTier struct {
	Tier         int      `yaml:"tier"`
	Name         string   `yaml:"name"`
	UnlockCost   float64  `yaml:"unlock_cost"`
	AnnualCost   float64  `yaml:"annual_cost"`
	ExtraDeals   int      `yaml:"extra_deals"`
	QualityFloor int      `yaml:"quality_floor"`
	Structures   []string `yaml:"structures"`
}

// TurnaroundProgram is one quality-transition play within a tier.
type TurnaroundProgram struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	FromQuality   int     `yaml:"from_quality"`
	TargetQuality int     `yaml:"target_quality"`
	Duration      int     `yaml:"duration"`
	CostRate      float64 `yaml:"cost_rate"` // fraction of business EBITDA, charged upfront
	SuccessP      float64 `yaml:"success_p"`
	PartialP      float64 `yaml:"partial_p"`
	SuccessBoost  float64 `yaml:"success_boost"` // EBITDA uplift fraction on success
	PartialBoost  float64 `yaml:"partial_boost"`
	FailPenalty   float64 `yaml:"fail_penalty"` // EBITDA haircut fraction on failure
}

// TurnaroundTier unlocks a set of programs once the portfolio is big enough.
type TurnaroundTier struct {
	Tier         int                 `yaml:"tier"`
	Name         string              `yaml:"name"`
	UnlockCost   float64             `yaml:"unlock_cost"`
	AnnualCost   float64             `yaml:"annual_cost"`
	MinPortfolio int                 `yaml:"min_portfolio"`
	Programs     []TurnaroundProgram `yaml:"programs"`
}

// PlatformRecipe defines a forgeable sector/sub-type combination.
type PlatformRecipe struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	Sector              string   `yaml:"sector"`
	SubTypes            []string `yaml:"sub_types"`
	MinBusinesses       int      `yaml:"min_businesses"`
	MinCombinedEBITDA   float64  `yaml:"min_combined_ebitda"`
	MarginBonus         Range    `yaml:"margin_bonus"` // percentage points
	GrowthBonus         Range    `yaml:"growth_bonus"`
	MultipleExpansion   float64  `yaml:"multiple_expansion"` // added after the premium cap
	RecessionResistance float64  `yaml:"recession_resistance"`
}

// Structure fixes one financing structure's split of price, rates, and
// amortization. Fractions are of the (possibly discounted) price and must
// sum to one.
type Structure struct {
	ID             string  `yaml:"id"`
	EquityFrac     float64 `yaml:"equity_frac"`
	SellerNoteFrac float64 `yaml:"seller_note_frac"`
	BankDebtFrac   float64 `yaml:"bank_debt_frac"`
	EarnoutFrac    float64 `yaml:"earnout_frac"`
	RolloverFrac   float64 `yaml:"rollover_frac"`
	SellerNoteRate float64 `yaml:"seller_note_rate"`
	BankDebtRate   float64 `yaml:"bank_debt_rate"`
	SellerNoteTerm int     `yaml:"seller_note_term"`
	BankDebtTerm   int     `yaml:"bank_debt_term"`
	EarnoutYears   int     `yaml:"earnout_years"`
	MinQuality     int     `yaml:"min_quality"`
	UsesBankDebt   bool    `yaml:"uses_bank_debt"`
}

// Mode is a difficulty/duration configuration.
type Mode struct {
	ID                    string  `yaml:"id"`
	Name                  string  `yaml:"name"`
	StartingCapital       float64 `yaml:"starting_capital"`
	FounderOwnership      float64 `yaml:"founder_ownership"`
	SharesOutstanding     int64   `yaml:"shares_outstanding"`
	MaxRounds             int     `yaml:"max_rounds"`
	LeaderboardMultiplier float64 `yaml:"leaderboard_multiplier"`
	ForgeThresholdScale   float64 `yaml:"forge_threshold_scale"`
}

// Tuning holds every scalar balance knob the engine reads. The values here
// are product-tuning defaults, not invariants; tests pin behavior through
// these fields rather than literals.
type Tuning struct {
	// Pipeline.
	DealsPerRoundMin   int     `yaml:"deals_per_round_min"`
	DealsPerRoundMax   int     `yaml:"deals_per_round_max"`
	StretchMin         float64 `yaml:"stretch_min"`
	StretchMax         float64 `yaml:"stretch_max"`
	DealFreshness      int     `yaml:"deal_freshness"`
	LateGameRound      int     `yaml:"late_game_round"`
	LateGameMultAdder  float64 `yaml:"late_game_mult_adder"`
	CrisisMultFactor   float64 `yaml:"crisis_mult_factor"`
	MaxMultInflation   float64 `yaml:"max_mult_inflation"`
	ContestedLossP     float64 `yaml:"contested_loss_p"`
	HotPricePremium    float64 `yaml:"hot_price_premium"`
	ColdPriceDiscount  float64 `yaml:"cold_price_discount"`
	LeverageHeadroomAt float64 `yaml:"leverage_headroom_at"` // leverage at which headroom hits zero

	// Integration.
	IntegrationBaseP    float64 `yaml:"integration_base_p"`
	IntegrationDrag     float64 `yaml:"integration_drag"`
	TroubledCostRate    float64 `yaml:"troubled_cost_rate"` // fraction of acquired EBITDA
	TroubledDragDecay   float64 `yaml:"troubled_drag_decay"`
	SynergyTuckIn       float64 `yaml:"synergy_tuck_in"`
	SynergyStandalone   float64 `yaml:"synergy_standalone"`
	SynergyMerger       float64 `yaml:"synergy_merger"`
	RockyCaptureTuckIn  float64 `yaml:"rocky_capture_tuck_in"`
	RockyCaptureOther   float64 `yaml:"rocky_capture_other"`
	TroubledCapture     float64 `yaml:"troubled_capture"`

	// Operating model.
	GrowthClampMin  float64 `yaml:"growth_clamp_min"`
	GrowthClampMax  float64 `yaml:"growth_clamp_max"`
	MarginFloor     float64 `yaml:"margin_floor"`
	MarginCeiling   float64 `yaml:"margin_ceiling"`
	EBITDAFloorRate float64 `yaml:"ebitda_floor_rate"` // of EBITDA at acquisition

	// Cash flow & tax.
	TaxRate float64 `yaml:"tax_rate"`

	// Covenants.
	ElevatedAt          float64 `yaml:"elevated_at"`
	WatchAt             float64 `yaml:"watch_at"`
	BreachAt            float64 `yaml:"breach_at"`
	WatchRatePenalty    float64 `yaml:"watch_rate_penalty"`
	BreachRatePenalty   float64 `yaml:"breach_rate_penalty"`
	BreachRoundsToBust  int     `yaml:"breach_rounds_to_bust"`
	RestructurePenalty  float64 `yaml:"restructure_penalty"` // final-valuation multiplier
	DistressedSaleRate  float64 `yaml:"distressed_sale_rate"`
	EmergencyDiscount   float64 `yaml:"emergency_discount"`
	FounderFloor        float64 `yaml:"founder_floor"`

	// Platforms & turnarounds.
	TuckInDiscountMin float64 `yaml:"tuck_in_discount_min"`
	TuckInDiscountMax float64 `yaml:"tuck_in_discount_max"`
	ForgeCostMin      float64 `yaml:"forge_cost_min"`
	ForgeCostMax      float64 `yaml:"forge_cost_max"`
	MergeScaleBonus   int     `yaml:"merge_scale_bonus"`
	FatigueAt         int     `yaml:"fatigue_at"`
	FatiguePenalty    float64 `yaml:"fatigue_penalty"`

	// Exit valuation.
	ExitFloor            float64 `yaml:"exit_floor"`
	GrowthPremiumCap     float64 `yaml:"growth_premium_cap"`
	QualityPremiumStep   float64 `yaml:"quality_premium_step"`
	HoldPremiumPerYear   float64 `yaml:"hold_premium_per_year"`
	HoldPremiumCap       float64 `yaml:"hold_premium_cap"`
	ImprovementsCap      float64 `yaml:"improvements_cap"`
	TurnaroundPremium    float64 `yaml:"turnaround_premium"`
	MarketPremium        float64 `yaml:"market_premium"`
	PremiumCapBase       float64 `yaml:"premium_cap_base"`
	PremiumCapBaseFactor float64 `yaml:"premium_cap_base_factor"`
	ScalePremiumRate     float64 `yaml:"scale_premium_rate"`

	// Events.
	RecessionP            float64 `yaml:"recession_p"`
	BullP                 float64 `yaml:"bull_p"`
	CreditTightenP        float64 `yaml:"credit_tighten_p"`
	SectorShockP          float64 `yaml:"sector_shock_p"`
	SectorShockImpact     float64 `yaml:"sector_shock_impact"`
	BullGrowthLift        float64 `yaml:"bull_growth_lift"`
	RecessionGrowthImpact float64 `yaml:"recession_growth_impact"` // scaled by sector sensitivity
}

// Tables bundles everything the engine reads.
type Tables struct {
	Sectors         []Sector         `yaml:"sectors"`
	Services        []SharedService  `yaml:"services"`
	SourcingTiers   []SourcingTier   `yaml:"sourcing_tiers"`
	TurnaroundTiers []TurnaroundTier `yaml:"turnaround_tiers"`
	Recipes         []PlatformRecipe `yaml:"recipes"`
	Structures      []Structure      `yaml:"structures"`
	Modes           []Mode           `yaml:"modes"`
	Tuning          Tuning           `yaml:"tuning"`
}

// Load reads a YAML override file on top of the defaults. Missing file is an
// error; callers that want pure defaults use Default directly.
func Load(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read refdata: %w", err)
	}
	t := Default()
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse refdata: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate catches override files that would break engine assumptions.
func (t *Tables) Validate() error {
	if len(t.Sectors) == 0 {
		return fmt.Errorf("refdata: at least one sector is required")
	}
	for _, s := range t.Sectors {
		if s.QualityCeiling < 1 || s.QualityCeiling > 5 {
			return fmt.Errorf("refdata: sector %s quality ceiling %d out of 1..5", s.ID, s.QualityCeiling)
		}
		if len(s.SubTypes) == 0 {
			return fmt.Errorf("refdata: sector %s has no sub-types", s.ID)
		}
	}
	if t.Tuning.BreachAt <= t.Tuning.WatchAt || t.Tuning.WatchAt <= t.Tuning.ElevatedAt {
		return fmt.Errorf("refdata: covenant thresholds must be strictly increasing")
	}
	if t.Tuning.MarginFloor <= 0 || t.Tuning.MarginCeiling <= t.Tuning.MarginFloor {
		return fmt.Errorf("refdata: margin bounds invalid")
	}
	for _, m := range t.Modes {
		if m.MaxRounds <= 0 {
			return fmt.Errorf("refdata: mode %s max rounds must be positive", m.ID)
		}
	}
	for _, s := range t.Structures {
		sum := s.EquityFrac + s.SellerNoteFrac + s.BankDebtFrac + s.EarnoutFrac + s.RolloverFrac
		if sum < 0.999 || sum > 1.001 {
			return fmt.Errorf("refdata: structure %s fractions sum to %.3f, want 1", s.ID, sum)
		}
	}
	return nil
}

func (t *Tables) Sector(id string) (Sector, bool) {
	for _, s := range t.Sectors {
		if s.ID == id {
			return s, true
		}
	}
	return Sector{}, false
}

func (t *Tables) Service(id string) (SharedService, bool) {
	for _, s := range t.Services {
		if s.ID == id {
			return s, true
		}
	}
	return SharedService{}, false
}

func (t *Tables) Recipe(id string) (PlatformRecipe, bool) {
	for _, r := range t.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return PlatformRecipe{}, false
}

// RecipeFor finds the first recipe matching a sector/sub-type pair.
func (t *Tables) RecipeFor(sector, subType string) (PlatformRecipe, bool) {
	for _, r := range t.Recipes {
		if r.Sector != sector {
			continue
		}
		for _, st := range r.SubTypes {
			if st == subType {
				return r, true
			}
		}
	}
	return PlatformRecipe{}, false
}

func (t *Tables) Structure(id string) (Structure, bool) {
	for _, s := range t.Structures {
		if s.ID == id {
			return s, true
		}
	}
	return Structure{}, false
}

func (t *Tables) Mode(id string) (Mode, bool) {
	for _, m := range t.Modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

func (t *Tables) SourcingTier(tier int) (SourcingTier, bool) {
	for _, s := range t.SourcingTiers {
		if s.Tier == tier {
			return s, true
		}
	}
	return SourcingTier{}, false
}

func (t *Tables) TurnaroundTier(tier int) (TurnaroundTier, bool) {
	for _, s := range t.TurnaroundTiers {
		if s.Tier == tier {
			return s, true
		}
	}
	return TurnaroundTier{}, false
}

// Program resolves a program id across all tiers, returning its tier too.
func (t *Tables) Program(id string) (TurnaroundProgram, int, bool) {
	for _, tier := range t.TurnaroundTiers {
		for _, p := range tier.Programs {
			if p.ID == id {
				return p, tier.Tier, true
			}
		}
	}
	return TurnaroundProgram{}, 0, false
}
