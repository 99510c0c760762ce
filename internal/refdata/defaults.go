package refdata

// Default returns the shipped balance tables. Override individual values via
// a YAML file passed to Load.
func Default() *Tables {
	return &Tables{
		Sectors: []Sector{
			{
				ID: "home_services", Name: "Home Services",
				SubTypes:    []string{"hvac", "plumbing", "roofing", "landscaping"},
				EBITDA:      Range{Min: 300, Max: 3_000},
				Multiple:    Range{Min: 3.0, Max: 5.0},
				Growth:      Range{Min: 0.01, Max: 0.06},
				MarginDrift: Range{Min: -0.010, Max: 0.008},
				BaseMargin:  Range{Min: 0.12, Max: 0.22},
				CapExRate:   0.06, RecessionSensitivity: 0.6, Volatility: 0.015, QualityCeiling: 4,
			},
			{
				ID: "software", Name: "Vertical Software",
				SubTypes:    []string{"saas", "managed_it", "dev_agency"},
				EBITDA:      Range{Min: 500, Max: 8_000},
				Multiple:    Range{Min: 5.0, Max: 9.0},
				Growth:      Range{Min: 0.03, Max: 0.14},
				MarginDrift: Range{Min: -0.008, Max: 0.014},
				BaseMargin:  Range{Min: 0.20, Max: 0.40},
				CapExRate:   0.03, RecessionSensitivity: 0.4, Volatility: 0.025, QualityCeiling: 5,
			},
			{
				ID: "healthcare", Name: "Healthcare Services",
				SubTypes:    []string{"dental", "vet", "home_health", "med_spa"},
				EBITDA:      Range{Min: 400, Max: 5_000},
				Multiple:    Range{Min: 4.0, Max: 7.0},
				Growth:      Range{Min: 0.02, Max: 0.08},
				MarginDrift: Range{Min: -0.006, Max: 0.010},
				BaseMargin:  Range{Min: 0.15, Max: 0.28},
				CapExRate:   0.05, RecessionSensitivity: 0.25, Volatility: 0.012, QualityCeiling: 5,
			},
			{
				ID: "manufacturing", Name: "Niche Manufacturing",
				SubTypes:    []string{"precision", "packaging", "industrial_parts"},
				EBITDA:      Range{Min: 600, Max: 10_000},
				Multiple:    Range{Min: 3.5, Max: 6.0},
				Growth:      Range{Min: 0.00, Max: 0.05},
				MarginDrift: Range{Min: -0.012, Max: 0.008},
				BaseMargin:  Range{Min: 0.10, Max: 0.20},
				CapExRate:   0.10, RecessionSensitivity: 0.85, Volatility: 0.020, QualityCeiling: 4,
			},
			{
				ID: "logistics", Name: "Logistics & Distribution",
				SubTypes:    []string{"freight", "warehousing", "last_mile"},
				EBITDA:      Range{Min: 500, Max: 7_000},
				Multiple:    Range{Min: 3.0, Max: 5.5},
				Growth:      Range{Min: 0.01, Max: 0.07},
				MarginDrift: Range{Min: -0.014, Max: 0.008},
				BaseMargin:  Range{Min: 0.08, Max: 0.16},
				CapExRate:   0.09, RecessionSensitivity: 0.75, Volatility: 0.022, QualityCeiling: 4,
			},
			{
				ID: "consumer", Name: "Consumer Brands",
				SubTypes:    []string{"food_bev", "personal_care", "outdoor"},
				EBITDA:      Range{Min: 300, Max: 6_000},
				Multiple:    Range{Min: 4.0, Max: 8.0},
				Growth:      Range{Min: 0.00, Max: 0.10},
				MarginDrift: Range{Min: -0.012, Max: 0.012},
				BaseMargin:  Range{Min: 0.10, Max: 0.24},
				CapExRate:   0.05, RecessionSensitivity: 0.7, Volatility: 0.030, QualityCeiling: 5,
			},
		},
		Services: []SharedService{
			{ID: "finance_ops", Name: "Finance & Accounting Ops", UnlockCost: 400, AnnualCost: 150, MarginDefense: 0.003, TaxShieldRate: 0.02, MinPortfolio: 2},
			{ID: "recruiting", Name: "Central Recruiting", UnlockCost: 500, AnnualCost: 200, GrowthBonus: 0.008, IntegrationBonus: 0.04, MinPortfolio: 2},
			{ID: "procurement", Name: "Group Procurement", UnlockCost: 700, AnnualCost: 250, MarginDefense: 0.004, CapExReduction: 0.15, MinPortfolio: 3},
			{ID: "revops", Name: "Revenue Operations", UnlockCost: 900, AnnualCost: 350, GrowthBonus: 0.012, MinPortfolio: 4},
			{ID: "integration_pmo", Name: "Integration PMO", UnlockCost: 600, AnnualCost: 220, IntegrationBonus: 0.08, MinPortfolio: 3},
		},
		SourcingTiers: []SourcingTier{
			{Tier: 1, Name: "Proprietary Outreach", UnlockCost: 0, AnnualCost: 0, ExtraDeals: 0, QualityFloor: 1,
				Structures: []string{"all_cash", "seller_note", "earn_out"}},
			{Tier: 2, Name: "Buy-Side Advisors", UnlockCost: 800, AnnualCost: 300, ExtraDeals: 1, QualityFloor: 2,
				Structures: []string{"all_cash", "seller_note", "earn_out", "bank_debt", "rollover"}},
			{Tier: 3, Name: "Institutional Coverage", UnlockCost: 2_000, AnnualCost: 700, ExtraDeals: 2, QualityFloor: 2,
				Structures: []string{"all_cash", "seller_note", "earn_out", "bank_debt", "rollover", "lbo"}},
		},
		TurnaroundTiers: []TurnaroundTier{
			{Tier: 1, Name: "Operating Playbooks", UnlockCost: 500, AnnualCost: 200, MinPortfolio: 2,
				Programs: []TurnaroundProgram{
					{ID: "pricing_reset", Name: "Pricing Reset", FromQuality: 1, TargetQuality: 2, Duration: 1, CostRate: 0.10, SuccessP: 0.60, PartialP: 0.25, SuccessBoost: 0.08, PartialBoost: 0.04, FailPenalty: 0.03},
					{ID: "ops_cleanup", Name: "Ops Cleanup", FromQuality: 2, TargetQuality: 3, Duration: 2, CostRate: 0.12, SuccessP: 0.55, PartialP: 0.25, SuccessBoost: 0.10, PartialBoost: 0.05, FailPenalty: 0.04},
				}},
			{Tier: 2, Name: "Professionalization", UnlockCost: 1_200, AnnualCost: 450, MinPortfolio: 4,
				Programs: []TurnaroundProgram{
					{ID: "mgmt_upgrade", Name: "Management Upgrade", FromQuality: 2, TargetQuality: 4, Duration: 2, CostRate: 0.18, SuccessP: 0.45, PartialP: 0.30, SuccessBoost: 0.15, PartialBoost: 0.07, FailPenalty: 0.05},
					{ID: "systems_rollout", Name: "Systems Rollout", FromQuality: 3, TargetQuality: 4, Duration: 2, CostRate: 0.15, SuccessP: 0.50, PartialP: 0.30, SuccessBoost: 0.12, PartialBoost: 0.06, FailPenalty: 0.04},
				}},
			{Tier: 3, Name: "Full Transformation", UnlockCost: 2_500, AnnualCost: 900, MinPortfolio: 6,
				Programs: []TurnaroundProgram{
					{ID: "transformation", Name: "Transformation Office", FromQuality: 1, TargetQuality: 4, Duration: 3, CostRate: 0.25, SuccessP: 0.35, PartialP: 0.35, SuccessBoost: 0.22, PartialBoost: 0.10, FailPenalty: 0.08},
					{ID: "flagship_push", Name: "Flagship Push", FromQuality: 4, TargetQuality: 5, Duration: 2, CostRate: 0.20, SuccessP: 0.40, PartialP: 0.30, SuccessBoost: 0.14, PartialBoost: 0.06, FailPenalty: 0.05},
				}},
		},
		Recipes: []PlatformRecipe{
			{ID: "trade_services", Name: "Trade Services Group", Sector: "home_services",
				SubTypes: []string{"hvac", "plumbing", "roofing"}, MinBusinesses: 2, MinCombinedEBITDA: 2_500,
				MarginBonus: Range{Min: 0.03, Max: 0.05}, GrowthBonus: Range{Min: 0.01, Max: 0.03},
				MultipleExpansion: 1.2, RecessionResistance: 0.20},
			{ID: "vertical_saas", Name: "Vertical SaaS Suite", Sector: "software",
				SubTypes: []string{"saas", "managed_it"}, MinBusinesses: 2, MinCombinedEBITDA: 4_000,
				MarginBonus: Range{Min: 0.03, Max: 0.05}, GrowthBonus: Range{Min: 0.02, Max: 0.04},
				MultipleExpansion: 2.0, RecessionResistance: 0.30},
			{ID: "care_network", Name: "Care Network", Sector: "healthcare",
				SubTypes: []string{"dental", "vet", "home_health"}, MinBusinesses: 3, MinCombinedEBITDA: 3_500,
				MarginBonus: Range{Min: 0.03, Max: 0.04}, GrowthBonus: Range{Min: 0.01, Max: 0.03},
				MultipleExpansion: 1.5, RecessionResistance: 0.35},
			{ID: "industrial_group", Name: "Industrial Components Group", Sector: "manufacturing",
				SubTypes: []string{"precision", "industrial_parts"}, MinBusinesses: 2, MinCombinedEBITDA: 4_500,
				MarginBonus: Range{Min: 0.03, Max: 0.05}, GrowthBonus: Range{Min: 0.01, Max: 0.02},
				MultipleExpansion: 1.0, RecessionResistance: 0.15},
			{ID: "supply_chain", Name: "Integrated Supply Chain", Sector: "logistics",
				SubTypes: []string{"freight", "warehousing", "last_mile"}, MinBusinesses: 2, MinCombinedEBITDA: 3_000,
				MarginBonus: Range{Min: 0.03, Max: 0.04}, GrowthBonus: Range{Min: 0.02, Max: 0.04},
				MultipleExpansion: 1.1, RecessionResistance: 0.18},
		},
		Structures: []Structure{
			{ID: "all_cash", EquityFrac: 1.0},
			{ID: "seller_note", EquityFrac: 0.60, SellerNoteFrac: 0.40, SellerNoteRate: 0.06, SellerNoteTerm: 4},
			{ID: "bank_debt", EquityFrac: 0.50, BankDebtFrac: 0.50, BankDebtRate: 0.08, BankDebtTerm: 5, UsesBankDebt: true},
			{ID: "earn_out", EquityFrac: 0.70, EarnoutFrac: 0.30, EarnoutYears: 3},
			{ID: "lbo", EquityFrac: 0.30, BankDebtFrac: 0.70, BankDebtRate: 0.10, BankDebtTerm: 6, MinQuality: 3, UsesBankDebt: true},
			{ID: "rollover", EquityFrac: 0.80, RolloverFrac: 0.20},
		},
		Modes: []Mode{
			{ID: "standard_10", Name: "Standard / 10 Years", StartingCapital: 5_000, FounderOwnership: 1.0, SharesOutstanding: 1_000_000, MaxRounds: 10, LeaderboardMultiplier: 0.9, ForgeThresholdScale: 1.0},
			{ID: "standard_20", Name: "Standard / 20 Years", StartingCapital: 5_000, FounderOwnership: 1.0, SharesOutstanding: 1_000_000, MaxRounds: 20, LeaderboardMultiplier: 1.0, ForgeThresholdScale: 1.25},
			{ID: "hard_10", Name: "Hard / 10 Years", StartingCapital: 3_000, FounderOwnership: 1.0, SharesOutstanding: 1_000_000, MaxRounds: 10, LeaderboardMultiplier: 1.35, ForgeThresholdScale: 1.0},
			{ID: "hard_20", Name: "Hard / 20 Years", StartingCapital: 3_000, FounderOwnership: 1.0, SharesOutstanding: 1_000_000, MaxRounds: 20, LeaderboardMultiplier: 1.5, ForgeThresholdScale: 1.25},
		},
		Tuning: Tuning{
			DealsPerRoundMin: 3, DealsPerRoundMax: 5,
			StretchMin: 0.8, StretchMax: 2.2,
			DealFreshness: 2, LateGameRound: 7,
			LateGameMultAdder: 0.5, CrisisMultFactor: 0.85, MaxMultInflation: 2.0,
			ContestedLossP: 0.35, HotPricePremium: 0.10, ColdPriceDiscount: 0.05,
			LeverageHeadroomAt: 4.5,

			IntegrationBaseP: 0.55, IntegrationDrag: 0.03,
			TroubledCostRate: 0.15, TroubledDragDecay: 0.5,
			SynergyTuckIn: 0.12, SynergyStandalone: 0.04, SynergyMerger: 0.09,
			RockyCaptureTuckIn: 0.40, RockyCaptureOther: 0.33, TroubledCapture: 0.35,

			GrowthClampMin: -0.10, GrowthClampMax: 0.20,
			MarginFloor: 0.03, MarginCeiling: 0.80, EBITDAFloorRate: 0.30,

			TaxRate: 0.30,

			ElevatedAt: 2.5, WatchAt: 3.5, BreachAt: 4.5,
			WatchRatePenalty: 0.01, BreachRatePenalty: 0.02,
			BreachRoundsToBust: 2, RestructurePenalty: 0.85,
			DistressedSaleRate: 0.70, EmergencyDiscount: 0.30, FounderFloor: 0.51,

			TuckInDiscountMin: 0.05, TuckInDiscountMax: 0.25,
			ForgeCostMin: 0.18, ForgeCostMax: 0.25,
			MergeScaleBonus: 2, FatigueAt: 4, FatiguePenalty: 0.10,

			ExitFloor: 2.0, GrowthPremiumCap: 1.5, QualityPremiumStep: 0.4,
			HoldPremiumPerYear: 0.1, HoldPremiumCap: 0.8, ImprovementsCap: 0.6,
			TurnaroundPremium: 0.5, MarketPremium: 0.5,
			PremiumCapBase: 10, PremiumCapBaseFactor: 1.5, ScalePremiumRate: 0.6,

			RecessionP: 0.10, BullP: 0.12, CreditTightenP: 0.08,
			SectorShockP: 0.06, SectorShockImpact: 0.12,
			BullGrowthLift: 0.02, RecessionGrowthImpact: 0.06,
		},
	}
}
