package game

// Closed string enumerations. Values are stable wire identifiers; switches
// over them are exhaustive with a default that fails loudly.

type CovenantState string

const (
	CovenantHealthy  CovenantState = "healthy"
	CovenantElevated CovenantState = "elevated"
	CovenantWatch    CovenantState = "watch"
	CovenantBreach   CovenantState = "breach"
)

type Lifecycle string

const (
	StatusActive     Lifecycle = "active"
	StatusSold       Lifecycle = "sold"
	StatusMerged     Lifecycle = "merged"
	StatusIntegrated Lifecycle = "integrated"
	StatusWoundDown  Lifecycle = "wound_down"
)

type IntegrationStatus string

const (
	IntegrationPending     IntegrationStatus = "pending"
	IntegrationInProgress  IntegrationStatus = "integrating"
	IntegrationComplete    IntegrationStatus = "complete"
)

type IntegrationOutcome string

const (
	OutcomeSeamless IntegrationOutcome = "seamless"
	OutcomeRocky    IntegrationOutcome = "rocky"
	OutcomeTroubled IntegrationOutcome = "troubled"
)

type AcquisitionType string

const (
	AcqStandalone AcquisitionType = "standalone"
	AcqTuckIn     AcquisitionType = "tuck_in"
	AcqMerger     AcquisitionType = "merger"
)

type HeatTier string

const (
	HeatCold      HeatTier = "cold"
	HeatWarm      HeatTier = "warm"
	HeatHot       HeatTier = "hot"
	HeatContested HeatTier = "contested"
)

type SellerArchetype string

const (
	SellerRetiringFounder  SellerArchetype = "retiring_founder"
	SellerMBOCandidate     SellerArchetype = "mbo_candidate"
	SellerCorporateCarveout SellerArchetype = "corporate_carveout"
	SellerOpportunistic    SellerArchetype = "opportunistic"
	SellerDistressed       SellerArchetype = "distressed"
	SellerBurntOut         SellerArchetype = "burnt_out"
)

type StructureKind string

const (
	StructAllCash    StructureKind = "all_cash"
	StructSellerNote StructureKind = "seller_note"
	StructBankDebt   StructureKind = "bank_debt"
	StructEarnOut    StructureKind = "earn_out"
	StructLBO        StructureKind = "lbo"
	StructRollover   StructureKind = "rollover"
)

type MacroState string

const (
	MacroNeutral        MacroState = "neutral"
	MacroBull           MacroState = "bull"
	MacroRecession      MacroState = "recession"
	MacroCreditTighten  MacroState = "credit_tightening"
	MacroSectorShock    MacroState = "sector_shock"
)

type OperatorStrength string

const (
	OperatorStrong   OperatorStrength = "strong"
	OperatorModerate OperatorStrength = "moderate"
	OperatorWeak     OperatorStrength = "weak"
)

// DebtInstrument amortizes straight-line principal plus interest on the
// declining balance. A zero balance means the instrument is retired.
type DebtInstrument struct {
	BalanceMicros int64 `json:"balance_micros"`
	RateBps       int32 `json:"rate_bps"`
	RemainingTerm int32 `json:"remaining_term"`
}

// Improvement is a permanent bonus applied to a business by a completed
// program or forge.
type Improvement struct {
	Kind         string `json:"kind"`
	AppliedRound int    `json:"applied_round"`
	GrowthBps    int32  `json:"growth_bps"`
	MarginBps    int32  `json:"margin_bps"`
	TierDelta    int32  `json:"tier_delta"`
}

// DiligenceSignals are the due-diligence readouts attached to a deal; they
// persist on the business because integration scoring reads them.
type DiligenceSignals struct {
	Operator      OperatorStrength `json:"operator"`
	Trend         int32            `json:"trend"`
	Retention     int32            `json:"retention"`
	Competitive   int32            `json:"competitive"`
	Concentration int32            `json:"concentration"`
}

type Business struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	SubType string `json:"sub_type"`
	Quality int32  `json:"quality"`

	RevenueMicros    int64 `json:"revenue_micros"`
	MarginBps        int32 `json:"margin_bps"`
	EBITDAMicros     int64 `json:"ebitda_micros"`
	PeakEBITDAMicros int64 `json:"peak_ebitda_micros"`

	// Acquisition anchors; immutable after purchase.
	AcqRound        int   `json:"acq_round"`
	AcqEBITDAMicros int64 `json:"acq_ebitda_micros"`
	AcqPriceMicros  int64 `json:"acq_price_micros"`
	AcqMultCenti    int64 `json:"acq_mult_centi"`
	TotalCostMicros int64 `json:"total_cost_micros"`
	QualityAtAcq    int32 `json:"quality_at_acq"`

	SellerNote DebtInstrument `json:"seller_note"`
	BankDebt   DebtInstrument `json:"bank_debt"`

	RolloverBps   int32 `json:"rollover_bps"`
	EarnoutMicros int64 `json:"earnout_micros"`
	EarnoutExpiry int   `json:"earnout_expiry"`

	Improvements []Improvement    `json:"improvements,omitempty"`
	Signals      DiligenceSignals `json:"signals"`

	Integration       IntegrationStatus  `json:"integration"`
	IntegrationRounds int32              `json:"integration_rounds"`
	IntegrationResult IntegrationOutcome `json:"integration_result,omitempty"`
	IntegrationDragBps int32             `json:"integration_drag_bps"`
	TroubledDragBps    int32             `json:"troubled_drag_bps"`

	PlatformID     string          `json:"platform_id,omitempty"`
	AcqType        AcquisitionType `json:"acq_type"`
	TurnaroundGain int32           `json:"turnaround_gain"`

	Status Lifecycle `json:"status"`
}

// Active reports whether the business still sits in the live portfolio.
func (b *Business) Active() bool {
	return b.Status == StatusActive
}

// DebtMicros is the business-level debt outstanding.
func (b *Business) DebtMicros() int64 {
	return b.SellerNote.BalanceMicros + b.BankDebt.BalanceMicros
}

type Platform struct {
	ID       string   `json:"id"`
	RecipeID string   `json:"recipe_id,omitempty"`
	Name     string   `json:"name"`
	Members  []string `json:"members"`
	Scale    int32    `json:"scale"`
	Forged   bool     `json:"forged"`
	// BonusesApplied guards the one-time constituent mutations of a forge.
	BonusesApplied bool `json:"bonuses_applied"`
	ForgedRound    int  `json:"forged_round,omitempty"`
}

type Deal struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Sector     string           `json:"sector"`
	SubType    string           `json:"sub_type"`
	Tier       string           `json:"tier"`
	Quality    int32            `json:"quality"`
	EBITDAMicros int64          `json:"ebitda_micros"`
	AskMultCenti int64          `json:"ask_mult_centi"`
	Heat       HeatTier         `json:"heat"`
	Archetype  SellerArchetype  `json:"archetype"`
	Structures []StructureKind  `json:"structures"`
	Signals    DiligenceSignals `json:"signals"`
	Freshness  int32            `json:"freshness"`
}

// AskPriceMicros is the headline price before heat adjustments.
func (d *Deal) AskPriceMicros() int64 {
	return mulMicros(d.EBITDAMicros, CentiToMult(d.AskMultCenti))
}

type Turnaround struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	ProgramID  string `json:"program_id"`
	StartRound int    `json:"start_round"`
	RoundsLeft int32  `json:"rounds_left"`
}

// ExitRecord is the tombstone kept when a business leaves the portfolio.
type ExitRecord struct {
	BusinessID     string    `json:"business_id"`
	Name           string    `json:"name"`
	Round          int       `json:"round"`
	Kind           Lifecycle `json:"kind"`
	MultCenti      int64     `json:"mult_centi"`
	ProceedsMicros int64     `json:"proceeds_micros"`
	InvestedMicros int64     `json:"invested_micros"`
}

// TaxShield itemizes the deductions applied in a round's tax computation.
type TaxShield struct {
	InterestMicros   int64 `json:"interest_micros"`
	ServicesMicros   int64 `json:"services_micros"`
	LossOffsetMicros int64 `json:"loss_offset_micros"`
}

// RoundSnapshot is the per-round metrics record. Consumers read these values
// instead of recomputing them.
type RoundSnapshot struct {
	Round            int           `json:"round"`
	Macro            MacroState    `json:"macro"`
	CashMicros       int64         `json:"cash_micros"`
	RevenueMicros    int64         `json:"revenue_micros"`
	EBITDAMicros     int64         `json:"ebitda_micros"`
	NetDebtMicros    int64         `json:"net_debt_micros"`
	LeverageCenti    int64         `json:"leverage_centi"`
	Covenant         CovenantState `json:"covenant"`
	CapExMicros      int64         `json:"capex_micros"`
	DebtServiceMicros int64        `json:"debt_service_micros"`
	OverheadMicros   int64         `json:"overhead_micros"`
	TaxMicros        int64         `json:"tax_micros"`
	Shield           TaxShield     `json:"shield"`
	NetFCFMicros     int64         `json:"net_fcf_micros"`
	FCFPerShareNanos int64         `json:"net_fcf_per_share_nanos"`
	PortfolioCount   int           `json:"portfolio_count"`
	EVMicros         int64         `json:"ev_micros"`
	FEVMicros        int64         `json:"fev_micros"`
}

type GameOutcome string

const (
	OutcomeInProgress GameOutcome = "in_progress"
	OutcomeCompleted  GameOutcome = "completed"
	OutcomeBankrupt   GameOutcome = "bankrupt"
	OutcomeInsolvent  GameOutcome = "insolvent"
)

type GameState struct {
	SchemaVersion int    `json:"schema_version"`
	ID            string `json:"id"`
	Mode          string `json:"mode"`

	Seed  uint32 `json:"seed"`
	Draws int64  `json:"draws"`
	Seq   int64  `json:"seq"`

	Round     int `json:"round"`
	MaxRounds int `json:"max_rounds"`

	CashMicros    int64 `json:"cash_micros"`
	SharesOut     int64 `json:"shares_out"`
	FounderShares int64 `json:"founder_shares"`

	HoldcoDebt DebtInstrument `json:"holdco_debt"`

	Covenant     CovenantState `json:"covenant"`
	BreachRounds int           `json:"breach_rounds"`
	Restructured bool          `json:"restructured"`

	Macro         MacroState `json:"macro"`
	ShockedSector string     `json:"shocked_sector,omitempty"`

	Services       []string `json:"services,omitempty"`
	SourcingTier   int      `json:"sourcing_tier"`
	TurnaroundTier int      `json:"turnaround_tier"`

	Deals       []Deal        `json:"deals"`
	Portfolio   []*Business   `json:"portfolio"`
	Platforms   []*Platform   `json:"platforms,omitempty"`
	Turnarounds []Turnaround  `json:"turnarounds,omitempty"`
	Exited      []ExitRecord  `json:"exited,omitempty"`

	InvestedMicros    int64 `json:"invested_micros"`
	DistributedMicros int64 `json:"distributed_micros"`

	History []RoundSnapshot `json:"history,omitempty"`
	Actions []Action        `json:"actions,omitempty"`

	Outcome GameOutcome     `json:"outcome"`
	Score   *ScoreBreakdown `json:"score,omitempty"`
}

// Over reports whether the game reached a terminal state.
func (st *GameState) Over() bool {
	return st.Outcome != OutcomeInProgress
}

func (st *GameState) business(id string) *Business {
	for _, b := range st.Portfolio {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (st *GameState) platform(id string) *Platform {
	for _, p := range st.Platforms {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (st *GameState) deal(id string) (Deal, bool) {
	for _, d := range st.Deals {
		if d.ID == id {
			return d, true
		}
	}
	return Deal{}, false
}

func (st *GameState) removeDeal(id string) {
	out := st.Deals[:0]
	for _, d := range st.Deals {
		if d.ID != id {
			out = append(out, d)
		}
	}
	st.Deals = out
}

func (st *GameState) hasService(id string) bool {
	for _, s := range st.Services {
		if s == id {
			return true
		}
	}
	return false
}

// ActivePortfolio returns the live businesses in stable (acquisition) order.
func (st *GameState) ActivePortfolio() []*Business {
	out := make([]*Business, 0, len(st.Portfolio))
	for _, b := range st.Portfolio {
		if b.Active() {
			out = append(out, b)
		}
	}
	return out
}

// TotalDebtMicros sums holdco and business-level instruments.
func (st *GameState) TotalDebtMicros() int64 {
	total := st.HoldcoDebt.BalanceMicros
	for _, b := range st.Portfolio {
		if b.Active() {
			total += b.DebtMicros()
		}
	}
	return total
}

// NetDebtMicros may be negative when cash exceeds debt.
func (st *GameState) NetDebtMicros() int64 {
	return st.TotalDebtMicros() - st.CashMicros
}

// PortfolioEBITDAMicros sums live-business EBITDA.
func (st *GameState) PortfolioEBITDAMicros() int64 {
	var total int64
	for _, b := range st.Portfolio {
		if b.Active() {
			total += b.EBITDAMicros
		}
	}
	return total
}

// FounderOwnershipBps is founder shares over shares outstanding.
func (st *GameState) FounderOwnershipBps() int32 {
	if st.SharesOut == 0 {
		return 0
	}
	return int32(st.FounderShares * BpsScale / st.SharesOut)
}
