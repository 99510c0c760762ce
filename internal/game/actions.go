package game

// Actions are a closed tagged union: one payload struct per kind, carried on
// a single envelope so the ordered action log serializes cleanly and replays
// byte-identically.

type ActionKind string

const (
	KindAcquire       ActionKind = "acquire"
	KindPassDeal      ActionKind = "pass_deal"
	KindSell          ActionKind = "sell"
	KindWindDown      ActionKind = "wind_down"
	KindMerge         ActionKind = "merge"
	KindFlagPlatform  ActionKind = "flag_platform"
	KindForgePlatform ActionKind = "forge_platform"
	KindTurnaround    ActionKind = "start_turnaround"
	KindUnlockTier    ActionKind = "unlock_turnaround_tier"
	KindSourcingTier  ActionKind = "set_sourcing_tier"
	KindActivateSvc   ActionKind = "activate_service"
	KindDeactivateSvc ActionKind = "deactivate_service"
	KindIssueEquity   ActionKind = "issue_equity"
	KindBuyback       ActionKind = "buyback"
	KindDistribution  ActionKind = "distribution"
	KindRepayDebt     ActionKind = "repay_debt"
	KindRestructure   ActionKind = "restructure"
	KindEndRound      ActionKind = "end_round"
)

type AcquireAction struct {
	DealID    string        `json:"deal_id"`
	Structure StructureKind `json:"structure"`
	// PlatformID makes the acquisition a tuck-in into that platform.
	PlatformID string `json:"platform_id,omitempty"`
}

type PassDealAction struct {
	DealID string `json:"deal_id"`
}

type SellAction struct {
	BusinessID string `json:"business_id"`
}

type WindDownAction struct {
	BusinessID string `json:"business_id"`
}

type MergeAction struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

type FlagPlatformAction struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name,omitempty"`
}

type ForgePlatformAction struct {
	RecipeID  string   `json:"recipe_id"`
	MemberIDs []string `json:"member_ids"`
	Name      string   `json:"name,omitempty"`
}

type TurnaroundAction struct {
	BusinessID string `json:"business_id"`
	ProgramID  string `json:"program_id"`
}

type UnlockTierAction struct {
	Tier int `json:"tier"`
}

type SourcingTierAction struct {
	Tier int `json:"tier"`
}

type ServiceAction struct {
	ServiceID string `json:"service_id"`
}

type IssueEquityAction struct {
	AmountMicros int64 `json:"amount_micros"`
}

type BuybackAction struct {
	AmountMicros int64 `json:"amount_micros"`
}

type DistributionAction struct {
	AmountMicros int64 `json:"amount_micros"`
}

type RepayDebtAction struct {
	// Empty BusinessID targets holdco debt.
	BusinessID   string `json:"business_id,omitempty"`
	Instrument   string `json:"instrument"` // seller_note | bank_debt | holdco
	AmountMicros int64  `json:"amount_micros"`
}

type RestructureMode string

const (
	RestructureDistressedSale RestructureMode = "distressed_sale"
	RestructureEmergencyRaise RestructureMode = "emergency_raise"
	RestructureBankruptcy     RestructureMode = "bankruptcy"
)

type RestructureAction struct {
	Mode RestructureMode `json:"mode"`
	// BusinessID names the asset for a distressed sale.
	BusinessID string `json:"business_id,omitempty"`
	// AmountMicros sizes an emergency raise.
	AmountMicros int64 `json:"amount_micros,omitempty"`
}

type Action struct {
	Kind ActionKind `json:"kind"`

	Acquire       *AcquireAction       `json:"acquire,omitempty"`
	PassDeal      *PassDealAction      `json:"pass_deal,omitempty"`
	Sell          *SellAction          `json:"sell,omitempty"`
	WindDown      *WindDownAction      `json:"wind_down,omitempty"`
	Merge         *MergeAction         `json:"merge,omitempty"`
	FlagPlatform  *FlagPlatformAction  `json:"flag_platform,omitempty"`
	ForgePlatform *ForgePlatformAction `json:"forge_platform,omitempty"`
	Turnaround    *TurnaroundAction    `json:"turnaround,omitempty"`
	UnlockTier    *UnlockTierAction    `json:"unlock_tier,omitempty"`
	SourcingTier  *SourcingTierAction  `json:"sourcing_tier,omitempty"`
	Service       *ServiceAction       `json:"service,omitempty"`
	IssueEquity   *IssueEquityAction   `json:"issue_equity,omitempty"`
	Buyback       *BuybackAction       `json:"buyback,omitempty"`
	Distribution  *DistributionAction  `json:"distribution,omitempty"`
	RepayDebt     *RepayDebtAction     `json:"repay_debt,omitempty"`
	Restructure   *RestructureAction   `json:"restructure,omitempty"`
}

// ActionResult reports success or the rejection reason, plus the headline
// state delta so UI layers need not diff snapshots.
type ActionResult struct {
	Kind            ActionKind     `json:"kind"`
	OK              bool           `json:"ok"`
	Reason          string         `json:"reason,omitempty"`
	CashDeltaMicros int64          `json:"cash_delta_micros"`
	Details         map[string]any `json:"details,omitempty"`
}

func okResult(kind ActionKind, cashDelta int64) ActionResult {
	return ActionResult{Kind: kind, OK: true, CashDeltaMicros: cashDelta, Details: map[string]any{}}
}

func failResult(kind ActionKind, err error) ActionResult {
	return ActionResult{Kind: kind, OK: false, Reason: err.Error()}
}
