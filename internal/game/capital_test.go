package game

import "testing"

func TestSourcingTiersUnlockInOrder(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)

	if _, err := e.Apply(st, Action{Kind: KindSourcingTier, SourcingTier: &SourcingTierAction{Tier: 3}}); err == nil {
		t.Fatalf("skipping tier 2 allowed")
	}
	if _, err := e.Apply(st, Action{Kind: KindSourcingTier, SourcingTier: &SourcingTierAction{Tier: 2}}); err != nil {
		t.Fatalf("tier 2: %v", err)
	}
	if st.SourcingTier != 2 || st.CashMicros != UnitsToMicros(4_200) {
		t.Fatalf("tier=%d cash=%d", st.SourcingTier, st.CashMicros)
	}
}

func TestServiceActivationGates(t *testing.T) {
	e := newTestEngine()
	st := testState(5_000)

	if _, err := e.Apply(st, Action{Kind: KindActivateSvc, Service: &ServiceAction{ServiceID: "finance_ops"}}); err == nil {
		t.Fatalf("service activated below portfolio minimum")
	}

	st.Portfolio = []*Business{saasBusiness("biz-a", 500), saasBusiness("biz-b", 500)}
	if _, err := e.Apply(st, Action{Kind: KindActivateSvc, Service: &ServiceAction{ServiceID: "finance_ops"}}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !st.hasService("finance_ops") || st.CashMicros != UnitsToMicros(4_600) {
		t.Fatalf("services=%v cash=%d", st.Services, st.CashMicros)
	}
	if _, err := e.Apply(st, Action{Kind: KindActivateSvc, Service: &ServiceAction{ServiceID: "finance_ops"}}); err == nil {
		t.Fatalf("double activation allowed")
	}

	if _, err := e.Apply(st, Action{Kind: KindDeactivateSvc, Service: &ServiceAction{ServiceID: "finance_ops"}}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if st.hasService("finance_ops") {
		t.Fatalf("service survived deactivation")
	}
}

func TestIssueEquityHonorsFounderFloor(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	st.Portfolio = []*Business{saasBusiness("biz-1", 1_000)}
	st.FounderShares = 520_000 // 52% of 1M

	// A small raise passes.
	if _, err := e.Apply(st, Action{Kind: KindIssueEquity, IssueEquity: &IssueEquityAction{AmountMicros: UnitsToMicros(50)}}); err != nil {
		t.Fatalf("small raise: %v", err)
	}
	if st.SharesOut <= 1_000_000 {
		t.Fatalf("no shares issued")
	}
	if st.FounderOwnershipBps() < 5_100 {
		t.Fatalf("floor breached at %d bps", st.FounderOwnershipBps())
	}

	// A raise that would push the founder under 51% is rejected whole.
	sharesBefore, cashBefore := st.SharesOut, st.CashMicros
	if _, err := e.Apply(st, Action{Kind: KindIssueEquity, IssueEquity: &IssueEquityAction{AmountMicros: UnitsToMicros(50_000)}}); err != ErrOwnershipFloor {
		t.Fatalf("want ErrOwnershipFloor, got %v", err)
	}
	if st.SharesOut != sharesBefore || st.CashMicros != cashBefore {
		t.Fatalf("rejected raise mutated state")
	}
}

func TestBuybackLimitedToFloat(t *testing.T) {
	e := newTestEngine()
	st := testState(10_000)
	st.Portfolio = []*Business{saasBusiness("biz-1", 1_000)}
	st.FounderShares = 1_000_000 // no float at all

	if _, err := e.Apply(st, Action{Kind: KindBuyback, Buyback: &BuybackAction{AmountMicros: UnitsToMicros(100)}}); err == nil {
		t.Fatalf("buyback with zero float allowed")
	}

	st.FounderShares = 600_000
	res, err := e.Apply(st, Action{Kind: KindBuyback, Buyback: &BuybackAction{AmountMicros: UnitsToMicros(100)}})
	if err != nil {
		t.Fatalf("buyback: %v", err)
	}
	if st.SharesOut >= 1_000_000 {
		t.Fatalf("shares out did not shrink")
	}
	if res.CashDeltaMicros != -UnitsToMicros(100) {
		t.Fatalf("cash delta %d", res.CashDeltaMicros)
	}
}

func TestDistributionBlockedInBreach(t *testing.T) {
	e := newTestEngine()
	st := testState(1_000)
	st.Covenant = CovenantBreach

	if _, err := e.Apply(st, Action{Kind: KindDistribution, Distribution: &DistributionAction{AmountMicros: UnitsToMicros(100)}}); err == nil {
		t.Fatalf("distribution in breach allowed")
	}
	if _, err := e.Apply(st, Action{Kind: KindBuyback, Buyback: &BuybackAction{AmountMicros: UnitsToMicros(100)}}); err == nil {
		t.Fatalf("buyback in breach allowed")
	}

	st.Covenant = CovenantHealthy
	if _, err := e.Apply(st, Action{Kind: KindDistribution, Distribution: &DistributionAction{AmountMicros: UnitsToMicros(100)}}); err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if st.DistributedMicros != UnitsToMicros(100) || st.CashMicros != UnitsToMicros(900) {
		t.Fatalf("distributed=%d cash=%d", st.DistributedMicros, st.CashMicros)
	}
}

func TestRepayDebtClampsToBalance(t *testing.T) {
	e := newTestEngine()
	st := testState(2_000)
	b := saasBusiness("biz-1", 1_000)
	b.SellerNote = DebtInstrument{BalanceMicros: UnitsToMicros(300), RateBps: 600, RemainingTerm: 3}
	st.Portfolio = []*Business{b}

	res, err := e.Apply(st, Action{Kind: KindRepayDebt, RepayDebt: &RepayDebtAction{
		BusinessID: "biz-1", Instrument: "seller_note", AmountMicros: UnitsToMicros(1_000),
	}})
	if err != nil {
		t.Fatalf("repay: %v", err)
	}
	if res.CashDeltaMicros != -UnitsToMicros(300) {
		t.Fatalf("repaid %d want clamp to balance", res.CashDeltaMicros)
	}
	if b.SellerNote.BalanceMicros != 0 || b.SellerNote.RemainingTerm != 0 {
		t.Fatalf("note not retired: %+v", b.SellerNote)
	}
	if st.CashMicros != UnitsToMicros(1_700) {
		t.Fatalf("cash %d", st.CashMicros)
	}

	if _, err := e.Apply(st, Action{Kind: KindRepayDebt, RepayDebt: &RepayDebtAction{
		BusinessID: "biz-1", Instrument: "seller_note", AmountMicros: UnitsToMicros(100),
	}}); err == nil {
		t.Fatalf("repaying a retired note allowed")
	}
}

func TestRepayHoldcoDebt(t *testing.T) {
	e := newTestEngine()
	st := testState(2_000)
	st.HoldcoDebt = DebtInstrument{BalanceMicros: UnitsToMicros(500), RateBps: 700, RemainingTerm: 4}

	if _, err := e.Apply(st, Action{Kind: KindRepayDebt, RepayDebt: &RepayDebtAction{
		Instrument: "holdco", AmountMicros: UnitsToMicros(200),
	}}); err != nil {
		t.Fatalf("repay: %v", err)
	}
	if st.HoldcoDebt.BalanceMicros != UnitsToMicros(300) {
		t.Fatalf("balance %d", st.HoldcoDebt.BalanceMicros)
	}
}
