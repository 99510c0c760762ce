package game

// Analytics is a flat derived readout of how the game was played. Pure
// functions over the action log and final state; nothing here feeds back
// into the simulation.
type Analytics struct {
	Archetype      string   `json:"archetype"`
	AntiPatterns   []string `json:"anti_patterns,omitempty"`
	Sophistication int      `json:"sophistication"`
}

// Analyze classifies the play style from the ordered action log.
func Analyze(st *GameState) Analytics {
	counts := map[ActionKind]int{}
	structures := map[StructureKind]bool{}
	for _, act := range st.Actions {
		counts[act.Kind]++
		if act.Kind == KindAcquire && act.Acquire != nil {
			structures[act.Acquire.Structure] = true
		}
	}

	return Analytics{
		Archetype:      archetype(st, counts),
		AntiPatterns:   antiPatterns(st, counts),
		Sophistication: sophistication(st, counts, len(structures)),
	}
}

func archetype(st *GameState, counts map[ActionKind]int) string {
	acquisitions := counts[KindAcquire]
	tuckIns := 0
	for _, act := range st.Actions {
		if act.Kind == KindAcquire && act.Acquire != nil && act.Acquire.PlatformID != "" {
			tuckIns++
		}
	}
	switch {
	case counts[KindForgePlatform] > 0 && tuckIns >= 2:
		return "platform_builder"
	case acquisitions > 0 && tuckIns*2 >= acquisitions:
		return "roll_up_operator"
	case counts[KindTurnaround] >= 3:
		return "turnaround_artist"
	case counts[KindSell] >= 3 && counts[KindSell]*2 >= acquisitions:
		return "asset_trader"
	case acquisitions >= 3:
		return "buy_and_hold"
	default:
		return "conservative"
	}
}

func antiPatterns(st *GameState, counts map[ActionKind]int) []string {
	var out []string
	breaches := 0
	for _, snap := range st.History {
		if snap.Covenant == CovenantBreach {
			breaches++
		}
	}
	if breaches > 0 {
		out = append(out, "over_leverage")
	}
	if st.Restructured {
		out = append(out, "restructured")
	}
	if counts[KindAcquire] > 0 && counts[KindSell] > counts[KindAcquire]/2 && counts[KindSell] >= 3 {
		out = append(out, "deal_churn")
	}
	if idleCash(st) {
		out = append(out, "idle_cash")
	}
	return out
}

// idleCash flags a book that sat on more than 60% of its value in cash on
// average across the back half of the game.
func idleCash(st *GameState) bool {
	if len(st.History) < 4 {
		return false
	}
	half := st.History[len(st.History)/2:]
	heavy := 0
	for _, snap := range half {
		if snap.EVMicros > 0 && snap.CashMicros*10 > snap.EVMicros*6 {
			heavy++
		}
	}
	return heavy*2 > len(half)
}

func sophistication(st *GameState, counts map[ActionKind]int, structureVariety int) int {
	score := len(counts) * 5
	score += structureVariety * 6
	if counts[KindForgePlatform] > 0 {
		score += 12
	}
	if counts[KindTurnaround] > 0 {
		score += 8
	}
	if counts[KindActivateSvc] >= 2 {
		score += 8
	}
	if score > 100 {
		score = 100
	}
	return score
}
