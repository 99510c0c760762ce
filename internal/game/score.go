package game

import "math"

// Score component caps. Six components sum to at most 100.
const (
	maxValueCreation = 25
	maxFCFGrowth     = 15
	maxROIC          = 15
	maxDeployment    = 15
	maxBalanceSheet  = 15
	maxDiscipline    = 15
)

type ScoreBreakdown struct {
	ValueCreation int    `json:"value_creation"`
	FCFGrowth     int    `json:"fcf_growth"`
	ROIC          int    `json:"roic"`
	Deployment    int    `json:"deployment"`
	BalanceSheet  int    `json:"balance_sheet"`
	Discipline    int    `json:"discipline"`
	Total         int    `json:"total"`
	Grade         string `json:"grade"`
}

// Score grades the finished game. Pure function of the final state and the
// metrics history; a bankrupt or insolvent holdco scores zero outright.
func (e *Engine) Score(st *GameState) ScoreBreakdown {
	if st.Outcome == OutcomeBankrupt || st.Outcome == OutcomeInsolvent {
		return ScoreBreakdown{Grade: GradeFor(0)}
	}
	mode, err := e.mode(st)
	if err != nil {
		return ScoreBreakdown{Grade: GradeFor(0)}
	}
	starting := UnitsToMicros(mode.StartingCapital)

	var s ScoreBreakdown
	s.ValueCreation = scaled(maxValueCreation, e.valueCreationMOIC(st, starting), 4.0)
	s.FCFGrowth = scaled(maxFCFGrowth, fcfShareGrowth(st), 0.20)
	s.ROIC = scaled(maxROIC, portfolioROIC(st), 0.30)
	s.Deployment = scaled(maxDeployment, deploymentReturn(e, st), 3.0)
	s.BalanceSheet = balanceSheetPoints(st)
	s.Discipline = disciplinePoints(st)

	s.Total = s.ValueCreation + s.FCFGrowth + s.ROIC + s.Deployment + s.BalanceSheet + s.Discipline
	if s.Total > 100 {
		s.Total = 100
	}
	s.Grade = GradeFor(s.Total)
	return s
}

// GradeFor maps a total to its letter band.
func GradeFor(total int) string {
	switch {
	case total >= 90:
		return "S"
	case total >= 80:
		return "A"
	case total >= 65:
		return "B"
	case total >= 50:
		return "C"
	case total >= 35:
		return "D"
	case total >= 20:
		return "E"
	default:
		return "F"
	}
}

// scaled maps value/full linearly onto [0, max], clamped.
func scaled(max int, value, full float64) int {
	if full <= 0 || value <= 0 {
		return 0
	}
	frac := value / full
	if frac > 1 {
		frac = 1
	}
	return int(math.Round(frac * float64(max)))
}

func (e *Engine) valueCreationMOIC(st *GameState, startingMicros int64) float64 {
	if startingMicros <= 0 {
		return 0
	}
	returned := e.fevMicros(st) + st.DistributedMicros
	return float64(returned) / float64(startingMicros)
}

// fcfShareGrowth is the annualized FCF/share growth across the history.
func fcfShareGrowth(st *GameState) float64 {
	if len(st.History) < 2 {
		return 0
	}
	first := st.History[0].FCFPerShareNanos
	last := st.History[len(st.History)-1].FCFPerShareNanos
	years := float64(len(st.History) - 1)
	if first <= 0 {
		if last > 0 {
			return 0.10 // went from nothing to positive: half credit
		}
		return 0
	}
	if last <= 0 {
		return 0
	}
	return math.Pow(float64(last)/float64(first), 1/years) - 1
}

func portfolioROIC(st *GameState) float64 {
	if st.InvestedMicros <= 0 {
		return 0
	}
	return float64(st.PortfolioEBITDAMicros()) / float64(st.InvestedMicros)
}

// deploymentReturn blends realized exit MOIC with unrealized marks over all
// capital put to work.
func deploymentReturn(e *Engine, st *GameState) float64 {
	if st.InvestedMicros <= 0 {
		return 0
	}
	var realized int64
	for _, rec := range st.Exited {
		realized += rec.ProceedsMicros
	}
	var unrealized int64
	for _, b := range st.Portfolio {
		if b.Active() {
			unrealized += e.exitPriceMicros(st, b) - b.DebtMicros() - b.EarnoutMicros
		}
	}
	return float64(realized+unrealized) / float64(st.InvestedMicros)
}

func balanceSheetPoints(st *GameState) int {
	points := float64(maxBalanceSheet)
	for _, snap := range st.History {
		switch snap.Covenant {
		case CovenantBreach:
			points -= 4
		case CovenantWatch:
			points -= 1.5
		}
	}
	if st.Restructured {
		points -= 4
	}
	if points < 0 {
		points = 0
	}
	return int(math.Round(points))
}

func disciplinePoints(st *GameState) int {
	points := 0
	forged := 0
	for _, p := range st.Platforms {
		if p.Forged {
			forged++
		}
	}
	points += minInt(forged*4, 8)

	var gains int32
	for _, b := range st.Portfolio {
		gains += b.TurnaroundGain
	}
	points += minInt(int(gains)*2, 4)

	if !st.Restructured && st.BreachRounds == 0 {
		clean := true
		for _, snap := range st.History {
			if snap.Covenant == CovenantBreach {
				clean = false
				break
			}
		}
		if clean {
			points += 3
		}
	}
	if points > maxDiscipline {
		points = maxDiscipline
	}
	return points
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
