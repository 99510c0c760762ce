package game

import "fmt"

func (e *Engine) applyFlagPlatform(st *GameState, in FlagPlatformAction) (ActionResult, error) {
	b := st.business(in.BusinessID)
	if b == nil || !b.Active() {
		return ActionResult{}, ErrUnknownBusiness
	}
	if b.PlatformID != "" {
		return ActionResult{}, fmt.Errorf("%w: business already belongs to a platform", ErrIneligible)
	}
	name := in.Name
	if name == "" {
		name = b.Name + " Platform"
	}
	plat := &Platform{
		ID:      st.nextID("plat"),
		Name:    name,
		Members: []string{b.ID},
		Scale:   1,
	}
	b.PlatformID = plat.ID
	st.Platforms = append(st.Platforms, plat)

	res := okResult(KindFlagPlatform, 0)
	res.Details["platform_id"] = plat.ID
	return res, nil
}

// applyMerge folds the source business into the target's platform. Scale is
// the sum of both sides' scales plus the merge bonus; it moves only through
// explicit operations like this one.
func (e *Engine) applyMerge(st *GameState, in MergeAction) (ActionResult, error) {
	if e.restructureRequired(st) {
		return ActionResult{}, fmt.Errorf("%w: restructuring is required first", ErrIneligible)
	}
	src := st.business(in.SourceID)
	dst := st.business(in.TargetID)
	if src == nil || !src.Active() || dst == nil || !dst.Active() || src.ID == dst.ID {
		return ActionResult{}, ErrUnknownBusiness
	}
	if src.Sector != dst.Sector {
		return ActionResult{}, fmt.Errorf("%w: cross-sector merge", ErrInvalidTarget)
	}
	if src.DebtMicros() > 0 || src.EarnoutMicros > 0 {
		return ActionResult{}, fmt.Errorf("%w: retire the source's instruments before merging", ErrIneligible)
	}
	dstPlat := st.platform(dst.PlatformID)
	if dstPlat != nil && dstPlat.Forged {
		if err := e.platformAccepts(st, dstPlat, src.Sector, src.SubType); err != nil {
			return ActionResult{}, err
		}
	}

	srcScale := int32(0)
	if srcPlat := st.platform(src.PlatformID); srcPlat != nil {
		srcScale = srcPlat.Scale
		removePlatform(st, srcPlat.ID)
		src.PlatformID = ""
	}
	if dstPlat == nil {
		dstPlat = &Platform{
			ID:      st.nextID("plat"),
			Name:    dst.Name + " Platform",
			Members: []string{dst.ID},
		}
		dst.PlatformID = dstPlat.ID
		st.Platforms = append(st.Platforms, dstPlat)
	}
	dstPlat.Scale = dstPlat.Scale + srcScale + int32(e.tun().MergeScaleBonus)

	dst.RevenueMicros += src.RevenueMicros
	// Weighted margin keeps the combined EBITDA honest before synergies.
	combined := src.EBITDAMicros + mulMicros(dst.RevenueMicros-src.RevenueMicros, BpsToFrac(dst.MarginBps))
	if dst.RevenueMicros > 0 {
		dst.MarginBps = FracToBps(clampFloat(float64(combined)/float64(dst.RevenueMicros), e.tun().MarginFloor, e.tun().MarginCeiling))
	}
	recomputeEBITDA(dst, e.tun())

	src.Status = StatusMerged
	st.Exited = append(st.Exited, ExitRecord{
		BusinessID:     src.ID,
		Name:           src.Name,
		Round:          st.Round,
		Kind:           StatusMerged,
		InvestedMicros: src.TotalCostMicros,
	})

	// The merged business re-integrates into the combined entity.
	dst.AcqType = AcqMerger
	dst.Integration = IntegrationPending
	dst.IntegrationRounds = integrationPeriod(dst.Signals.Operator)
	dst.IntegrationDragBps = FracToBps(e.tun().IntegrationDrag)

	res := okResult(KindMerge, 0)
	res.Details["platform_id"] = dstPlat.ID
	res.Details["scale"] = dstPlat.Scale
	return res, nil
}

// applyForgePlatform upgrades a recipe-matching group into an integrated
// platform: an upfront cost, then one-time permanent constituent bonuses.
func (e *Engine) applyForgePlatform(st *GameState, rng *RNG, in ForgePlatformAction) (ActionResult, error) {
	if e.restructureRequired(st) {
		return ActionResult{}, fmt.Errorf("%w: restructuring is required first", ErrIneligible)
	}
	t := e.tun()
	recipe, ok := e.tables.Recipe(in.RecipeID)
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: unknown recipe %q", ErrIneligible, in.RecipeID)
	}
	minMembers := recipe.MinBusinesses
	if minMembers < 2 {
		minMembers = 2
	}
	if len(in.MemberIDs) < minMembers {
		return ActionResult{}, fmt.Errorf("%w: recipe needs at least %d businesses", ErrIneligible, minMembers)
	}

	var members []*Business
	var combined int64
	for _, id := range in.MemberIDs {
		b := st.business(id)
		if b == nil || !b.Active() {
			return ActionResult{}, ErrUnknownBusiness
		}
		if b.Sector != recipe.Sector || !recipeHasSubType(recipe.SubTypes, b.SubType) {
			return ActionResult{}, fmt.Errorf("%w: %s does not match the %s recipe", ErrInvalidTarget, b.Name, recipe.ID)
		}
		if plat := st.platform(b.PlatformID); plat != nil && plat.Forged {
			return ActionResult{}, fmt.Errorf("%w: %s is already in a forged platform", ErrIneligible, b.Name)
		}
		members = append(members, b)
		combined += b.EBITDAMicros
	}

	mode, err := e.mode(st)
	if err != nil {
		return ActionResult{}, err
	}
	threshold := UnitsToMicros(recipe.MinCombinedEBITDA * mode.ForgeThresholdScale)
	if combined < threshold {
		return ActionResult{}, fmt.Errorf("%w: combined EBITDA %.0f below forge threshold %.0f",
			ErrIneligible, MicrosToUnits(combined), MicrosToUnits(threshold))
	}
	// Affordability is checked at the top of the cost band so a rejection
	// never consumes an RNG draw.
	maxCost := mulMicros(combined, t.ForgeCostMax)
	if maxCost > st.CashMicros {
		return ActionResult{}, fmt.Errorf("%w: forge could cost up to %.0f", ErrInsufficientCash, MicrosToUnits(maxCost))
	}

	cost := mulMicros(combined, rng.Between(t.ForgeCostMin, t.ForgeCostMax))
	st.CashMicros -= cost

	name := in.Name
	if name == "" {
		name = recipe.Name
	}
	plat := &Platform{
		ID:          st.nextID("plat"),
		RecipeID:    recipe.ID,
		Name:        name,
		Scale:       int32(len(members)),
		Forged:      true,
		ForgedRound: st.Round,
	}
	for _, b := range members {
		if old := st.platform(b.PlatformID); old != nil {
			detachMember(old, b.ID)
			if len(old.Members) == 0 {
				removePlatform(st, old.ID)
			}
		}
		b.PlatformID = plat.ID
		plat.Members = append(plat.Members, b.ID)
	}
	st.Platforms = append(st.Platforms, plat)

	// One-time permanent constituent mutations; BonusesApplied guards the
	// invariant that they never run twice.
	if !plat.BonusesApplied {
		for _, b := range members {
			marginBonus := rng.Between(recipe.MarginBonus.Min, recipe.MarginBonus.Max)
			growthBonus := rng.Between(recipe.GrowthBonus.Min, recipe.GrowthBonus.Max)
			b.MarginBps = FracToBps(clampFloat(BpsToFrac(b.MarginBps)+marginBonus, t.MarginFloor, t.MarginCeiling))
			b.Improvements = append(b.Improvements, Improvement{
				Kind:         "forge",
				AppliedRound: st.Round,
				MarginBps:    FracToBps(marginBonus),
				GrowthBps:    FracToBps(growthBonus),
			})
			recomputeEBITDA(b, t)
		}
		plat.BonusesApplied = true
	}

	res := okResult(KindForgePlatform, -cost)
	res.Details["platform_id"] = plat.ID
	res.Details["cost_micros"] = cost
	res.Details["scale"] = plat.Scale
	return res, nil
}

func recipeHasSubType(subTypes []string, sub string) bool {
	for _, s := range subTypes {
		if s == sub {
			return true
		}
	}
	return false
}

func detachMember(p *Platform, businessID string) {
	members := p.Members[:0]
	for _, id := range p.Members {
		if id != businessID {
			members = append(members, id)
		}
	}
	p.Members = members
}

func removePlatform(st *GameState, id string) {
	out := st.Platforms[:0]
	for _, p := range st.Platforms {
		if p.ID != id {
			out = append(out, p)
		}
	}
	st.Platforms = out
	for _, b := range st.Portfolio {
		if b.PlatformID == id {
			b.PlatformID = ""
		}
	}
}
