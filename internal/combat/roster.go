package combat

// Roster is the in-memory combatant registry. It keeps registration order so
// every listing is deterministic.
type Roster struct {
	order        []Handle
	byHandle     map[Handle]*Combatant
	diedThisTurn []Handle
	died         map[Handle]bool
}

func NewRoster() *Roster {
	return &Roster{
		byHandle: map[Handle]*Combatant{},
		died:     map[Handle]bool{},
	}
}

// Add registers c under c.Handle. A handle already present is replaced.
func (r *Roster) Add(c *Combatant) {
	if c == nil || c.Handle == InvalidHandle {
		return
	}
	if c.Parts == nil {
		c.Parts = map[int]*Part{}
	}
	if _, ok := r.byHandle[c.Handle]; !ok {
		r.order = append(r.order, c.Handle)
	}
	r.byHandle[c.Handle] = c
}

func (r *Roster) Remove(h Handle) {
	if _, ok := r.byHandle[h]; !ok {
		return
	}
	delete(r.byHandle, h)
	for i, x := range r.order {
		if x == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Roster) Combatant(h Handle) (*Combatant, bool) {
	c, ok := r.byHandle[h]
	return c, ok
}

func (r *Roster) Len() int { return len(r.order) }

func (r *Roster) ListByPredicate(pred func(Info) bool) []Info {
	var out []Info
	for _, h := range r.order {
		info := r.byHandle[h].Info()
		if pred == nil || pred(info) {
			out = append(out, info)
		}
	}
	return out
}

func (r *Roster) SeekByHandle(h Handle) (Info, bool) {
	c, ok := r.byHandle[h]
	if !ok {
		return Info{}, false
	}
	return c.Info(), true
}

// IsDead reports true for dead combatants. Unknown handles count as dead so
// that resolution skips them.
func (r *Roster) IsDead(h Handle) bool {
	c, ok := r.byHandle[h]
	if !ok {
		return true
	}
	return c.HP <= 0
}

func (r *Roster) aliveCount(team Identity) int {
	n := 0
	for _, h := range r.order {
		c := r.byHandle[h]
		if c.Identity == team && c.HP > 0 {
			n++
		}
	}
	return n
}

func (r *Roster) IsBattleEnded() bool {
	if len(r.order) == 0 {
		return false
	}
	return r.aliveCount(Ally) == 0 || r.aliveCount(Enemy) == 0
}

func (r *Roster) CurrentResult() Result {
	if !r.IsBattleEnded() {
		return ResultNone
	}
	allies, enemies := r.aliveCount(Ally), r.aliveCount(Enemy)
	switch {
	case allies == 0 && enemies == 0:
		return ResultDraw
	case enemies == 0:
		return ResultVictory
	default:
		return ResultDefeat
	}
}

func (r *Roster) ClearDiedThisTurn() {
	r.diedThisTurn = nil
	r.died = map[Handle]bool{}
}

func (r *Roster) DiedThisTurn() []Handle {
	return append([]Handle(nil), r.diedThisTurn...)
}

func (r *Roster) markDead(h Handle) {
	if r.died[h] {
		return
	}
	r.died[h] = true
	r.diedThisTurn = append(r.diedThisTurn, h)
}

// SelectTargets resolves a target rule against the living and dead
// combatants; callers skip dead entries themselves.
func (r *Roster) SelectTargets(rule TargetRule, owner, target Handle) []Info {
	self, ok := r.byHandle[owner]
	if !ok {
		return nil
	}
	switch rule {
	case TargetSelf:
		return []Info{self.Info()}
	case TargetSingle:
		if t, ok := r.byHandle[target]; ok {
			return []Info{t.Info()}
		}
		return nil
	case TargetAllOpponents:
		opp := self.Identity.Opponent()
		return r.ListByPredicate(func(i Info) bool { return i.Identity == opp })
	case TargetAllFriends:
		return r.ListByPredicate(func(i Info) bool { return i.Identity == self.Identity })
	}
	return nil
}

// Candidates lists living combatants a caster may target on the given side.
func (r *Roster) Candidates(owner Handle, side Side) []Info {
	self, ok := r.byHandle[owner]
	if !ok {
		return nil
	}
	switch side {
	case SideSelf:
		if self.HP <= 0 {
			return nil
		}
		return []Info{self.Info()}
	case SideFriend:
		return r.ListByPredicate(func(i Info) bool { return i.Identity == self.Identity && !i.Dead })
	default:
		opp := self.Identity.Opponent()
		return r.ListByPredicate(func(i Info) bool { return i.Identity == opp && !i.Dead })
	}
}

func (r *Roster) ApplyDamage(req DamageRequest) DamageResult {
	c, ok := r.byHandle[req.Target]
	if !ok || c.HP <= 0 || req.Amount <= 0 {
		res := DamageResult{Target: req.Target}
		if ok {
			res.HP = c.HP
		}
		return res
	}
	dealt := req.Amount
	if dealt > c.HP {
		dealt = c.HP
	}
	c.HP -= dealt
	res := DamageResult{Target: c.Handle, Amount: dealt, HP: c.HP}
	if c.HP <= 0 {
		c.HP = 0
		res.Killed = true
		r.markDead(c.Handle)
	}
	return res
}

func (r *Roster) HasActivePart(target Handle, part int) bool {
	c, ok := r.byHandle[target]
	if !ok {
		return false
	}
	p, ok := c.Parts[part]
	return ok && p.Active
}

func (r *Roster) DamagePart(target Handle, part, amount int, owner Handle) PartResult {
	res := PartResult{Target: target, Part: part}
	c, ok := r.byHandle[target]
	if !ok {
		return res
	}
	p, ok := c.Parts[part]
	if !ok || !p.Active || amount <= 0 {
		return res
	}
	dealt := amount
	if dealt > p.HP {
		dealt = p.HP
	}
	p.HP -= dealt
	res.Amount = dealt
	res.HP = p.HP
	if p.HP <= 0 {
		p.HP = 0
		p.Active = false
		res.Broken = true
	}
	return res
}
