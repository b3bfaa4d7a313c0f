package combat

// SkillMultiplier scales attack power for skill hits.
const SkillMultiplier = 1.5

// HitKind distinguishes the kinds of damaging actions.
type HitKind int

const (
	HitAttack HitKind = iota
	HitSkill
)

// String returns a human-readable hit kind.
func (k HitKind) String() string {
	switch k {
	case HitAttack:
		return "attack"
	case HitSkill:
		return "skill"
	default:
		return "unknown"
	}
}

// DamageFunc computes raw damage for a hit before it is applied.
type DamageFunc func(kind HitKind, user, target *Combatant) int

// EffectResult contains the outcome of resolving a hit.
type EffectResult struct {
	Success     bool
	Damage      int  // Damage actually applied
	Killed      bool // Target died from this hit
	StoneBroken bool // A guardian stone was broken
	BreakStart  bool // The hit put the target's gate into break state
	Message     string
}

// EffectResolver calculates and applies hits.
type EffectResolver struct {
	damage DamageFunc
}

// NewEffectResolver creates a resolver. A nil DamageFunc uses StandardDamage.
func NewEffectResolver(fn DamageFunc) *EffectResolver {
	if fn == nil {
		fn = StandardDamage
	}
	return &EffectResolver{damage: fn}
}

// Resolve applies a hit from user to target and returns the result.
func (r *EffectResolver) Resolve(kind HitKind, user, target *Combatant) EffectResult {
	if user == nil || target == nil {
		return EffectResult{Success: false, Message: "Invalid hit"}
	}
	if !target.IsAlive() {
		return EffectResult{Success: false, Message: target.Name + " is already down"}
	}

	wasBroken := target.Guard.IsBroken()
	stoneBroken := target.Guard.TryBreakStone(user.Element)

	actual := target.TakeDamage(r.damage(kind, user, target))

	return EffectResult{
		Success:     true,
		Damage:      actual,
		Killed:      !target.IsAlive(),
		StoneBroken: stoneBroken,
		BreakStart:  !wasBroken && target.Guard.IsBroken(),
		Message:     user.Name + " uses " + kind.String() + " on " + target.Name + "!",
	}
}

// CalculateDamage calculates damage without applying it (for AI/preview).
func (r *EffectResolver) CalculateDamage(kind HitKind, user, target *Combatant) int {
	if user == nil || target == nil {
		return 0
	}
	return r.damage(kind, user, target)
}

// StandardDamage is attack minus defense, with skills scaling attack first.
// Damage is never below 1.
func StandardDamage(kind HitKind, user, target *Combatant) int {
	power := user.Attack
	if kind == HitSkill {
		power = int(float64(user.Attack) * SkillMultiplier)
	}
	damage := power - target.Defense
	if damage < 1 {
		damage = 1
	}
	return damage
}
