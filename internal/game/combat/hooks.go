package combat

import (
	"fmt"

	"github.com/avalore/avasim/internal/game/grid"
	"github.com/avalore/avasim/internal/game/item"
)

// Context carries the mutable scratch state of a single attack resolution
// between the engine and ability handlers. The engine seeds it; handlers
// read and adjust it; the zero value is a plain unmodified attack.
type Context struct {
	Cover              grid.Cover
	ConcealmentPenalty int // negative while the defender is hidden or unseen
	DuelingBonus       int
	LineageAimBonus    int
	AttackElement      string

	ArmorPiercing      bool
	BypassGraze        bool
	IgnoreQuickfooted  bool
	IgnoreShieldmaster bool

	// GrazeDeflected is set by a handler that turns a graze into no damage.
	GrazeDeflected bool

	// FlankerBonus records that a hidden-flank damage bonus applied, so the
	// engine can log it.
	FlankerBonus bool
}

// Handler receives ability callbacks at fixed points of combat resolution.
// Modify hooks transform a rolled value and return the result; On hooks
// observe an outcome and may mutate engine state. Implementations embed
// NopHandler and override what they need.
type Handler interface {
	ModifyAttackRoll(e *Engine, attacker, defender *Combatant, w item.Weapon, total int, ctx *Context) int
	ModifyDefenseRoll(e *Engine, defender, attacker *Combatant, total int, ctx *Context) int
	ModifyEvasion(e *Engine, defender *Combatant, w item.Weapon, bonus int, ctx *Context) int
	ModifyBlock(e *Engine, defender, attacker *Combatant, bonus int, ctx *Context) int
	ModifyDamage(e *Engine, attacker, defender *Combatant, w item.Weapon, damage int, ctx *Context) int
	ModifyInitiative(e *Engine, c *Combatant, bonus int) int
	ModifyStealth(e *Engine, c *Combatant, mod int) int

	OnHit(e *Engine, attacker, defender *Combatant, w item.Weapon, result *AttackResult)
	OnMiss(e *Engine, attacker, defender *Combatant, w item.Weapon, ctx *Context)
	OnGraze(e *Engine, attacker, defender *Combatant, w item.Weapon, ctx *Context)
	OnEvadeSuccess(e *Engine, defender, attacker *Combatant, w item.Weapon)
	OnBlockSuccess(e *Engine, defender, attacker *Combatant)
	OnTurnStart(e *Engine, c *Combatant)

	// AllowCriticalAction reports whether the named action may be taken for
	// free while critical. Returning true consumes the allowance.
	AllowCriticalAction(c *Combatant, action string) bool
}

// NopHandler implements Handler with identity transforms and no-op
// observers. Embed it in concrete handlers.
type NopHandler struct{}

func (NopHandler) ModifyAttackRoll(_ *Engine, _, _ *Combatant, _ item.Weapon, total int, _ *Context) int {
	return total
}
func (NopHandler) ModifyDefenseRoll(_ *Engine, _, _ *Combatant, total int, _ *Context) int {
	return total
}
func (NopHandler) ModifyEvasion(_ *Engine, _ *Combatant, _ item.Weapon, bonus int, _ *Context) int {
	return bonus
}
func (NopHandler) ModifyBlock(_ *Engine, _, _ *Combatant, bonus int, _ *Context) int { return bonus }
func (NopHandler) ModifyDamage(_ *Engine, _, _ *Combatant, _ item.Weapon, damage int, _ *Context) int {
	return damage
}
func (NopHandler) ModifyInitiative(_ *Engine, _ *Combatant, bonus int) int { return bonus }
func (NopHandler) ModifyStealth(_ *Engine, _ *Combatant, mod int) int      { return mod }

func (NopHandler) OnHit(_ *Engine, _, _ *Combatant, _ item.Weapon, _ *AttackResult) {}
func (NopHandler) OnMiss(_ *Engine, _, _ *Combatant, _ item.Weapon, _ *Context)     {}
func (NopHandler) OnGraze(_ *Engine, _, _ *Combatant, _ item.Weapon, _ *Context)    {}
func (NopHandler) OnEvadeSuccess(_ *Engine, _, _ *Combatant, _ item.Weapon)         {}
func (NopHandler) OnBlockSuccess(_ *Engine, _, _ *Combatant)                        {}
func (NopHandler) OnTurnStart(_ *Engine, _ *Combatant)                              {}

func (NopHandler) AllowCriticalAction(_ *Combatant, _ string) bool { return false }

// Registry maps ability names to their handlers. Dispatch folds over a
// combatant's held abilities in acquisition order, invoking the handler for
// each held ability that has one registered.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to an ability name.
//
// Precondition: name non-empty, h non-nil, name not already registered.
// Panics otherwise.
func (r *Registry) Register(name string, h Handler) {
	if name == "" {
		panic("combat: Register requires an ability name")
	}
	if h == nil {
		panic(fmt.Sprintf("combat: Register %q with nil handler", name))
	}
	if _, dup := r.handlers[name]; dup {
		panic(fmt.Sprintf("combat: duplicate handler registration for %q", name))
	}
	r.handlers[name] = h
}

// Handler returns the handler for an ability name, or nil.
func (r *Registry) Handler(name string) Handler {
	return r.handlers[name]
}

// each invokes fn with the handler of every ability c holds, in the order
// the abilities were granted.
func (r *Registry) each(c *Combatant, fn func(h Handler)) {
	for _, name := range c.Abilities {
		if h, ok := r.handlers[name]; ok {
			fn(h)
		}
	}
}

func (r *Registry) modifyAttackRoll(e *Engine, attacker, defender *Combatant, w item.Weapon, total int, ctx *Context) int {
	r.each(attacker, func(h Handler) {
		total = h.ModifyAttackRoll(e, attacker, defender, w, total, ctx)
	})
	return total
}

func (r *Registry) modifyDefenseRoll(e *Engine, defender, attacker *Combatant, total int, ctx *Context) int {
	r.each(defender, func(h Handler) {
		total = h.ModifyDefenseRoll(e, defender, attacker, total, ctx)
	})
	return total
}

func (r *Registry) modifyEvasion(e *Engine, defender *Combatant, w item.Weapon, bonus int, ctx *Context) int {
	r.each(defender, func(h Handler) {
		bonus = h.ModifyEvasion(e, defender, w, bonus, ctx)
	})
	return bonus
}

func (r *Registry) modifyBlock(e *Engine, defender, attacker *Combatant, bonus int, ctx *Context) int {
	r.each(defender, func(h Handler) {
		bonus = h.ModifyBlock(e, defender, attacker, bonus, ctx)
	})
	return bonus
}

func (r *Registry) modifyDamage(e *Engine, attacker, defender *Combatant, w item.Weapon, damage int, ctx *Context) int {
	r.each(attacker, func(h Handler) {
		damage = h.ModifyDamage(e, attacker, defender, w, damage, ctx)
	})
	return damage
}

func (r *Registry) modifyInitiative(e *Engine, c *Combatant, bonus int) int {
	r.each(c, func(h Handler) {
		bonus = h.ModifyInitiative(e, c, bonus)
	})
	return bonus
}

func (r *Registry) modifyStealth(e *Engine, c *Combatant, mod int) int {
	r.each(c, func(h Handler) {
		mod = h.ModifyStealth(e, c, mod)
	})
	return mod
}

func (r *Registry) onHit(e *Engine, attacker, defender *Combatant, w item.Weapon, result *AttackResult) {
	r.each(attacker, func(h Handler) { h.OnHit(e, attacker, defender, w, result) })
}

func (r *Registry) onMiss(e *Engine, attacker, defender *Combatant, w item.Weapon, ctx *Context) {
	r.each(attacker, func(h Handler) { h.OnMiss(e, attacker, defender, w, ctx) })
}

func (r *Registry) onGraze(e *Engine, attacker, defender *Combatant, w item.Weapon, ctx *Context) {
	r.each(defender, func(h Handler) { h.OnGraze(e, attacker, defender, w, ctx) })
}

func (r *Registry) onEvadeSuccess(e *Engine, defender, attacker *Combatant, w item.Weapon) {
	r.each(defender, func(h Handler) { h.OnEvadeSuccess(e, defender, attacker, w) })
}

func (r *Registry) onBlockSuccess(e *Engine, defender, attacker *Combatant) {
	r.each(defender, func(h Handler) { h.OnBlockSuccess(e, defender, attacker) })
}

func (r *Registry) onTurnStart(e *Engine, c *Combatant) {
	r.each(c, func(h Handler) { h.OnTurnStart(e, c) })
}

func (r *Registry) allowCriticalAction(c *Combatant, action string) bool {
	allowed := false
	r.each(c, func(h Handler) {
		if !allowed && h.AllowCriticalAction(c, action) {
			allowed = true
		}
	})
	return allowed
}
