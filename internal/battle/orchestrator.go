package battle

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/turnbattle/internal/action"
	"github.com/samdwyer/turnbattle/internal/combat"
	"github.com/samdwyer/turnbattle/internal/telemetry"
	"github.com/samdwyer/turnbattle/internal/turnorder"
)

// Battlefield layout: allies stand on the left facing right, enemies on the
// right facing left, one row per slot.
const (
	allyLineX  = 0.0
	enemyLineX = 10.0
	rowSpacing = 2.0
)

// Config holds orchestrator tuning.
type Config struct {
	ComboDelay  time.Duration // Pause between combo hits
	AttackRange float64       // How far in front of the target an attacker stops
	Action      action.Config
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		ComboDelay:  250 * time.Millisecond,
		AttackRange: 1.5,
		Action:      action.DefaultConfig(),
	}
}

// Deps are the orchestrator's collaborators. Everything is optional; nil
// fields fall back to defaults.
type Deps struct {
	Rand       *rand.Rand
	Clock      Clock
	Commanders map[combat.Side]Commander
	Targets    TargetPolicy
	Aggro      AggroPicker
	EnemyAI    EnemyAI
	Skills     SkillEnhancer
	Resolver   *combat.EffectResolver
	Events     *Bus
	Logger     *slog.Logger
	Tracer     trace.Tracer

	// Bind lets presentation attach callbacks to each combatant's machine.
	Bind func(c *combat.Combatant, m *action.Machine)
}

// TurnResult summarizes one executed turn.
type TurnResult struct {
	Actor   *combat.Combatant
	Command string
	Targets []*combat.Combatant // Distinct targets hit, in order
	Hits    int
	Damage  int
	BPSpent int
	Aborted bool
	Reason  string
}

// Orchestrator is the top-level battle loop.
type Orchestrator struct {
	id  uuid.UUID
	cfg Config

	clock      Clock
	commanders map[combat.Side]Commander
	targets    TargetPolicy
	aggro      AggroPicker
	enemyAI    EnemyAI
	skills     SkillEnhancer
	resolver   *combat.EffectResolver
	events     *Bus
	logger     *slog.Logger
	tracer     trace.Tracer
	bind       func(c *combat.Combatant, m *action.Machine)

	sched    *turnorder.Scheduler
	allies   []*combat.Combatant
	enemies  []*combat.Combatant
	roster   []*combat.Combatant
	machines map[*combat.Combatant]*action.Machine
	turns    int
}

// New creates an orchestrator. Call Start before running turns.
func New(cfg Config, deps Deps) *Orchestrator {
	o := &Orchestrator{
		id:         uuid.New(),
		cfg:        cfg,
		clock:      deps.Clock,
		commanders: deps.Commanders,
		targets:    deps.Targets,
		aggro:      deps.Aggro,
		enemyAI:    deps.EnemyAI,
		skills:     deps.Skills,
		resolver:   deps.Resolver,
		events:     deps.Events,
		logger:     deps.Logger,
		tracer:     deps.Tracer,
		bind:       deps.Bind,
		machines:   make(map[*combat.Combatant]*action.Machine),
	}

	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.clock == nil {
		o.clock = StepClock{Step: 16 * time.Millisecond}
	}
	if o.commanders == nil {
		o.commanders = map[combat.Side]Commander{}
	}
	if o.enemyAI == nil {
		o.enemyAI = LowestHPAI{}
	}
	if o.resolver == nil {
		o.resolver = combat.NewEffectResolver(nil)
	}
	if o.events == nil {
		o.events = NewBus()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = telemetry.Tracer("battle")
	}
	o.logger = o.logger.With("battle_id", o.id.String())

	o.sched = turnorder.New(rng,
		turnorder.WithEligibility(func(c *combat.Combatant) bool { return c.CanAct() }),
		turnorder.WithRoundHook(o.onNewRound),
	)
	return o
}

// ID returns the battle's unique identifier.
func (o *Orchestrator) ID() uuid.UUID { return o.id }

// Events returns the bus the orchestrator publishes to.
func (o *Orchestrator) Events() *Bus { return o.events }

// Scheduler exposes turn order queries for display.
func (o *Orchestrator) Scheduler() *turnorder.Scheduler { return o.sched }

// Machine returns a combatant's action state machine.
func (o *Orchestrator) Machine(c *combat.Combatant) *action.Machine { return o.machines[c] }

// Allies returns the ally roster.
func (o *Orchestrator) Allies() []*combat.Combatant { return o.allies }

// Enemies returns the enemy roster.
func (o *Orchestrator) Enemies() []*combat.Combatant { return o.enemies }

// Start assembles the battlefield: BP is reset, machines are placed and
// round 1 is built.
func (o *Orchestrator) Start(ctx context.Context, allies, enemies []*combat.Combatant) {
	_, span := o.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.String("battle_id", o.id.String()),
		attribute.Int("ally_count", combat.AliveCount(allies)),
		attribute.Int("enemy_count", combat.AliveCount(enemies)),
	)
	span.End()

	o.allies = allies
	o.enemies = enemies
	o.roster = make([]*combat.Combatant, 0, len(allies)+len(enemies))
	o.roster = append(o.roster, allies...)
	o.roster = append(o.roster, enemies...)
	if o.targets == nil {
		o.targets = FirstLivingPolicy{Allies: allies, Enemies: enemies}
	}

	o.machines = make(map[*combat.Combatant]*action.Machine, len(o.roster))
	for _, c := range o.roster {
		home := action.Vec2{X: allyLineX, Y: float64(c.Slot) * rowSpacing}
		facing := 1.0
		if c.Side == combat.SideEnemy {
			home.X = enemyLineX
			facing = -1
		}
		m := action.NewMachine(home, facing, o.cfg.Action, action.WithLogger(o.logger))
		if o.bind != nil {
			o.bind(c, m)
		}
		if !c.IsAlive() {
			m.SetState(action.Dead)
		}
		o.machines[c] = m
		c.BP.BeginBattle()
	}

	o.sched.Initialize(allies, enemies)
	o.logger.Info("battle started",
		"allies", combat.AliveCount(allies),
		"enemies", combat.AliveCount(enemies),
	)
	o.publish(Event{Kind: EventRoundStarted, Round: o.sched.Round()})
}

// Outcome reports whether the battle has ended and how.
func (o *Orchestrator) Outcome() Outcome {
	allies, enemies := combat.AliveCount(o.allies), combat.AliveCount(o.enemies)
	switch {
	case allies == 0 && enemies == 0:
		return OutcomeDraw
	case enemies == 0:
		return OutcomeVictory
	case allies == 0:
		return OutcomeDefeat
	default:
		return OutcomeOngoing
	}
}

// Run executes turns until one side is wiped out or ctx is cancelled. On
// cancellation every machine is aborted and ctx's error is returned.
func (o *Orchestrator) Run(ctx context.Context) (outcome Outcome, err error) {
	ctx, span := o.tracer.Start(ctx, "battle.run")
	defer func() {
		span.SetAttributes(
			attribute.String("battle_id", o.id.String()),
			attribute.String("outcome", outcome.String()),
			attribute.Int("rounds", o.sched.Round()),
			attribute.Int("turns_taken", o.turns),
		)
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	for {
		if outcome := o.Outcome(); outcome != OutcomeOngoing {
			o.end(ctx, outcome)
			return outcome, nil
		}
		if err := ctx.Err(); err != nil {
			return o.abort(ctx, err)
		}

		turn, ok := o.sched.GetNextTurn()
		if !ok {
			// Everyone left this round is break-gated. Let time pass; the
			// next call builds a new round.
			dt, err := o.clock.Next(ctx)
			if err != nil {
				return o.abort(ctx, err)
			}
			o.advance(dt)
			continue
		}

		if _, err := o.ExecuteTurn(ctx, turn); err != nil {
			return o.abort(ctx, err)
		}
	}
}

// ExecuteTurn plays one combatant's turn to completion. Contract violations
// and missing targets abort the turn without error; only cancellation is
// returned as an error.
func (o *Orchestrator) ExecuteTurn(ctx context.Context, turn turnorder.PendingTurn) (res TurnResult, err error) {
	actor := turn.Combatant
	res.Actor = actor

	m := o.machines[actor]
	if m == nil || !actor.CanAct() {
		o.abortTurn(&res, "actor cannot act")
		return res, nil
	}

	ctx, span := o.tracer.Start(ctx, "battle.turn")
	span.SetAttributes(
		attribute.String("battle_id", o.id.String()),
		attribute.String("actor", actor.Name),
		attribute.String("side", actor.Side.String()),
		attribute.Int("round", o.sched.Round()),
		attribute.Int("turn", o.turns),
	)
	defer func() {
		span.SetAttributes(
			attribute.String("command", res.Command),
			attribute.Int("hits", res.Hits),
			attribute.Int("damage", res.Damage),
			attribute.Int("bp_spent", res.BPSpent),
		)
		if res.Aborted {
			span.SetAttributes(attribute.String("aborted", res.Reason))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	o.turns++

	// The previous turn's animations must have played out.
	if err := o.await(ctx, m.Settled); err != nil {
		return res, err
	}

	regen := actor.BP.BeginTurn()
	o.logger.Debug("turn started",
		"actor", actor.String(),
		"round", o.sched.Round(),
		"bp", actor.BP.Current(),
		"regen", regen,
	)
	o.publish(Event{Kind: EventTurnStarted, Round: o.sched.Round(), Actor: RefOf(actor)})

	d := o.decide(actor)
	res.Command = d.Command

	target := o.resolveTarget(actor, d.Target)
	if target == nil {
		o.logger.Info("no living target, turn skipped", "actor", actor.String())
		o.abortTurn(&res, ErrNoTarget.Error())
		return res, nil
	}

	if d.Command != CommandAttack && d.Command != CommandSkill {
		o.logger.Error("unrecognized command, turn aborted",
			"actor", actor.String(),
			"command", d.Command,
			"error", ErrUnknownCommand,
		)
		o.abortTurn(&res, fmt.Sprintf("%v: %q", ErrUnknownCommand, d.Command))
		return res, nil
	}

	n, cerr := actor.BP.Commit(d.BP)
	if cerr != nil {
		o.logger.Warn("BP request rejected, turn aborted",
			"actor", actor.String(),
			"requested", d.BP,
			"error", cerr,
		)
		o.abortTurn(&res, cerr.Error())
		return res, nil
	}
	res.BPSpent = n
	defer actor.BP.ClearPending()
	defer func() {
		if err != nil {
			o.abortMachines()
		}
	}()

	switch {
	case d.Command == CommandAttack && n > 0:
		err = o.combo(ctx, &res, actor, target, n)
	case d.Command == CommandAttack:
		err = o.single(ctx, &res, actor, target, combat.HitAttack)
	default:
		if n > 0 && o.skills != nil {
			o.skills.Enhance(actor, target, n)
		}
		err = o.single(ctx, &res, actor, target, combat.HitSkill)
	}
	if err != nil {
		return res, err
	}

	m.ReturnHome()
	if err = o.await(ctx, m.Settled); err != nil {
		return res, err
	}

	o.publish(Event{Kind: EventTurnEnded, Round: o.sched.Round(), Actor: RefOf(actor)})
	return res, nil
}

func (o *Orchestrator) decide(actor *combat.Combatant) Decision {
	cmd := o.commanders[actor.Side]
	if cmd == nil {
		cmd = AutoCommander{}
	}
	return cmd.Decide(actor, View{
		Round:   o.sched.Round(),
		Allies:  o.allies,
		Enemies: o.enemies,
	})
}

func (o *Orchestrator) single(ctx context.Context, res *TurnResult, actor, target *combat.Combatant, kind combat.HitKind) error {
	result, err := o.strike(ctx, actor, target, kind)
	if err != nil {
		return err
	}
	o.record(res, target, result)

	ev := EventAttack
	if kind == combat.HitSkill {
		ev = EventSkill
	}
	o.publish(Event{
		Kind:   ev,
		Round:  o.sched.Round(),
		Actor:  RefOf(actor),
		Target: RefOf(target),
		Damage: result.Damage,
		Hit:    1,
	})
	return nil
}

// combo runs n attack cycles, re-resolving the target before every hit. It
// stops early once the opposing side is empty.
func (o *Orchestrator) combo(ctx context.Context, res *TurnResult, actor, target *combat.Combatant, n int) error {
	for i := 1; i <= n; i++ {
		if i > 1 {
			if err := o.wait(ctx, o.cfg.ComboDelay); err != nil {
				return err
			}
		}

		target = o.resolveTarget(actor, target)
		if target == nil {
			o.logger.Info("combo ended early, no targets left",
				"actor", actor.String(),
				"hits", res.Hits,
				"planned", n,
			)
			return nil
		}

		result, err := o.strike(ctx, actor, target, combat.HitAttack)
		if err != nil {
			return err
		}
		o.record(res, target, result)
		o.publish(Event{
			Kind:   EventComboHit,
			Round:  o.sched.Round(),
			Actor:  RefOf(actor),
			Target: RefOf(target),
			Damage: result.Damage,
			Hit:    i,
		})
	}
	return nil
}

// strike walks the actor to the target, plays the attack or skill and then
// applies the hit.
func (o *Orchestrator) strike(ctx context.Context, actor, target *combat.Combatant, kind combat.HitKind) (combat.EffectResult, error) {
	m := o.machines[actor]

	point := o.attackPoint(actor, target)
	if m.Position.Dist(point) > o.cfg.Action.Epsilon {
		m.MoveTo(point)
		if err := o.await(ctx, m.Finished); err != nil {
			return combat.EffectResult{}, err
		}
	}

	state := action.Attack
	if kind == combat.HitSkill {
		state = action.Skill
	}
	m.SetState(state)
	if err := o.await(ctx, m.Finished); err != nil {
		return combat.EffectResult{}, err
	}

	result := o.resolver.Resolve(kind, actor, target)
	if !result.Success {
		return result, nil
	}

	if tm := o.machines[target]; tm != nil {
		if result.Killed {
			tm.SetState(action.Dead)
		} else {
			tm.SetState(action.Hit)
		}
	}
	if result.BreakStart {
		o.logger.Info("guardian broken", "target", target.String(), "rounds", target.Guard.Countdown())
		o.publish(Event{Kind: EventGuardianBreak, Round: o.sched.Round(), Actor: RefOf(actor), Target: RefOf(target)})
	}
	if result.Killed {
		o.logger.Info("combatant defeated", "target", target.String(), "by", actor.String())
		o.publish(Event{Kind: EventDefeated, Round: o.sched.Round(), Actor: RefOf(actor), Target: RefOf(target)})
	}
	return result, nil
}

func (o *Orchestrator) record(res *TurnResult, target *combat.Combatant, result combat.EffectResult) {
	if !result.Success {
		return
	}
	res.Hits++
	res.Damage += result.Damage
	if n := len(res.Targets); n == 0 || res.Targets[n-1] != target {
		res.Targets = append(res.Targets, target)
	}
}

func (o *Orchestrator) attackPoint(actor, target *combat.Combatant) action.Vec2 {
	home := o.machines[target].Home
	if actor.Side == combat.SideAlly {
		return action.Vec2{X: home.X - o.cfg.AttackRange, Y: home.Y}
	}
	return action.Vec2{X: home.X + o.cfg.AttackRange, Y: home.Y}
}

// onNewRound runs at every round boundary. Broken guardian gates count down
// here, once per round rather than once per turn.
func (o *Orchestrator) onNewRound(round int) {
	o.logger.Debug("round started", "round", round)
	o.publish(Event{Kind: EventRoundStarted, Round: round})

	for _, c := range o.roster {
		if !c.IsAlive() || !c.Guard.IsBroken() {
			continue
		}
		if c.Guard.ProcessTurn() {
			o.logger.Info("guardian recovered", "combatant", c.String())
			o.publish(Event{Kind: EventGuardianRecover, Round: round, Target: RefOf(c)})
		}
	}
}

// await ticks the battlefield until done reports true.
func (o *Orchestrator) await(ctx context.Context, done func() bool) error {
	for !done() {
		dt, err := o.clock.Next(ctx)
		if err != nil {
			return err
		}
		o.advance(dt)
	}
	return nil
}

// wait ticks the battlefield for at least d.
func (o *Orchestrator) wait(ctx context.Context, d time.Duration) error {
	var elapsed time.Duration
	for elapsed < d {
		dt, err := o.clock.Next(ctx)
		if err != nil {
			return err
		}
		o.advance(dt)
		elapsed += dt
	}
	return nil
}

func (o *Orchestrator) advance(dt time.Duration) {
	for _, c := range o.roster {
		o.machines[c].Advance(dt)
	}
}

// abortMachines force-exits every running state and puts the living back on
// their start points.
func (o *Orchestrator) abortMachines() {
	for _, c := range o.roster {
		m := o.machines[c]
		m.Abort()
		if c.IsAlive() {
			m.Position = m.Home
		}
	}
}

func (o *Orchestrator) abort(ctx context.Context, err error) (Outcome, error) {
	o.abortMachines()
	o.logger.Warn("battle aborted", "error", err, "round", o.sched.Round())
	o.recordEnd(ctx, OutcomeAborted)
	o.publish(Event{Kind: EventBattleEnded, Round: o.sched.Round(), Outcome: OutcomeAborted, Reason: err.Error()})
	return OutcomeAborted, err
}

func (o *Orchestrator) end(ctx context.Context, outcome Outcome) {
	o.recordEnd(ctx, outcome)
	o.logger.Info("battle ended",
		"outcome", outcome.String(),
		"rounds", o.sched.Round(),
		"turns", o.turns,
	)
	o.publish(Event{Kind: EventBattleEnded, Round: o.sched.Round(), Outcome: outcome})
}

// recordEnd emits the battle.end span. The context may already be cancelled;
// the span is still recorded.
func (o *Orchestrator) recordEnd(ctx context.Context, outcome Outcome) {
	_, span := o.tracer.Start(context.WithoutCancel(ctx), "battle.end")
	span.SetAttributes(
		attribute.String("battle_id", o.id.String()),
		attribute.String("outcome", outcome.String()),
		attribute.Int("turns_taken", o.turns),
		attribute.Int("allies_alive", combat.AliveCount(o.allies)),
		attribute.Int("enemies_alive", combat.AliveCount(o.enemies)),
	)
	span.End()
}

func (o *Orchestrator) abortTurn(res *TurnResult, reason string) {
	res.Aborted = true
	res.Reason = reason
	o.publish(Event{Kind: EventTurnAborted, Round: o.sched.Round(), Actor: RefOf(res.Actor), Reason: reason})
}

func (o *Orchestrator) publish(e Event) {
	o.events.Publish(e)
}
