package action

import (
	"log/slog"
	"time"
)

// behaviour is the single reusable execution unit, reconfigured per state.
type behaviour struct {
	state   StateID
	cb      Callbacks
	active  bool
	started bool
	ended   bool
	elapsed time.Duration
}

// Machine drives one combatant's action states. Exactly one state is current;
// leaving a state that was entered always runs its Exit before the next
// state's Enter.
type Machine struct {
	cfg      Config
	logger   *slog.Logger
	bindings map[StateID]Callbacks
	cur      behaviour
	gen      uint64

	Position Vec2
	Home     Vec2
	Facing   float64 // +1 faces right, -1 faces left

	moveTarget  Vec2
	moveSpeed   float64
	savedFacing float64

	onTransition func(from, to StateID)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for enter failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithTransitionHook registers a function called on every SetState.
func WithTransitionHook(fn func(from, to StateID)) Option {
	return func(m *Machine) { m.onTransition = fn }
}

// NewMachine creates a machine standing at home, idle and not yet entered.
func NewMachine(home Vec2, facing float64, cfg Config, opts ...Option) *Machine {
	m := &Machine{
		cfg:      cfg,
		logger:   slog.Default(),
		bindings: make(map[StateID]Callbacks),
		cur:      behaviour{state: Idle},
		Position: home,
		Home:     home,
		Facing:   facing,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bind attaches presentation callbacks to a state. They take effect the next
// time the state is set.
func (m *Machine) Bind(id StateID, cb Callbacks) {
	m.bindings[id] = cb
}

// State returns the current state.
func (m *Machine) State() StateID { return m.cur.state }

// Active reports whether the current state's behaviour is running.
func (m *Machine) Active() bool { return m.cur.active }

// Settled reports whether the machine rests in Idle or Dead, i.e. nothing it
// started on a turn is still unfolding.
func (m *Machine) Settled() bool {
	return m.cur.state == Idle || m.cur.state == Dead
}

// Finished reports whether the last thing started has run its course: the
// machine is settled, or a non-returning state has stopped on its own.
func (m *Machine) Finished() bool {
	return m.Settled() || !m.cur.active
}

// SetState leaves the current state and starts id. Enter runs on the next
// Advance.
func (m *Machine) SetState(id StateID) {
	from := m.cur.state
	if m.cur.active && m.cur.started && !m.cur.ended {
		m.cur.ended = true
		m.cur.active = false
		if exit := m.cur.cb.Exit; exit != nil {
			exit()
		}
	}

	m.gen++
	m.cur = behaviour{state: id, cb: m.compose(id), active: true}

	if m.onTransition != nil {
		m.onTransition(from, id)
	}
}

// MoveTo walks toward target at attack-move speed.
func (m *Machine) MoveTo(target Vec2) {
	m.moveTarget = target
	m.SetState(MoveToAttackPoint)
}

// ReturnHome walks back to the start point at return speed. The machine
// returns to Idle on its own when it arrives.
func (m *Machine) ReturnHome() {
	m.SetState(ReturnToStartPoint)
}

// Abort force-exits whatever is running and settles in Idle. Dead stays dead.
func (m *Machine) Abort() {
	if m.cur.state == Dead {
		return
	}
	m.SetState(Idle)
}

// Advance drives the current state by one tick.
func (m *Machine) Advance(dt time.Duration) {
	b := &m.cur
	if !b.active {
		return
	}

	if !b.started {
		b.started = true
		if enter := b.cb.Enter; enter != nil {
			if err := enter(); err != nil {
				m.logger.Warn("action state enter failed",
					"state", b.state.String(),
					"error", err,
				)
				// Never entered, so no Exit; completing keeps the turn moving.
				m.finish(false)
			}
		}
		return
	}

	if m.completed() {
		m.finish(true)
		return
	}

	b.elapsed += dt
	if tick := b.cb.Tick; tick != nil {
		tick(dt)
	}
}

func (m *Machine) completed() bool {
	b := &m.cur
	if b.cb.Done != nil && b.cb.Done() {
		return true
	}
	return b.cb.Duration > 0 && b.elapsed >= b.cb.Duration
}

// finish ends the current state and applies its follow-up transition.
func (m *Machine) finish(runExit bool) {
	state := m.cur.state
	gen := m.gen
	m.cur.ended = true
	m.cur.active = false
	if runExit && m.cur.cb.Exit != nil {
		m.cur.cb.Exit()
	}
	if m.gen != gen {
		// Exit already moved the machine elsewhere.
		return
	}
	if state.oneShot() || state == ReturnToStartPoint {
		m.SetState(Idle)
	}
}

// compose merges the built-in behaviour of id with its bound callbacks.
func (m *Machine) compose(id StateID) Callbacks {
	user := m.bindings[id]

	switch id {
	case MoveToAttackPoint, ReturnToStartPoint:
		return m.movement(id, user)
	case Attack, Skill, Hit:
		cb := user
		if cb.Done == nil && cb.Duration == 0 {
			cb.Duration = m.fallbackDuration(id)
		}
		if cb.Done == nil && cb.Duration == 0 {
			cb.Done = func() bool { return true }
		}
		return cb
	default:
		return user
	}
}

func (m *Machine) fallbackDuration(id StateID) time.Duration {
	switch id {
	case Attack:
		return m.cfg.AttackDuration
	case Skill:
		return m.cfg.SkillDuration
	case Hit:
		return m.cfg.HitDuration
	default:
		return 0
	}
}

func (m *Machine) movement(id StateID, user Callbacks) Callbacks {
	returning := id == ReturnToStartPoint

	return Callbacks{
		Enter: func() error {
			if returning {
				m.moveTarget = m.Home
				m.moveSpeed = m.cfg.ReturnMoveSpeed
			} else {
				m.savedFacing = m.Facing
				m.moveSpeed = m.cfg.AttackMoveSpeed
			}
			m.face(m.moveTarget)
			if user.Enter != nil {
				return user.Enter()
			}
			return nil
		},
		Tick: func(dt time.Duration) {
			if m.moveSpeed <= 0 {
				m.Position = m.moveTarget
			} else {
				m.Position = m.Position.Toward(m.moveTarget, m.moveSpeed*dt.Seconds())
			}
			if user.Tick != nil {
				user.Tick(dt)
			}
		},
		Done: func() bool {
			return m.Position.Dist(m.moveTarget) <= m.cfg.Epsilon
		},
		Exit: func() {
			m.Position = m.moveTarget
			if returning && m.savedFacing != 0 {
				m.Facing = m.savedFacing
			}
			if user.Exit != nil {
				user.Exit()
			}
		},
	}
}

func (m *Machine) face(target Vec2) {
	switch {
	case target.X < m.Position.X:
		m.Facing = -1
	case target.X > m.Position.X:
		m.Facing = 1
	}
}
