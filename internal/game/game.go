package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/turnbattle/internal/battle"
	"github.com/samdwyer/turnbattle/internal/combat"
	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
	"github.com/samdwyer/turnbattle/internal/telemetry"
	"github.com/samdwyer/turnbattle/internal/ui"
)

const (
	eventBuffer = 256
	logHistory  = 100
	rallyHeal   = 4 // HP restored per BP spent on a skill
	footer      = "q: quit"
)

// Option configures a Game.
type Option func(*Game)

// WithScreen draws the battle on the given screen.
func WithScreen(s *ui.Screen) Option {
	return func(g *Game) { g.screen = s }
}

// WithOutput sets where the battle is narrated when there is no screen.
func WithOutput(w io.Writer) Option {
	return func(g *Game) { g.out = w }
}

// WithClock overrides the battle clock.
func WithClock(c battle.Clock) Option {
	return func(g *Game) { g.clock = c }
}

// Game holds one battle session.
type Game struct {
	cfg    Config
	logger *slog.Logger
	seed   int64
	rng    *rand.Rand
	state  State

	screen   *ui.Screen
	renderer *ui.Renderer
	out      io.Writer
	clock    battle.Clock
	keys     chan *tcell.EventKey

	orch    *battle.Orchestrator
	allies  *entity.Roster
	enemies *entity.Roster
	events  <-chan battle.Event
	log     []string
	acting  *combat.Combatant
}

// New creates a new game instance. With cfg.TUI set and no screen given it
// opens the terminal.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Game, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:    cfg,
		logger: logger,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		state:  StateSetup,
		out:    os.Stdout,
		keys:   make(chan *tcell.EventKey, 1),
	}
	for _, opt := range opts {
		opt(g)
	}

	if cfg.TUI && g.screen == nil {
		screen, err := ui.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		g.screen = screen
	}
	if g.screen != nil {
		g.renderer = ui.NewRenderer(g.screen)
	}
	return g, nil
}

// State returns the session state.
func (g *Game) State() State { return g.state }

// Seed returns the seed the battle was generated from.
func (g *Game) Seed() int64 { return g.seed }

// Orchestrator returns the running battle, nil before Run.
func (g *Game) Orchestrator() *battle.Orchestrator { return g.orch }

// Run plays one battle to the end. On a screen, 'q' cancels the battle; the
// returned error is then the context's.
func (g *Game) Run(ctx context.Context) (battle.Outcome, error) {
	stop, err := g.setup(ctx)
	if err != nil {
		return battle.OutcomeOngoing, err
	}
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if g.screen != nil {
		go g.pollInput(cancel)
	}

	g.state = StateBattle
	outcome, err := g.orch.Run(ctx)
	g.state = StateOver
	g.frame()

	if err != nil {
		return outcome, err
	}
	if g.renderer != nil {
		_, height := g.screen.Size()
		g.renderer.RenderMessage(fmt.Sprintf("Battle over: %s. Press any key.", outcome), height-2)
		g.waitForKey(ctx)
	}
	return outcome, nil
}

// setup loads the rosters, assembles both sides and starts the battle. The
// returned function releases the clock.
func (g *Game) setup(ctx context.Context) (func(), error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	fail := func(err error) (func(), error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	classes, err := gamedata.LoadClassRegistry()
	if err != nil {
		return fail(fmt.Errorf("load classes: %w", err))
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return fail(fmt.Errorf("load enemies: %w", err))
	}

	g.allies, err = entity.NewParty(classes, g.cfg.PartySize)
	if err != nil {
		return fail(fmt.Errorf("assemble party: %w", err))
	}
	g.enemies, err = entity.SpawnGroup(enemies, g.rng, g.cfg.EnemyCount)
	if err != nil {
		return fail(fmt.Errorf("spawn enemies: %w", err))
	}

	stop := func() {}
	clock := g.clock
	if clock == nil {
		if g.screen != nil {
			ticker := battle.NewTickerClock(g.cfg.TickInterval)
			stop = ticker.Stop
			clock = ticker
		} else {
			clock = battle.StepClock{Step: g.cfg.TickInterval}
		}
	}

	bus := battle.NewBus()
	g.events = bus.Subscribe(eventBuffer)
	g.orch = battle.New(g.cfg.BattleConfig(), battle.Deps{
		Rand:  g.rng,
		Clock: frameClock{Clock: clock, frame: g.frame},
		Commanders: map[combat.Side]battle.Commander{
			combat.SideAlly:  tactician{},
			combat.SideEnemy: battle.AutoCommander{},
		},
		Aggro:  battle.ThreatAggro{},
		Skills: rally{perBP: rallyHeal},
		Events: bus,
		Logger: g.logger,
	})

	span.SetAttributes(
		attribute.Int64("seed", g.seed),
		attribute.String("battle_id", g.orch.ID().String()),
		attribute.Int("party_size", len(g.allies.Combatants)),
		attribute.Int("enemy_count", len(g.enemies.Combatants)),
	)
	g.logger.Info("battle assembled",
		"seed", g.seed,
		"battle_id", g.orch.ID().String(),
		"party", len(g.allies.Combatants),
		"enemies", len(g.enemies.Combatants),
	)

	g.orch.Start(ctx, g.allies.Combatants, g.enemies.Combatants)
	return stop, nil
}

// frame drains pending events and redraws. It runs on the battle goroutine,
// once per clock tick.
func (g *Game) frame() {
drain:
	for {
		select {
		case e, ok := <-g.events:
			if !ok {
				break drain
			}
			g.record(e)
		default:
			break drain
		}
	}

	if g.renderer != nil {
		g.renderer.Render(g.buildFrame())
	}
}

func (g *Game) record(e battle.Event) {
	switch e.Kind {
	case battle.EventTurnStarted:
		g.acting = g.lookup(e.Actor)
	case battle.EventTurnEnded, battle.EventTurnAborted, battle.EventBattleEnded:
		g.acting = nil
	}

	line := Describe(e)
	if line == "" {
		return
	}
	if g.renderer == nil {
		fmt.Fprintln(g.out, line)
		return
	}
	g.log = append(g.log, line)
	if len(g.log) > logHistory {
		g.log = g.log[len(g.log)-logHistory:]
	}
}

func (g *Game) lookup(ref battle.Ref) *combat.Combatant {
	roster := g.allies
	if ref.Side == combat.SideEnemy {
		roster = g.enemies
	}
	for _, c := range roster.Combatants {
		if c.Slot == ref.Slot {
			return c
		}
	}
	return nil
}

func (g *Game) buildFrame() ui.Frame {
	units := func(r *entity.Roster) []ui.Unit {
		out := make([]ui.Unit, len(r.Combatants))
		for i, c := range r.Combatants {
			out[i] = ui.Unit{
				Combatant: c,
				Look:      r.Look(c),
				X:         g.orch.Machine(c).Position.X,
				Acting:    c == g.acting,
			}
		}
		return out
	}
	order := func(cs []*combat.Combatant) []ui.Unit {
		out := make([]ui.Unit, 0, len(cs))
		for _, c := range cs {
			roster := g.allies
			if c.Side == combat.SideEnemy {
				roster = g.enemies
			}
			out = append(out, ui.Unit{Combatant: c, Look: roster.Look(c)})
		}
		return out
	}
	sched := g.orch.Scheduler()
	return ui.Frame{
		Round:   sched.Round(),
		Allies:  units(g.allies),
		Enemies: units(g.enemies),
		Queue:   order(sched.GetRemainingTurnsInRound()),
		Preview: order(sched.GetNextRoundPreview()),
		Log:     g.log,
		Footer:  footer,
	}
}

// pollInput forwards key presses and cancels the battle on quit keys. It
// returns once the screen is closed.
func (g *Game) pollInput(cancel context.CancelFunc) {
	for {
		switch ev := g.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if isQuitKey(ev) {
				cancel()
			}
			select {
			case g.keys <- ev:
			default:
			}
		case *tcell.EventResize:
			g.screen.Sync()
		}
	}
}

func (g *Game) waitForKey(ctx context.Context) {
	select {
	case <-g.keys:
	case <-ctx.Done():
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}

// frameClock presents a frame before every tick.
type frameClock struct {
	battle.Clock
	frame func()
}

func (c frameClock) Next(ctx context.Context) (time.Duration, error) {
	c.frame()
	return c.Clock.Next(ctx)
}
