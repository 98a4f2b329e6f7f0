// Package world drives one play session on a tile map: the player, the
// skeleton population, spawning, the simulated clock and snapshot flushing.
// Each map is registered with the registry as a playable game.
package world

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-adventure/internal/actor"
	"github.com/vovakirdan/tui-adventure/internal/config"
	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/snapshot"
	"github.com/vovakirdan/tui-adventure/internal/tilemap"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// defaultStore is shared by every world that was not given its own store.
var defaultStore snapshot.Store

var defaultLogger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// SetStore sets the snapshot store used by worlds created afterwards.
// Sessions share it; actor ids are namespaced per session.
func SetStore(s snapshot.Store) {
	defaultStore = s
}

// SetLogger sets the logger used by worlds created afterwards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	defaultLogger = l
}

// World is one session on a map. It implements registry.Game.
type World struct {
	m *tilemap.Map

	cfg     config.AdventureConfig
	fixed   bool // cfg was supplied by WithConfig
	runtime core.RuntimeConfig

	store  snapshot.Store
	logger *log.Logger

	difficulty *config.DifficultyManager
	clock      *core.TickClock
	rng        *rand.Rand

	player    *actor.Actor
	enemies   []*actor.Actor
	nextEnemy int
	lastSpawn time.Duration

	kills      int // in the current life
	totalKills int
	deaths     int
	tick       int
	paused     bool
	err        error
}

// New creates a world for m. Reset must be called before Step.
func New(m *tilemap.Map) *World {
	return &World{m: m}
}

// WithConfig makes Reset use cfg instead of loading the config file.
func (w *World) WithConfig(cfg config.AdventureConfig) *World {
	w.cfg = cfg
	w.fixed = true
	return w
}

// WithStore overrides the shared snapshot store.
func (w *World) WithStore(s snapshot.Store) *World {
	w.store = s
	return w
}

// WithLogger overrides the shared logger.
func (w *World) WithLogger(l *log.Logger) *World {
	w.logger = l
	return w
}

// ID returns the map id.
func (w *World) ID() string {
	return w.m.ID
}

// Title returns the map name.
func (w *World) Title() string {
	if w.m.Name == "" {
		return w.m.ID
	}
	return w.m.Name
}

// Map returns the map being played.
func (w *World) Map() *tilemap.Map {
	return w.m
}

// Reset starts a new session. Actors whose ids already have snapshots in
// the store resume from them.
func (w *World) Reset(runtime core.RuntimeConfig) {
	w.runtime = runtime

	if w.logger == nil {
		w.logger = defaultLogger
	}

	if !w.fixed {
		cfg, err := config.LoadAdventure(configPath)
		if err != nil {
			w.logger.Warn("config unreadable, using defaults", "path", configPath, "err", err)
			cfg = config.DefaultAdventureConfig()
		}
		if difficultyPreset != "" {
			config.ApplyAdventurePreset(&cfg, difficultyPreset)
		}
		w.cfg = cfg
	}

	if w.store == nil {
		w.store = defaultStore
	}
	if w.store == nil {
		w.store = snapshot.NewMemoryStore()
	}
	w.difficulty = config.NewDifficultyManager(w.cfg.Difficulty)
	w.clock = core.NewTickClock(runtime.TickRate)
	w.rng = rand.New(rand.NewSource(runtime.Seed))

	w.enemies = nil
	w.nextEnemy = 0
	w.lastSpawn = 0
	w.kills = 0
	w.totalKills = 0
	w.deaths = 0
	w.tick = 0
	w.paused = false
	w.err = nil

	w.player = actor.NewPlayer(w.actorID("player1"), w.m.PlayerSpawn(), w.cfg, w.store)

	spawn := w.m.RandomOpenPosition(w.rng)
	if spawns := w.m.EnemySpawns(); len(spawns) > 0 {
		spawn = spawns[0]
	}
	w.addEnemy(spawn)

	w.logger.Info("world reset", "map", w.m.ID, "player", w.player.ID(), "seed", runtime.Seed)
}

func (w *World) actorID(name string) string {
	return w.runtime.Namespace + name
}

func (w *World) addEnemy(pos core.Vec) *actor.Actor {
	w.nextEnemy++
	e := actor.NewEnemy(w.actorID(fmt.Sprintf("enemy%d", w.nextEnemy)), pos, w.cfg, w.store)
	w.enemies = append(w.enemies, e)
	w.logger.Debug("enemy spawned", "id", e.ID(), "x", e.Pos().X, "y", e.Pos().Y)
	return e
}

// Step advances the world by one tick: respawn, spawning, the player, then
// every enemy, then the snapshot flush. Once a flush has failed every
// further Step returns the same error without simulating.
func (w *World) Step(in core.InputFrame) core.StepResult {
	if w.err != nil {
		return core.StepResult{State: w.State(), Err: w.err}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && !w.player.Dead() {
		w.paused = !w.paused
	}
	if w.paused {
		return core.StepResult{State: w.State()}
	}

	now := w.clock.Now()

	if w.player.Dead() && in.Has(core.ActionRespawn) {
		w.respawn()
	}

	w.spawn(now)

	walls := w.m.Walls()
	wasDead := w.player.Dead()
	w.player.Update(&actor.TickContext{
		Walls:     walls,
		Opponents: w.enemies,
		Input:     in,
		Now:       now,
		Rand:      w.rng,
	})
	if !wasDead && w.player.Dead() {
		w.deaths++
		w.logger.Info("player died", "id", w.player.ID(), "kills", w.kills)
	}

	players := []*actor.Actor{w.player}
	alive := make([]*actor.Actor, 0, len(w.enemies))
	for _, e := range w.enemies {
		wasDead := e.Dead()
		done := e.Update(&actor.TickContext{
			Walls:     walls,
			Opponents: players,
			Now:       now,
			Rand:      w.rng,
		})
		if !wasDead && e.Dead() {
			w.kills++
			w.totalKills++
			w.logger.Info("enemy killed", "id", e.ID(), "kills", w.kills)
		}
		if done {
			w.logger.Debug("enemy removed", "id", e.ID())
			continue
		}
		alive = append(alive, e)
	}
	w.enemies = alive

	w.tick++
	w.clock.Advance()

	if w.tick%w.flushEvery() == 0 {
		if err := w.store.Flush(); err != nil {
			w.err = fmt.Errorf("world: %w", err)
			w.logger.Error("flush failed", "err", err)
		}
	}

	return core.StepResult{State: w.State(), Err: w.err}
}

func (w *World) flushEvery() int {
	return max(w.cfg.Persistence.FlushEvery, 1)
}

// respawn brings the player back at the map spawn and starts a new life.
func (w *World) respawn() {
	w.player.Respawn(w.m.PlayerSpawn(), w.cfg.Player.RespawnHealth)
	w.kills = 0
	w.logger.Info("player respawned", "id", w.player.ID(), "health", w.player.Health())
}

// spawn adds a skeleton at a random open tile each spawn interval while the
// living population is under the cap. The timer restarts either way.
func (w *World) spawn(now time.Duration) {
	interval := w.difficulty.SpawnInterval(w.cfg.Spawn.Interval, w.totalKills, w.tick)
	if interval <= 0 || now-w.lastSpawn < interval {
		return
	}
	w.lastSpawn = now

	limit := w.difficulty.MaxEnemies(w.cfg.Spawn.MaxEnemies, w.totalKills, w.tick)
	if w.livingEnemies() >= limit {
		return
	}
	w.addEnemy(w.m.RandomOpenPosition(w.rng))
}

func (w *World) livingEnemies() int {
	n := 0
	for _, e := range w.enemies {
		if !e.Dead() {
			n++
		}
	}
	return n
}

// State returns the current game state.
func (w *World) State() core.GameState {
	dead := w.player != nil && w.player.Dead()
	return core.GameState{
		Score:    w.kills,
		GameOver: dead,
		Paused:   w.paused,
	}
}

// Close flushes pending snapshots.
func (w *World) Close() error {
	if w.store == nil {
		return nil
	}
	if err := w.store.Flush(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	return nil
}

// Player returns the player actor.
func (w *World) Player() *actor.Actor {
	return w.player
}

// Enemies returns the enemies still in the world, including ones playing
// their death animation.
func (w *World) Enemies() []*actor.Actor {
	return w.enemies
}

// Ticks returns the number of simulated ticks since Reset.
func (w *World) Ticks() int {
	return w.tick
}

// TotalKills returns kills across every life since Reset.
func (w *World) TotalKills() int {
	return w.totalKills
}

// Deaths returns how many times the player has died since Reset.
func (w *World) Deaths() int {
	return w.deaths
}

// Err returns the error that stopped the world, if any.
func (w *World) Err() error {
	return w.err
}

// Summary is the world state at one tick, as printed by the sim command.
type Summary struct {
	Map        string              `json:"map"`
	Tick       int                 `json:"tick"`
	Kills      int                 `json:"kills"`
	TotalKills int                 `json:"total_kills"`
	Deaths     int                 `json:"deaths"`
	Player     snapshot.Snapshot   `json:"player"`
	Enemies    []snapshot.Snapshot `json:"enemies"`
}

// Summary captures the current tick.
func (w *World) Summary() Summary {
	s := Summary{
		Map:        w.m.ID,
		Tick:       w.tick,
		Kills:      w.kills,
		TotalKills: w.totalKills,
		Deaths:     w.deaths,
		Player:     w.player.Snapshot(),
		Enemies:    make([]snapshot.Snapshot, 0, len(w.enemies)),
	}
	for _, e := range w.enemies {
		s.Enemies = append(s.Enemies, e.Snapshot())
	}
	return s
}
