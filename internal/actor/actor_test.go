package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/tui-adventure/internal/core"
	"github.com/vovakirdan/tui-adventure/internal/snapshot"
	"github.com/vovakirdan/tui-adventure/internal/snapshot/snapshotmock"
)

// rawBackend serves fixed documents by id.
type rawBackend map[string][]byte

func (b rawBackend) Read(id string) ([]byte, error) {
	data, ok := b[id]
	if !ok {
		return nil, snapshot.ErrNotFound
	}
	return data, nil
}

func (b rawBackend) Write(records map[string][]byte) error {
	for id, data := range records {
		b[id] = data
	}
	return nil
}

func TestSnapshotSavedEveryTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := snapshotmock.NewMockStore(ctrl)

	const ticks = 5
	store.EXPECT().Load("enemy1").Return(snapshot.Record{}, false)
	store.EXPECT().Save(gomock.Any()).Times(1 + ticks)

	enemy := NewEnemy("enemy1", core.V(10, 20), testConfig(), store)
	for i := 0; i < ticks; i++ {
		enemy.Update(&TickContext{Now: at(i)})
	}
}

func TestSnapshotSavedOnDeathTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := snapshotmock.NewMockStore(ctrl)

	var saved []snapshot.Snapshot
	store.EXPECT().Load("enemy1").Return(snapshot.Record{}, false)
	store.EXPECT().Save(gomock.Any()).Do(func(s snapshot.Snapshot) {
		saved = append(saved, s)
	}).Times(4)

	enemy := NewEnemy("enemy1", core.V(0, 0), testConfig(), store)
	enemy.TakeDamage(enemy.Health())
	for i := 0; i < 3; i++ {
		enemy.Update(nil)
	}

	require.Len(t, saved, 4)
	assert.True(t, bool(saved[0].Alive))
	for _, s := range saved[1:] {
		assert.False(t, bool(s.Alive))
		assert.Equal(t, 0, s.Stats.Health)
	}
}

func TestPlayerRestoresFromStore(t *testing.T) {
	store := snapshot.NewMemoryStore()

	p := NewPlayer("player1", core.V(0, 0), testConfig(), store)
	p.Update(&TickContext{Input: core.NewInputFrame(core.ActionRight, core.ActionDown)})
	p.TakeDamage(30)
	p.Update(&TickContext{Now: at(1)})

	restored := NewPlayer("player1", core.V(500, 500), testConfig(), store)
	assert.Equal(t, core.V(3, 3), restored.Pos())
	assert.Equal(t, 70, restored.Health())
	assert.Equal(t, 3.0, restored.Speed())
	assert.False(t, restored.Dead())
}

func TestPlayerRestoresFieldByField(t *testing.T) {
	backend := rawBackend{
		"player1": []byte(`{"alive": "true", "position": {"x": "12.5", "y": null}, "stats": {"health": "oops", "speed": 4}}`),
	}
	store := snapshot.NewStore(backend, nil)

	p := NewPlayer("player1", core.V(100, 200), testConfig(), store)

	assert.Equal(t, core.V(12.5, 200), p.Pos())
	assert.Equal(t, 4.0, p.Speed())
	assert.Equal(t, 100, p.Health(), "unreadable health falls back to the default")
}

func TestPlayerIgnoresNonObjectRecord(t *testing.T) {
	store := snapshot.NewStore(rawBackend{"player1": []byte(`[1, 2, 3]`)}, nil)

	p := NewPlayer("player1", core.V(7, 8), testConfig(), store)

	assert.Equal(t, core.V(7, 8), p.Pos())
	assert.Equal(t, 100, p.Health())
}

func TestRestoredHealthClamped(t *testing.T) {
	store := snapshot.NewStore(rawBackend{
		"player1": []byte(`{"alive": true, "stats": {"health": 250}}`),
	}, nil)

	p := NewPlayer("player1", core.V(0, 0), testConfig(), store)
	assert.Equal(t, 100, p.Health())
}

func TestNonFiniteRecordFallsBackAndKeepsSaving(t *testing.T) {
	backend := rawBackend{
		"player1": []byte(`{"position": {"x": "NaN", "y": "Inf"}, "stats": {"speed": "NaN", "health": "Inf"}}`),
	}
	store := snapshot.NewStore(backend, nil)

	p := NewPlayer("player1", core.V(7, 8), testConfig(), store)
	assert.Equal(t, core.V(7, 8), p.Pos())
	assert.Equal(t, 3.0, p.Speed())
	assert.Equal(t, 100, p.Health())
	assert.False(t, p.Dead())

	p.Update(&TickContext{Now: at(1)})
	require.NoError(t, store.Flush())

	rec, err := snapshot.Decode(backend["player1"])
	require.NoError(t, err)
	require.NotNil(t, rec.X)
	assert.Equal(t, 7.0, *rec.X)
}

func TestHugeRestoredHealthClamped(t *testing.T) {
	store := snapshot.NewStore(rawBackend{
		"player1": []byte(`{"alive": true, "stats": {"health": 1e30}}`),
	}, nil)

	p := NewPlayer("player1", core.V(0, 0), testConfig(), store)
	assert.Equal(t, 100, p.Health())
	assert.False(t, p.Dead())
}

func TestDeadEnemyRecordStartsFresh(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want core.Vec
	}{
		{"dead", `{"alive": false, "position": {"x": 1, "y": 2}, "stats": {"health": 40}}`, core.V(64, 64)},
		{"no health", `{"alive": true, "position": {"x": 1, "y": 2}, "stats": {"health": 0}}`, core.V(64, 64)},
		{"alive", `{"alive": true, "position": {"x": 1, "y": 2}, "stats": {"health": 40}}`, core.V(1, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := snapshot.NewStore(rawBackend{"enemy1": []byte(tc.doc)}, nil)

			enemy := NewEnemy("enemy1", core.V(64, 64), testConfig(), store)

			assert.Equal(t, tc.want, enemy.Pos())
			assert.False(t, enemy.Dead())
			if tc.want == core.V(64, 64) {
				assert.Equal(t, 100, enemy.Health())
			} else {
				assert.Equal(t, 40, enemy.Health())
			}
		})
	}
}

func TestNewEnemyPersistsImmediately(t *testing.T) {
	store := snapshot.NewMemoryStore()

	NewEnemy("enemy2", core.V(5, 6), testConfig(), store)

	assert.Equal(t, []string{"enemy2"}, store.Pending())
	rec, ok := store.Load("enemy2")
	require.True(t, ok)
	require.NotNil(t, rec.X)
	assert.Equal(t, 5.0, *rec.X)
}

func TestAnimStateExclusive(t *testing.T) {
	p := newTestPlayer(0, 0)
	assert.Equal(t, AnimIdle, p.AnimState())

	p.Update(&TickContext{Input: core.NewInputFrame(core.ActionLeft)})
	assert.Equal(t, AnimMoving, p.AnimState())

	p.Update(&TickContext{Input: core.NewInputFrame(core.ActionLeft, core.ActionAttack), Now: at(1)})
	assert.Equal(t, AnimAttacking, p.AnimState())
	assert.False(t, p.Moving())

	p.TakeDamage(100)
	p.Update(&TickContext{Now: at(2)})
	assert.Equal(t, AnimDead, p.AnimState())
	assert.False(t, p.Attacking())
	assert.False(t, p.Moving())
}

func TestUpdateWithNilContext(t *testing.T) {
	p := newTestPlayer(3, 4)
	assert.NotPanics(t, func() { p.Update(nil) })
	assert.Equal(t, core.V(3, 4), p.Pos())
}

func TestTakeDamageAndHeal(t *testing.T) {
	p := newTestPlayer(0, 0)

	p.TakeDamage(30)
	assert.Equal(t, 70, p.Health())

	p.Heal(50)
	assert.Equal(t, 100, p.Health())

	p.TakeDamage(500)
	assert.Equal(t, 0, p.Health())

	p.Heal(10)
	assert.Equal(t, 0, p.Health(), "no healing from zero")
}

func TestHealthBarWidth(t *testing.T) {
	tests := []struct {
		health, width, want int
	}{
		{100, 50, 50},
		{50, 50, 25},
		{0, 50, 0},
		{1, 50, 0},
		{99, 10, 9},
		{150, 20, 20},
		{-20, 20, 0},
		{50, 0, 0},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, HealthBarWidth(tc.health, tc.width), "health=%d width=%d", tc.health, tc.width)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "player", KindPlayer.String())
	assert.Equal(t, "enemy", KindEnemy.String())
	assert.Equal(t, "chase", AIChase.String())
	assert.Equal(t, "attacking", AnimAttacking.String())
}
