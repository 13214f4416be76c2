package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchqueue/researchqueue-server/internal/domain"
	"github.com/researchqueue/researchqueue-server/internal/store"
	"github.com/researchqueue/researchqueue-server/internal/store/sqlite"
)

func sampleBoards() []domain.Board {
	created := time.Date(2024, 5, 2, 9, 15, 30, 123000000, time.UTC)
	item := domain.ResearchItem{
		ID:          "item-1",
		Type:        domain.ItemTypeArticle,
		Title:       "Paper X",
		URL:         "https://arxiv.org/abs/1",
		Description: "An ML paper",
		CreatedAt:   created.Add(time.Minute),
		BoardIDs:    []string{"board-1", "board-2"},
		Favicon:     "https://www.google.com/s2/favicons?domain=arxiv.org&sz=64",
		Image:       "https://arxiv.org/cover.png",
	}
	return []domain.Board{
		{ID: "board-1", Name: "ML", Description: "papers", CreatedAt: created, Items: []domain.ResearchItem{item}},
		{ID: "board-2", Name: "Reading", Description: "", CreatedAt: created, Items: []domain.ResearchItem{item.Clone()}},
		{ID: "board-3", Name: "Empty", Description: "", CreatedAt: created, Items: []domain.ResearchItem{}},
	}
}

func openBackends(t *testing.T) map[string]store.KV {
	t.Helper()

	mem, err := store.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	disk, err := store.OpenBadger(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { disk.Close() })

	lite, err := sqlite.Open(filepath.Join(t.TempDir(), "boards.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })

	return map[string]store.KV{"badger-memory": mem, "badger": disk, "sqlite": lite}
}

func TestPersister_RoundTrip(t *testing.T) {
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			p := store.NewPersister(kv, nil)
			ctx := context.Background()

			want := sampleBoards()
			require.NoError(t, p.SaveErr(ctx, want))

			got, err := p.LoadErr(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPersister_LoadAbsent(t *testing.T) {
	kv, err := store.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	defer kv.Close()

	p := store.NewPersister(kv, nil)
	boards, err := p.LoadErr(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, boards)
	assert.Empty(t, boards)
}

func TestPersister_LoadMalformedIsEmpty(t *testing.T) {
	kv, err := store.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	defer kv.Close()
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, store.BoardsKey, []byte(`{"version":1,"boards":[{"id":`)))

	p := store.NewPersister(kv, nil)
	_, err = p.LoadErr(ctx)
	require.Error(t, err)
	assert.True(t, store.IsMalformed(err))

	var perr *store.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)

	assert.Empty(t, p.Load(ctx))
}

func TestPersister_LoadLegacyArray(t *testing.T) {
	kv, err := store.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	defer kv.Close()
	ctx := context.Background()

	legacy := `[{"id":"b1","name":"Inspo","description":"","createdAt":"2024-02-10T08:00:00.000Z","items":[
		{"id":"i1","type":"instagram","title":"Post","url":"https://instagram.com/p/1","description":"",
		 "createdAt":"2024-02-10T08:05:00.000Z","boardIds":["b1"],"favicon":"https://ig/favicon.ico"}]}]`
	require.NoError(t, kv.Put(ctx, store.BoardsKey, []byte(legacy)))

	boards := store.NewPersister(kv, nil).Load(ctx)
	require.Len(t, boards, 1)
	require.Len(t, boards[0].Items, 1)

	item := boards[0].Items[0]
	assert.Equal(t, domain.ItemTypeInstagram, item.Type)
	assert.Equal(t, []string{"b1"}, item.BoardIDs)
	assert.True(t, time.Date(2024, 2, 10, 8, 5, 0, 0, time.UTC).Equal(item.CreatedAt))
	assert.Empty(t, item.Image)
}

func TestPersister_SaveOverwrites(t *testing.T) {
	kv, err := store.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	defer kv.Close()
	ctx := context.Background()

	p := store.NewPersister(kv, nil)
	p.Save(ctx, sampleBoards())
	p.Save(ctx, sampleBoards()[2:])

	got := p.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "board-3", got[0].ID)

	raw, err := p.Raw(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":1`)
}

type brokenKV struct{}

var errDisk = errors.New("disk full")

func (brokenKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDisk }
func (brokenKV) Put(context.Context, string, []byte) error         { return errDisk }
func (brokenKV) Close() error                                      { return nil }

func TestPersister_FailuresAreSwallowed(t *testing.T) {
	p := store.NewPersister(brokenKV{}, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() { p.Save(ctx, sampleBoards()) })
	assert.Empty(t, p.Load(ctx))

	err := p.SaveErr(ctx, sampleBoards())
	assert.ErrorIs(t, err, errDisk)
	_, err = p.LoadErr(ctx)
	assert.ErrorIs(t, err, errDisk)
	assert.False(t, store.IsMalformed(err))
}

func TestPersister_ReadOnlyBadger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	kv, err := store.OpenBadger(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.NewPersister(kv, nil).SaveErr(ctx, sampleBoards()))
	require.NoError(t, kv.Close())

	ro, err := store.OpenBadgerReadOnly(dir, nil)
	require.NoError(t, err)
	defer ro.Close()

	got, err := store.NewPersister(ro, nil).LoadErr(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleBoards(), got)
	assert.Error(t, ro.Put(ctx, "other", []byte("x")))
}
