package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskloop/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoForTest() (*MemoryRepo, *clock.FakeClock) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewMemoryRepo(fake), fake
}

func boolPtr(b bool) *bool { return &b }

func TestMemoryRepo_CreateGetList(t *testing.T) {
	repo, fake := newRepoForTest()
	ctx := context.Background()

	t1, err := repo.Create(ctx, Input{Title: "Buy milk", Description: "2% milk", Priority: PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, int64(1), t1.ID)
	assert.False(t, t1.Completed)
	assert.Equal(t, fake.Now(), t1.CreatedAt)

	got, err := repo.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1, got)

	fake.Advance(time.Minute)
	t2, err := repo.Create(ctx, Input{Title: "Water plants", Description: "front porch", Priority: PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, int64(2), t2.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, t1.ID, list[0].ID)
	assert.Equal(t, t2.ID, list[1].ID)
	assert.Equal(t, 2, repo.Len())
}

func TestMemoryRepo_CreateTrimsAndValidates(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()

	created, err := repo.Create(ctx, Input{Title: "  Buy milk ", Description: " 2% ", Priority: PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "2%", created.Description)

	_, err = repo.Create(ctx, Input{Title: strings.Repeat("a", 26), Description: "x", Priority: PriorityLow})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgTitleTooLong, verr.Message)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepo_IDsNeverReused(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		created, err := repo.Create(ctx, Input{Title: "t", Description: "d", Priority: PriorityMedium})
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate id %d", created.ID)
		seen[created.ID] = true

		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, repo.Len())
}

func TestMemoryRepo_UpdatePreservesIdentity(t *testing.T) {
	repo, fake := newRepoForTest()
	ctx := context.Background()

	created, err := repo.Create(ctx, Input{Title: "Draft", Description: "first", Priority: PriorityLow})
	require.NoError(t, err)

	fake.Advance(time.Hour)
	updated, err := repo.Update(ctx, created.ID, Input{
		Title:       "Final",
		Description: "second",
		Priority:    PriorityHigh,
		Completed:   boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "second", updated.Description)
	assert.Equal(t, PriorityHigh, updated.Priority)
	assert.True(t, updated.Completed)
}

func TestMemoryRepo_UpdateErrors(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()

	_, err := repo.Update(ctx, 9999, Input{Title: "x", Description: "y", Priority: PriorityLow, Completed: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := repo.Create(ctx, Input{Title: "x", Description: "y", Priority: PriorityLow})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, Input{Title: "x", Description: "y", Priority: "urgent", Completed: boolPtr(false)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgPriorityInvalid, verr.Message)

	_, err = repo.Update(ctx, created.ID, Input{Title: "x", Description: "y", Priority: PriorityLow})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgCompletedInvalid, verr.Message)
}

func TestMemoryRepo_ToggleTwice(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()

	created, err := repo.Create(ctx, Input{Title: "x", Description: "y", Priority: PriorityLow})
	require.NoError(t, err)

	toggled, err := repo.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, created.CreatedAt, toggled.CreatedAt)

	toggled, err = repo.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = repo.Toggle(ctx, 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryRepo_DeleteReturnsRemoved(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()

	a, _ := repo.Create(ctx, Input{Title: "a", Description: "a", Priority: PriorityLow})
	b, _ := repo.Create(ctx, Input{Title: "b", Description: "b", Priority: PriorityLow})
	c, _ := repo.Create(ctx, Input{Title: "c", Description: "c", Priority: PriorityLow})

	removed, err := repo.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, removed)

	list, _ := repo.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, []int64{a.ID, c.ID}, []int64{list[0].ID, list[1].ID})

	_, err = repo.Delete(ctx, b.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, b.ID, nf.ID)
}

func TestMemoryRepo_SeedAdvancesCounter(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, DefaultSeed()))
	assert.Equal(t, 5, repo.Len())

	created, err := repo.Create(ctx, Input{Title: "Next", Description: "after seed", Priority: PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
}

func TestMemoryRepo_ListReturnsCopy(t *testing.T) {
	repo, _ := newRepoForTest()
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, DefaultSeed()))

	list, _ := repo.List(ctx)
	list[0].Title = "mutated"

	again, _ := repo.List(ctx)
	assert.Equal(t, "Setup Express Server", again[0].Title)
}
