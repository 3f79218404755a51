package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
)

var (
	poolCreator = &model.User{ID: "user-1", Username: "alice"}
	poolOther   = &model.User{ID: "user-2", Username: "bob"}
	poolAdmin   = &model.User{ID: "user-3", Username: "root", IsAdmin: true}
)

func newPoolFakes() (*fakePoolRepo, *PoolService) {
	pools := &fakePoolRepo{poolID: "pool-1", creatorID: poolCreator.ID}
	return pools, NewPoolService(pools, testLogger())
}

func TestPoolCreate(t *testing.T) {
	_, svc := newPoolFakes()

	pool, err := svc.Create(context.Background(), poolCreator, "  Weather  ", "sky shots")
	require.NoError(t, err)

	assert.Equal(t, "Weather", pool.Name, "name should be trimmed")
	assert.Equal(t, poolCreator.ID, pool.CreatorID)
	assert.Equal(t, poolCreator.Username, pool.CreatorName)
}

func TestPoolCreate_Validation(t *testing.T) {
	_, svc := newPoolFakes()
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, "Weather", "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Create(ctx, poolCreator, "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, poolCreator, "   ", "")
	assert.ErrorIs(t, err, apperror.ErrValidation, "whitespace-only name is empty after trimming")
}

func TestPoolAddMember_Authorization(t *testing.T) {
	tests := []struct {
		name      string
		requester *model.User
		wantErr   error
	}{
		{"creator allowed", poolCreator, nil},
		{"admin allowed", poolAdmin, nil},
		{"other user forbidden", poolOther, apperror.ErrForbidden},
		{"anonymous forbidden", nil, apperror.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pools, svc := newPoolFakes()

			index, err := svc.AddMember(context.Background(), "pool-1", "post-1", tt.requester)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pools.added)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(0), index)
			assert.Equal(t, []string{"post-1"}, pools.added)
		})
	}
}

func TestPoolAddMember_MissingPoolBeatsForbidden(t *testing.T) {
	_, svc := newPoolFakes()

	// A pool that doesn't exist reports NotFound even to a stranger.
	_, err := svc.AddMember(context.Background(), "missing", "post-1", poolOther)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPoolAddMember_RequiresPostID(t *testing.T) {
	_, svc := newPoolFakes()

	_, err := svc.AddMember(context.Background(), "pool-1", "", poolCreator)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestPoolRemoveMember_Authorization(t *testing.T) {
	pools, svc := newPoolFakes()
	ctx := context.Background()

	err := svc.RemoveMember(ctx, "pool-1", "post-1", poolOther)
	require.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, pools.removed)

	err = svc.RemoveMember(ctx, "pool-1", "post-1", poolCreator)
	require.NoError(t, err)
	assert.Equal(t, []string{"post-1"}, pools.removed)
}

func TestPoolDelete_Authorization(t *testing.T) {
	pools, svc := newPoolFakes()
	ctx := context.Background()

	err := svc.Delete(ctx, "pool-1", poolOther)
	require.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, pools.deleted)

	err = svc.Delete(ctx, "pool-1", poolAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"pool-1"}, pools.deleted)
}

func TestPoolGet(t *testing.T) {
	_, svc := newPoolFakes()
	ctx := context.Background()

	detail, err := svc.Get(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, "pool-1", detail.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCanModify(t *testing.T) {
	assert.True(t, canModify(poolCreator, poolCreator.ID))
	assert.True(t, canModify(poolAdmin, poolCreator.ID))
	assert.False(t, canModify(poolOther, poolCreator.ID))
	assert.False(t, canModify(nil, poolCreator.ID))
}
