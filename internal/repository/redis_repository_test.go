package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

func TestRedisStatsRepositoryKey(t *testing.T) {
	assert.Equal(t, "prepx_analytics_learner-1", NewRedisStatsRepository(nil, "").key("learner-1"))
	assert.Equal(t, "tenant_learner-1", NewRedisStatsRepository(nil, "tenant").key("learner-1"))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "analytics:u1:overview", &dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	assert.NoError(t, repo.Set(ctx, "analytics:u1:overview", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "analytics:u1:*"))
}
