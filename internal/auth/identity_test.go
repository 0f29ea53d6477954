package auth

import (
	"context"
	"testing"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityRoundTrip(t *testing.T) {
	want := Identity{UserID: 7, Username: "ahmed", Role: RoleUser}
	ctx := WithIdentity(context.Background(), want)

	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromContextMissing(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	t.Run("no identity", func(t *testing.T) {
		err := RequireRole(context.Background(), RoleAdmin)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("wrong role", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{UserID: 1, Role: RoleUser})
		err := RequireRole(ctx, RoleAdmin)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("matching role", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{Username: "admin", Role: RoleAdmin})
		assert.NoError(t, RequireRole(ctx, RoleAdmin))
	})
}
