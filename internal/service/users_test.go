package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/repository/memory"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := seedUser(t, store, "admin@x.com", domain.RoleAdmin)
	for i := 0; i < 4; i++ {
		seedUser(t, store, fmt.Sprintf("user%d@x.com", i), domain.RoleUser)
	}
	bob := seedUser(t, store, "bob@x.com", domain.RoleUser)
	svc := NewUserService(store)

	t.Run("Should list every user for admins", func(t *testing.T) {
		users, err := svc.List(ctx, admin, DefaultUserLimit, DefaultUserSkip)
		require.NoError(t, err)
		assert.Len(t, users, 6)
	})

	t.Run("Should apply skip then limit", func(t *testing.T) {
		users, err := svc.List(ctx, admin, 2, 1)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "user0@x.com", users[0].Email)
		assert.Equal(t, "user1@x.com", users[1].Email)
	})

	t.Run("Should only return the caller's own record to users", func(t *testing.T) {
		users, err := svc.List(ctx, bob, DefaultUserLimit, DefaultUserSkip)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob@x.com", users[0].Email)
	})
}
