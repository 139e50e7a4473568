package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/repository/memory"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) TaskAssigned(_ context.Context, task *domain.Task, assignedBy string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, assignedBy+"->"+task.AssignedTo)
	return n.err
}

var errNotifierDown = errors.New("notifier down")

func seedUser(t *testing.T, store *memory.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Role: role}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}
