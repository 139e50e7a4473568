package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/repository/memory"
)

func setupTasks(t *testing.T) (*TaskService, *memory.Store, *recordingNotifier, *domain.User, *domain.User) {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	admin := seedUser(t, store, "admin@x.com", domain.RoleAdmin)
	bob := seedUser(t, store, "bob@x.com", domain.RoleUser)
	return NewTaskService(store, notifier), store, notifier, admin, bob
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store the task with defaults and notify the assignee", func(t *testing.T) {
		svc, store, notifier, admin, _ := setupTasks(t)

		task, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "report", Priority: "high", AssignedTo: "bob@x.com"})
		require.NoError(t, err)
		assert.False(t, task.ID.IsZero())
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Equal(t, "admin@x.com", task.CreatedBy)
		assert.Nil(t, task.Description)

		stored, err := store.GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task, stored)
		assert.Equal(t, []string{"admin@x.com->bob@x.com"}, notifier.sent)
	})

	t.Run("Should keep an explicit status", func(t *testing.T) {
		svc, _, _, admin, _ := setupTasks(t)

		task, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "t", Priority: "low", Status: domain.TaskStatusInProgress, AssignedTo: "bob@x.com"})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
	})

	t.Run("Should reject self assignment", func(t *testing.T) {
		svc, store, notifier, admin, _ := setupTasks(t)

		_, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "t", Priority: "low", AssignedTo: "admin@x.com"})
		assert.ErrorIs(t, err, domain.ErrSelfAssignment)

		tasks, err := store.FindTasks(ctx, domain.TaskFilter{}, 0)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Empty(t, notifier.sent)
	})

	t.Run("Should reject non admins", func(t *testing.T) {
		svc, _, _, _, bob := setupTasks(t)

		_, err := svc.Create(ctx, bob, domain.TaskDraft{Title: "t", Priority: "low", AssignedTo: "carol@x.com"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Should not fail when the notification cannot be sent", func(t *testing.T) {
		svc, _, notifier, admin, _ := setupTasks(t)
		notifier.err = errNotifierDown

		_, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "t", Priority: "low", AssignedTo: "bob@x.com"})
		assert.NoError(t, err)
	})
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _, admin, bob := setupTasks(t)

	for _, assignee := range []string{"bob@x.com", "carol@x.com", "bob@x.com"} {
		_, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "t", Priority: "low", AssignedTo: assignee})
		require.NoError(t, err)
	}

	t.Run("Should return every task to admins", func(t *testing.T) {
		tasks, err := svc.List(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})

	t.Run("Should return only assigned tasks to users", func(t *testing.T) {
		tasks, err := svc.List(ctx, bob)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.Equal(t, "bob@x.com", task.AssignedTo)
		}
	})
}

func TestTaskService_ListCap(t *testing.T) {
	ctx := context.Background()
	svc, _, _, admin, _ := setupTasks(t)

	for i := 0; i < MaxTaskPage+5; i++ {
		_, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "t", Priority: "low", AssignedTo: "bob@x.com"})
		require.NoError(t, err)
	}

	tasks, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, tasks, MaxTaskPage)
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*TaskService, *memory.Store, *recordingNotifier, *domain.User, *domain.User, *domain.Task) {
		svc, store, notifier, admin, bob := setupTasks(t)
		task, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "report", Priority: "low", AssignedTo: "bob@x.com"})
		require.NoError(t, err)
		notifier.sent = nil
		return svc, store, notifier, admin, bob, task
	}

	t.Run("Should let the assignee change the status", func(t *testing.T) {
		svc, store, _, _, bob, task := setup(t)

		require.NoError(t, svc.Update(ctx, bob, task.ID.Hex(), domain.TaskUpdate{Status: domain.Some(domain.TaskStatusDone)}))

		stored, err := store.GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, stored.Status)
		assert.Equal(t, "report", stored.Title)
		assert.Equal(t, "low", stored.Priority)
	})

	t.Run("Should forbid the assignee from changing other fields", func(t *testing.T) {
		svc, store, _, _, bob, task := setup(t)

		err := svc.Update(ctx, bob, task.ID.Hex(), domain.TaskUpdate{Priority: domain.Some("high")})
		assert.ErrorIs(t, err, domain.ErrFieldForbidden)

		stored, err := store.GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "low", stored.Priority)
	})

	t.Run("Should forbid users who are not assigned", func(t *testing.T) {
		svc, store, _, _, _, task := setup(t)
		carol := seedUser(t, store, "carol@x.com", domain.RoleUser)

		err := svc.Update(ctx, carol, task.ID.Hex(), domain.TaskUpdate{Status: domain.Some(domain.TaskStatusDone)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Should reject empty updates", func(t *testing.T) {
		svc, _, _, admin, _, task := setup(t)

		assert.ErrorIs(t, svc.Update(ctx, admin, task.ID.Hex(), domain.TaskUpdate{}), domain.ErrEmptyUpdate)
	})

	t.Run("Should reject admin self assignment", func(t *testing.T) {
		svc, _, _, admin, _, task := setup(t)

		err := svc.Update(ctx, admin, task.ID.Hex(), domain.TaskUpdate{AssignedTo: domain.Some("admin@x.com")})
		assert.ErrorIs(t, err, domain.ErrSelfAssignment)
	})

	t.Run("Should reassign and notify the new assignee", func(t *testing.T) {
		svc, store, notifier, admin, _, task := setup(t)

		require.NoError(t, svc.Update(ctx, admin, task.ID.Hex(), domain.TaskUpdate{AssignedTo: domain.Some("carol@x.com")}))

		stored, err := store.GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "carol@x.com", stored.AssignedTo)
		assert.Equal(t, "admin@x.com", stored.CreatedBy)
		assert.Equal(t, []string{"admin@x.com->carol@x.com"}, notifier.sent)
	})

	t.Run("Should not notify when the assignee is unchanged", func(t *testing.T) {
		svc, _, notifier, admin, _, task := setup(t)

		require.NoError(t, svc.Update(ctx, admin, task.ID.Hex(), domain.TaskUpdate{AssignedTo: domain.Some("bob@x.com")}))
		assert.Empty(t, notifier.sent)
	})

	t.Run("Should report missing tasks", func(t *testing.T) {
		svc, _, _, admin, _, _ := setup(t)

		err := svc.Update(ctx, admin, "64b7f0c2e4b0a1a2b3c4d5e6", domain.TaskUpdate{Title: domain.Some("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = svc.Update(ctx, admin, "not-an-id", domain.TaskUpdate{Title: domain.Some("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store, _, admin, _ := setupTasks(t)

	task, err := svc.Create(ctx, admin, domain.TaskDraft{Title: "t", Priority: "low", AssignedTo: "bob@x.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID.Hex()))
	_, err = store.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, task.ID.Hex()), domain.ErrNotFound)
}
