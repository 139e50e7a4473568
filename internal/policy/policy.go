// Package policy 包含任务与用户的访问控制规则。所有函数都是纯函数，不访问存储。
package policy

import (
	"slices"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
)

func CanListAllTasks(user *domain.User) bool {
	return user.IsAdmin()
}

// TaskVisibility 返回 user 可见任务的过滤条件：管理员可见全部，普通用户只能看到分配给自己的任务
func TaskVisibility(user *domain.User) domain.TaskFilter {
	if CanListAllTasks(user) {
		return domain.TaskFilter{}
	}
	return domain.TaskFilter{AssignedTo: user.Email}
}

func CanCreateTask(user *domain.User) bool {
	return user.IsAdmin()
}

func ValidateCreate(admin *domain.User, draft domain.TaskDraft) error {
	if draft.AssignedTo == admin.Email {
		return domain.ErrSelfAssignment
	}
	return nil
}

func CanUpdateTask(user *domain.User, task *domain.Task) bool {
	return user.IsAdmin() || task.AssignedTo == user.Email
}

// ValidateUpdate 检查 user 能否提交这组字段。普通用户只能修改 status，管理员不能把任务分配给自己。
func ValidateUpdate(user *domain.User, update domain.TaskUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return domain.ErrEmptyUpdate
	}

	if !user.IsAdmin() {
		if !slices.Equal(fields, []string{domain.FieldStatus}) {
			return domain.ErrFieldForbidden
		}
		return nil
	}

	if assignee, ok := update.AssignedTo.Get(); ok && assignee == user.Email {
		return domain.ErrSelfAssignment
	}
	return nil
}

func CanDeleteTask(user *domain.User) bool {
	return user.IsAdmin()
}

func UserVisibility(user *domain.User) domain.UserFilter {
	if user.IsAdmin() {
		return domain.UserFilter{}
	}
	return domain.UserFilter{Email: user.Email}
}
