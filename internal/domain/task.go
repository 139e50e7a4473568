package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Priority    string             `bson:"priority" json:"priority"`
	Status      TaskStatus         `bson:"status" json:"status"`
	Description *string            `bson:"description,omitempty" json:"description"`
	AssignedTo  string             `bson:"assigned_to" json:"assigned_to"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
}

// TaskDraft 是创建任务时由管理员提交的内容，CreatedBy 由服务端填充
type TaskDraft struct {
	Title       string
	Priority    string
	Status      TaskStatus
	Description *string
	AssignedTo  string
}

// TaskFilter 为空时不做任何限制
type TaskFilter struct {
	AssignedTo string
}

func (f TaskFilter) Unrestricted() bool {
	return f.AssignedTo == ""
}

func (f TaskFilter) Matches(t *Task) bool {
	return f.Unrestricted() || t.AssignedTo == f.AssignedTo
}

// 可更新字段的名称，与存储中的字段名一致
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldAssignedTo  = "assigned_to"
)

// TaskUpdate 是稀疏更新：只有出现且不为 null 的字段会被修改
type TaskUpdate struct {
	Title       Optional[string]     `json:"title" validate:"omitempty,min=1"`
	Description Optional[string]     `json:"description"`
	Status      Optional[TaskStatus] `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    Optional[string]     `json:"priority" validate:"omitempty,min=1"`
	AssignedTo  Optional[string]     `json:"assigned_to" validate:"omitempty,min=1"`
}

// Fields 按固定顺序返回所有被提供的字段名
func (u TaskUpdate) Fields() []string {
	fields := make([]string, 0, 5)
	if u.Title.IsSet() {
		fields = append(fields, FieldTitle)
	}
	if u.Description.IsSet() {
		fields = append(fields, FieldDescription)
	}
	if u.Status.IsSet() {
		fields = append(fields, FieldStatus)
	}
	if u.Priority.IsSet() {
		fields = append(fields, FieldPriority)
	}
	if u.AssignedTo.IsSet() {
		fields = append(fields, FieldAssignedTo)
	}
	return fields
}

func (u TaskUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Apply 将被提供的字段写入 t，其余字段保持不变
func (u TaskUpdate) Apply(t *Task) {
	if v, ok := u.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := u.Description.Get(); ok {
		t.Description = &v
	}
	if v, ok := u.Status.Get(); ok {
		t.Status = v
	}
	if v, ok := u.Priority.Get(); ok {
		t.Priority = v
	}
	if v, ok := u.AssignedTo.Get(); ok {
		t.AssignedTo = v
	}
}
