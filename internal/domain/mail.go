package domain

const MailTypeTaskAssigned = "task_assigned"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type TaskAssignedMailData struct {
	TaskID      string `json:"taskId"`
	Title       string `json:"title"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Description string `json:"description"`
	AssignedBy  string `json:"assignedBy"`
}
