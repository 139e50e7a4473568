package utils

import (
	"math/rand"
	"strings"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi",
	"ivan", "judy", "mallory", "oscar", "peggy", "rupert", "sybil", "trent",
	"victor", "walter",
}

var lastNames = []string{
	"smith", "chen", "garcia", "kim", "nguyen", "patel", "rossi", "schmidt",
	"tanaka", "wang", "li", "brown",
}

var digits = "0123456789"
var letters = []rune("abcdefghijklmnopqrstuvwxyz")

// 生成形如 alice.chen42 的邮箱用户名
func GenerateRandomLocalPart() string {
	var b strings.Builder
	b.WriteString(firstNames[rand.Intn(len(firstNames))])
	b.WriteByte('.')
	b.WriteString(lastNames[rand.Intn(len(lastNames))])

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		b.WriteByte(digits[rand.Intn(len(digits))])
	}
	return b.String()
}

// 种子用户一律是普通用户，管理员通过 INITIAL_ADMIN_* 创建
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        GenerateRandomLocalPart() + "@" + emailDomainName,
		PasswordHash: string(passwordHash),
		Role:         domain.RoleUser,
	}

	return user, nil
}

func GenerateRandomID(letterLength int, digitLength int) string {
	randomID := make([]rune, letterLength+digitLength)
	for i := range randomID {
		if i < letterLength {
			randomID[i] = letters[rand.Intn(len(letters))]
		} else {
			randomID[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(randomID)
}

var priorities = []string{"low", "medium", "high"}

var statuses = []domain.TaskStatus{
	domain.TaskStatusTodo,
	domain.TaskStatusInProgress,
	domain.TaskStatusDone,
}

var taskVerbs = []string{"Review", "Write", "Fix", "Deploy", "Plan", "Test", "Document"}
var taskObjects = []string{"login page", "release notes", "billing report", "API docs", "onboarding flow", "backup job"}

func GenerateRandomTask(createdBy string, assignee string) *domain.Task {
	task := &domain.Task{
		Title:      taskVerbs[rand.Intn(len(taskVerbs))] + " " + taskObjects[rand.Intn(len(taskObjects))],
		Priority:   priorities[rand.Intn(len(priorities))],
		Status:     statuses[rand.Intn(len(statuses))],
		AssignedTo: assignee,
		CreatedBy:  createdBy,
	}

	// 约一半的任务带描述
	if rand.Intn(2) == 0 {
		description := "任务描述 " + GenerateRandomID(8, 4)
		task.Description = &description
	}

	return task
}
