// Package notify 将任务分配通知投递到邮件队列，由 cmd/mail 消费并发送。
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
)

const QueueName = "email_queue"

// Channel 是 *amqp.Channel 中发布消息所需的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// DeclareQueue 声明持久化的邮件队列，api 与 mail worker 启动时都会调用
func DeclareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		QueueName, // 队列名称
		true,      // 是否持久化
		false,     // 是否自动删除
		false,     // 是否独占
		false,     // 是否不等待
		nil,       // 额外参数
	)
}

type Publisher struct {
	ch      Channel
	timeout time.Duration
}

func NewPublisher(ch Channel, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		timeout: timeout,
	}
}

func NewTaskAssignedMessage(task *domain.Task, assignedBy string) domain.MailMessage {
	data := domain.TaskAssignedMailData{
		TaskID:     task.ID.Hex(),
		Title:      task.Title,
		Priority:   task.Priority,
		Status:     string(task.Status),
		AssignedBy: assignedBy,
	}
	if task.Description != nil {
		data.Description = *task.Description
	}

	return domain.MailMessage{
		Type: domain.MailTypeTaskAssigned,
		To:   task.AssignedTo,
		Data: data,
	}
}

func (p *Publisher) TaskAssigned(ctx context.Context, task *domain.Task, assignedBy string) error {
	body, err := json.Marshal(NewTaskAssignedMessage(task, assignedBy))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
