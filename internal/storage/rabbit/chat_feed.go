package rabbit

import (
	"EduStream/internal/models"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ChatFeed is the change-notification channel for chat messages: every saved
// message is published to the topic exchange with a per-course routing key,
// and each stream subscriber gets its own auto-delete queue bound to that
// key. History in postgres stays the source of truth; the feed is delivery
// only.
type ChatFeed struct {
	rb *Rabbit
}

func NewChatFeed(rb *Rabbit) *ChatFeed {
	return &ChatFeed{rb: rb}
}

func routingKey(courseID uuid.UUID) string {
	return "chat." + courseID.String()
}

func (f *ChatFeed) Publish(ctx context.Context, msg models.ChatMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}

	ch, err := f.rb.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, f.rb.exchange, routingKey(msg.CourseID), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish chat message: %w", err)
	}
	return nil
}

// Subscribe binds a fresh exclusive queue to the course routing key and
// decodes deliveries onto the returned channel until ctx is done. The
// channel is closed when the subscription ends.
func (f *ChatFeed) Subscribe(ctx context.Context, courseID uuid.UUID) (<-chan models.ChatMessage, error) {
	ch, err := f.rb.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey(courseID), f.rb.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume queue: %w", err)
	}

	out := make(chan models.ChatMessage)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var msg models.ChatMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
