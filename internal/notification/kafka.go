package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	identitydomain "social-link-service/internal/identity/domain"
	userdomain "social-link-service/internal/user/domain"
)

// KafkaNotifier enqueues confirmation messages on a Kafka topic.
type KafkaNotifier struct {
	writer  *kafka.Writer
	topic   string
	baseURL string
}

// NewKafkaNotifier creates a notifier that writes confirmation messages to
// the given topic. Returns (nil, nil) when brokers or topic are unset, which
// disables notification delivery. Call Close when shutting down.
func NewKafkaNotifier(brokers []string, topic, baseURL string) (*KafkaNotifier, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaNotifier{writer: writer, topic: topic, baseURL: baseURL}, nil
}

// SendConfirmation serializes a confirmation message for the identity and
// writes it to the topic. Uses a short timeout so slow Kafka does not block
// the registration flow indefinitely.
func (n *KafkaNotifier) SendConfirmation(ctx context.Context, user *userdomain.User, identity *identitydomain.SocialIdentity) error {
	if n == nil || n.writer == nil {
		return nil
	}
	msg := ConfirmationMessage{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Provider:     identity.Provider,
		ConfirmToken: identity.ConfirmToken,
		ConfirmURL:   fmt.Sprintf("%s/auth/confirm/%s", n.baseURL, identity.ConfirmToken),
		RequestedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return n.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(user.ID),
		Value: payload,
	})
}

// Close closes the Kafka writer. Safe to call multiple times.
func (n *KafkaNotifier) Close() error {
	if n == nil || n.writer == nil {
		return nil
	}
	return n.writer.Close()
}
