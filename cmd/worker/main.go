// Worker consumes confirmation notifications from Kafka and delivers them by
// email. Set KAFKA_BROKERS, NOTIFY_KAFKA_TOPIC, KAFKA_GROUP_ID, MAIL_API_KEY,
// and MAIL_BASE_URL.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"social-link-service/internal/config"
	"social-link-service/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.NotifyKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.MailBaseURL == "" {
		log.Fatal("worker: MAIL_BASE_URL is required")
	}

	mail := notification.NewMailClient(cfg.MailAPIKey, cfg.MailBaseURL, cfg.MailFrom)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.NotifyKafkaTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming from %s (group %s)", cfg.NotifyKafkaTopic, cfg.KafkaGroupID)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		var confirmation notification.ConfirmationMessage
		if err := json.Unmarshal(msg.Value, &confirmation); err != nil {
			log.Printf("worker: malformed message at offset %d: %v", msg.Offset, err)
			continue
		}

		deliverCtx, deliverCancel := context.WithTimeout(ctx, 20*time.Second)
		if err := mail.DeliverConfirmation(deliverCtx, &confirmation); err != nil {
			log.Printf("worker: mail delivery for user %s failed: %v", confirmation.UserID, err)
		}
		deliverCancel()
	}
}
