package utils

import (
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/greenroots/greenroots-backend/config"
)

var KafkaWriter *kafka.Writer

// InitializeKafka prepares the submission topic writer. Without brokers the
// writer stays nil and submission events are not published.
func InitializeKafka(cfg *config.Config) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("ℹ️ KAFKA_BROKERS not set, submission events disabled")
		return
	}

	KafkaWriter = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSubmissionTopic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	log.Printf("✅ Kafka writer ready for topic %s on %v", cfg.KafkaSubmissionTopic, cfg.KafkaBrokers)
}

// NewKafkaReader builds a consumer-group reader on the submission topic
func NewKafkaReader(cfg *config.Config) *kafka.Reader {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaConsumerGroup,
		Topic:    cfg.KafkaSubmissionTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// CloseKafka flushes and closes the writer
func CloseKafka() {
	if KafkaWriter != nil {
		if err := KafkaWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close failed: %v", err)
		}
	}
}
