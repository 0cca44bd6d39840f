package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// SavedEvent is published once a submission has been stored.
type SavedEvent struct {
	ID         string     `json:"id"`
	Collection Collection `json:"collection"`
	Stored     string     `json:"stored"`
	Entry      Entry      `json:"entry"`
	SavedAt    time.Time  `json:"saved_at"`
}

// Publisher announces saved submissions to other services.
type Publisher interface {
	PublishSaved(ctx context.Context, evt SavedEvent) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes SavedEvents keyed by collection, so each
// collection keeps its order within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishSaved(ctx context.Context, evt SavedEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode submission event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Collection),
		Value: value,
		Time:  evt.SavedAt,
	})
}
