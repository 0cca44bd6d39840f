package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/greenroots/greenroots-backend/internal/submission"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer sends confirmation emails for submissions published on the
// submission topic.
type Consumer struct {
	reader messageReader
	mailer Mailer
}

func NewConsumer(r *kafka.Reader, m Mailer) *Consumer {
	return &Consumer{reader: r, mailer: m}
}

// Run reads until ctx is cancelled. A message is committed once handled,
// even when the email could not be sent.
func (c *Consumer) Run(ctx context.Context) error {
	log.Println("🔄 Notification consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := c.Handle(msg); err != nil {
			log.Printf("⚠️ Notification for offset %d failed: %v", msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Printf("⚠️ Commit of offset %d failed: %v", msg.Offset, err)
		}
	}
}

// Handle decodes one message and sends its confirmation, if any.
func (c *Consumer) Handle(msg kafka.Message) error {
	var evt submission.SavedEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return err
	}
	conf, ok := BuildConfirmation(evt)
	if !ok {
		return nil
	}
	return c.mailer.Send([]string{conf.To}, conf.Subject, conf.Message)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
