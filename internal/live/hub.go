package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/greenroots/greenroots-backend/internal/content"
)

// DefaultChannel carries rendered section fragments between instances.
const DefaultChannel = "greenroots:live"

// Message is one re-rendered section as sent to browsers.
type Message struct {
	Section content.Section `json:"section"`
	HTML    string          `json:"html"`
}

// Hub fans section fragments out to connected browsers. With a Redis
// client every instance publishes to, and streams from, one channel, so a
// browser sees updates rendered by any instance. Without one, fragments
// only reach streams on this process.
type Hub struct {
	client  *redis.Client
	channel string

	mu    sync.Mutex
	local map[chan string]struct{}
}

func NewHub(client *redis.Client, channel string) *Hub {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Hub{client: client, channel: channel, local: map[chan string]struct{}{}}
}

// Broadcast publishes a section fragment. Failures are logged; a missed
// fragment is repaired by the next full page load.
func (h *Hub) Broadcast(ctx context.Context, section content.Section, fragment string) {
	payload, err := json.Marshal(Message{Section: section, HTML: fragment})
	if err != nil {
		log.Printf("❌ Failed to encode %s fragment: %v", section, err)
		return
	}

	if h.client != nil {
		if err := h.client.Publish(ctx, h.channel, payload).Err(); err != nil {
			log.Printf("⚠️ Failed to publish %s fragment: %v", section, err)
		}
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.local {
		select {
		case ch <- string(payload):
		default:
			// Slow reader; it will catch up on its next page load.
		}
	}
}

func (h *Hub) attach() chan string {
	ch := make(chan string, 16)
	h.mu.Lock()
	h.local[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) detach(ch chan string) {
	h.mu.Lock()
	delete(h.local, ch)
	h.mu.Unlock()
}

// GET /api/v1/content/stream (SSE)
func (h *Hub) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	var payloads <-chan string

	if h.client != nil {
		sub := h.client.Subscribe(ctx, h.channel)
		defer sub.Close()
		if _, err := sub.Receive(ctx); err != nil {
			log.Printf("❌ Live stream subscribe failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
			return
		}
		relay := make(chan string)
		go func() {
			defer close(relay)
			for msg := range sub.Channel() {
				select {
				case relay <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}()
		payloads = relay
	} else {
		ch := h.attach()
		defer h.detach(ch)
		payloads = ch
	}

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	for {
		select {
		case payload, ok := <-payloads:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: section\n"))
			_, _ = c.Writer.Write([]byte("data: " + payload + "\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
