package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// sseReplayLimit bounds the replay buffer backing Last-Event-ID
	// reconnection.
	sseReplayLimit = 1000

	// sseKeepaliveInterval is how often comment lines are written so idle
	// streams survive proxy timeouts.
	sseKeepaliveInterval = 15 * time.Second
)

// sseEvent is one event as delivered to stream clients. IDs are assigned
// from a single monotonic counter, so the replay buffer is always sorted.
type sseEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}

// sseHub fans out graph mutation events to connected stream clients and
// keeps a bounded replay buffer for reconnecting ones.
type sseHub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
	lastID  uint64
	replay  []sseEvent
}

// sseClient is a single connected consumer. An empty topics list means
// every event is delivered.
type sseClient struct {
	topics []string
	ch     chan *sseEvent
}

func newSSEHub() *sseHub {
	return &sseHub{
		clients: make(map[*sseClient]struct{}),
	}
}

// broadcast records the event for replay and delivers it to every client
// whose filter matches. Slow clients lose events instead of blocking the
// mutation path.
func (h *sseHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	evt := &sseEvent{ID: h.lastID, Topic: topic, Data: payload}

	h.replay = append(h.replay, *evt)
	if len(h.replay) > sseReplayLimit {
		h.replay = h.replay[len(h.replay)-sseReplayLimit:]
	}

	for c := range h.clients {
		if c.matchesTopic(topic) {
			select {
			case c.ch <- evt:
			default:
			}
		}
	}
}

func (h *sseHub) subscribe(topics []string) *sseClient {
	c := &sseClient{
		topics: topics,
		ch:     make(chan *sseEvent, 64),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// subscribeFrom registers a client and returns buffered events with
// ID > lastID in one critical section. Everything broadcast after the call
// arrives on the live channel only, so a reconnecting client never sees an
// event both replayed and live.
func (h *sseHub) subscribeFrom(topics []string, lastID uint64) (*sseClient, []*sseEvent) {
	c := &sseClient{
		topics: topics,
		ch:     make(chan *sseEvent, 64),
	}
	h.mu.Lock()
	replay := h.eventsSinceLocked(lastID)
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c, replay
}

func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// eventsSince returns buffered events with ID > lastID in order. Events
// older than the replay window are simply gone; callers get whatever the
// buffer still holds.
func (h *sseHub) eventsSince(lastID uint64) []*sseEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eventsSinceLocked(lastID)
}

func (h *sseHub) eventsSinceLocked(lastID uint64) []*sseEvent {
	// IDs in the buffer are strictly increasing, so the first event newer
	// than lastID is found by binary search.
	i := sort.Search(len(h.replay), func(i int) bool {
		return h.replay[i].ID > lastID
	})
	if i == len(h.replay) {
		return nil
	}

	result := make([]*sseEvent, 0, len(h.replay)-i)
	for ; i < len(h.replay); i++ {
		evt := h.replay[i]
		result = append(result, &evt)
	}
	return result
}

func (c *sseClient) matchesTopic(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, pattern := range c.topics {
		if matchTopicPattern(pattern, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated topic against a NATS-style
// pattern: "*" matches exactly one segment ("weft.edge.*" matches
// "weft.edge.removed") and a trailing ">" matches one or more.
func matchTopicPattern(pattern, topic string) bool {
	pat := strings.Split(pattern, ".")
	top := strings.Split(topic, ".")

	i := 0
	for ; i < len(pat); i++ {
		if pat[i] == ">" {
			return i < len(top)
		}
		if i >= len(top) {
			return false
		}
		if pat[i] != "*" && pat[i] != top[i] {
			return false
		}
	}
	return i == len(top)
}

// parseTopicFilter splits a comma-separated topics query parameter into
// glob patterns, dropping empty entries.
func parseTopicFilter(q string) []string {
	var topics []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// handleEventStream handles GET /v1/events/stream.
func (s *WeftServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	topics := parseTopicFilter(r.URL.Query().Get("topics"))

	// Reconnecting clients send Last-Event-ID; registration and replay are
	// one hub operation so nothing broadcast in between is delivered twice.
	var (
		client *sseClient
		replay []*sseEvent
	)
	if lastIDStr := r.Header.Get("Last-Event-ID"); lastIDStr != "" {
		if lastID, err := strconv.ParseUint(lastIDStr, 10, 64); err == nil {
			client, replay = s.sseHub.subscribeFrom(topics, lastID)
		}
	}
	if client == nil {
		client = s.sseHub.subscribe(topics)
	}
	defer s.sseHub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx would buffer otherwise
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for _, evt := range replay {
		if client.matchesTopic(evt.Topic) {
			writeSSEEvent(w, evt)
		}
	}
	if len(replay) > 0 {
		flusher.Flush()
	}

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, evt *sseEvent) {
	fmt.Fprintf(w, "id:%d\n", evt.ID)
	fmt.Fprintf(w, "event:%s\n", evt.Topic)
	fmt.Fprintf(w, "data:%s\n\n", evt.Data)
}
