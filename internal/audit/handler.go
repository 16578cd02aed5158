package audit

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/example/admin-dashboard/internal/resource"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Tally is the running outcome count of one resource
type Tally struct {
	Resource    string             `json:"resource"`
	Loaded      int                `json:"loaded"`
	Failed      int                `json:"failed"`
	LastOutcome string             `json:"last_outcome"`
	LastKind    resource.ErrorKind `json:"last_kind,omitempty"`
	LastAt      time.Time          `json:"last_at"`
}

// Handler processes fetch events from Kafka
type Handler struct {
	log *logrus.Entry

	mu      sync.Mutex
	tallies map[string]*Tally
}

func NewHandler(logger *logrus.Logger) *Handler {
	return &Handler{
		log:     logger.WithField("component", "auditor"),
		tallies: make(map[string]*Tally),
	}
}

// HandleEvent logs one fetch event and updates the resource's tally
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event resource.FetchEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return errors.Wrap(err, "unmarshal fetch event")
	}
	if event.Resource == "" {
		event.Resource = string(key)
	}

	h.mu.Lock()
	t, ok := h.tallies[event.Resource]
	if !ok {
		t = &Tally{Resource: event.Resource}
		h.tallies[event.Resource] = t
	}
	t.LastOutcome = event.Outcome
	t.LastKind = event.Kind
	t.LastAt = event.At
	if event.Outcome == resource.OutcomeFailed {
		t.Failed++
	} else {
		t.Loaded++
	}
	failed := t.Failed
	h.mu.Unlock()

	entry := h.log.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"resource":    event.Resource,
		"outcome":     event.Outcome,
		"duration_ms": event.Duration.Milliseconds(),
	})
	if event.Outcome == resource.OutcomeFailed {
		entry.WithFields(logrus.Fields{
			"kind":        event.Kind,
			"status_code": event.StatusCode,
			"failures":    failed,
		}).Warnf("Load failed: %s", event.Detail)
		return nil
	}
	entry.Infof("Loaded %d items", event.Count)
	return nil
}

// Tallies returns a copy of every tally, ordered by resource name
func (h *Handler) Tallies() []Tally {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Tally, 0, len(h.tallies))
	for _, t := range h.tallies {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out
}
