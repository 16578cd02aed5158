package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/example/admin-dashboard/internal/resource"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, event resource.FetchEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestHandler_HandleEvent_Loaded(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := NewHandler(logger)
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	err := h.HandleEvent(context.Background(), []byte("products"), encode(t, resource.FetchEvent{
		ID: "e-1", Resource: "products", Outcome: resource.OutcomeLoaded, Count: 20, At: at,
	}))

	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Loaded 20 items", entry.Message)
	assert.Equal(t, []Tally{{Resource: "products", Loaded: 1, LastOutcome: resource.OutcomeLoaded, LastAt: at}}, h.Tallies())
}

func TestHandler_HandleEvent_FailuresAccumulate(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := NewHandler(logger)
	failed := resource.FetchEvent{Resource: "medicines", Outcome: resource.OutcomeFailed, Kind: resource.KindDecode, Detail: "envelope reports success=false"}

	require.NoError(t, h.HandleEvent(context.Background(), nil, encode(t, failed)))
	require.NoError(t, h.HandleEvent(context.Background(), nil, encode(t, failed)))
	require.NoError(t, h.HandleEvent(context.Background(), nil, encode(t, resource.FetchEvent{Resource: "users", Outcome: resource.OutcomeLoaded})))

	tallies := h.Tallies()
	require.Len(t, tallies, 2)
	assert.Equal(t, "medicines", tallies[0].Resource)
	assert.Equal(t, 2, tallies[0].Failed)
	assert.Equal(t, resource.KindDecode, tallies[0].LastKind)
	assert.Equal(t, "users", tallies[1].Resource)

	warn := hook.Entries[1]
	assert.Equal(t, logrus.WarnLevel, warn.Level)
	assert.Equal(t, 2, warn.Data["failures"])
}

func TestHandler_HandleEvent_ResourceFromKey(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHandler(logger)

	require.NoError(t, h.HandleEvent(context.Background(), []byte("users"), []byte(`{"outcome":"loaded"}`)))

	assert.Equal(t, "users", h.Tallies()[0].Resource)
}

func TestHandler_HandleEvent_InvalidPayload(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHandler(logger)

	err := h.HandleEvent(context.Background(), nil, []byte("not json"))

	assert.Error(t, err)
	assert.Empty(t, h.Tallies())
}
