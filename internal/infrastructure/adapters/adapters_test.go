package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/circuitbreaker"
)

func testTx() *risk.Transaction {
	return &risk.Transaction{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Amount:    250_000,
		IPAddress: "203.0.113.7",
		Timestamp: time.Now(),
	}
}

func TestMLClient_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["transaction_id"])
		assert.Equal(t, "203.0.113.7", req["ip_address"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"score": 62, "confidence": 0.91})
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, time.Second, circuitbreaker.New(5, time.Minute), zaptest.NewLogger(t))

	score, err := client.Score(context.Background(), testTx())
	require.NoError(t, err)
	assert.Equal(t, 62, score.Score)
	assert.InDelta(t, 0.91, score.Confidence, 0.001)
}

func TestMLClient_ClampsOutOfRangeScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"score": 250, "confidence": 1.0})
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, time.Second, circuitbreaker.New(5, time.Minute), zaptest.NewLogger(t))

	score, err := client.Score(context.Background(), testTx())
	require.NoError(t, err)
	assert.Equal(t, 100, score.Score)
}

func TestMLClient_TimeoutIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 20*time.Millisecond, circuitbreaker.New(5, time.Minute), zaptest.NewLogger(t))

	_, err := client.Score(context.Background(), testTx())
	assert.Error(t, err)
}

func TestMLClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	breaker := circuitbreaker.New(3, time.Minute)
	client := NewMLClient(srv.URL, time.Second, breaker, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		_, err := client.Score(context.Background(), testTx())
		assert.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State("ml"))

	_, err := client.Score(context.Background(), testTx())
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 3, hits, "open circuit must not touch the network")
}

func TestThreatIntelClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "203.0.113.7", req["ip_address"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"threat_level": "high", "category": "botnet"})
	}))
	defer srv.Close()

	client := NewThreatIntelClient(srv.URL, time.Second, circuitbreaker.New(5, time.Minute), zaptest.NewLogger(t))

	threat, err := client.Lookup(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, risk.CTIHigh, threat.Level)
	assert.Equal(t, "botnet", threat.Category)
}

func TestThreatIntelClient_UnknownLevelMapsToNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"threat_level": "catastrophic"})
	}))
	defer srv.Close()

	client := NewThreatIntelClient(srv.URL, time.Second, circuitbreaker.New(5, time.Minute), zaptest.NewLogger(t))

	threat, err := client.Lookup(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, risk.CTINone, threat.Level)
}

func TestBreakers_AreIndependentPerDependency(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"threat_level": "none"})
	}))
	defer up.Close()

	breaker := circuitbreaker.New(2, time.Minute)
	ml := NewMLClient(down.URL, time.Second, breaker, zaptest.NewLogger(t))
	cti := NewThreatIntelClient(up.URL, time.Second, breaker, zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		_, err := ml.Score(context.Background(), testTx())
		assert.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State("ml"))

	_, err := cti.Lookup(context.Background(), "203.0.113.7")
	assert.NoError(t, err, "threat intel circuit stays closed")
}
