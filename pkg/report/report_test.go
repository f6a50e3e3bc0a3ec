package report

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func testSummary() *Summary {
	return &Summary{
		StartedAt:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt:     time.Date(2024, 3, 1, 9, 4, 30, 0, time.UTC),
		RecipeCount:    1000,
		ScoredCount:    980,
		MissingValues:  45,
		InvalidVectors: 20,
		IndexedCount:   1000,
		GradeCounts:    map[string]int{"A": 100, "B": 400, "C": 350, "D": 120, "E": 30},
	}
}

func TestGradeLine(t *testing.T) {
	t.Parallel()
	require.Equal(t, "A: 100 | B: 400 | C: 350 | D: 120 | E: 30", testSummary().GradeLine())
	require.Equal(t, "", (&Summary{}).GradeLine())
}

func TestWebhookSignsPayload(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature-256")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "topsecret")
	require.NoError(t, wh.Send(context.Background(), testSummary()))

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(gotBody)
	require.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSig)

	var decoded Summary
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	require.Equal(t, 1000, decoded.RecipeCount)
}

func TestSlackSendFailureStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewSlack(srv.URL).Send(context.Background(), testSummary())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestBroadcastJoinsErrors(t *testing.T) {
	t.Parallel()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	m := NewManager([]Notifier{
		NewWebhook(ok.URL, ""),
		NewDiscord(bad.URL),
	})
	require.True(t, m.HasNotifiers())

	err := m.Broadcast(context.Background(), testSummary())
	require.Error(t, err)
	require.Contains(t, err.Error(), "discord")
}
