package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/platform/config"
)

func acceptedCheckin() domain.Checkin {
	return domain.Checkin{
		CheckinID:    "checkin-1",
		CollectionID: "coll-1",
		ArticleID:    "article-1",
		AttemptRef:   "attempt-42",
		PackageName:  "pkg-2024-001.zip",
		Status:       domain.CheckinAccepted,
	}
}

func TestRequestCheckout_Success(t *testing.T) {
	var gotAuth string
	var gotPayload checkoutRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkouts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(&config.Config{
		CheckoutServiceURL:   server.URL,
		CheckoutServiceToken: "svc-token",
	})

	err := client.RequestCheckout(context.Background(), acceptedCheckin())

	require.NoError(t, err)
	assert.Equal(t, "Bearer svc-token", gotAuth)
	assert.Equal(t, "checkin-1", gotPayload.CheckinID)
	assert.Equal(t, "attempt-42", gotPayload.AttemptRef)
	assert.Equal(t, "pkg-2024-001.zip", gotPayload.PackageName)
}

func TestRequestCheckout_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(&config.Config{CheckoutServiceURL: server.URL})

	err := client.RequestCheckout(context.Background(), acceptedCheckin())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRequestCheckout_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&config.Config{CheckoutServiceURL: server.URL})

	err := client.RequestCheckout(context.Background(), acceptedCheckin())

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestRequestCheckout_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&config.Config{CheckoutServiceURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.RequestCheckout(ctx, acceptedCheckin())
	require.Error(t, err)
}
