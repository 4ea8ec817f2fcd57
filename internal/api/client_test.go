package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(server.URL, WithTokenSource(func() string { return "tok123" }))
	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/ping", &out))
	require.Equal(t, "Bearer tok123", gotAuth)
	require.NotEmpty(t, gotRequestID)
	require.True(t, out["ok"])
}

func TestNoBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL)
	require.NoError(t, client.Get(context.Background(), "/ping", nil))
	require.Empty(t, gotAuth)
}

func TestUnauthorizedFiresHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	fired := 0
	client := New(server.URL, WithUnauthorizedHook(func() { fired++ }))
	err := client.Get(context.Background(), "/leaves/requests", nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, 1, fired)
}

func TestErrorMessageExtractionOrder(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail wins", `{"detail":"from detail","message":"from message"}`, "from detail"},
		{"message next", `{"message":"from message","error":"from error"}`, "from message"},
		{"error last", `{"error":"from error"}`, "from error"},
		{"status text fallback", `{}`, "Bad Request"},
		{"garbage body", `not json`, "Bad Request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			err := New(server.URL).Get(context.Background(), "/x", nil)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusBadRequest, apiErr.Status)
			require.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := New(server.URL).Get(context.Background(), "/x", nil)
	require.ErrorIs(t, err, ErrUnreachable)
	require.Contains(t, err.Error(), "Make sure the CRM backend is running")
}

func TestPostEncodesBody(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(server.URL)
	err := client.Post(context.Background(), "/leaves/requests", map[string]string{"reason": "pto"}, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"reason":"pto"}`, gotBody)
}

func TestContextCancellationIsNotUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(server.URL).Get(ctx, "/x", nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnauthorized))
}
