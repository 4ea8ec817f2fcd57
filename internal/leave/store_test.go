package leave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/api"
	"crmdesk/internal/platform/state"
	"crmdesk/internal/session"
)

func sessionWithRole(t *testing.T, id, role string) *session.Store {
	t.Helper()
	storage := state.NewMemoryStore()
	record := fmt.Sprintf(`{"id":%q,"name":"Test User","email":"t@example.com","role":%q}`, id, role)
	require.NoError(t, storage.Set(state.KeyUser, record))
	require.NoError(t, storage.Set(state.KeyToken, "tok"))

	sessions := session.New("http://unused", storage)
	sessions.Restore()
	require.NotNil(t, sessions.Current())
	return sessions
}

func newStore(t *testing.T, backendURL string, sessions *session.Store) *Store {
	t.Helper()
	client := api.New(backendURL, api.WithTokenSource(sessions.Token))
	return NewStore(client, sessions, nil)
}

func TestFetchAllEndpointByCapability(t *testing.T) {
	cases := []struct {
		role     string
		wantPath string
	}{
		{"admin", "/leaves/requests"},
		{"superadmin", "/leaves/requests"},
		{"hr", "/leaves/requests"},
		{"user", "/leaves/requests/my_leaves"},
		{"finance", "/leaves/requests/my_leaves"},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			var gotPath string
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write([]byte(`[]`))
			}))
			defer backend.Close()

			store := newStore(t, backend.URL, sessionWithRole(t, "1", tc.role))
			require.NoError(t, store.FetchAll(context.Background()))
			assert.Equal(t, tc.wantPath, gotPath)
		})
	}
}

func TestFetchAllAcceptsResultsWrapper(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":1,"user":2,"reason":"pto","status":"pending"}]}`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "2", "user"))
	require.NoError(t, store.FetchAll(context.Background()))

	requests := store.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "1", requests[0].ID.String())
	assert.Equal(t, StatusPending, requests[0].Status)
}

func TestFetchAllWithoutSessionClearsList(t *testing.T) {
	storage := state.NewMemoryStore()
	sessions := session.New("http://unused", storage)

	store := newStore(t, "http://unused", sessions)
	require.NoError(t, store.FetchAll(context.Background()))
	assert.Empty(t, store.Requests())
}

func TestFetchAllFailureEmptiesListAndRecordsError(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`[{"id":1,"user":2,"reason":"pto"}]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"database down"}`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "2", "user"))
	require.NoError(t, store.FetchAll(context.Background()))
	require.Len(t, store.Requests(), 1)

	err := store.FetchAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.Requests())
	assert.Equal(t, "database down", store.Err())

	// A later successful fetch clears the recorded error.
	calls = 0
	require.NoError(t, store.FetchAll(context.Background()))
	assert.Empty(t, store.Err())
}

func TestCreateRefetchesWithoutDuplication(t *testing.T) {
	var records []map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/leaves/requests":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			body["id"] = len(records) + 100
			body["user"] = 2
			body["status"] = "pending"
			records = append(records, body)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(body)
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(records)
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "2", "user"))
	err := store.Create(context.Background(), CreateInput{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-05",
		Reason:    "vacation",
	})
	require.NoError(t, err)

	requests := store.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "100", requests[0].ID.String())
	assert.Equal(t, DefaultLeaveType, requests[0].LeaveType)

	// A second create still yields each item exactly once.
	require.NoError(t, store.Create(context.Background(), CreateInput{
		StartDate: "2025-04-01",
		EndDate:   "2025-04-02",
		Reason:    "moving",
	}))
	requests = store.Requests()
	require.Len(t, requests, 2)
	assert.NotEqual(t, requests[0].ID, requests[1].ID)
}

func TestCreateSendsWireFieldNames(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "2", "user"))
	require.NoError(t, store.Create(context.Background(), CreateInput{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-05",
		LeaveType: "Sick Leave",
		Reason:    "flu",
	}))

	assert.Equal(t, "2025-03-01", gotBody["start_date"])
	assert.Equal(t, "2025-03-05", gotBody["end_date"])
	assert.Equal(t, "Sick Leave", gotBody["leave_type"])
	assert.Equal(t, "flu", gotBody["reason"])
}

func TestCreateBackendRejection(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"overlapping request"}`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "2", "user"))
	err := store.Create(context.Background(), CreateInput{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-05",
		Reason:    "vacation",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlapping request")
}

func TestTransitionRejectedDefaultsReason(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "1", "admin"))
	require.NoError(t, store.Transition(context.Background(), "42", StatusRejected, ""))

	assert.Equal(t, "/leaves/requests/42/update_status", gotPath)
	assert.Equal(t, "rejected", gotBody["status"])
	assert.Equal(t, "Rejected", gotBody["rejection_reason"])
}

func TestTransitionRejectedKeepsExplicitReason(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "1", "hr"))
	require.NoError(t, store.Transition(context.Background(), "42", StatusRejected, "no coverage that week"))
	assert.Equal(t, "no coverage that week", gotBody["rejection_reason"])
}

func TestTransitionApprovedOmitsReason(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "1", "admin"))
	require.NoError(t, store.Transition(context.Background(), "42", StatusApproved, ""))
	assert.Equal(t, "approved", gotBody["status"])
	_, hasReason := gotBody["rejection_reason"]
	assert.False(t, hasReason)
}

func TestTransitionInvalidTargetNeverCallsBackend(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "1", "admin"))
	err := store.Transition(context.Background(), "42", StatusPending, "")
	require.Error(t, err)
	assert.False(t, called)
}

// A settled request cannot move again; the backend rejects it and the
// store must surface that failure while converging to backend state.
func TestTransitionOnSettledRequestSurfacesBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Only pending requests can be updated"}`))
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 42, "user": 2, "reason": "pto", "status": "approved"},
		})
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "1", "admin"))
	require.NoError(t, store.FetchAll(context.Background()))

	err := store.Transition(context.Background(), "42", StatusRejected, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only pending requests can be updated")

	// Local state still mirrors the backend, not the failed intent.
	requests := store.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, StatusApproved, requests[0].Status)
}

func TestPendingFilter(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "user": 2, "status": "pending"},
			{"id": 2, "user": 3, "status": "approved"},
			{"id": 3, "user": 4, "status": "pending"},
		})
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "1", "hr"))
	require.NoError(t, store.FetchAll(context.Background()))

	pending := store.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].ID.String())
	assert.Equal(t, "3", pending[1].ID.String())
}

func TestOnUpdateListener(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"user":2,"status":"approved"}]`))
	}))
	defer backend.Close()

	store := newStore(t, backend.URL, sessionWithRole(t, "2", "user"))
	var seen [][]Request
	store.OnUpdate(func(requests []Request) { seen = append(seen, requests) })

	require.NoError(t, store.FetchAll(context.Background()))
	require.Len(t, seen, 1)
	require.Len(t, seen[0], 1)
	assert.Equal(t, StatusApproved, seen[0][0].Status)
}
