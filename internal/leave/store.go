package leave

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/api"
	"crmdesk/internal/authz"
	"crmdesk/internal/session"
)

// Store caches the normalized leave request list for every consumer:
// the self-service screens, the management screen and the notification
// watcher. Overlapping fetches are tolerated, not deduplicated; the
// re-fetch after each write converges the cache to backend state.
type Store struct {
	client   *api.Client
	sessions *session.Store
	log      *logrus.Logger

	mu        sync.Mutex
	requests  []Request
	loading   bool
	err       string
	listeners []func([]Request)
}

func NewStore(client *api.Client, sessions *session.Store, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{client: client, sessions: sessions, log: log}
}

// Requests returns a copy of the current normalized list.
func (s *Store) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Pending returns the subset still awaiting a decision, for the
// management screen's approval queue.
func (s *Store) Pending() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, request := range s.requests {
		if request.Status == StatusPending {
			out = append(out, request)
		}
	}
	return out
}

// Err returns the last fetch error message, or "" when the last fetch
// succeeded. Screens surface it as a dismissible banner.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// OnUpdate registers a listener invoked with the new list after every
// fetch. Registration happens during startup wiring.
func (s *Store) OnUpdate(listener func([]Request)) {
	s.listeners = append(s.listeners, listener)
}

// FetchAll populates the list from the endpoint matching the current
// identity's capability: management-capable roles see every request,
// everyone else only their own. On failure the list empties and the
// error message is recorded for display.
func (s *Store) FetchAll(ctx context.Context) error {
	sess := s.sessions.Current()
	if sess == nil {
		s.publish(nil, "")
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	path := "/leaves/requests/my_leaves"
	if authz.IsAdminOrHr(sess.Role) {
		path = "/leaves/requests"
	}

	var raw json.RawMessage
	if err := s.client.Get(ctx, path, &raw); err != nil {
		s.log.WithError(err).Warn("fetching leave requests failed")
		s.publish(nil, err.Error())
		return err
	}

	records, err := decodeList(raw)
	if err != nil {
		s.log.WithError(err).Warn("unexpected leave list payload")
		s.publish(nil, "Failed to load leave requests")
		return err
	}

	normalized := make([]Request, 0, len(records))
	for _, record := range records {
		normalized = append(normalized, normalize(record))
	}
	s.publish(normalized, "")
	return nil
}

type createPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason"`
}

// Create submits an already-validated request, then re-fetches the
// authoritative list. See ValidateCreate for the boundary checks.
func (s *Store) Create(ctx context.Context, input CreateInput) error {
	payload := createPayload{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		LeaveType: input.LeaveType,
		Reason:    input.Reason,
	}
	if payload.LeaveType == "" {
		payload.LeaveType = DefaultLeaveType
	}

	if err := s.client.Post(ctx, "/leaves/requests", payload, nil); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return s.FetchAll(ctx)
}

type transitionPayload struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Transition asks the backend to move a request out of pending. Only
// approved and rejected are meaningful targets; rejections carry a
// reason, defaulting to "Rejected". The backend enforces transition
// legality and capability, and the follow-up re-fetch reconciles the
// local view whether or not the call succeeded.
func (s *Store) Transition(ctx context.Context, id api.ID, status Status, rejectionReason string) error {
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid target status %q", status)
	}

	payload := transitionPayload{Status: string(status)}
	if status == StatusRejected {
		payload.RejectionReason = rejectionReason
		if payload.RejectionReason == "" {
			payload.RejectionReason = "Rejected"
		}
	}

	err := s.client.Post(ctx, fmt.Sprintf("/leaves/requests/%s/update_status", id), payload, nil)
	if err != nil {
		// Reconcile anyway: local state must reflect the backend, not
		// the failed intent.
		_ = s.FetchAll(ctx)
		return fmt.Errorf("update leave status: %w", err)
	}
	return s.FetchAll(ctx)
}

// decodeList accepts either a bare JSON array or a {results: [...]}
// wrapper.
func decodeList(raw json.RawMessage) ([]rawRecord, error) {
	var records []rawRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var wrapper struct {
		Results []rawRecord `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("unrecognized list shape: %w", err)
	}
	return wrapper.Results, nil
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) publish(requests []Request, errMessage string) {
	s.mu.Lock()
	s.requests = requests
	s.err = errMessage
	listeners := s.listeners
	snapshot := make([]Request, len(requests))
	copy(snapshot, requests)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}
