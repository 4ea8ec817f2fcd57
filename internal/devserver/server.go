// Package devserver is an in-memory stand-in for the CRM backend. It
// implements the exact REST surface the console client consumes, with
// the same wire shapes and error messages, so the client can be
// developed and journey-tested without the real backend.
package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/authz"
)

type Server struct {
	store  *Store
	secret string
	log    *logrus.Logger
	router chi.Router
}

func New(store *Store, secret string, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{store: store, secret: secret, log: log}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(requestLogger(log))
	router.Use(s.auth)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(api chi.Router) {
		api.Post("/accounts/users/login", s.handleLogin)
		api.Get("/accounts/users/me", s.handleMe)
		api.Get("/accounts/users", s.handleListUsers)

		api.Route("/leaves/requests", func(leaves chi.Router) {
			leaves.Get("/", s.handleListLeaves)
			leaves.Post("/", s.handleCreateLeave)
			leaves.Get("/my_leaves", s.handleMyLeaves)
			leaves.Get("/pending", s.handlePendingLeaves)
			leaves.Post("/{id}/update_status", s.handleUpdateStatus)
		})
	})

	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Wire shapes: snake_case dates with a camelCase nested user object,
// matching the real backend's mixed conventions.

type userPayload struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

type leavePayload struct {
	ID              int64        `json:"id"`
	User            int64        `json:"user"`
	UserDetail      *userPayload `json:"userDetail,omitempty"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	LeaveType       string       `json:"leave_type"`
	Reason          string       `json:"reason"`
	Status          string       `json:"status"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
}

func toUserPayload(user User) userPayload {
	return userPayload{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		Department: user.Department,
	}
}

func (s *Server) toLeavePayload(request LeaveRequest) leavePayload {
	payload := leavePayload{
		ID:              request.ID,
		User:            request.UserID,
		StartDate:       request.StartDate,
		EndDate:         request.EndDate,
		LeaveType:       request.LeaveType,
		Reason:          request.Reason,
		Status:          request.Status,
		RejectionReason: request.RejectionReason,
	}
	if user, ok := s.store.UserByID(request.UserID); ok {
		detail := toUserPayload(user)
		payload.UserDetail = &detail
	}
	return payload
}

func (s *Server) toLeavePayloads(requests []LeaveRequest) []leavePayload {
	payloads := make([]leavePayload, 0, len(requests))
	for _, request := range requests {
		payloads = append(payloads, s.toLeavePayload(request))
	}
	return payloads
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	user, ok := s.store.Authenticate(body.Email, body.Password)
	if !ok {
		fail(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	access, err := generateToken(s.secret, user)
	if err != nil {
		fail(w, http.StatusInternalServerError, "Could not issue token.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":   toUserPayload(user),
		"access": access,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	if !authz.CanManageUsers(user.Role) {
		fail(w, http.StatusForbidden, "You do not have permission to list users.")
		return
	}

	payloads := make([]userPayload, 0)
	for _, account := range s.store.Users() {
		payloads = append(payloads, toUserPayload(account))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) handleListLeaves(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	if !authz.CanManageLeave(user.Role) {
		fail(w, http.StatusForbidden, "You do not have permission to view all leave requests.")
		return
	}
	writeJSON(w, http.StatusOK, s.toLeavePayloads(s.store.Leaves()))
}

func (s *Server) handleMyLeaves(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, s.toLeavePayloads(s.store.LeavesForUser(user.ID)))
}

func (s *Server) handlePendingLeaves(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	if !authz.CanManageLeave(user.Role) {
		fail(w, http.StatusForbidden, "You do not have permission to view pending leave requests.")
		return
	}
	writeJSON(w, http.StatusOK, s.toLeavePayloads(s.store.PendingLeaves()))
}

func (s *Server) handleCreateLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		LeaveType string `json:"leave_type"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if body.StartDate == "" || body.EndDate == "" {
		fail(w, http.StatusBadRequest, "Start and end dates are required.")
		return
	}
	if body.EndDate < body.StartDate {
		fail(w, http.StatusBadRequest, "End date must be on or after start date.")
		return
	}

	created := s.store.CreateLeave(user.ID, body.StartDate, body.EndDate, body.LeaveType, body.Reason)
	writeJSON(w, http.StatusCreated, s.toLeavePayload(created))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	if !authz.CanManageLeave(user.Role) {
		fail(w, http.StatusForbidden, "You do not have permission to approve/reject leave requests.")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		fail(w, http.StatusNotFound, errNotFound)
		return
	}

	var body struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	updated, errMessage := s.store.UpdateLeaveStatus(id, body.Status, body.RejectionReason)
	switch errMessage {
	case "":
		writeJSON(w, http.StatusOK, s.toLeavePayload(updated))
	case errNotFound:
		fail(w, http.StatusNotFound, errMessage)
	default:
		fail(w, http.StatusBadRequest, errMessage)
	}
}
