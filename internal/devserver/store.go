package devserver

import (
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is a backend account record. Ids are numeric like the real
// backend's.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Department   string
}

// LeaveRequest is a backend leave record.
type LeaveRequest struct {
	ID              int64
	UserID          int64
	StartDate       string
	EndDate         string
	LeaveType       string
	Reason          string
	Status          string
	RejectionReason string
}

// Store is the in-memory backing state. Everything resets on restart,
// which is the point of a dev backend.
type Store struct {
	mu        sync.Mutex
	users     []User
	leaves    []LeaveRequest
	nextLeave int64
}

type SeedUser struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Role       string
	Department string
}

// DefaultSeed mirrors the offline fallback identities plus an HR
// account, so the same demo credentials work online and offline.
func DefaultSeed(adminEmail, adminPassword string) []SeedUser {
	return []SeedUser{
		{FirstName: "Admin", LastName: "User", Email: adminEmail, Password: adminPassword, Role: "admin"},
		{FirstName: "Sales", LastName: "User", Email: "sales@example.com", Password: "salespass", Role: "user", Department: "Sales"},
		{FirstName: "Helen", LastName: "Reyes", Email: "hr@example.com", Password: "hrpass", Role: "hr", Department: "HR"},
	}
}

func NewStore(seed []SeedUser) (*Store, error) {
	store := &Store{nextLeave: 1}
	for i, user := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		store.users = append(store.users, User{
			ID:           int64(i + 1),
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Username:     strings.SplitN(user.Email, "@", 2)[0],
			Email:        strings.ToLower(user.Email),
			PasswordHash: string(hash),
			Role:         user.Role,
			Department:   user.Department,
		})
	}
	return store, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Store) Authenticate(email, password string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return User{}, false
		}
		return user, true
	}
	return User{}, false
}

func (s *Store) UserByID(id int64) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}

func (s *Store) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) Leaves() []LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LeaveRequest, len(s.leaves))
	copy(out, s.leaves)
	return out
}

func (s *Store) LeavesForUser(userID int64) []LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LeaveRequest
	for _, request := range s.leaves {
		if request.UserID == userID {
			out = append(out, request)
		}
	}
	return out
}

func (s *Store) PendingLeaves() []LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LeaveRequest
	for _, request := range s.leaves {
		if request.Status == "pending" {
			out = append(out, request)
		}
	}
	return out
}

func (s *Store) CreateLeave(userID int64, startDate, endDate, leaveType, reason string) LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if leaveType == "" {
		leaveType = "Paid Leave"
	}
	request := LeaveRequest{
		ID:        s.nextLeave,
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		LeaveType: leaveType,
		Reason:    reason,
		Status:    "pending",
	}
	s.nextLeave++
	s.leaves = append(s.leaves, request)
	return request
}

// transition errors, matching the real backend's messages.
const (
	errNotFound    = "Leave request not found."
	errNotPending  = "Only pending leave requests can have their status changed."
	errNeedsReason = "Rejection reason is required when rejecting a leave request."
)

// UpdateLeaveStatus applies pending -> approved|rejected. Any other
// move is rejected with the message the client is expected to surface.
func (s *Store) UpdateLeaveStatus(id int64, status, rejectionReason string) (LeaveRequest, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leaves {
		if s.leaves[i].ID != id {
			continue
		}
		if s.leaves[i].Status != "pending" {
			return LeaveRequest{}, errNotPending
		}
		if status != "approved" && status != "rejected" {
			return LeaveRequest{}, errNotPending
		}
		if status == "rejected" && strings.TrimSpace(rejectionReason) == "" {
			return LeaveRequest{}, errNeedsReason
		}
		s.leaves[i].Status = status
		if status == "rejected" {
			s.leaves[i].RejectionReason = rejectionReason
		}
		return s.leaves[i], ""
	}
	return LeaveRequest{}, errNotFound
}
