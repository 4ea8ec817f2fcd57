// Package leave is the client-side store for leave requests: it
// fetches them from the backend, normalizes the heterogeneous payload
// shapes into one canonical record, and funnels every mutation through
// a single create and a single transition operation. The backend is
// the source of truth; after every write the store re-fetches instead
// of mutating its cache speculatively.
package leave

import (
	"strings"

	"crmdesk/internal/api"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DefaultLeaveType is applied when the backend omits the leave type.
const DefaultLeaveType = "Paid Leave"

// placeholder stands in for missing requester details.
const placeholder = "—"

// Request is the canonical client-side shape of one leave request.
// Nothing outside this package sees raw backend records.
type Request struct {
	ID              api.ID `json:"id"`
	UserID          api.ID `json:"userId"`
	Name            string `json:"name"`
	Department      string `json:"department"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	LeaveType       string `json:"leaveType"`
	Reason          string `json:"reason"`
	Status          Status `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// rawUser is the nested requester-detail object, in either field
// casing the backend produces.
type rawUser struct {
	ID           api.ID  `json:"id"`
	FirstName    string  `json:"first_name"`
	FirstNameAlt string  `json:"firstName"`
	LastName     string  `json:"last_name"`
	LastNameAlt  string  `json:"lastName"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Department   *string `json:"department"`
}

func (u rawUser) first() string { return firstNonEmpty(u.FirstName, u.FirstNameAlt) }
func (u rawUser) last() string  { return firstNonEmpty(u.LastName, u.LastNameAlt) }

// displayName derives the requester's display name: first+last name,
// falling back through username and email to the placeholder.
func (u rawUser) displayName() string {
	parts := make([]string, 0, 2)
	for _, part := range []string{u.first(), u.last()} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if name := strings.TrimSpace(strings.Join(parts, " ")); name != "" {
		return name
	}
	return firstNonEmpty(u.Username, u.Email, placeholder)
}

// rawRecord is the tagged intermediate for one backend leave record.
// It tolerates snake_case and camelCase field names, a nested user
// object under either key, and already-canonical records, so
// normalization is idempotent.
type rawRecord struct {
	ID              api.ID   `json:"id"`
	User            api.ID   `json:"user"`
	UserID          api.ID   `json:"userId"`
	UserDetail      *rawUser `json:"user_detail"`
	UserDetailAlt   *rawUser `json:"userDetail"`
	Name            string   `json:"name"`
	Department      string   `json:"department"`
	StartDate       string   `json:"start_date"`
	StartDateAlt    string   `json:"startDate"`
	EndDate         string   `json:"end_date"`
	EndDateAlt      string   `json:"endDate"`
	LeaveType       string   `json:"leave_type"`
	LeaveTypeAlt    string   `json:"leaveType"`
	Reason          string   `json:"reason"`
	Status          string   `json:"status"`
	RejectionReason string   `json:"rejection_reason"`
	RejectionAlt    string   `json:"rejectionReason"`
}

// normalize converts a raw backend record into the canonical shape.
func normalize(raw rawRecord) Request {
	detail := raw.UserDetail
	if detail == nil {
		detail = raw.UserDetailAlt
	}

	name := firstNonEmpty(raw.Name, placeholder)
	department := firstNonEmpty(raw.Department, placeholder)
	if detail != nil {
		name = detail.displayName()
		if detail.Department != nil {
			department = *detail.Department
		} else {
			department = placeholder
		}
	}

	userID := raw.User
	if userID.IsZero() {
		userID = raw.UserID
	}
	if userID.IsZero() && detail != nil {
		userID = detail.ID
	}

	status := strings.ToLower(strings.TrimSpace(raw.Status))
	if status == "" {
		status = string(StatusPending)
	}

	return Request{
		ID:              raw.ID,
		UserID:          userID,
		Name:            name,
		Department:      department,
		StartDate:       firstNonEmpty(raw.StartDate, raw.StartDateAlt),
		EndDate:         firstNonEmpty(raw.EndDate, raw.EndDateAlt),
		LeaveType:       firstNonEmpty(raw.LeaveType, raw.LeaveTypeAlt, DefaultLeaveType),
		Reason:          raw.Reason,
		Status:          Status(status),
		RejectionReason: firstNonEmpty(raw.RejectionReason, raw.RejectionAlt),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
