// Package users backs the user management screen: a read-only
// directory of CRM accounts fetched from the backend. Writes (create,
// edit, delete) stay on the admin web client and are out of scope
// here.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/api"
)

// User is the canonical directory entry.
type User struct {
	ID         api.ID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// rawUser tolerates the backend's snake/camel field duality, same
// discipline as the leave store.
type rawUser struct {
	ID           api.ID `json:"id"`
	FirstName    string `json:"first_name"`
	FirstNameAlt string `json:"firstName"`
	LastName     string `json:"last_name"`
	LastNameAlt  string `json:"lastName"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
}

func normalize(raw rawUser) User {
	first := firstNonEmpty(raw.FirstName, raw.FirstNameAlt)
	last := firstNonEmpty(raw.LastName, raw.LastNameAlt)
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		name = firstNonEmpty(raw.Name, raw.Username, raw.Email, "—")
	}
	return User{
		ID:         raw.ID,
		Name:       name,
		Email:      raw.Email,
		Role:       strings.ToLower(strings.TrimSpace(raw.Role)),
		Department: raw.Department,
	}
}

type Store struct {
	client *api.Client
	log    *logrus.Logger
}

func NewStore(client *api.Client, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{client: client, log: log}
}

// FetchAll lists every account. The backend rejects callers without
// user management capability; the client only hides the screen.
func (s *Store) FetchAll(ctx context.Context) ([]User, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/accounts/users", &raw); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var records []rawUser
	if err := json.Unmarshal(raw, &records); err != nil {
		var wrapper struct {
			Results []rawUser `json:"results"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("unrecognized user list shape: %w", err)
		}
		records = wrapper.Results
	}

	users := make([]User, 0, len(records))
	for _, record := range records {
		users = append(users, normalize(record))
	}
	return users, nil
}

// Me fetches the caller's own profile, an explicit refresh of what
// Restore loaded from disk.
func (s *Store) Me(ctx context.Context) (User, error) {
	var raw rawUser
	if err := s.client.Get(ctx, "/accounts/users/me", &raw); err != nil {
		return User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return normalize(raw), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
