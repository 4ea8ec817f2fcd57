package session

// Offline login fallback.
//
// When the backend is unreachable, login can degrade to a fixed set of
// built-in identities so the client stays usable for demos and UI work
// without a running backend. This is NOT a security boundary: anyone
// with the binary can read these credentials. It is disabled unless
// CRM_ALLOW_OFFLINE_LOGIN is set, and a logged warning marks every use.

type fallbackIdentity struct {
	Session  Session
	Password string
}

// Demo credentials, mirrored by the devserver seed.
var fallbackIdentities = []fallbackIdentity{
	{
		Session:  Session{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: "admin"},
		Password: "adminpass",
	},
	{
		Session:  Session{ID: "2", Name: "Sales User", Email: "sales@example.com", Role: "user", Department: "Sales"},
		Password: "salespass",
	},
}

func (s *Store) fallbackLogin(email, password string) Result {
	if !s.allowOfflineFallback {
		return Result{Error: "Cannot reach server. Is the backend running?"}
	}
	for _, identity := range fallbackIdentities {
		if identity.Session.Email == email && identity.Password == password {
			s.log.WithField("email", email).Warn("backend unreachable, using offline fallback identity")
			s.activate(identity.Session, "", "")
			return Result{Success: true}
		}
	}
	return Result{Error: "Cannot reach server. Is the backend running?"}
}
