package notify

import (
	"fmt"

	"crmdesk/internal/api"
	"crmdesk/internal/leave"
)

// Watcher diffs each published leave list against the set of requests
// it has already surfaced, and toasts the current identity's newly
// decided ones. The notified set lives in memory only: a reload starts
// clean, which matches the original client.
type Watcher struct {
	userID   api.ID
	toaster  *Toaster
	notified map[api.ID]struct{}
}

func NewWatcher(userID api.ID, toaster *Toaster) *Watcher {
	return &Watcher{
		userID:   userID,
		toaster:  toaster,
		notified: make(map[api.ID]struct{}),
	}
}

// Observe handles one leave list update. Wire it into the leave
// store's OnUpdate.
func (w *Watcher) Observe(requests []leave.Request) {
	var fresh []leave.Request
	for _, request := range requests {
		if request.UserID != w.userID || request.Status == leave.StatusPending {
			continue
		}
		if _, seen := w.notified[request.ID]; seen {
			continue
		}
		fresh = append(fresh, request)
	}
	if len(fresh) == 0 {
		return
	}

	message := fmt.Sprintf("%d leave request(s) updated.", len(fresh))
	if len(fresh) == 1 {
		only := fresh[0]
		message = fmt.Sprintf("Your leave from %s to %s was %s.", only.StartDate, only.EndDate, only.Status)
	}

	for _, request := range fresh {
		w.notified[request.ID] = struct{}{}
	}
	w.toaster.Show(message)
}
