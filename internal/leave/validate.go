package leave

import (
	"strings"
	"time"
)

// CreateInput is what the apply-leave form submits. Dates are
// YYYY-MM-DD strings, matching the wire format.
type CreateInput struct {
	StartDate string
	EndDate   string
	LeaveType string
	Reason    string
}

// Issue flags one invalid form field, to be surfaced inline next to it.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

const dateLayout = "2006-01-02"

// ValidateCreate checks a submission before any network call. The
// store's Create assumes its input already passed here; screens must
// not call Create with outstanding issues.
func ValidateCreate(input CreateInput) []Issue {
	var issues []Issue

	start, startOK := parseFormDate(input.StartDate)
	if !startOK {
		issues = append(issues, dateIssue("startDate", "Start date", input.StartDate))
	}
	end, endOK := parseFormDate(input.EndDate)
	if !endOK {
		issues = append(issues, dateIssue("endDate", "End date", input.EndDate))
	}
	if startOK && endOK && end.Before(start) {
		issues = append(issues, Issue{Field: "endDate", Reason: "End date cannot be before start date"})
	}
	if strings.TrimSpace(input.Reason) == "" {
		issues = append(issues, Issue{Field: "reason", Reason: "Reason is required"})
	}
	return issues
}

func dateIssue(field, label, value string) Issue {
	if strings.TrimSpace(value) == "" {
		return Issue{Field: field, Reason: label + " is required"}
	}
	return Issue{Field: field, Reason: label + " must be a valid date in YYYY-MM-DD format"}
}

func parseFormDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
