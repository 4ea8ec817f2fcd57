package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueFields(issues []Issue) []string {
	fields := make([]string, 0, len(issues))
	for _, issue := range issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestValidateCreateOK(t *testing.T) {
	issues := ValidateCreate(CreateInput{
		StartDate: "2025-01-10",
		EndDate:   "2025-01-12",
		Reason:    "family visit",
	})
	assert.Empty(t, issues)
}

func TestValidateCreateEndBeforeStart(t *testing.T) {
	issues := ValidateCreate(CreateInput{
		StartDate: "2025-01-10",
		EndDate:   "2025-01-05",
		Reason:    "pto",
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "endDate", issues[0].Field)
	assert.Equal(t, "End date cannot be before start date", issues[0].Reason)
}

func TestValidateCreateSameDayAllowed(t *testing.T) {
	issues := ValidateCreate(CreateInput{
		StartDate: "2025-01-10",
		EndDate:   "2025-01-10",
		Reason:    "appointment",
	})
	assert.Empty(t, issues)
}

func TestValidateCreateMissingFields(t *testing.T) {
	issues := ValidateCreate(CreateInput{})
	assert.ElementsMatch(t, []string{"startDate", "endDate", "reason"}, issueFields(issues))
}

func TestValidateCreateBlankReason(t *testing.T) {
	issues := ValidateCreate(CreateInput{
		StartDate: "2025-01-10",
		EndDate:   "2025-01-12",
		Reason:    "   ",
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "reason", issues[0].Field)
}

func TestValidateCreateMalformedDate(t *testing.T) {
	issues := ValidateCreate(CreateInput{
		StartDate: "10/01/2025",
		EndDate:   "2025-01-12",
		Reason:    "pto",
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "startDate", issues[0].Field)
	assert.Contains(t, issues[0].Reason, "YYYY-MM-DD")
}
