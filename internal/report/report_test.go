package report

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"crmdesk/internal/leave"
)

func TestLeaveHistoryPDF(t *testing.T) {
	dir := t.TempDir()
	requests := []leave.Request{
		{ID: "1", Name: "Jane Doe", StartDate: "2025-01-10", EndDate: "2025-01-12", LeaveType: "Paid Leave", Status: leave.StatusApproved, Reason: "family"},
		{ID: "2", Name: "Bob", StartDate: "2025-02-01", EndDate: "2025-02-01", LeaveType: "Sick Leave", Status: leave.StatusPending, Reason: "flu"},
	}

	path, err := LeaveHistoryPDF(dir, "Jane Doe", requests)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestLeaveHistoryPDFEmptyList(t *testing.T) {
	path, err := LeaveHistoryPDF(t.TempDir(), "Nobody", nil)
	require.NoError(t, err)
	require.FileExists(t, path)
}
