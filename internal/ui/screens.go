package ui

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"crmdesk/internal/api"
	"crmdesk/internal/authz"
	"crmdesk/internal/leave"
	"crmdesk/internal/report"
)

func (a *App) leavesScreen(ctx context.Context) {
	fmt.Fprintln(a.out, "== My Leave Requests ==")
	fmt.Fprintln(a.out, "Loading leave requests...")
	_ = a.deps.Leaves.FetchAll(ctx)
	if message := a.deps.Leaves.Err(); message != "" {
		fmt.Fprintln(a.out, message)
		return
	}
	a.leaveTable(a.deps.Leaves.Requests(), false)
}

func (a *App) leaveTable(requests []leave.Request, withNames bool) {
	if len(requests) == 0 {
		fmt.Fprintln(a.out, "No leave requests found.")
		return
	}
	table := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if withNames {
		fmt.Fprintln(table, "ID\tREQUESTER\tDEPARTMENT\tFROM\tTO\tTYPE\tSTATUS\tREASON")
		for _, request := range requests {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				request.ID, request.Name, request.Department,
				request.StartDate, request.EndDate, request.LeaveType,
				request.Status, request.Reason)
		}
	} else {
		fmt.Fprintln(table, "ID\tFROM\tTO\tTYPE\tSTATUS\tREASON\tREJECTION")
		for _, request := range requests {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				request.ID, request.StartDate, request.EndDate,
				request.LeaveType, request.Status, request.Reason,
				request.RejectionReason)
		}
	}
	_ = table.Flush()
}

func (a *App) applyLeaveScreen(ctx context.Context) {
	fmt.Fprintln(a.out, "== Apply for Leave ==")

	prompt := func(label string) (string, bool) {
		fmt.Fprintf(a.out, "%s: ", label)
		return a.readLine()
	}

	start, ok := prompt("Start date (YYYY-MM-DD)")
	if !ok {
		return
	}
	end, ok := prompt("End date (YYYY-MM-DD)")
	if !ok {
		return
	}
	leaveType, ok := prompt("Leave type (blank for Paid Leave)")
	if !ok {
		return
	}
	reason, ok := prompt("Reason")
	if !ok {
		return
	}

	input := leave.CreateInput{
		StartDate: strings.TrimSpace(start),
		EndDate:   strings.TrimSpace(end),
		LeaveType: strings.TrimSpace(leaveType),
		Reason:    strings.TrimSpace(reason),
	}
	if issues := leave.ValidateCreate(input); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(a.out, "  %s: %s\n", issue.Field, issue.Reason)
		}
		return
	}

	if err := a.deps.Leaves.Create(ctx, input); err != nil {
		fmt.Fprintf(a.out, "Could not submit the request: %s\n", err)
		return
	}
	fmt.Fprintln(a.out, "Leave request submitted.")
}

// leaveManagementScreen lists the pending queue and applies decisions:
// "leave-management", then "leave-management approve <id>" or
// "leave-management reject <id> [reason...]".
func (a *App) leaveManagementScreen(ctx context.Context, args []string) {
	if len(args) >= 2 {
		a.decide(ctx, args)
		return
	}

	fmt.Fprintln(a.out, "== Leave Management ==")
	fmt.Fprintln(a.out, "Loading leave requests...")
	_ = a.deps.Leaves.FetchAll(ctx)
	if message := a.deps.Leaves.Err(); message != "" {
		fmt.Fprintln(a.out, message)
		return
	}

	pending := a.deps.Leaves.Pending()
	a.leaveTable(pending, true)
	if len(pending) > 0 {
		fmt.Fprintln(a.out, "Decide with: leave-management approve <id> | leave-management reject <id> [reason]")
	}
}

func (a *App) decide(ctx context.Context, args []string) {
	action, id := args[0], api.ID(args[1])

	var status leave.Status
	switch action {
	case "approve":
		status = leave.StatusApproved
	case "reject":
		status = leave.StatusRejected
	default:
		fmt.Fprintf(a.out, "Unknown action %q; use approve or reject.\n", action)
		return
	}

	reason := strings.Join(args[2:], " ")
	if err := a.deps.Leaves.Transition(ctx, id, status, reason); err != nil {
		fmt.Fprintf(a.out, "Could not update the request: %s\n", err)
		return
	}
	fmt.Fprintf(a.out, "Request %s %s.\n", id, status)
}

func (a *App) userManagementScreen(ctx context.Context) {
	fmt.Fprintln(a.out, "== User Management ==")
	fmt.Fprintln(a.out, "Loading users...")
	listed, err := a.deps.Users.FetchAll(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Failed to load users: %s\n", err)
		return
	}
	if len(listed) == 0 {
		fmt.Fprintln(a.out, "No users found.")
		return
	}

	sess := a.deps.Sessions.Current()
	table := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tNAME\tEMAIL\tROLE\tDEPARTMENT")
	for _, user := range listed {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
			user.ID, user.Name, user.Email, user.Role, user.Department)
	}
	_ = table.Flush()

	if sess != nil && authz.IsSuperadmin(sess.Role) {
		fmt.Fprintf(a.out, "Assignable roles: %s\n", strings.Join(authz.AssignableRoles, ", "))
	}
}

func (a *App) exportScreen() {
	sess := a.deps.Sessions.Current()
	if sess == nil {
		return
	}
	path, err := report.LeaveHistoryPDF(a.deps.ExportDir, sess.Name, a.deps.Leaves.Requests())
	if err != nil {
		fmt.Fprintf(a.out, "Export failed: %s\n", err)
		return
	}
	fmt.Fprintf(a.out, "Exported leave history to %s\n", path)
}
