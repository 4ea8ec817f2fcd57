package ui

import (
	"context"
	"fmt"
	"strings"

	"crmdesk/internal/api"
	"crmdesk/internal/authz"
	"crmdesk/internal/leave"
	"crmdesk/internal/nav"
)

// RunOnce executes a single scripted command and exits, for shell use:
//
//	crmdesk --once login <email> <password>
//	crmdesk --once leaves
//	crmdesk --once apply <start> <end> <type|-> <reason...>
//	crmdesk --once approve <id>
//	crmdesk --once reject <id> [reason...]
//	crmdesk --once users
//	crmdesk --once export
//	crmdesk --once logout
//
// Everything except login reuses the persisted session from a previous
// run.
func (a *App) RunOnce(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}
	command, rest := args[0], args[1:]

	if command == "login" {
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		result := a.deps.Sessions.Login(ctx, rest[0], rest[1])
		if !result.Success {
			return fmt.Errorf("%s", result.Error)
		}
		fmt.Fprintf(a.out, "Logged in as %s.\n", a.deps.Sessions.Current().Name)
		return nil
	}

	sess := a.deps.Sessions.Current()
	if sess == nil {
		return fmt.Errorf("not logged in")
	}

	switch command {
	case "logout":
		a.deps.Sessions.Logout()
		fmt.Fprintln(a.out, "Logged out.")
		return nil

	case "leaves":
		if err := a.deps.Leaves.FetchAll(ctx); err != nil {
			return fmt.Errorf("%s", a.deps.Leaves.Err())
		}
		a.leaveTable(a.deps.Leaves.Requests(), authz.IsAdminOrHr(sess.Role))
		return nil

	case "apply":
		if len(rest) < 4 {
			return fmt.Errorf("usage: apply <start> <end> <type|-> <reason...>")
		}
		leaveType := rest[2]
		if leaveType == "-" {
			leaveType = ""
		}
		input := leave.CreateInput{
			StartDate: rest[0],
			EndDate:   rest[1],
			LeaveType: leaveType,
			Reason:    strings.Join(rest[3:], " "),
		}
		if issues := leave.ValidateCreate(input); len(issues) > 0 {
			lines := make([]string, 0, len(issues))
			for _, issue := range issues {
				lines = append(lines, issue.Field+": "+issue.Reason)
			}
			return fmt.Errorf("%s", strings.Join(lines, "; "))
		}
		if err := a.deps.Leaves.Create(ctx, input); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Leave request submitted.")
		return nil

	case "approve", "reject":
		if guarded := a.guardOnce(sess.Role, "leave-management"); guarded != nil {
			return guarded
		}
		if len(rest) < 1 {
			return fmt.Errorf("usage: %s <id> [reason...]", command)
		}
		status := leave.StatusApproved
		if command == "reject" {
			status = leave.StatusRejected
		}
		if err := a.deps.Leaves.Transition(ctx, api.ID(rest[0]), status, strings.Join(rest[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Request %s %s.\n", rest[0], status)
		return nil

	case "users":
		if guarded := a.guardOnce(sess.Role, "user-management"); guarded != nil {
			return guarded
		}
		a.userManagementScreen(ctx)
		return nil

	case "export":
		if err := a.deps.Leaves.FetchAll(ctx); err != nil {
			return fmt.Errorf("%s", a.deps.Leaves.Err())
		}
		a.exportScreen()
		return nil
	}

	return fmt.Errorf("unknown command %q", command)
}

// guardOnce applies the same route rule the interactive loop uses.
func (a *App) guardOnce(role, path string) error {
	route, found := nav.Lookup(path)
	if !found {
		return fmt.Errorf("unknown screen %q", path)
	}
	if nav.Guard(a.deps.Sessions.Current(), route.AllowedRoles) != nav.Render {
		return fmt.Errorf("you do not have access to %s", route.Title)
	}
	return nil
}
