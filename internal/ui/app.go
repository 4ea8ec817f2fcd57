// Package ui is the terminal front-end: a prompt loop that renders one
// screen at a time, with every navigation checked against the route
// guard. Screens never talk to the network directly; they read from
// and mutate through the injected stores.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/leave"
	"crmdesk/internal/nav"
	"crmdesk/internal/notify"
	"crmdesk/internal/platform/state"
	"crmdesk/internal/session"
	"crmdesk/internal/users"
)

// Deps is everything the screen loop operates on, wired at startup.
type Deps struct {
	Sessions *session.Store
	Leaves   *leave.Store
	Users    *users.Store
	Toaster  *notify.Toaster
	State    state.Store
	Log      *logrus.Logger

	// ExportDir is where leave history exports are written.
	ExportDir string
}

type App struct {
	deps Deps
	in   *bufio.Scanner
	out  io.Writer
}

func New(deps Deps, in io.Reader, out io.Writer) *App {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &App{deps: deps, in: bufio.NewScanner(in), out: out}
}

// Run is the interactive loop. It exits on "quit" or when input ends.
func (a *App) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if a.deps.Sessions.Current() == nil {
			if !a.loginScreen(ctx) {
				return
			}
			continue
		}
		if !a.homeLoop(ctx) {
			return
		}
	}
}

// homeLoop handles one signed-in stretch; it returns false when the
// app should exit, true when control goes back to the login screen.
func (a *App) homeLoop(ctx context.Context) bool {
	for {
		sess := a.deps.Sessions.Current()
		if sess == nil {
			return true
		}

		a.header(sess)
		fmt.Fprint(a.out, "crmdesk> ")
		line, ok := a.readLine()
		if !ok {
			return false
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		command, args := fields[0], fields[1:]

		switch command {
		case "quit", "exit":
			return false
		case "logout":
			a.deps.Sessions.Logout()
			fmt.Fprintln(a.out, "Logged out.")
			return true
		case "dismiss":
			a.deps.Toaster.Dismiss()
			continue
		case "toggle-sidebar":
			a.togglePref(state.KeySidebarCollapsed, "Sidebar collapsed", "Sidebar expanded")
			continue
		case "toggle-dark":
			a.togglePref(state.KeyDarkMode, "Dark mode on", "Dark mode off")
			continue
		case "export":
			a.safely(func() { a.exportScreen() })
			continue
		case "help":
			a.menuScreen(sess)
			continue
		}

		route, found := nav.Lookup(command)
		if !found {
			fmt.Fprintf(a.out, "Unknown command %q. Type help for the menu.\n", command)
			continue
		}

		switch nav.Guard(a.deps.Sessions.Current(), route.AllowedRoles) {
		case nav.RedirectLogin:
			return true
		case nav.RedirectHome:
			fmt.Fprintln(a.out, "You do not have access to that screen.")
			continue
		}

		a.safely(func() { a.renderScreen(ctx, route, args) })
	}
}

// safely keeps a screen panic from taking down the loop; the user is
// offered the prompt again instead.
func (a *App) safely(screen func()) {
	defer func() {
		if r := recover(); r != nil {
			a.deps.Log.WithField("panic", r).Error("screen crashed")
			fmt.Fprintln(a.out, "Something went wrong rendering that screen. Try again.")
		}
	}()
	screen()
}

func (a *App) renderScreen(ctx context.Context, route nav.Route, args []string) {
	switch route.Path {
	case "leaves":
		a.leavesScreen(ctx)
	case "apply-leave":
		a.applyLeaveScreen(ctx)
	case "leave-management":
		a.leaveManagementScreen(ctx, args)
	case "user-management":
		a.userManagementScreen(ctx)
	default:
		fmt.Fprintf(a.out, "== %s ==\n(nothing to do here yet)\n", route.Title)
	}
}

func (a *App) header(sess *session.Session) {
	fmt.Fprintf(a.out, "\n[%s · %s]", sess.Name, sess.Role)
	if a.pref(state.KeyDarkMode) {
		fmt.Fprint(a.out, " [dark]")
	}
	if toast := a.deps.Toaster.Current(); toast != nil {
		fmt.Fprintf(a.out, "\n*** %s ***", toast.Message)
	}
	fmt.Fprintln(a.out)
}

func (a *App) menuScreen(sess *session.Session) {
	fmt.Fprintln(a.out, "Screens:")
	for _, item := range nav.MenuFor(sess.Role) {
		fmt.Fprintf(a.out, "  %-18s %s\n", item.Path, item.Title)
	}
	fmt.Fprintln(a.out, "Also: export, toggle-sidebar, toggle-dark, dismiss, logout, quit")
}

func (a *App) loginScreen(ctx context.Context) bool {
	fmt.Fprintln(a.out, "\n== Sign in ==")
	fmt.Fprint(a.out, "Email: ")
	email, ok := a.readLine()
	if !ok {
		return false
	}
	if strings.TrimSpace(email) == "quit" {
		return false
	}
	fmt.Fprint(a.out, "Password: ")
	password, ok := a.readLine()
	if !ok {
		return false
	}

	result := a.deps.Sessions.Login(ctx, email, password)
	if !result.Success {
		fmt.Fprintln(a.out, result.Error)
		return true
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", a.deps.Sessions.Current().Name)
	return true
}

func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

func (a *App) pref(key string) bool {
	value, ok, err := a.deps.State.Get(key)
	if err != nil || !ok {
		return false
	}
	return value == "true"
}

func (a *App) togglePref(key, onMessage, offMessage string) {
	next := !a.pref(key)
	value := "false"
	message := offMessage
	if next {
		value = "true"
		message = onMessage
	}
	if err := a.deps.State.Set(key, value); err != nil {
		a.deps.Log.WithError(err).WithField("key", key).Warn("persisting preference failed")
	}
	fmt.Fprintln(a.out, message+".")
}
