package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/config"
	"github.com/sadopc/fitadmin/internal/session"
	"github.com/sadopc/fitadmin/internal/store"
)

// Deps are the collaborators every view is built from.
type Deps struct {
	Session *session.Manager
	Client  *api.Client
	Store   *store.Store
	Config  config.Config
	Logger  *slog.Logger

	// Open is a location to show first, e.g. "/trainers?kyc_status=pending".
	Open string
}

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewUsers
	viewTrainers
	viewCorporate
	viewNeo
	viewPayments
	viewBooking
	viewSettings
	viewLogin
)

var viewNames = []string{"Dashboard", "Users", "Trainers", "Corporate", "Neo", "Payments", "Booking", "Settings"}

// viewPaths maps location paths to views for deep links.
var viewPaths = map[string]viewState{
	"/dashboard":           viewDashboard,
	"/users":               viewUsers,
	"/trainers":            viewTrainers,
	"/corporate-enquiries": viewCorporate,
	"/neo-enquiries":       viewNeo,
	"/payments":            viewPayments,
	"/payments/fitness":    viewPayments,
	"/payments/yoga":       viewPayments,
	"/payments/diet":       viewPayments,
	"/booking":             viewBooking,
	"/settings":            viewSettings,
}

// viewForLocation resolves a location to its view. Trainer profile
// locations (/trainers/<id>) resolve to the trainers view.
func viewForLocation(loc string) (viewState, bool) {
	path := loc
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if v, ok := viewPaths[path]; ok {
		return v, true
	}
	if strings.HasPrefix(path, "/trainers/") {
		return viewTrainers, true
	}
	return 0, false
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// sessionChangedMsg is sent after login or logout.
type sessionChangedMsg struct{}

// --- Helpers ---

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) > w {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

// requestContext bounds one backend call. A zero timeout only cancels.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}
