package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/session"
)

type loginResultMsg struct {
	err error
}

type loginModel struct {
	session *session.Manager
	timeout time.Duration
	width   int
	height  int

	form       *huh.Form
	email      *string
	password   *string
	submitting bool
	err        string
}

func newLoginModel(d Deps) loginModel {
	email, password := "", ""
	return loginModel{session: d.Session, timeout: d.Config.Timeout(), email: &email, password: &password}
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// reset shows an empty form. The email is kept for a retry.
func (l loginModel) reset() (loginModel, tea.Cmd) {
	*l.password = ""
	l.submitting = false
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(l.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.password),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return l, l.form.Init()
}

func (l loginModel) submit() tea.Cmd {
	mgr, timeout := l.session, l.timeout
	email, password := *l.email, *l.password
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return loginResultMsg{err: mgr.Login(ctx, email, password)}
	}
}

func loginError(err error) string {
	switch {
	case errors.Is(err, session.ErrMissingCredentials):
		return "Email and password are required."
	case errors.Is(err, api.ErrNoToken):
		return "Login failed: no token received."
	}
	return api.UserMessage(err, "Login failed. Please check your credentials.")
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		l.submitting = false
		if msg.err != nil {
			l.err = loginError(msg.err)
			return l.reset()
		}
		l.err = ""
		*l.password = ""
		return l, func() tea.Msg { return sessionChangedMsg{} }
	}

	if l.form == nil || l.submitting {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}
	if l.form.State == huh.StateCompleted {
		l.submitting = true
		return l, l.submit()
	}
	return l, cmd
}

func (l loginModel) view() string {
	w := min(l.width-4, 60)
	rows := []string{titleStyle.Render("Sign in to fitadmin"), ""}
	if l.submitting {
		rows = append(rows, mutedStyle.Render("Signing in..."))
	} else if l.form != nil {
		rows = append(rows, l.form.View())
	}
	if l.err != "" {
		rows = append(rows, errorStyle.Render(l.err))
	}
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
