package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/export"
	"github.com/sadopc/fitadmin/internal/screens"
	"github.com/sadopc/fitadmin/internal/store"
)

var exportFormats = []export.Format{export.CSV, export.JSON}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	activeView viewState
	returnView viewState // shown after the next login
	returnLoc  string
	mounted    bool

	showHelp      bool
	exportPicking bool
	exportCursor  int

	login     loginModel
	dashboard dashboardModel
	users     listModel[api.User]
	trainers  trainersModel
	corporate listModel[api.Enquiry]
	neo       listModel[api.Enquiry]
	payments  paymentsModel
	booking   bookingModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
	now       func() time.Time
}

func NewApp(d Deps) App {
	h := help.New()
	h.ShowAll = false

	start, loc := viewDashboard, ""
	if d.Open != "" {
		if v, ok := viewForLocation(d.Open); ok {
			start, loc = v, d.Open
		}
	}

	return App{
		deps:       d,
		activeView: viewLogin,
		returnView: start,
		returnLoc:  loc,
		login:      newLoginModel(d),
		dashboard:  newDashboardModel(d),
		users:      newListModel(screens.Users, d),
		trainers:   newTrainersModel(d),
		corporate:  newListModel(screens.CorporateEnquiries, d),
		neo:        newListModel(screens.NeoEnquiries, d),
		payments:   newPaymentsModel(d),
		booking:    newBookingModel(d),
		settings:   newSettingsModel(d.Store),
		help:       h,
		now:        time.Now,
	}
}

// Init routes to the start view, or to login without a session.
func (a App) Init() tea.Cmd {
	return func() tea.Msg { return sessionChangedMsg{} }
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.users.setSize(a.width, contentHeight)
		a.trainers.setSize(a.width, contentHeight)
		a.corporate.setSize(a.width, contentHeight)
		a.neo.setSize(a.width, contentHeight)
		a.payments.setSize(a.width, contentHeight)
		a.booking.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case sessionChangedMsg:
		if a.deps.Session.State().IsAuthenticated {
			view, loc := a.returnView, a.returnLoc
			a.returnView, a.returnLoc = viewDashboard, ""
			return a.switchTo(view, loc)
		}
		return a.showLogin()

	case tea.KeyMsg:
		if a.activeView == viewLogin {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			return a.updateActiveView(msg)
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			if _, _, ok := a.activeTable(); ok {
				a.exportPicking = true
				a.exportCursor = 0
			}
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a.logout()
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard, "")
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewUsers, "")
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewTrainers, "")
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewCorporate, "")
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewNeo, "")
		case key.Matches(msg, keys.Tab6):
			return a.switchTo(viewPayments, "")
		case key.Matches(msg, keys.Tab7):
			return a.switchTo(viewBooking, "")
		case key.Matches(msg, keys.Tab8):
			return a.switchTo(viewSettings, "")
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView+1)%viewState(len(viewNames)), "")
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchTo leaves the current view and mounts v at loc. Without a
// session every view resolves to login.
func (a App) switchTo(v viewState, loc string) (tea.Model, tea.Cmd) {
	if !a.deps.Session.State().IsAuthenticated {
		a.returnView, a.returnLoc = v, loc
		return a.showLogin()
	}
	a = a.leave()
	a.activeView = v
	a.mounted = true
	a.exportPicking = false

	var cmd tea.Cmd
	switch v {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.mount()
	case viewUsers:
		a.users, cmd = a.users.mount(loc)
	case viewTrainers:
		a.trainers, cmd = a.trainers.mount(loc)
	case viewCorporate:
		a.corporate, cmd = a.corporate.mount(loc)
	case viewNeo:
		a.neo, cmd = a.neo.mount(loc)
	case viewPayments:
		a.payments, cmd = a.payments.mount(loc)
	case viewBooking:
		a.booking, cmd = a.booking.mount()
	case viewSettings:
		cmd = a.settings.refresh()
	}
	return a, cmd
}

// leave unmounts the active list so its late results are dropped.
func (a App) leave() App {
	if !a.mounted {
		return a
	}
	switch a.activeView {
	case viewUsers:
		a.users = a.users.unmount()
	case viewTrainers:
		a.trainers = a.trainers.unmount()
	case viewCorporate:
		a.corporate = a.corporate.unmount()
	case viewNeo:
		a.neo = a.neo.unmount()
	case viewPayments:
		a.payments = a.payments.unmount()
	}
	a.mounted = false
	return a
}

func (a App) showLogin() (tea.Model, tea.Cmd) {
	a = a.leave()
	a.activeView = viewLogin
	a.exportPicking = false
	var cmd tea.Cmd
	a.login, cmd = a.login.reset()
	return a, cmd
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if err := a.deps.Session.Logout(); err != nil {
		a.status = fmt.Sprintf("Logout error: %v", err)
		a.statusErr = true
		return a, nil
	}
	a.status = "Signed out"
	a.statusErr = false
	a.returnView, a.returnLoc = viewDashboard, ""
	return a.showLogin()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewLogin:
		a.login, cmd = a.login.update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewUsers:
		a.users, cmd = a.users.update(msg)
	case viewTrainers:
		a.trainers, cmd = a.trainers.update(msg)
	case viewCorporate:
		a.corporate, cmd = a.corporate.update(msg)
	case viewNeo:
		a.neo, cmd = a.neo.update(msg)
	case viewPayments:
		a.payments, cmd = a.payments.update(msg)
	case viewBooking:
		a.booking, cmd = a.booking.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewLogin:
		return true
	case viewDashboard:
		return a.dashboard.formActive
	case viewUsers:
		return a.users.searching
	case viewTrainers:
		return a.trainers.capturing()
	case viewCorporate:
		return a.corporate.searching
	case viewNeo:
		return a.neo.searching
	case viewPayments:
		return a.payments.capturing()
	case viewBooking:
		return a.booking.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

// activeTable returns the rows on screen when the active view is a
// list, along with the screen name used in export file names.
func (a App) activeTable() (string, export.Table, bool) {
	switch a.activeView {
	case viewUsers:
		return a.users.def.Name, a.users.table(), true
	case viewTrainers:
		if a.trainers.inProfile {
			return "", export.Table{}, false
		}
		return a.trainers.list.def.Name, a.trainers.list.table(), true
	case viewCorporate:
		return a.corporate.def.Name, a.corporate.table(), true
	case viewNeo:
		return a.neo.def.Name, a.neo.table(), true
	case viewPayments:
		name, t := a.payments.table()
		return name, t, true
	}
	return "", export.Table{}, false
}

// location is the active view's current location, shown in the footer.
func (a App) location() string {
	switch a.activeView {
	case viewUsers:
		return a.users.location()
	case viewTrainers:
		return a.trainers.location()
	case viewCorporate:
		return a.corporate.location()
	case viewNeo:
		return a.neo.location()
	case viewPayments:
		return a.payments.location()
	case viewDashboard:
		return "/dashboard"
	case viewBooking:
		return "/booking"
	case viewSettings:
		return "/settings"
	}
	return "/login"
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewLogin:
		content = a.login.view()
	case viewDashboard:
		content = a.dashboard.view()
	case viewUsers:
		content = a.users.view()
	case viewTrainers:
		content = a.trainers.view()
	case viewCorporate:
		content = a.corporate.view()
	case viewNeo:
		content = a.neo.view()
	case viewPayments:
		content = a.payments.view()
	case viewBooking:
		content = a.booking.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("fitadmin")
	if a.activeView == viewLogin {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	loc := highlightStyle.Render(" " + a.location())

	left := footerStyle.Render(helpView)
	right := loc + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range []string{"CSV", "JSON"} {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// exportDir is the export_dir setting, or the home directory.
func exportDir(s *store.Store) string {
	if dir, err := s.GetSetting(store.SettingExportDir); err == nil && dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return home
}

func (a App) doExport(format export.Format) tea.Cmd {
	screen, table, ok := a.activeTable()
	if !ok {
		return nil
	}
	dir, now, logger := exportDir(a.deps.Store), a.now(), a.deps.Logger
	return func() tea.Msg {
		path, err := export.Write(table, screen, format, dir, now)
		if err != nil {
			logger.Warn("export_failed", "screen", screen, "format", format, "error", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("export", "screen", screen, "format", format, "rows", len(table.Rows), "path", path)
		return exportDoneMsg{path: path}
	}
}
