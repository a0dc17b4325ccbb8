package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
)

var profileTabs = []string{"Basic Info", "Service Details", "Banking Details", "Documents"}

type profileLoadedMsg struct {
	id      int64
	trainer *api.Trainer
	err     error
}

// trainerUpdatedMsg reports a KYC or block status change.
type trainerUpdatedMsg struct {
	id     int64
	field  string // "kyc" or "block"
	status string
	err    error
}

type profileModel struct {
	client  *api.Client
	timeout time.Duration
	width   int
	height  int

	id      int64
	trainer *api.Trainer
	loading bool
	busy    bool
	err     string
	tab     int
}

func newProfileModel(d Deps) profileModel {
	return profileModel{client: d.Client, timeout: d.Config.Timeout()}
}

func (p *profileModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p profileModel) location() string {
	return fmt.Sprintf("/trainers/%d", p.id)
}

// open starts loading trainer id.
func (p profileModel) open(id int64) (profileModel, tea.Cmd) {
	p.id = id
	p.trainer = nil
	p.err = ""
	p.tab = 0
	p.loading = true
	p.busy = false
	return p, p.load()
}

func (p profileModel) load() tea.Cmd {
	id := p.id
	return func() tea.Msg {
		ctx, cancel := requestContext(p.timeout)
		defer cancel()
		t, err := p.client.TrainerDetail(ctx, id)
		return profileLoadedMsg{id: id, trainer: t, err: err}
	}
}

func (p profileModel) setKYC(status string) tea.Cmd {
	id := p.id
	return func() tea.Msg {
		ctx, cancel := requestContext(p.timeout)
		defer cancel()
		err := p.client.VerifyKYC(ctx, id, status)
		return trainerUpdatedMsg{id: id, field: "kyc", status: status, err: err}
	}
}

func (p profileModel) setBlock(status string) tea.Cmd {
	id := p.id
	return func() tea.Msg {
		ctx, cancel := requestContext(p.timeout)
		defer cancel()
		err := p.client.SetBlockStatus(ctx, id, status)
		return trainerUpdatedMsg{id: id, field: "block", status: status, err: err}
	}
}

func (p profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.id != p.id {
			return p, nil
		}
		p.loading = false
		if msg.err != nil {
			p.err = "Failed to load trainer details."
			return p, nil
		}
		p.trainer = msg.trainer
		p.err = ""
		return p, nil

	case trainerUpdatedMsg:
		if msg.id != p.id {
			return p, nil
		}
		p.busy = false
		if msg.err != nil {
			what := "KYC"
			if msg.field == "block" {
				what = "Block"
			}
			p.err = api.UserMessage(msg.err, fmt.Sprintf("Failed to update %s status", what))
			return p, nil
		}
		p.err = ""
		if p.trainer != nil {
			if msg.field == "kyc" {
				p.trainer.KYCStatus = msg.status
			} else {
				p.trainer.BlockStatus = msg.status
			}
		}
		return p, func() tea.Msg { return statusMsg{text: "Trainer updated"} }

	case tea.KeyMsg:
		return p.updateKeys(msg)
	}
	return p, nil
}

func (p profileModel) updateKeys(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		p.tab = (p.tab + len(profileTabs) - 1) % len(profileTabs)
	case key.Matches(msg, keys.Right), key.Matches(msg, keys.SubTab):
		p.tab = (p.tab + 1) % len(profileTabs)
	case key.Matches(msg, keys.Refresh):
		p.loading = true
		return p, p.load()
	}

	if p.trainer == nil || p.busy {
		return p, nil
	}
	switch {
	case key.Matches(msg, keys.Accept):
		if p.trainer.KYCStatus != api.KYCDone {
			p.busy = true
			return p, p.setKYC(api.KYCDone)
		}
	case key.Matches(msg, keys.Reject):
		if p.trainer.KYCStatus != api.KYCDone {
			p.busy = true
			return p, p.setKYC(api.KYCFailed)
		}
	case key.Matches(msg, keys.Block):
		next := api.BlockBlocked
		if p.trainer.BlockStatus != api.BlockUnblocked {
			next = api.BlockUnblocked
		}
		p.busy = true
		return p, p.setBlock(next)
	}
	return p, nil
}

func (p profileModel) view() string {
	w := p.width - 4
	if p.loading && p.trainer == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading trainer..."))
	}
	if p.trainer == nil {
		msg := p.err
		if msg == "" {
			msg = "Trainer not found."
		}
		return panelStyle.Width(w).Render(errorStyle.Render(msg) + "\n\n" + mutedStyle.Render("esc: back  r: retry"))
	}

	t := p.trainer
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("%s (%s)", api.Text(t.DisplayName()).Or("N/A"), api.Text(t.BlockStatus).Or("N/A"))))

	kyc := warningStyle.Render("KYC Pending")
	if t.KYCStatus == api.KYCDone {
		kyc = successStyle.Render("KYC Completed")
	}
	rows = append(rows, kyc+mutedStyle.Render("  "+t.ContactNumber()))
	if p.err != "" {
		rows = append(rows, errorStyle.Render(p.err))
	}
	rows = append(rows, "")

	var tabs []string
	for i, name := range profileTabs {
		if i == p.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), "")
	rows = append(rows, p.renderTab(t)...)

	rows = append(rows, "", mutedStyle.Render("  "+p.actionsHelp()))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p profileModel) actionsHelp() string {
	var parts []string
	if p.trainer.KYCStatus != api.KYCDone {
		parts = append(parts, "a: accept", "x: reject")
	}
	if p.trainer.BlockStatus == api.BlockUnblocked {
		parts = append(parts, "b: block")
	} else {
		parts = append(parts, "b: unblock")
	}
	parts = append(parts, "←/→: tabs", "esc: back")
	return strings.Join(parts, "  ")
}

func field(label string, v api.Text) string {
	return highlightStyle.Render(label+": ") + v.Or("N/A")
}

func (p profileModel) renderTab(t *api.Trainer) []string {
	switch p.tab {
	case 0:
		created := "N/A"
		if ts, err := time.Parse(time.RFC3339, string(t.CreatedAt)); err == nil {
			created = ts.Local().Format("2006-01-02 15:04")
		}
		return []string{
			field("Phone", t.Phone),
			field("Alternate (Phone)", t.AlternatePhone),
			field("Experience", t.Experience),
			field("Gender", t.Gender),
			field("Language", t.Language),
			field("Education", t.Education),
			field("Current Address", t.CurrentAddress),
			field("Aadhar Address", t.AadharAddress),
			field("Account Created At", api.Text(created)),
		}
	case 1:
		area := t.ServicingArea
		if area == "" {
			area = t.ServiceArea
		}
		return []string{
			field("Service Type", t.ServiceType),
			field("Service Area", area),
			field("Pin", t.Pin),
		}
	case 2:
		return []string{
			field("Account Holder", t.AccountHolderName),
			field("Account Number", t.AccountNo),
			field("Bank", t.BankName),
			field("IFSC Code", t.IFSCCode),
		}
	default:
		var docs []string
		for _, d := range t.Documents {
			if d.DocumentURL == "" {
				continue
			}
			docs = append(docs, "• "+d.DocumentType.Or("Document")+"  "+mutedStyle.Render(string(d.DocumentURL)))
		}
		if len(docs) == 0 {
			return []string{mutedStyle.Render("No Documents Uploaded")}
		}
		return docs
	}
}
