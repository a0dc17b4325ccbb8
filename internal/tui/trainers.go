package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/screens"
)

type trainerDeletedMsg struct {
	id  int64
	err error
}

type trainersModel struct {
	list    listModel[api.Trainer]
	profile profileModel
	client  *api.Client
	timeout time.Duration
	width   int
	height  int

	inProfile bool

	formActive bool
	form       *huh.Form
	formType   string // "filter" or "delete"

	// Form field pointers (survive value copies)
	formKYC     *string
	formBlock   *string
	formService *string
	formConfirm *bool

	target api.Trainer
}

func newTrainersModel(d Deps) trainersModel {
	kyc, block, service, confirm := "", "", "", false
	return trainersModel{
		list:        newListModel(screens.Trainers, d),
		profile:     newProfileModel(d),
		client:      d.Client,
		timeout:     d.Config.Timeout(),
		formKYC:     &kyc,
		formBlock:   &block,
		formService: &service,
		formConfirm: &confirm,
	}
}

func (t *trainersModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.list.setSize(w, h)
	t.profile.setSize(w, h)
}

// mount shows loc. A profile location (/trainers/<id>) opens that
// trainer on top of the list.
func (t trainersModel) mount(loc string) (trainersModel, tea.Cmd) {
	t.formActive = false
	t.form = nil
	t.inProfile = false

	if id, ok := profileID(loc); ok {
		var listCmd, profCmd tea.Cmd
		t.list, listCmd = t.list.mount("")
		t.profile, profCmd = t.profile.open(id)
		t.inProfile = true
		return t, tea.Batch(listCmd, profCmd)
	}
	var cmd tea.Cmd
	t.list, cmd = t.list.mount(loc)
	return t, cmd
}

func profileID(loc string) (int64, bool) {
	rest, ok := strings.CutPrefix(loc, "/trainers/")
	if !ok {
		return 0, false
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (t trainersModel) unmount() trainersModel {
	t.list = t.list.unmount()
	return t
}

func (t trainersModel) location() string {
	if t.inProfile {
		return t.profile.location()
	}
	return t.list.location()
}

func (t trainersModel) capturing() bool {
	return t.formActive || (!t.inProfile && t.list.searching)
}

func (t trainersModel) update(msg tea.Msg) (trainersModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return t.updateForm(msg)
		}
		// Fetches started before the form opened still complete.
		var listCmd, formCmd tea.Cmd
		t.list, listCmd = t.list.update(msg)
		t, formCmd = t.updateForm(msg)
		return t, tea.Batch(listCmd, formCmd)
	}

	switch msg := msg.(type) {
	case profileLoadedMsg, trainerUpdatedMsg:
		var cmd tea.Cmd
		t.profile, cmd = t.profile.update(msg)
		return t, cmd

	case trainerDeletedMsg:
		if msg.err != nil {
			return t, func() tea.Msg {
				return statusMsg{text: api.UserMessage(msg.err, "Error deleting trainer. Please try again."), isError: true}
			}
		}
		var cmd tea.Cmd
		t.list, cmd = t.list.refresh()
		return t, tea.Batch(
			cmd,
			func() tea.Msg { return statusMsg{text: "Trainer deleted successfully!"} },
		)

	case tea.KeyMsg:
		if t.inProfile {
			if key.Matches(msg, keys.Back) {
				t.inProfile = false
				var cmd tea.Cmd
				t.list, cmd = t.list.refresh()
				return t, cmd
			}
			var cmd tea.Cmd
			t.profile, cmd = t.profile.update(msg)
			return t, cmd
		}
		if !t.list.searching {
			switch {
			case key.Matches(msg, keys.Enter):
				if tr, ok := t.list.selected(); ok {
					t.inProfile = true
					var cmd tea.Cmd
					t.profile, cmd = t.profile.open(tr.ID)
					return t, cmd
				}
				return t, nil
			case key.Matches(msg, keys.Filter):
				return t.showFilterForm()
			case key.Matches(msg, keys.Delete):
				if tr, ok := t.list.selected(); ok {
					return t.showDeleteForm(tr)
				}
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.update(msg)
	return t, cmd
}

func (t trainersModel) showFilterForm() (trainersModel, tea.Cmd) {
	q := t.list.ctrl.Query()
	*t.formKYC = q.Filter(screens.FilterKYC)
	*t.formBlock = q.Filter(screens.FilterBlock)
	*t.formService = q.Filter(screens.FilterServiceType)
	t.formType = "filter"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("KYC Status").Options(
				huh.NewOption("All", ""),
				huh.NewOption("Pending", api.KYCPending),
				huh.NewOption("In Process", api.KYCInProcess),
				huh.NewOption("Done", api.KYCDone),
				huh.NewOption("Failed", api.KYCFailed),
			).Value(t.formKYC),
			huh.NewSelect[string]().Title("Block Status").Options(
				huh.NewOption("All", ""),
				huh.NewOption("Blocked", api.BlockBlocked),
				huh.NewOption("Unblocked", api.BlockUnblocked),
			).Value(t.formBlock),
			huh.NewSelect[string]().Title("Service Type").Options(
				huh.NewOption("All", ""),
				huh.NewOption(screens.ServiceFitnessTrainer, screens.ServiceFitnessTrainer),
				huh.NewOption(screens.ServiceYogaTrainer, screens.ServiceYogaTrainer),
			).Value(t.formService),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t trainersModel) showDeleteForm(tr api.Trainer) (trainersModel, tea.Cmd) {
	if t.list.ctrl.Total() <= 1 {
		return t, func() tea.Msg {
			return statusMsg{text: "The last remaining trainer cannot be deleted", isError: true}
		}
	}
	t.target = tr
	*t.formConfirm = false
	t.formType = "delete"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Are you sure you want to delete %s?", api.Text(tr.DisplayName()).Or("this trainer"))).
				Affirmative("Delete").
				Negative("Cancel").
				Value(t.formConfirm),
		),
	).WithShowHelp(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t trainersModel) updateForm(msg tea.Msg) (trainersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		switch t.formType {
		case "filter":
			var fetch tea.Cmd
			t.list, fetch = t.list.applyFilters(map[string]string{
				screens.FilterKYC:         *t.formKYC,
				screens.FilterBlock:       *t.formBlock,
				screens.FilterServiceType: *t.formService,
			})
			return t, fetch
		case "delete":
			if *t.formConfirm {
				return t, t.deleteTrainer(t.target.ID)
			}
			return t, nil
		}
	}

	return t, cmd
}

func (t trainersModel) deleteTrainer(id int64) tea.Cmd {
	client, timeout := t.client, t.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return trainerDeletedMsg{id: id, err: client.DeleteTrainer(ctx, id)}
	}
}

func (t trainersModel) view() string {
	if t.formActive && t.form != nil {
		title := titleStyle.Render("Filter Trainers")
		if t.formType == "delete" {
			title = titleStyle.Render("Delete Trainer")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(t.width - 4).Render(content)
	}
	if t.inProfile {
		return t.profile.view()
	}
	return t.list.view() + "\n" + mutedStyle.Render("  enter: profile  f: filter  d: delete")
}
