package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/dashboard"
	"github.com/sadopc/fitadmin/internal/export"
	"github.com/sadopc/fitadmin/internal/screens"
	"github.com/sadopc/fitadmin/internal/store"
)

const (
	payFitness = iota
	payYoga
	payDiet
)

var paymentTabs = []string{"Fitness", "Yoga", "Diet"}

var paymentTabPaths = []string{
	screens.FitnessPayments.Path,
	screens.YogaPayments.Path,
	screens.DietPayments.Path,
}

type paymentsModel struct {
	fitness listModel[api.Payment]
	yoga    listModel[api.Payment]
	diet    listModel[api.DietBooking]
	active  int

	store  *store.Store
	now    func() time.Time
	width  int
	height int

	formActive bool
	form       *huh.Form
	picker     periodPicker
}

func newPaymentsModel(d Deps) paymentsModel {
	p := paymentsModel{
		fitness: newListModel(screens.FitnessPayments, d),
		yoga:    newListModel(screens.YogaPayments, d),
		diet:    newListModel(screens.DietPayments, d),
		store:   d.Store,
		now:     time.Now,
		picker:  newPeriodPicker(),
	}
	today := func() map[string]string {
		return dashboard.NewPeriod(dashboard.Today, time.Now(), d.Store.WeekStart()).Filters()
	}
	p.fitness.defaults = today
	p.yoga.defaults = today
	p.diet.defaults = today
	return p
}

func (p *paymentsModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.fitness.setSize(w, h-2)
	p.yoga.setSize(w, h-2)
	p.diet.setSize(w, h-2)
}

// mount shows the tab loc points at, or the last active tab.
func (p paymentsModel) mount(loc string) (paymentsModel, tea.Cmd) {
	p.formActive = false
	p.form = nil
	path := loc
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for i, tp := range paymentTabPaths {
		if tp == path {
			p.active = i
			return p.mountActive(loc)
		}
	}
	return p.mountActive("")
}

func (p paymentsModel) mountActive(loc string) (paymentsModel, tea.Cmd) {
	var cmd tea.Cmd
	switch p.active {
	case payFitness:
		p.fitness, cmd = p.fitness.mount(loc)
	case payYoga:
		p.yoga, cmd = p.yoga.mount(loc)
	case payDiet:
		p.diet, cmd = p.diet.mount(loc)
	}
	return p, cmd
}

func (p paymentsModel) unmount() paymentsModel {
	switch p.active {
	case payFitness:
		p.fitness = p.fitness.unmount()
	case payYoga:
		p.yoga = p.yoga.unmount()
	case payDiet:
		p.diet = p.diet.unmount()
	}
	return p
}

func (p paymentsModel) capturing() bool {
	return p.formActive || p.searching()
}

func (p paymentsModel) searching() bool {
	switch p.active {
	case payYoga:
		return p.yoga.searching
	case payDiet:
		return p.diet.searching
	}
	return p.fitness.searching
}

func (p paymentsModel) location() string {
	switch p.active {
	case payYoga:
		return p.yoga.location()
	case payDiet:
		return p.diet.location()
	}
	return p.fitness.location()
}

func (p paymentsModel) table() (string, export.Table) {
	switch p.active {
	case payYoga:
		return p.yoga.def.Name, p.yoga.table()
	case payDiet:
		return p.diet.def.Name, p.diet.table()
	}
	return p.fitness.def.Name, p.fitness.table()
}

func (p paymentsModel) activeFilters() map[string]string {
	switch p.active {
	case payYoga:
		return p.yoga.ctrl.Query().Filters
	case payDiet:
		return p.diet.ctrl.Query().Filters
	}
	return p.fitness.ctrl.Query().Filters
}

func (p paymentsModel) applyFilters(f map[string]string) (paymentsModel, tea.Cmd) {
	var cmd tea.Cmd
	switch p.active {
	case payFitness:
		p.fitness, cmd = p.fitness.applyFilters(f)
	case payYoga:
		p.yoga, cmd = p.yoga.applyFilters(f)
	case payDiet:
		p.diet, cmd = p.diet.applyFilters(f)
	}
	return p, cmd
}

func (p paymentsModel) period() dashboard.Period {
	return dashboard.PeriodFromFilters(p.activeFilters(), p.now(), p.store.WeekStart())
}

func (p paymentsModel) update(msg tea.Msg) (paymentsModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if p.formActive && p.form != nil {
			return p.updateForm(km)
		}
		return p.updateKeys(km)
	}

	// Results and ticks carry their owner, so every tab may see them.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.fitness, cmd = p.fitness.update(msg)
	cmds = append(cmds, cmd)
	p.yoga, cmd = p.yoga.update(msg)
	cmds = append(cmds, cmd)
	p.diet, cmd = p.diet.update(msg)
	cmds = append(cmds, cmd)
	if p.formActive && p.form != nil {
		p, cmd = p.updateForm(msg)
		cmds = append(cmds, cmd)
	}
	return p, tea.Batch(cmds...)
}

func (p paymentsModel) updateKeys(msg tea.KeyMsg) (paymentsModel, tea.Cmd) {
	if !p.searching() {
		switch {
		case key.Matches(msg, keys.SubTab):
			p = p.unmount()
			p.active = (p.active + 1) % len(paymentTabs)
			return p.mountActive("")
		case key.Matches(msg, keys.Period), key.Matches(msg, keys.Filter):
			p.form = p.picker.form(p.period())
			p.formActive = true
			return p, p.form.Init()
		}
	}

	var cmd tea.Cmd
	switch p.active {
	case payFitness:
		p.fitness, cmd = p.fitness.update(msg)
	case payYoga:
		p.yoga, cmd = p.yoga.update(msg)
	case payDiet:
		p.diet, cmd = p.diet.update(msg)
	}
	return p, cmd
}

func (p paymentsModel) updateForm(msg tea.Msg) (paymentsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		period := p.picker.result(p.period(), p.now(), p.store.WeekStart())
		return p.applyFilters(period.Filters())
	}
	return p, cmd
}

func (p paymentsModel) view() string {
	if p.formActive && p.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Select Period"), "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	var tabs []string
	for i, name := range paymentTabs {
		if i == p.active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	head := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...) + "  " + highlightStyle.Render(p.period().String())

	var body string
	switch p.active {
	case payFitness:
		body = p.fitness.view()
	case payYoga:
		body = p.yoga.view()
	case payDiet:
		body = p.diet.view()
	}
	return head + "\n" + body + "\n" + mutedStyle.Render("  t: next tab  p: period")
}
