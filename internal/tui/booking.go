package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
)

// trainerPickerLimit bounds the one-off trainer fetch behind the picker.
const trainerPickerLimit = 1000

var (
	bookingPlans         = []string{"Fitness", "Yoga", "Diet"}
	bookingPackages      = []string{"Monthly", "Quarterly", "Yearly", "Lifetime"}
	bookingTimeSlots     = []string{"6:00 AM - 7:00 AM", "7:00 AM - 8:00 AM", "5:00 PM - 6:00 PM", "6:00 PM - 7:00 PM", "7:00 PM - 8:00 PM"}
	bookingTrainingFor   = []string{"male", "female", "couple", "group"}
	bookingNeededFor     = []string{"self", "other"}
	bookingTrainerTypes  = []string{"basic", "premium", "pro"}
	bookingPaymentStatus = []string{"Paid", "Pending", "Failed", "Refunded"}
	bookingTrialSession  = []string{"Yes", "No", "Completed"}
)

// bookingFields backs the booking form.
type bookingFields struct {
	UserID        string
	TrainerID     string
	Name          string
	Age           string
	Email         string
	Mobile        string
	TrainingFor   string
	NeededFor     string
	Address       string
	Landmark      string
	Area          string
	Pincode       string
	Date          string
	BookingTime   string
	Plan          string
	Package       string
	TimeSlot      string
	TrainerType   string
	BookingName   string
	PaymentStatus string
	TrialSession  string
}

func defaultBookingFields() bookingFields {
	return bookingFields{TrainingFor: "male", NeededFor: "self", TrainerType: "basic"}
}

// request builds the connect-trainer body. An empty booking name is
// derived from the plan and package.
func (f bookingFields) request() api.BookingRequest {
	name := strings.TrimSpace(f.BookingName)
	if name == "" {
		name = fmt.Sprintf("%s %s Session", f.Plan, f.Package)
	}
	return api.BookingRequest{
		UserID:             strings.TrimSpace(f.UserID),
		TrainerID:          f.TrainerID,
		ServiceBookingStep: 1,
		ServiceType:        strings.ToLower(f.Plan),
		PreferredTime:      f.BookingTime,
		TrainingFor:        f.TrainingFor,
		TrialDate:          f.Date,
		TrialTime:          f.TimeSlot,
		TrainerType:        f.TrainerType,
		TrainingNeededFor:  f.NeededFor,
		BookingName:        name,
		Address:            f.Address,
		Landmark:           f.Landmark,
		Area:               f.Area,
		Pincode:            f.Pincode,
		CustomerName:       f.Name,
		CustomerAge:        f.Age,
		CustomerEmail:      f.Email,
		CustomerPhone:      f.Mobile,
		PaymentStatus:      f.PaymentStatus,
		TrialSession:       f.TrialSession,
	}
}

type bookingTrainersMsg struct {
	trainers []api.Trainer
	err      error
}

type bookingSubmittedMsg struct {
	err error
}

type bookingModel struct {
	client  *api.Client
	timeout time.Duration
	width   int
	height  int

	trainers       []api.Trainer
	trainersLoaded bool
	loading        bool
	submitting     bool
	err            string

	formActive bool
	form       *huh.Form
	fields     *bookingFields
}

func newBookingModel(d Deps) bookingModel {
	f := defaultBookingFields()
	return bookingModel{client: d.Client, timeout: d.Config.Timeout(), fields: &f}
}

func (b *bookingModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

// mount fetches the trainer list the first time the view is shown.
func (b bookingModel) mount() (bookingModel, tea.Cmd) {
	if b.trainersLoaded || b.loading {
		return b, nil
	}
	b.loading = true
	client, timeout := b.client, b.timeout
	return b, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		page, err := client.Trainers(ctx, api.ListParams{Limit: trainerPickerLimit})
		return bookingTrainersMsg{trainers: page.Rows, err: err}
	}
}

func (b bookingModel) submit() tea.Cmd {
	req := b.fields.request()
	client, timeout := b.client, b.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return bookingSubmittedMsg{err: client.ConnectTrainer(ctx, req)}
	}
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

func stringOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(v, v)
	}
	return opts
}

func (b bookingModel) showForm() (bookingModel, tea.Cmd) {
	var trainerOpts []huh.Option[string]
	for _, t := range b.trainers {
		label := fmt.Sprintf("%s (%s)", api.Text(t.DisplayName()).Or("Unnamed"), t.ContactNumber())
		trainerOpts = append(trainerOpts, huh.NewOption(label, strconv.FormatInt(t.ID, 10)))
	}
	if len(trainerOpts) == 0 {
		trainerOpts = []huh.Option[string]{huh.NewOption("No trainers available", "")}
	}

	f := b.fields
	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User ID *").Value(&f.UserID).Validate(required("User ID")),
			huh.NewInput().Title("Name *").Value(&f.Name).Validate(required("Name")),
			huh.NewInput().Title("Age *").Value(&f.Age).Validate(required("Age")),
			huh.NewInput().Title("Email ID *").Value(&f.Email).Validate(required("Email")),
			huh.NewInput().Title("Mobile Number *").Value(&f.Mobile).Validate(required("Mobile number")),
			huh.NewSelect[string]().Title("Training For *").Options(stringOptions(bookingTrainingFor)...).Value(&f.TrainingFor),
			huh.NewSelect[string]().Title("Training Needed For *").Options(stringOptions(bookingNeededFor)...).Value(&f.NeededFor),
		).Title("Customer"),
		huh.NewGroup(
			huh.NewInput().Title("Address *").Value(&f.Address).Validate(required("Address")),
			huh.NewInput().Title("Landmark").Value(&f.Landmark),
			huh.NewInput().Title("Area *").Value(&f.Area).Validate(required("Area")),
			huh.NewInput().Title("PIN Code *").Value(&f.Pincode).Validate(required("PIN code")),
		).Title("Address"),
		huh.NewGroup(
			huh.NewInput().Title("Date *").Placeholder("2006-01-02").Value(&f.Date).Validate(required("Date")),
			huh.NewInput().Title("Booking Time *").Value(&f.BookingTime).Validate(required("Booking time")),
			huh.NewSelect[string]().Title("Service Type *").Options(stringOptions(bookingPlans)...).Value(&f.Plan),
			huh.NewSelect[string]().Title("Package *").Options(stringOptions(bookingPackages)...).Value(&f.Package),
			huh.NewSelect[string]().Title("Time Slot *").Options(stringOptions(bookingTimeSlots)...).Value(&f.TimeSlot),
			huh.NewSelect[string]().Title("Trainer Type *").Options(stringOptions(bookingTrainerTypes)...).Value(&f.TrainerType),
			huh.NewInput().Title("Booking Name").Value(&f.BookingName),
			huh.NewSelect[string]().Title("Payment Status *").Options(stringOptions(bookingPaymentStatus)...).Value(&f.PaymentStatus),
			huh.NewSelect[string]().Title("Trial Session").Options(stringOptions(bookingTrialSession)...).Value(&f.TrialSession),
		).Title("Booking"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Assign Trainer *").Options(trainerOpts...).Value(&f.TrainerID).Validate(required("Trainer")),
		).Title("Trainer"),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	b.err = ""
	return b, b.form.Init()
}

func (b bookingModel) update(msg tea.Msg) (bookingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingTrainersMsg:
		b.loading = false
		if msg.err != nil {
			b.err = "Failed to load trainers. Please try again."
			return b, nil
		}
		b.trainers = msg.trainers
		b.trainersLoaded = true
		return b, nil

	case bookingSubmittedMsg:
		b.submitting = false
		if msg.err != nil {
			b.err = api.UserMessage(msg.err, "Failed to create booking. Please try again.")
			return b, nil
		}
		*b.fields = defaultBookingFields()
		b.err = ""
		return b, func() tea.Msg { return statusMsg{text: "Customer booking created successfully!"} }
	}

	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Enter):
			if b.submitting {
				return b, nil
			}
			return b.showForm()
		case key.Matches(msg, keys.Refresh):
			b.trainersLoaded = false
			return b.mount()
		}
	}
	return b, nil
}

func (b bookingModel) updateForm(msg tea.Msg) (bookingModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.formActive = false
			b.form = nil
			return b, nil
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		b.formActive = false
		b.form = nil
		b.submitting = true
		return b, b.submit()
	}
	return b, cmd
}

func (b bookingModel) view() string {
	w := b.width - 4
	title := titleStyle.Render("Customer Management")

	if b.formActive && b.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", b.form.View())
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, mutedStyle.Render("Manage customer details and assignments"), ""}
	switch {
	case b.loading:
		rows = append(rows, mutedStyle.Render("Loading trainers..."))
	case b.submitting:
		rows = append(rows, mutedStyle.Render("Submitting booking..."))
	default:
		rows = append(rows, fmt.Sprintf("%d trainers available", len(b.trainers)))
	}
	if b.err != "" {
		rows = append(rows, errorStyle.Render(b.err))
	}
	rows = append(rows, "", mutedStyle.Render("  n/enter: new booking  r: reload trainers"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
