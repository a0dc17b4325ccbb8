package screens

import (
	"strconv"
	"time"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/dashboard"
	"github.com/sadopc/fitadmin/internal/listview"
)

// Trainer filter keys.
const (
	FilterKYC         = "kyc_status"
	FilterBlock       = "block_status"
	FilterServiceType = "service_type"
)

// Trainer service types offered by the service-type filter.
const (
	ServiceFitnessTrainer = "Fitness Trainer"
	ServiceYogaTrainer    = "Yoga Trainer"
)

var periodKeys = []string{dashboard.FilterType, dashboard.FilterStart, dashboard.FilterEnd}

var Users = Def[api.User]{
	Info: Info{Name: "users", Title: "Users", Path: "/users"},
	Fetch: func(c *api.Client) listview.FetchFunc[api.User] {
		return c.Users
	},
	Columns: []Column[api.User]{
		{Title: "NAME", Width: 18, Value: func(u api.User) string { return dash(u.Name) }},
		{Title: "AGE", Width: 4, Value: func(api.User) string { return "-" }},
		{Title: "MAIL ID", Width: 24, Value: func(u api.User) string { return dash(u.Email) }},
		{Title: "DATE", Width: 11, Value: func(u api.User) string { return dash(userBooking(u).TrialDate) }},
		{Title: "TIME", Width: 8, Value: func(u api.User) string { return dash(userBooking(u).TrialTime) }},
		{Title: "ADDRESS", Width: 22, Value: func(u api.User) string {
			if a := userBooking(u).Address; a != "" {
				return string(a)
			}
			return dash(u.Address)
		}},
		{Title: "AREA/CITY/PIN CODE", Width: 18, Value: func(u api.User) string {
			b := userBooking(u)
			return api.Text(join(" / ", b.Area, b.Pincode)).Or("-")
		}},
		{Title: "MOBILE NUMBER", Width: 13, Value: func(u api.User) string { return dash(u.Mobile) }},
		{Title: "CHOSEN PLAN", Width: 14, Value: func(u api.User) string { return dash(userBooking(u).BookingName) }},
		{Title: "PAYMENT", Width: 8, Value: func(u api.User) string {
			if p := u.FirstPayment(); p != nil {
				return p.Amount.String()
			}
			return "-"
		}},
		{Title: "CHOSEN PACKAGE", Width: 10, Value: func(u api.User) string {
			if p := u.FirstPayment(); p != nil {
				return dash(p.ServiceType)
			}
			return "-"
		}},
		{Title: "TIME SLOT", Width: 10, Value: func(u api.User) string { return dash(userBooking(u).PreferredTime) }},
		{Title: "ASSIGNED TRAINER NAME & CONTACT", Width: 22, Value: func(u api.User) string {
			p := u.FirstPayment()
			if p == nil || p.Trainer == nil {
				return "-"
			}
			s := dash(p.Trainer.Name)
			if p.Trainer.Phone != "" {
				s += " / " + string(p.Trainer.Phone)
			}
			return s
		}},
	},
}

func userBooking(u api.User) api.ServiceBooking {
	if p := u.FirstPayment(); p != nil && p.ServiceBooking != nil {
		return *p.ServiceBooking
	}
	return api.ServiceBooking{}
}

var Trainers = Def[api.Trainer]{
	Info: Info{
		Name:       "trainers",
		Title:      "Trainers",
		Path:       "/trainers",
		FilterKeys: []string{FilterKYC, FilterBlock, FilterServiceType},
		Debounce:   500 * time.Millisecond,
	},
	Fetch: func(c *api.Client) listview.FetchFunc[api.Trainer] {
		return c.Trainers
	},
	Columns: []Column[api.Trainer]{
		{Title: "NAME", Width: 18, Value: func(t api.Trainer) string { return api.Text(t.DisplayName()).Or("-") }},
		{Title: "EMAIL", Width: 24, Value: func(t api.Trainer) string { return dash(t.Email) }},
		{Title: "MOBILE", Width: 12, Value: func(t api.Trainer) string { return dash(t.Phone) }},
		{Title: "KYC STATUS", Width: 10, Value: func(t api.Trainer) string { return api.Text(t.KYCStatus).Or("-") }},
		{Title: "BLOCK STATUS", Width: 12, Value: func(t api.Trainer) string { return api.Text(t.BlockStatus).Or("-") }},
		{Title: "PIN", Width: 7, Value: func(t api.Trainer) string { return dash(t.Pin) }},
		{Title: "SERVICE TYPE", Width: 15, Value: func(t api.Trainer) string { return dash(t.ServiceType) }},
		{Title: "ADDRESS", Width: 24, Value: func(t api.Trainer) string { return dash(t.AadharAddress) }},
	},
}

var enquiryColumns = []Column[api.Enquiry]{
	{Title: "NAME", Width: 18, Value: func(e api.Enquiry) string { return dash(e.Name) }},
	{Title: "EMAIL", Width: 24, Value: func(e api.Enquiry) string { return dash(e.Email) }},
	{Title: "MOBILE", Width: 12, Value: func(e api.Enquiry) string { return dash(e.Phone) }},
	{Title: "COMPANY", Width: 18, Value: func(e api.Enquiry) string { return dash(e.CompanyName) }},
	{Title: "REQUIREMENT", Width: 30, Value: func(e api.Enquiry) string { return dash(e.Requirement) }},
}

var CorporateEnquiries = Def[api.Enquiry]{
	Info: Info{Name: "corporate", Title: "Corporate Enquiries", Path: "/corporate-enquiries"},
	Fetch: func(c *api.Client) listview.FetchFunc[api.Enquiry] {
		return c.CorporateEnquiries
	},
	Columns: enquiryColumns,
}

var NeoEnquiries = Def[api.Enquiry]{
	Info: Info{Name: "neo", Title: "Neo Enquiries", Path: "/neo-enquiries"},
	Fetch: func(c *api.Client) listview.FetchFunc[api.Enquiry] {
		return c.NeoEnquiries
	},
	Columns: enquiryColumns,
}

func booking(p api.Payment) api.ServiceBooking {
	if p.ServiceBooking != nil {
		return *p.ServiceBooking
	}
	return api.ServiceBooking{}
}

func customer(c *api.Customer) api.Customer {
	if c != nil {
		return *c
	}
	return api.Customer{}
}

var paymentColumns = []Column[api.Payment]{
	{Title: "Booking Name", Width: 16, Value: func(p api.Payment) string { return na(booking(p).BookingName) }},
	{Title: "Amount", Width: 8, Value: func(p api.Payment) string { return p.Amount.String() }},
	{Title: "Status", Width: 8, Value: func(p api.Payment) string { return p.Status }},
	{Title: "Preferred Time", Width: 14, Value: func(p api.Payment) string { return na(booking(p).PreferredTime) }},
	{Title: "Trial Date/Time", Width: 18, Value: func(p api.Payment) string {
		b := booking(p)
		return na(b.TrialDate) + "/" + na(b.TrialTime)
	}},
	{Title: "Trainee Type", Width: 12, Value: func(p api.Payment) string { return na(booking(p).TrainerType) }},
	{Title: "Trainer Need For", Width: 14, Value: func(p api.Payment) string { return na(booking(p).TrainingNeededFor) }},
	{Title: "Training For", Width: 12, Value: func(p api.Payment) string { return na(booking(p).TrainingFor) }},
}

var orderColumn = Column[api.Payment]{Title: "Id/Order Id", Width: 18, Value: func(p api.Payment) string {
	id := "N/A"
	if p.ID != 0 {
		id = strconv.FormatInt(p.ID, 10)
	}
	return id + "/" + na(p.OrderID)
}}

var FitnessPayments = Def[api.Payment]{
	Info: Info{Name: "fitness", Title: "Fitness Payments", Path: "/payments/fitness", FilterKeys: periodKeys},
	Fetch: func(c *api.Client) listview.FetchFunc[api.Payment] {
		return c.FitnessPayments
	},
	Columns: append(append([]Column[api.Payment]{}, paymentColumns...), orderColumn),
}

var YogaPayments = Def[api.Payment]{
	Info: Info{Name: "yoga", Title: "Yoga Payments", Path: "/payments/yoga", FilterKeys: periodKeys},
	Fetch: func(c *api.Client) listview.FetchFunc[api.Payment] {
		return c.YogaPayments
	},
	Columns: append(append([]Column[api.Payment]{}, paymentColumns...),
		Column[api.Payment]{Title: "User Name", Width: 16, Value: func(p api.Payment) string { return na(customer(booking(p).User).Name) }},
		Column[api.Payment]{Title: "User Email", Width: 22, Value: func(p api.Payment) string { return na(customer(booking(p).User).Email) }},
		Column[api.Payment]{Title: "User Mobile", Width: 12, Value: func(p api.Payment) string { return na(customer(booking(p).User).Mobile) }},
		Column[api.Payment]{Title: "User Address", Width: 22, Value: func(p api.Payment) string { return na(customer(booking(p).User).Address) }},
		Column[api.Payment]{Title: "Created At", Width: 11, Value: func(p api.Payment) string { return na(booking(p).CreatedAt) }},
		orderColumn,
	),
}

var DietPayments = Def[api.DietBooking]{
	Info: Info{Name: "diet", Title: "Diet Payments", Path: "/payments/diet", FilterKeys: periodKeys},
	Fetch: func(c *api.Client) listview.FetchFunc[api.DietBooking] {
		return c.DietPayments
	},
	Columns: []Column[api.DietBooking]{
		{Title: "Type", Width: 10, Value: func(d api.DietBooking) string { return dash(d.Type) }},
		{Title: "Price", Width: 7, Value: func(d api.DietBooking) string { return dash(d.Price) }},
		{Title: "Plan For", Width: 10, Value: func(d api.DietBooking) string { return dash(d.PlanFor) }},
		{Title: "Gender", Width: 7, Value: func(d api.DietBooking) string { return dash(d.Gender) }},
		{Title: "Name", Width: 16, Value: func(d api.DietBooking) string { return dash(d.Name) }},
		{Title: "Number", Width: 12, Value: func(d api.DietBooking) string { return dash(d.Number) }},
		{Title: "Age", Width: 4, Value: func(d api.DietBooking) string { return dash(d.Age) }},
		{Title: "Height", Width: 6, Value: func(d api.DietBooking) string { return dash(d.Height) }},
		{Title: "Weight", Width: 6, Value: func(d api.DietBooking) string { return dash(d.Weight) }},
		{Title: "Goal", Width: 12, Value: func(d api.DietBooking) string { return dash(d.Goal) }},
		{Title: "Diet Type", Width: 10, Value: func(d api.DietBooking) string { return dash(d.DietType) }},
		{Title: "Daily Physical Activity", Width: 12, Value: func(d api.DietBooking) string { return dash(d.DailyPhysicalActivity) }},
		{Title: "Allergy", Width: 10, Value: func(d api.DietBooking) string { return dash(d.Allergy) }},
		{Title: "Plan Type", Width: 10, Value: func(d api.DietBooking) string { return dash(d.PlanType) }},
		{Title: "User Name", Width: 16, Value: func(d api.DietBooking) string { return na(customer(d.User).Name) }},
		{Title: "User Email", Width: 22, Value: func(d api.DietBooking) string { return na(customer(d.User).Email) }},
		{Title: "User Mobile", Width: 12, Value: func(d api.DietBooking) string { return na(customer(d.User).Mobile) }},
		{Title: "User Address", Width: 22, Value: func(d api.DietBooking) string { return na(customer(d.User).Address) }},
		{Title: "Created At", Width: 11, Value: func(d api.DietBooking) string { return createdDate(d.CreatedAt) }},
	},
}

// createdDate trims an RFC 3339 timestamp to its date.
func createdDate(t api.Text) string {
	if ts, err := time.Parse(time.RFC3339, string(t)); err == nil {
		return ts.Local().Format(dashboard.DateLayout)
	}
	return dash(t)
}
