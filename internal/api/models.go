package api

// Customer is the end user attached to a booking.
type Customer struct {
	Name    Text `json:"name"`
	Email   Text `json:"email"`
	Mobile  Text `json:"mobile"`
	Address Text `json:"address"`
}

type ServiceBooking struct {
	BookingName       Text      `json:"booking_name"`
	TrialDate         Text      `json:"trial_date"`
	TrialTime         Text      `json:"trial_time"`
	Address           Text      `json:"address"`
	Area              Text      `json:"area"`
	Pincode           Text      `json:"pincode"`
	PreferredTime     Text      `json:"preferred_time_to_be_served"`
	TrainerType       Text      `json:"trainer_type"`
	TrainingNeededFor Text      `json:"training_needed_for"`
	TrainingFor       Text      `json:"training_for"`
	CreatedAt         Text      `json:"created_at"`
	User              *Customer `json:"user"`
}

// TrainerRef is the short trainer record nested in payments.
type TrainerRef struct {
	Name  Text `json:"name"`
	Phone Text `json:"phone"`
}

// Payment is a payment record. Fitness and yoga list endpoints return
// these directly; users and diet bookings nest them.
type Payment struct {
	ID             int64           `json:"id"`
	OrderID        Text            `json:"order_id"`
	Amount         Amount          `json:"amount"`
	Status         string          `json:"status"`
	ServiceType    Text            `json:"service_type"`
	ServiceBooking *ServiceBooking `json:"service_booking"`
	Trainer        *TrainerRef     `json:"trainer"`
}

type User struct {
	ID       int64     `json:"id"`
	Name     Text      `json:"name"`
	Email    Text      `json:"email"`
	Mobile   Text      `json:"mobile"`
	Address  Text      `json:"address"`
	Status   int       `json:"status"`
	Payments []Payment `json:"payments"`
}

// FirstPayment returns the user's first payment record, if any.
func (u User) FirstPayment() *Payment {
	if len(u.Payments) == 0 {
		return nil
	}
	return &u.Payments[0]
}

type TrainerDocument struct {
	DocumentType Text `json:"document_type"`
	DocumentURL  Text `json:"document_url"`
}

type Trainer struct {
	ID                int64             `json:"id"`
	Name              Text              `json:"name"`
	FirstName         Text              `json:"first_name"`
	LastName          Text              `json:"last_name"`
	Email             Text              `json:"email"`
	Phone             Text              `json:"phone"`
	Mobile            Text              `json:"mobile"`
	Contact           Text              `json:"contact"`
	AlternatePhone    Text              `json:"alternate_phone"`
	Gender            Text              `json:"gender"`
	Experience        Text              `json:"experience"`
	Education         Text              `json:"education"`
	Language          Text              `json:"language"`
	CurrentAddress    Text              `json:"current_address"`
	AadharAddress     Text              `json:"addhar_address"`
	Pin               Text              `json:"pin"`
	ServiceType       Text              `json:"service_type"`
	ServiceArea       Text              `json:"service_area"`
	ServicingArea     Text              `json:"servicing_area"`
	KYCStatus         string            `json:"kyc_status"`
	BlockStatus       string            `json:"block_status"`
	AccountHolderName Text              `json:"account_holder_name"`
	AccountNo         Text              `json:"account_no"`
	BankName          Text              `json:"bank_name"`
	BankBranch        Text              `json:"bank_branch"`
	IFSCCode          Text              `json:"ifsc_code"`
	ProfilePicture    Text              `json:"profilePicture"`
	CreatedAt         Text              `json:"created_at"`
	Documents         []TrainerDocument `json:"trainer_documents"`
}

// DisplayName falls back to first/last name when name is empty.
func (t Trainer) DisplayName() string {
	if t.Name != "" {
		return string(t.Name)
	}
	full := string(t.FirstName)
	if t.LastName != "" {
		if full != "" {
			full += " "
		}
		full += string(t.LastName)
	}
	return full
}

// ContactNumber picks the first populated phone field.
func (t Trainer) ContactNumber() string {
	for _, v := range []Text{t.Phone, t.Mobile, t.Contact} {
		if v != "" {
			return string(v)
		}
	}
	return "N/A"
}

// Enquiry is a corporate or neo enquiry.
type Enquiry struct {
	ID          int64 `json:"id"`
	Name        Text  `json:"name"`
	Email       Text  `json:"email"`
	Phone       Text  `json:"phone"`
	CompanyName Text  `json:"company_name"`
	Requirement Text  `json:"requirement"`
}

// DietBooking is a row of /diet-payment. Its payment outcome lives in
// the nested payments list rather than on the row.
type DietBooking struct {
	ID                    int64     `json:"id"`
	Type                  Text      `json:"type"`
	Price                 Text      `json:"price"`
	PlanFor               Text      `json:"plan_for"`
	Gender                Text      `json:"gender"`
	Name                  Text      `json:"name"`
	Number                Text      `json:"number"`
	Age                   Text      `json:"age"`
	Height                Text      `json:"height"`
	Weight                Text      `json:"weight"`
	Goal                  Text      `json:"goal"`
	DietType              Text      `json:"diet_type"`
	DailyPhysicalActivity Text      `json:"daily_physical_activity"`
	Allergy               Text      `json:"allergy"`
	PlanType              Text      `json:"plan_type"`
	CreatedAt             Text      `json:"created_at"`
	User                  *Customer `json:"user"`
	Payments              []Payment `json:"payments"`
}

// FirstPayment returns the booking's first payment record, if any.
func (d DietBooking) FirstPayment() *Payment {
	if len(d.Payments) == 0 {
		return nil
	}
	return &d.Payments[0]
}

// KYC and block statuses accepted by the trainer filters and endpoints.
const (
	KYCPending   = "pending"
	KYCInProcess = "inprocess"
	KYCDone      = "done"
	KYCFailed    = "failed"

	BlockBlocked   = "Blocked"
	BlockUnblocked = "Unblocked"
)

// PaymentSuccess is the status sentinel for a completed payment.
const PaymentSuccess = "success"

// BookingRequest is the body of POST /connect-trainer.
type BookingRequest struct {
	UserID             string `json:"user_id"`
	TrainerID          string `json:"trainer_id"`
	ServiceBookingStep int    `json:"service_booking_step"`
	ServiceType        string `json:"service_type"`
	PreferredTime      string `json:"preferred_time_to_be_served"`
	TrainingFor        string `json:"training_for"`
	TrialDate          string `json:"trial_date"`
	TrialTime          string `json:"trial_time"`
	TrainerType        string `json:"trainer_type"`
	TrainingNeededFor  string `json:"training_needed_for"`
	BookingName        string `json:"booking_name"`
	Address            string `json:"address"`
	Landmark           string `json:"landmark"`
	Area               string `json:"area"`
	Pincode            string `json:"pincode"`
	CustomerName       string `json:"customer_name"`
	CustomerAge        string `json:"customer_age"`
	CustomerEmail      string `json:"customer_email"`
	CustomerPhone      string `json:"customer_phone"`
	PaymentStatus      string `json:"payment_status"`
	TrialSession       string `json:"trial_session"`
}
