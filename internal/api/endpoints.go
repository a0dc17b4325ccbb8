package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Endpoint paths, relative to the base URL.
const (
	PathLogin            = "/login"
	PathUsers            = "/user-list"
	PathTrainers         = "/trainer-list"
	PathTrainerDetail    = "/trainer-detail/%d"
	PathVerifyKYC        = "/verify-kyc-step-trainer/%d"
	PathBlockTrainer     = "/block-trainer/%d"
	PathDeleteTrainer    = "/delete-trainer/%d"
	PathCorporateEnquiry = "/corporate-enquiry"
	PathNeoEnquiry       = "/neo-enquiry"
	PathFitnessPayments  = "/fitness-payment"
	PathYogaPayments     = "/yoga-payment"
	PathDietPayments     = "/diet-payment"
	PathConnectTrainer   = "/connect-trainer"
)

func list[T any](ctx context.Context, c *Client, path string, p ListParams) (Page[T], error) {
	var env listEnvelope
	if err := c.Get(ctx, path, p.Values(), &env); err != nil {
		return Page[T]{}, err
	}
	page, err := decodePage[T](env)
	if err != nil {
		return Page[T]{}, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}

// Login posts credentials and returns the bearer token. A response
// without a token yields ErrNoToken.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Response *struct {
			Token string `json:"token"`
		} `json:"response"`
	}
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	if err := c.Post(ctx, PathLogin, body, &out); err != nil {
		return "", err
	}
	if out.Response == nil || out.Response.Token == "" {
		if out.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrNoToken, out.Message)
		}
		return "", ErrNoToken
	}
	return out.Response.Token, nil
}

func (c *Client) Users(ctx context.Context, p ListParams) (Page[User], error) {
	return list[User](ctx, c, PathUsers, p)
}

func (c *Client) Trainers(ctx context.Context, p ListParams) (Page[Trainer], error) {
	return list[Trainer](ctx, c, PathTrainers, p)
}

func (c *Client) CorporateEnquiries(ctx context.Context, p ListParams) (Page[Enquiry], error) {
	return list[Enquiry](ctx, c, PathCorporateEnquiry, p)
}

func (c *Client) NeoEnquiries(ctx context.Context, p ListParams) (Page[Enquiry], error) {
	return list[Enquiry](ctx, c, PathNeoEnquiry, p)
}

func (c *Client) FitnessPayments(ctx context.Context, p ListParams) (Page[Payment], error) {
	return list[Payment](ctx, c, PathFitnessPayments, p)
}

func (c *Client) YogaPayments(ctx context.Context, p ListParams) (Page[Payment], error) {
	return list[Payment](ctx, c, PathYogaPayments, p)
}

func (c *Client) DietPayments(ctx context.Context, p ListParams) (Page[DietBooking], error) {
	return list[DietBooking](ctx, c, PathDietPayments, p)
}

// TrainerDetail fetches one trainer's full profile.
func (c *Client) TrainerDetail(ctx context.Context, id int64) (*Trainer, error) {
	var out struct {
		Response *Trainer `json:"response"`
	}
	if err := c.Get(ctx, fmt.Sprintf(PathTrainerDetail, id), nil, &out); err != nil {
		return nil, err
	}
	if out.Response == nil {
		return nil, fmt.Errorf("trainer %d: %w", id, ErrUnexpectedShape)
	}
	return out.Response, nil
}

// VerifyKYC sets a trainer's KYC status (done or failed).
func (c *Client) VerifyKYC(ctx context.Context, id int64, status string) error {
	return c.mutate(ctx, http.MethodPatch, fmt.Sprintf(PathVerifyKYC, id), map[string]string{"kyc_status": status})
}

// SetBlockStatus blocks or unblocks a trainer.
func (c *Client) SetBlockStatus(ctx context.Context, id int64, status string) error {
	return c.mutate(ctx, http.MethodPatch, fmt.Sprintf(PathBlockTrainer, id), map[string]string{"status": status})
}

func (c *Client) DeleteTrainer(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf(PathDeleteTrainer, id), nil)
}

// ConnectTrainer creates a booking that assigns a trainer to a customer.
func (c *Client) ConnectTrainer(ctx context.Context, b BookingRequest) error {
	return c.mutate(ctx, http.MethodPost, PathConnectTrainer, b)
}

func (c *Client) mutate(ctx context.Context, method, path string, body any) error {
	var out MutationResult
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return err
	}
	return out.Err()
}
