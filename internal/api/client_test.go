package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sadopc/fitadmin/internal/logging"
)

// newTestClient starts a server running handler and returns a client
// pointed at it.
func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/admin", StaticToken(token), WithLogger(logging.Discard()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ============================================================
// Transport
// ============================================================

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotReqID string
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		writeJSON(w, 200, map[string]any{"response": map[string]any{"rows": []any{}, "count": 0}})
	})

	if _, err := c.Users(context.Background(), ListParams{Limit: 10}); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("expected a request id header")
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var present bool
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		writeJSON(w, 200, map[string]any{"response": map[string]any{"rows": []any{}, "count": 0}})
	})
	c.Users(context.Background(), ListParams{Limit: 10})
	if present {
		t.Fatal("no Authorization header expected without a token")
	}
}

func TestPathAndQuery(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		writeJSON(w, 200, map[string]any{"response": map[string]any{"rows": []any{}, "count": 0}})
	})

	_, err := c.Trainers(context.Background(), ListParams{
		Search:  "ravi",
		Limit:   15,
		Offset:  30,
		Filters: map[string]string{"kyc_status": "done", "block_status": ""},
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/admin/trainer-list" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery["search"][0] != "ravi" || gotQuery["limit"][0] != "15" || gotQuery["offset"][0] != "30" {
		t.Fatalf("query = %v", gotQuery)
	}
	if gotQuery["kyc_status"][0] != "done" {
		t.Fatalf("kyc_status missing: %v", gotQuery)
	}
	if _, ok := gotQuery["block_status"]; ok {
		t.Fatal("empty filters must be omitted")
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, WithLogger(logging.Discard()))
	_, err := c.Users(context.Background(), ListParams{Limit: 10})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatal("transport failures are not APIErrors")
	}
	if UserMessage(err, "Failed to load data") != "Failed to load data" {
		t.Fatal("transport errors should map to the fallback message")
	}
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Users(ctx, ListParams{Limit: 10}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// ============================================================
// Errors and envelopes
// ============================================================

func TestAPIErrorMessageFromPayload(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "Token expired"})
	})
	_, err := c.Users(context.Background(), ListParams{Limit: 10})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 401 || apiErr.Message != "Token expired" {
		t.Fatalf("api error = %+v", apiErr)
	}
	if UserMessage(err, "fallback") != "Token expired" {
		t.Fatal("backend message should surface")
	}
}

func TestAPIErrorRawPayload(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
		io.WriteString(w, "bad gateway")
	})
	_, err := c.Users(context.Background(), ListParams{Limit: 10})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad gateway" {
		t.Fatalf("api error = %v", err)
	}
}

func TestAPIErrorLongPayloadCutOnRune(t *testing.T) {
	body := strings.Repeat("ऑ", 250)
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		io.WriteString(w, body)
	})
	_, err := c.Users(context.Background(), ListParams{Limit: 10})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !utf8.ValidString(apiErr.Message) {
		t.Fatalf("message is not valid UTF-8: %q", apiErr.Message)
	}
	if n := utf8.RuneCountInString(apiErr.Message); n != 200 {
		t.Fatalf("message has %d runes, want 200", n)
	}
	if string(apiErr.Payload) != body {
		t.Fatal("payload should keep the full body")
	}
}

func TestMissingRowsIsUnexpectedShape(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"response": map[string]any{"count": 3}})
	})
	_, err := c.Users(context.Background(), ListParams{Limit: 10})
	if !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestMissingResponseIsUnexpectedShape(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"ok": true})
	})
	if _, err := c.Users(context.Background(), ListParams{Limit: 10}); !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestNullRowsIsEmptyPage(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":{"rows":null,"count":"0"}}`)
	})
	page, err := c.Users(context.Background(), ListParams{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Rows) != 0 || page.Count != 0 {
		t.Fatalf("page = %+v", page)
	}
}

func TestDecodeUsers(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":{"count":42,"rows":[
			{"id":7,"name":"Asha","email":"a@x.in","mobile":9876543210,"status":1,
			 "payments":[{"amount":"1499","service_type":"fitness",
			   "service_booking":{"trial_date":"2026-10-01","pincode":560001},
			   "trainer":{"name":"Ravi","phone":"99"}}]}
		]}}`)
	})
	page, err := c.Users(context.Background(), ListParams{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 42 || len(page.Rows) != 1 {
		t.Fatalf("page = %+v", page)
	}
	u := page.Rows[0]
	if u.Mobile != "9876543210" || u.Status != 1 {
		t.Fatalf("user = %+v", u)
	}
	p := u.FirstPayment()
	if p == nil || p.Amount != 1499 || p.ServiceBooking.Pincode != "560001" || p.Trainer.Name != "Ravi" {
		t.Fatalf("payment = %+v", p)
	}
}

// ============================================================
// Mutations
// ============================================================

func TestVerifyKYC(t *testing.T) {
	var method, path string
	var body map[string]string
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"success": true})
	})
	if err := c.VerifyKYC(context.Background(), 34, KYCDone); err != nil {
		t.Fatal(err)
	}
	if method != http.MethodPatch || path != "/admin/verify-kyc-step-trainer/34" || body["kyc_status"] != "done" {
		t.Fatalf("request = %s %s %v", method, path, body)
	}
}

func TestMutationWithoutSuccessFails(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"message": "Trainer not found"})
	})
	err := c.SetBlockStatus(context.Background(), 1, BlockBlocked)
	if !errors.Is(err, ErrNotSuccessful) {
		t.Fatalf("expected ErrNotSuccessful, got %v", err)
	}
	if UserMessage(err, "fallback") != "Trainer not found" {
		t.Fatalf("message = %q", UserMessage(err, "fallback"))
	}
}

func TestMutationEmptyBodyFails(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
	if err := c.DeleteTrainer(context.Background(), 3); !errors.Is(err, ErrNotSuccessful) {
		t.Fatalf("expected ErrNotSuccessful, got %v", err)
	}
}

func TestBlockAndDeletePaths(t *testing.T) {
	var seen []string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		writeJSON(w, 200, map[string]any{"success": true})
	})
	c.SetBlockStatus(context.Background(), 5, BlockUnblocked)
	c.DeleteTrainer(context.Background(), 5)
	c.ConnectTrainer(context.Background(), BookingRequest{UserID: "237"})
	want := []string{"PATCH /admin/block-trainer/5", "DELETE /admin/delete-trainer/5", "POST /admin/connect-trainer"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Fatalf("requests = %v", seen)
	}
}

// ============================================================
// Login and detail
// ============================================================

func TestLogin(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"response": map[string]any{"token": "jwt-123"}})
	})
	tok, err := c.Login(context.Background(), " admin@fit.in ", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "jwt-123" || body["email"] != "admin@fit.in" || body["password"] != "pw" {
		t.Fatalf("token = %q body = %v", tok, body)
	}
}

func TestLoginWithoutToken(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "message": "Invalid credentials"})
	})
	_, err := c.Login(context.Background(), "a", "b")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestTrainerDetail(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/trainer-detail/34" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"response":{"id":34,"first_name":"Ravi","last_name":"K","pin":560001,
			"kyc_status":"pending","block_status":"Unblocked",
			"trainer_documents":[{"document_type":"PAN","document_url":"https://x/pan.pdf"}]}}`)
	})
	tr, err := c.TrainerDetail(context.Background(), 34)
	if err != nil {
		t.Fatal(err)
	}
	if tr.DisplayName() != "Ravi K" || tr.Pin != "560001" || len(tr.Documents) != 1 {
		t.Fatalf("trainer = %+v", tr)
	}
	if tr.ContactNumber() != "N/A" {
		t.Fatalf("contact = %q", tr.ContactNumber())
	}
}
