package signupapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zarlcorp/zsignup/internal/signup"
	"github.com/zarlcorp/zsignup/internal/ssn"
)

func testDraft() signup.Draft {
	return signup.Draft{
		Email:           "jane@example.com",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
		FirstName:       "Jane",
		LastName:        "Doe",
		PhoneNumber:     "+14155552671",
		DateOfBirth:     "1990-06-15",
		SSN:             "123456789",
		Address:         "123 Oak Ave",
		City:            "Portland",
		State:           "OR",
		ZipCode:         "97201",
	}
}

func testClient(t *testing.T, token string, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL + "/", Token: token})
}

func TestSubmitPostsDraft(t *testing.T) {
	var got signup.Draft
	var gotAuth, gotType string

	c := testClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		if r.URL.Path != "/signup" {
			t.Errorf("path: got %s, want /signup", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	if err := c.Submit(context.Background(), testDraft()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(testDraft(), got); diff != "" {
		t.Errorf("posted draft (-want +got):\n%s", diff)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization: got %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Errorf("content type: got %q", gotType)
	}
}

func TestSubmitWithoutToken(t *testing.T) {
	c := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected authorization header %q", h)
		}
	}))
	if err := c.Submit(context.Background(), testDraft()); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusConflict, `{"error":"Email already registered"}`, "Email already registered"},
		{"message field", http.StatusBadRequest, `{"message":"SSN rejected"}`, "SSN rejected"},
		{"error wins", http.StatusBadRequest, `{"error":"first","message":"second"}`, "first"},
		{"plain body", http.StatusInternalServerError, "boom", "Internal Server Error"},
		{"empty json", http.StatusBadGateway, `{}`, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			err := c.Submit(context.Background(), testDraft())
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", apiErr.StatusCode, tt.status)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message: got %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSubmitCanceled(t *testing.T) {
	c := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Submit(ctx, testDraft()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	if (Config{}).Configured() {
		t.Error("empty config should not be configured")
	}
	if !(Config{URL: "http://x"}).Configured() {
		t.Error("config with URL should be configured")
	}
}

func TestLoopbackRejectsRepeatEmail(t *testing.T) {
	l := NewLoopback("k1", slog.New(slog.DiscardHandler))

	if err := l.Submit(context.Background(), testDraft()); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	d := testDraft()
	d.Email = "JANE@example.com"
	err := l.Submit(context.Background(), d)
	if err == nil || err.Error() != MsgEmailTaken {
		t.Fatalf("second submit: got %v, want %q", err, MsgEmailTaken)
	}
}

func TestLoopbackStoresDigestOnly(t *testing.T) {
	l := NewLoopback("k1", slog.New(slog.DiscardHandler))
	if err := l.Submit(context.Background(), testDraft()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, ok := l.Digest("jane@example.com")
	if !ok {
		t.Fatal("account not stored")
	}
	if got != ssn.Protect("123456789", "k1") {
		t.Errorf("digest = %s", got)
	}
	if !ssn.Verify("123456789", got, "k1") {
		t.Error("stored digest should verify")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SIGNUP_URL", "https://accounts.example.com")
	t.Setenv("SIGNUP_TOKEN", "tok")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := Config{URL: "https://accounts.example.com", Token: "tok"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}
