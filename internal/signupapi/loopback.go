package signupapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/zarlcorp/zsignup/internal/signup"
	"github.com/zarlcorp/zsignup/internal/ssn"
)

// MsgEmailTaken is the message returned for a repeated email.
const MsgEmailTaken = "Email already registered"

// Loopback stands in for the account service when no endpoint is
// configured. It keeps accepted accounts in memory for the life of the
// process, holding only the SSN digest.
type Loopback struct {
	key string
	log *slog.Logger

	mu       sync.Mutex
	accounts map[string]string // lowercased email -> ssn digest
}

// NewLoopback creates a loopback service digesting SSNs under key.
func NewLoopback(key string, log *slog.Logger) *Loopback {
	if log == nil {
		log = slog.Default()
	}
	return &Loopback{
		key:      key,
		log:      log,
		accounts: make(map[string]string),
	}
}

// Submit accepts d unless its email was accepted before.
func (l *Loopback) Submit(ctx context.Context, d signup.Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	email := strings.ToLower(d.Email)
	digest := ssn.Protect(d.SSN, l.key)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[email]; ok {
		return &Error{StatusCode: http.StatusConflict, Message: MsgEmailTaken}
	}
	l.accounts[email] = digest

	l.log.Info("account accepted", "ssn_digest", digest[:12])
	return nil
}

// Digest returns the stored SSN digest for email.
func (l *Loopback) Digest(email string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.accounts[strings.ToLower(email)]
	return d, ok
}
