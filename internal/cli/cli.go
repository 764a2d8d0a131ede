// Package cli implements zsignup's command-line subcommands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/zarlcorp/zsignup/internal/config"
	"github.com/zarlcorp/zsignup/internal/identity"
	"github.com/zarlcorp/zsignup/internal/signup"
	"github.com/zarlcorp/zsignup/internal/signupapi"
	"github.com/zarlcorp/zsignup/internal/ssn"
	"golang.org/x/term"
)

// ReadPassword prompts on w and reads a line from the terminal without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ResolveKey returns the SSN key from cfg. Without a configured secret it
// warns on log and falls back to the development key, unless cfg.Required
// is set.
func ResolveKey(cfg ssn.Config, log *slog.Logger) (string, error) {
	key, err := cfg.Key()
	if errors.Is(err, ssn.ErrDefaultKey) {
		if cfg.Required {
			return "", err
		}
		log.Warn("insecure ssn key", "err", err)
		return key, nil
	}
	return key, err
}

// LoadKey reads the SSN settings from the environment and resolves the key.
func LoadKey(log *slog.Logger) (string, error) {
	cfg, err := ssn.LoadConfig()
	if err != nil {
		return "", err
	}
	return ResolveKey(cfg, log)
}

// NewSubmitter returns the HTTP client when SIGNUP_URL is set and the
// in-memory loopback otherwise.
func NewSubmitter(key string, log *slog.Logger) (signup.Submitter, error) {
	cfg, err := signupapi.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Configured() {
		log.Debug("submitting to account service", "url", cfg.URL)
		return signupapi.NewClient(cfg), nil
	}
	log.Debug("no SIGNUP_URL set, using loopback")
	return signupapi.NewLoopback(key, log), nil
}

// validateReport is the --json output of the validate command.
type validateReport struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Validate reads a JSON draft from r, runs every rule and writes the result
// to w. It reports whether the draft is valid.
func Validate(r io.Reader, w io.Writer, asJSON bool, now time.Time) (bool, error) {
	var d signup.Draft
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}

	errs := signup.ValidateAll(d, now)

	if asJSON {
		rep := validateReport{Valid: len(errs) == 0}
		if len(errs) > 0 {
			rep.Errors = make(map[string]string, len(errs))
			for f, msg := range errs {
				rep.Errors[string(f)] = msg
			}
		}
		return rep.Valid, writeJSON(w, rep)
	}

	if len(errs) == 0 {
		fmt.Fprintln(w, "valid")
		return true, nil
	}
	for _, f := range signup.AllFields() {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(w, "  %-24s %s\n", f.Label()+":", msg)
		}
	}
	return false, nil
}

// CmdValidate validates a JSON draft from stdin. It exits 1 when any rule
// fails.
func CmdValidate(args []string) {
	ok, err := Validate(os.Stdin, os.Stdout, hasFlag(args, "--json"), time.Now())
	if err != nil {
		config.Exitf("validate: %v", err)
	}
	if !ok {
		os.Exit(1)
	}
}

// Digest writes the digest of raw under key to w. raw must be a valid SSN.
func Digest(w io.Writer, raw, key string) error {
	if msg := signup.Validate(signup.FieldSSN, signup.Draft{SSN: raw}, time.Now()); msg != "" {
		return errors.New(msg)
	}
	_, err := fmt.Fprintln(w, ssn.Protect(raw, key))
	return err
}

// CmdSSNDigest reads an SSN without echo and prints its digest under the
// configured key.
func CmdSSNDigest() {
	key, err := LoadKey(slog.Default())
	if err != nil {
		config.Exitf("%v", err)
	}

	raw, err := ReadPassword("ssn: ", os.Stderr)
	if err != nil {
		config.Exitf("%v", err)
	}

	if err := Digest(os.Stdout, raw, key); err != nil {
		config.Exitf("ssn-digest: %v", err)
	}
}

// CmdSSNKey prints a fresh SSN_SECRET assignment.
func CmdSSNKey(args []string) {
	cfg, err := ParseKeyConfig(args)
	if err != nil {
		config.Exitf("ssn-key: %v", err)
	}
	if err := WriteKey(cfg, os.Stdout, nil); err != nil {
		config.Exitf("ssn-key: %v", err)
	}
}

// Sample writes a generated persona to w.
func Sample(w io.Writer, gen *identity.Generator, asJSON bool) error {
	d := gen.Generate("")
	if asJSON {
		return writeJSON(w, d)
	}
	printDraft(w, d)
	return nil
}

// CmdSample prints a generated valid persona.
func CmdSample(args []string) {
	if err := Sample(os.Stdout, identity.New(), hasFlag(args, "--json")); err != nil {
		config.Exitf("sample: %v", err)
	}
}

func printDraft(w io.Writer, d signup.Draft) {
	fmt.Fprintf(w, "  name:     %s %s\n", d.FirstName, d.LastName)
	fmt.Fprintf(w, "  email:    %s\n", d.Email)
	fmt.Fprintf(w, "  password: %s\n", d.Password)
	fmt.Fprintf(w, "  phone:    %s\n", d.PhoneNumber)
	fmt.Fprintf(w, "  dob:      %s\n", d.DateOfBirth)
	fmt.Fprintf(w, "  ssn:      %s\n", d.SSN)
	fmt.Fprintf(w, "  address:  %s, %s, %s %s\n", d.Address, d.City, d.State, d.ZipCode)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}
