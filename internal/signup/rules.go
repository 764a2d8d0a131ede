package signup

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DateLayout is the accepted date-of-birth format.
	DateLayout = "2006-01-02"

	minPasswordLen = 8
	minAge         = 18
)

// emailPart excludes @ and every Unicode space, including \v, NBSP and BOM.
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

var (
	emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
	ssnPattern   = regexp.MustCompile(`^\d{9}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

var commonPasswords = []string{"password", "12345678", "qwerty"}

var stateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// StateCodes returns the accepted two-letter U.S. state codes.
func StateCodes() []string {
	return slices.Clone(stateCodes)
}

// ruleInput is what a rule can see besides the value under test.
type ruleInput struct {
	draft Draft
	today time.Time
}

// rule is one predicate in a field's chain, paired with the message shown
// when it fails.
type rule struct {
	ok  func(v string, in ruleInput) bool
	msg string
}

func required(msg string) rule {
	return rule{ok: func(v string, _ ruleInput) bool { return v != "" }, msg: msg}
}

func matches(re *regexp.Regexp, msg string) rule {
	return rule{ok: func(v string, _ ruleInput) bool { return re.MatchString(v) }, msg: msg}
}

func check(fn func(string) bool, msg string) rule {
	return rule{ok: func(v string, _ ruleInput) bool { return fn(v) }, msg: msg}
}

// rules is the ordered chain per field; the first failing rule wins.
var rules = map[Field][]rule{
	FieldEmail: {
		required("Email is required"),
		matches(emailPattern, "Invalid email address"),
		check(func(v string) bool {
			return !strings.HasSuffix(strings.ToLower(v), ".con")
		}, "Email domain looks incorrect ('.con'); did you mean '.com'?"),
	},
	FieldPassword: {
		required("Password is required"),
		check(func(v string) bool {
			return utf8.RuneCountInString(v) >= minPasswordLen
		}, "Password must be at least 8 characters"),
		check(func(v string) bool {
			return !slices.Contains(commonPasswords, strings.ToLower(v))
		}, "Password is too common"),
		check(hasRuneIn('0', '9'), "Password must contain a number"),
		check(hasRuneIn('A', 'Z'), "Password must contain an uppercase letter"),
		check(hasRuneIn('a', 'z'), "Password must contain a lowercase letter"),
		check(hasSpecial, "Password must contain a special character"),
	},
	FieldConfirmPassword: {
		required("Please confirm your password"),
		{
			ok:  func(v string, in ruleInput) bool { return v == in.draft.Password },
			msg: "Passwords do not match",
		},
	},
	FieldFirstName: {required("First name is required")},
	FieldLastName:  {required("Last name is required")},
	FieldPhoneNumber: {
		required("Phone number is required"),
		matches(phonePattern, "Enter a valid international phone number (10-15 digits, optional +)"),
	},
	FieldDateOfBirth: {
		required("Date of birth is required"),
		{
			ok: func(v string, in ruleInput) bool {
				_, err := parseDate(v, in.today.Location())
				return err == nil
			},
			msg: "Please enter a valid date",
		},
		{
			ok: func(v string, in ruleInput) bool {
				dob, _ := parseDate(v, in.today.Location())
				return !dob.After(in.today)
			},
			msg: "Date of birth cannot be in the future",
		},
		{
			ok: func(v string, in ruleInput) bool {
				dob, _ := parseDate(v, in.today.Location())
				return age(dob, in.today) >= minAge
			},
			msg: "You must be at least 18 years old",
		},
	},
	FieldSSN: {
		required("SSN is required"),
		matches(ssnPattern, "SSN must be 9 digits"),
	},
	FieldAddress: {required("Address is required")},
	FieldCity:    {required("City is required")},
	FieldState: {
		required("State is required"),
		check(func(v string) bool {
			return slices.Contains(stateCodes, strings.ToUpper(v))
		}, "Invalid U.S. state code"),
	},
	FieldZipCode: {
		required("ZIP code is required"),
		matches(zipPattern, "ZIP code must be 5 digits"),
	},
}

// Validate runs the rule chain for f against d and returns the first failing
// message, or "" when the field passes. The value is normalized first.
func Validate(f Field, d Draft, now time.Time) string {
	in := ruleInput{draft: d, today: dateOnly(now)}
	v := Normalize(f, d.Get(f))
	for _, r := range rules[f] {
		if !r.ok(v, in) {
			return r.msg
		}
	}
	return ""
}

// ValidateAll validates every field and returns the failures.
func ValidateAll(d Draft, now time.Time) Errors {
	errs := Errors{}
	for _, f := range AllFields() {
		if msg := Validate(f, d, now); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

func hasRuneIn(lo, hi rune) func(string) bool {
	return func(v string) bool {
		return strings.ContainsFunc(v, func(r rune) bool { return r >= lo && r <= hi })
	}
}

func hasSpecial(v string) bool {
	return strings.ContainsFunc(v, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

func parseDate(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, v, loc)
}

// dateOnly zeroes the clock part of t in its own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// age counts full years from dob to today; the birthday counts once its
// month and day have been reached this year.
func age(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}
