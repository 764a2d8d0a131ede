package signup

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fixed "today" for every date rule: 2026-10-16 mid-day
var testNow = time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Email:           "jane.doe@example.com",
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

func TestValidDraftPasses(t *testing.T) {
	if errs := ValidateAll(validDraft(), testNow); len(errs) != 0 {
		t.Fatalf("valid draft has errors: %v", errs)
	}
}

func TestEmptyDraftReportsRequired(t *testing.T) {
	want := Errors{
		FieldEmail:           "Email is required",
		FieldPassword:        "Password is required",
		FieldConfirmPassword: "Please confirm your password",
		FieldFirstName:       "First name is required",
		FieldLastName:        "Last name is required",
		FieldPhoneNumber:     "Phone number is required",
		FieldDateOfBirth:     "Date of birth is required",
		FieldSSN:             "SSN is required",
		FieldAddress:         "Address is required",
		FieldCity:            "City is required",
		FieldState:           "State is required",
		FieldZipCode:         "ZIP code is required",
	}
	if diff := cmp.Diff(want, ValidateAll(Draft{}, testNow)); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  string
	}{
		// email
		{"email ok", FieldEmail, "user@test.com", ""},
		{"email trimmed", FieldEmail, "  user@test.com  ", ""},
		{"email missing at", FieldEmail, "user.test.com", "Invalid email address"},
		{"email no dot after at", FieldEmail, "user@test", "Invalid email address"},
		{"email space in local", FieldEmail, "us er@test.com", "Invalid email address"},
		{"email nbsp before at", FieldEmail, "user\u00a0@test.com", "Invalid email address"},
		{"email em space in local", FieldEmail, "us\u2003er@test.com", "Invalid email address"},
		{"email vertical tab", FieldEmail, "user\v@test.com", "Invalid email address"},
		{"email bom in domain", FieldEmail, "user@te\ufeffst.com", "Invalid email address"},
		{"email only spaces", FieldEmail, "   ", "Email is required"},
		{"email con typo", FieldEmail, "user@test.con", "Email domain looks incorrect ('.con'); did you mean '.com'?"},
		{"email con typo upper", FieldEmail, "USER@TEST.CON", "Email domain looks incorrect ('.con'); did you mean '.com'?"},

		// password
		{"password short", FieldPassword, "short", "Password must be at least 8 characters"},
		{"password common", FieldPassword, "PASSWORD", "Password is too common"},
		{"password common digits", FieldPassword, "12345678", "Password is too common"},
		{"password no digit", FieldPassword, "Abcdefg!", "Password must contain a number"},
		{"password no upper", FieldPassword, "abcdef1!", "Password must contain an uppercase letter"},
		{"password no lower", FieldPassword, "ABCDEF1!", "Password must contain a lowercase letter"},
		{"password no special", FieldPassword, "Abcdefg1", "Password must contain a special character"},
		{"password ok", FieldPassword, "Abcdef1!", ""},
		{"password length in runes", FieldPassword, "Ab1!\U0001F600\U0001F600", "Password must be at least 8 characters"},
		{"password eight runes with emoji", FieldPassword, "Ab1!\U0001F600xyz", ""},

		// phone
		{"phone spaced", FieldPhoneNumber, "+1 415 555 2671", ""},
		{"phone plain", FieldPhoneNumber, "4155552671", ""},
		{"phone too short", FieldPhoneNumber, "123", "Enter a valid international phone number (10-15 digits, optional +)"},
		{"phone 17 digits", FieldPhoneNumber, "12345678901234567", "Enter a valid international phone number (10-15 digits, optional +)"},
		{"phone dashes", FieldPhoneNumber, "415-555-2671", "Enter a valid international phone number (10-15 digits, optional +)"},
		{"phone whitespace only", FieldPhoneNumber, " \t ", "Phone number is required"},

		// date of birth
		{"dob exactly 18", FieldDateOfBirth, "2008-10-16", ""},
		{"dob one day short of 18", FieldDateOfBirth, "2008-10-17", "You must be at least 18 years old"},
		{"dob today", FieldDateOfBirth, "2026-10-16", "You must be at least 18 years old"},
		{"dob tomorrow", FieldDateOfBirth, "2026-10-17", "Date of birth cannot be in the future"},
		{"dob impossible date", FieldDateOfBirth, "2001-02-30", "Please enter a valid date"},
		{"dob garbage", FieldDateOfBirth, "yesterday", "Please enter a valid date"},

		// ssn
		{"ssn ok", FieldSSN, "123456789", ""},
		{"ssn dashes", FieldSSN, "123-45-6789", "SSN must be 9 digits"},
		{"ssn short", FieldSSN, "12345678", "SSN must be 9 digits"},

		// state
		{"state upper", FieldState, "CA", ""},
		{"state lower", FieldState, "ca", ""},
		{"state unknown", FieldState, "ZZ", "Invalid U.S. state code"},

		// zip
		{"zip ok", FieldZipCode, "97201", ""},
		{"zip plus four", FieldZipCode, "97201-1234", "ZIP code must be 5 digits"},
		{"zip letters", FieldZipCode, "9720A", "ZIP code must be 5 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.Set(tt.field, tt.value)
			if got := Validate(tt.field, d, testNow); got != tt.want {
				t.Errorf("Validate(%s, %q) = %q, want %q", tt.field, tt.value, got, tt.want)
			}
		})
	}
}

func TestConfirmPasswordFollowsPassword(t *testing.T) {
	d := validDraft()
	d.ConfirmPassword = "Str0ng!Pas"
	if got := Validate(FieldConfirmPassword, d, testNow); got != "Passwords do not match" {
		t.Errorf("mismatch: got %q", got)
	}

	d.Password = "Str0ng!Pas"
	if got := Validate(FieldConfirmPassword, d, testNow); got != "" {
		t.Errorf("match: got %q", got)
	}
}

func TestAgeUsesMonthAndDay(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		dob  time.Time
		want int
	}{
		{time.Date(2008, 3, 1, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2008, 3, 2, 0, 0, 0, 0, time.UTC), 17},
		{time.Date(2008, 2, 29, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2008, 12, 31, 0, 0, 0, 0, time.UTC), 17},
	}
	for _, tt := range tests {
		if got := age(tt.dob, today); got != tt.want {
			t.Errorf("age(%s) = %d, want %d", tt.dob.Format(DateLayout), got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		field Field
		in    string
		want  string
	}{
		{FieldEmail, "  a@b.co \n", "a@b.co"},
		{FieldPhoneNumber, "+1 415 555 2671", "+14155552671"},
		{FieldPhoneNumber, "\t+1 415 555\n2671 ", "+14155552671"},
		{FieldFirstName, "  Jane ", "  Jane "},
	}
	for _, tt := range tests {
		if got := Normalize(tt.field, tt.in); got != tt.want {
			t.Errorf("Normalize(%s, %q) = %q, want %q", tt.field, tt.in, got, tt.want)
		}
	}
}

func TestStepTable(t *testing.T) {
	seen := map[Field]int{}
	for step := FirstStep; step <= LastStep; step++ {
		for _, f := range Fields(step) {
			seen[f]++
			if StepOf(f) != step {
				t.Errorf("StepOf(%s) = %d, want %d", f, StepOf(f), step)
			}
		}
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 fields across steps, got %d", len(seen))
	}
	for f, n := range seen {
		if n != 1 {
			t.Errorf("field %s assigned to %d steps", f, n)
		}
		if _, ok := ParseField(string(f)); !ok {
			t.Errorf("ParseField(%q) failed", f)
		}
	}
	if Fields(0) != nil || Fields(4) != nil {
		t.Error("out-of-range steps should have no fields")
	}
}

func TestStateCodes(t *testing.T) {
	if n := len(StateCodes()); n != 50 {
		t.Errorf("expected 50 state codes, got %d", n)
	}
}
