// Package signup implements the step-wise account registration workflow:
// the in-progress draft, per-field rule chains and the controller that gates
// navigation and submission on validation.
package signup

import "strings"

// Field names one of the twelve draft fields.
type Field string

const (
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldPhoneNumber     Field = "phoneNumber"
	FieldDateOfBirth     Field = "dateOfBirth"
	FieldSSN             Field = "ssn"
	FieldAddress         Field = "address"
	FieldCity            Field = "city"
	FieldState           Field = "state"
	FieldZipCode         Field = "zipCode"
)

var fieldLabels = map[Field]string{
	FieldEmail:           "Email",
	FieldPassword:        "Password",
	FieldConfirmPassword: "Confirm Password",
	FieldFirstName:       "First Name",
	FieldLastName:        "Last Name",
	FieldPhoneNumber:     "Phone Number",
	FieldDateOfBirth:     "Date of Birth",
	FieldSSN:             "Social Security Number",
	FieldAddress:         "Street Address",
	FieldCity:            "City",
	FieldState:           "State",
	FieldZipCode:         "ZIP Code",
}

// Label returns the human-readable label for f.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseField resolves a field by its wire name.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	_, ok := fieldLabels[f]
	return f, ok
}

// Draft holds the in-progress signup data. Every field is required.
type Draft struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
	DateOfBirth     string `json:"dateOfBirth"`
	SSN             string `json:"ssn"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zipCode"`
}

// Get returns the value of f, or "" for an unknown field.
func (d Draft) Get(f Field) string {
	if p := d.ptr(f); p != nil {
		return *p
	}
	return ""
}

// Set stores v into f without normalizing it. Unknown fields are ignored.
func (d *Draft) Set(f Field, v string) {
	if p := d.ptr(f); p != nil {
		*p = v
	}
}

// Normalized returns a copy with every field normalized the way it is
// validated and sent.
func (d Draft) Normalized() Draft {
	out := d
	for _, f := range AllFields() {
		out.Set(f, Normalize(f, d.Get(f)))
	}
	return out
}

func (d *Draft) ptr(f Field) *string {
	switch f {
	case FieldEmail:
		return &d.Email
	case FieldPassword:
		return &d.Password
	case FieldConfirmPassword:
		return &d.ConfirmPassword
	case FieldFirstName:
		return &d.FirstName
	case FieldLastName:
		return &d.LastName
	case FieldPhoneNumber:
		return &d.PhoneNumber
	case FieldDateOfBirth:
		return &d.DateOfBirth
	case FieldSSN:
		return &d.SSN
	case FieldAddress:
		return &d.Address
	case FieldCity:
		return &d.City
	case FieldState:
		return &d.State
	case FieldZipCode:
		return &d.ZipCode
	}
	return nil
}

// Normalize applies the storage normalization for f: email is trimmed and
// phone numbers lose all whitespace. Other fields pass through unchanged.
func Normalize(f Field, v string) string {
	switch f {
	case FieldEmail:
		return strings.TrimSpace(v)
	case FieldPhoneNumber:
		return strings.Join(strings.Fields(v), "")
	}
	return v
}
