// Package identity generates sample signup personas that satisfy every
// signup rule. Passwords come from zcrypto; other picks use crypto/rand.
package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/zsignup/internal/signup"
)

const (
	defaultPasswordLen = 16
	minPasswordLen     = 4
)

// Generator produces random sample drafts.
type Generator struct {
	now func() time.Time
}

// New creates a generator using the wall clock for birth dates.
func New() *Generator {
	return &Generator{now: time.Now}
}

// Generate produces a complete draft for the given email domain; an empty
// domain falls back to the default.
func (g *Generator) Generate(domain string) signup.Draft {
	first, last := g.Name()
	pw := g.Password(defaultPasswordLen)
	states := signup.StateCodes()
	return signup.Draft{
		Email:           g.Email(first, last, domain),
		Password:        pw,
		ConfirmPassword: pw,
		FirstName:       first,
		LastName:        last,
		PhoneNumber:     g.phone(),
		DateOfBirth:     g.dob(),
		SSN:             g.ssn(),
		Address:         g.street(),
		City:            pick(cities),
		State:           pick(states),
		ZipCode:         g.zip(),
	}
}

// Email builds first.last plus two digits at domain, all lowercase.
func (g *Generator) Email(first, last, domain string) string {
	if domain == "" {
		domain = defaultDomain
	}
	local := fmt.Sprintf("%s.%s%02d", strings.ToLower(first), strings.ToLower(last), randIntn(100))
	return local + "@" + strings.ToLower(domain)
}

// Password generates a password of the given length containing at least
// one lower, upper, digit and symbol character.
func (g *Generator) Password(length int) string {
	if length < minPasswordLen {
		length = minPasswordLen
	}
	for {
		pw := zcrypto.GeneratePassword(length)
		if hasAllClasses(pw) {
			return pw
		}
	}
}

// Name generates a random first/last name pair.
func (g *Generator) Name() (first, last string) {
	return pick(firstNames), pick(lastNames)
}

// phone generates a fictional US number in E.164 form: +1 NXX 555 XXXX.
func (g *Generator) phone() string {
	area := 200 + randIntn(800)
	return fmt.Sprintf("+1%03d555%04d", area, randIntn(10000))
}

// ssn generates nine digits with area 001-899, group 01-99, serial 0001-9999.
func (g *Generator) ssn() string {
	return fmt.Sprintf("%03d%02d%04d", 1+randIntn(899), 1+randIntn(99), 1+randIntn(9999))
}

// street generates an address like "1234 Oak Ave".
func (g *Generator) street() string {
	return fmt.Sprintf("%d %s %s", 100+randIntn(9900), pick(streetNames), pick(streetSuffixes))
}

func (g *Generator) zip() string {
	return fmt.Sprintf("%05d", randIntn(100000))
}

// dob returns a birth date between 21 and 65 years before today.
func (g *Generator) dob() string {
	age := 21 + randIntn(65-21+1)
	d := g.now().AddDate(-age, 0, -randIntn(365))
	return d.Format(signup.DateLayout)
}

func pick(s []string) string {
	return s[randIntn(len(s))]
}

// hasAllClasses reports whether pw mixes lower, upper, digit and symbol
// characters.
func hasAllClasses(pw string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// randIntn returns a cryptographically random int in [0, n).
func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure is unrecoverable
		panic("crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}
