package patient

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/pulseai/pulsedesk/internal/domain"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var genders = []string{domain.GenderMale, domain.GenderFemale, "Other"}

// Validate checks the fields the intake form requires. Contact must be a
// possible phone number for region unless it carries its own country code.
func Validate(in Input, region string) error {
	var problems []string

	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if in.Age <= 0 {
		problems = append(problems, "age is required")
	}
	switch {
	case in.Gender == "":
		problems = append(problems, "gender is required")
	case !slices.Contains(genders, in.Gender):
		problems = append(problems, "gender must be one of Male, Female, Other")
	}
	switch {
	case strings.TrimSpace(in.Contact) == "":
		problems = append(problems, "contact is required")
	case !PossiblePhone(in.Contact, region):
		problems = append(problems, "contact is not a valid phone number")
	}
	switch {
	case in.Email == "":
		problems = append(problems, "email is required")
	case !emailRe.MatchString(in.Email):
		problems = append(problems, "email is not a valid address")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPatient, strings.Join(problems, "; "))
	}
	return nil
}

func PossiblePhone(contact, region string) bool {
	num, err := phonenumbers.Parse(contact, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(num)
}
