package autosave

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vetfinder-my/platform/internal/directory"
	"github.com/vetfinder-my/platform/internal/schedule"
)

// FieldError tags a single validation failure with the form field it
// belongs to, so the UI can show every problem at once.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Accepts local formats like "03-7956 1234" as well as +60 numbers.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s-]{5,18}[0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "phone_my", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "day_schedule", func(fl validator.FieldLevel) bool {
		return schedule.Valid(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("autosave: register %q validator: %v", tag, err))
	}
}

// clinicForm is the validation view of the editable clinic fields.
type clinicForm struct {
	Name      string `json:"name" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,phone_my"`
	Email     string `json:"email" validate:"omitempty,email"`
	Website   string `json:"website" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`

	HoursSunday    string `json:"hours.sunday" validate:"day_schedule"`
	HoursMonday    string `json:"hours.monday" validate:"day_schedule"`
	HoursTuesday   string `json:"hours.tuesday" validate:"day_schedule"`
	HoursWednesday string `json:"hours.wednesday" validate:"day_schedule"`
	HoursThursday  string `json:"hours.thursday" validate:"day_schedule"`
	HoursFriday    string `json:"hours.friday" validate:"day_schedule"`
	HoursSaturday  string `json:"hours.saturday" validate:"day_schedule"`
}

// Validate checks a draft against the form rules and returns every
// violation, each tagged with its field. An empty result means the draft
// may be persisted.
func Validate(c directory.Clinic) []FieldError {
	form := clinicForm{
		Name:      strings.TrimSpace(c.Name),
		City:      strings.TrimSpace(c.City),
		State:     strings.TrimSpace(c.State),
		Phone:     strings.TrimSpace(c.Phone),
		Email:     strings.TrimSpace(c.Email),
		Website:   strings.TrimSpace(c.Website),
		Facebook:  strings.TrimSpace(c.Facebook),
		Instagram: strings.TrimSpace(c.Instagram),

		HoursSunday:    c.Hours.Sunday,
		HoursMonday:    c.Hours.Monday,
		HoursTuesday:   c.Hours.Tuesday,
		HoursWednesday: c.Hours.Wednesday,
		HoursThursday:  c.Hours.Thursday,
		HoursFriday:    c.Hours.Friday,
		HoursSaturday:  c.Hours.Saturday,
	}

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", title(fe.Field()))
	case "email":
		return "Invalid email address"
	case "url":
		return fmt.Sprintf("Invalid URL for %s", fe.Field())
	case "phone_my":
		return "Invalid phone number"
	case "day_schedule":
		day := strings.TrimPrefix(fe.Field(), "hours.")
		return fmt.Sprintf("Invalid hours for %s: use \"Closed\", \"24 Hours\" or \"HH:MM - HH:MM\"", title(day))
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
