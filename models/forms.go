package models

// LoginForm is the draft state of the login screen. Error slots hold the
// last validation message for their field, empty when the field is fine.
type LoginForm struct {
	Email    string
	Password string

	EmailError    string
	PasswordError string

	PasswordVisible bool
}

// SignUpForm is the draft state of the sign-up screen.
type SignUpForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string

	NameError            string
	EmailError           string
	PasswordError        string
	ConfirmPasswordError string

	PasswordVisible        bool
	ConfirmPasswordVisible bool
}

// ReportForm is the draft of a not-yet-submitted report. Latitude and
// Longitude are pointers so "never set" is distinguishable from 0,0.
type ReportForm struct {
	ImageData []byte
	ImageName string

	Description string
	Category    Category

	Latitude  *float64
	Longitude *float64
	Address   string
	City      string

	ImageError       string
	DescriptionError string
	LocationError    string
}

// NewReportForm returns an empty draft with the default category selected.
func NewReportForm() ReportForm {
	return ReportForm{Category: DefaultCategory}
}

// Identity is the authenticated user as reported by the auth service.
type Identity struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
	Token     string
}
