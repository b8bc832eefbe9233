package validation

import (
	"testing"

	"cleancity/models"
)

func TestEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		want  string
	}{
		{name: "Valid address", email: "user@example.com", want: ""},
		{name: "Blank", email: "", want: "Email is required"},
		{name: "Whitespace only", email: "   ", want: "Email is required"},
		{name: "No at sign", email: "not-an-email", want: "Invalid email format"},
		{name: "No domain", email: "user@", want: "Invalid email format"},
		{name: "No TLD", email: "user@host", want: "Invalid email format"},
		{name: "Subdomain", email: "a.b@mail.example.co.uk", want: ""},
	}

	for _, tc := range testCases {
		if got := Email(tc.email); got != tc.want {
			t.Errorf("%s: Email(%q) = %q, want %q", tc.name, tc.email, got, tc.want)
		}
	}
}

func TestPassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		want     string
	}{
		{name: "Blank", password: "", want: "Password is required"},
		{name: "Five chars", password: "12345", want: "Password must be at least 6 characters"},
		{name: "Exactly six", password: "123456", want: ""},
		{name: "Longer", password: "correct horse", want: ""},
	}

	for _, tc := range testCases {
		if got := Password(tc.password); got != tc.want {
			t.Errorf("%s: Password(%q) = %q, want %q", tc.name, tc.password, got, tc.want)
		}
	}
}

func TestConfirmPassword(t *testing.T) {
	if got := ConfirmPassword("secret1", "secret2"); got != "Passwords do not match" {
		t.Errorf("mismatch: got %q", got)
	}
	if got := ConfirmPassword("secret1", ""); got != "Please confirm your password" {
		t.Errorf("blank confirm: got %q", got)
	}
	if got := ConfirmPassword("secret1", "secret1"); got != "" {
		t.Errorf("match: got %q", got)
	}
}

func TestName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Blank", input: "", want: "Name is required"},
		{name: "One char", input: "A", want: "Name must be at least 2 characters"},
		{name: "Two chars", input: "Al", want: ""},
		{name: "Padded one char", input: "  A  ", want: "Name must be at least 2 characters"},
	}

	for _, tc := range testCases {
		if got := Name(tc.input); got != tc.want {
			t.Errorf("%s: Name(%q) = %q, want %q", tc.name, tc.input, got, tc.want)
		}
	}
}

func TestCheckReport(t *testing.T) {
	lat, lon := 54.57, -1.23

	testCases := []struct {
		name string
		form models.ReportForm
		want ReportErrors
	}{
		{
			name: "Empty draft",
			form: models.NewReportForm(),
			want: ReportErrors{
				Image:       "Please capture a photo",
				Description: "Please add a description",
				Location:    "Please set location",
			},
		},
		{
			name: "Missing location only",
			form: models.ReportForm{
				ImageData:   []byte{1, 2, 3},
				Description: "overflowing bin",
			},
			want: ReportErrors{Location: "Please set location"},
		},
		{
			name: "Blank description",
			form: models.ReportForm{
				ImageData:   []byte{1},
				Description: "   ",
				Latitude:    &lat,
				Longitude:   &lon,
			},
			want: ReportErrors{Description: "Please add a description"},
		},
		{
			name: "Complete draft",
			form: models.ReportForm{
				ImageData:   []byte{1},
				Description: "pothole",
				Latitude:    &lat,
				Longitude:   &lon,
			},
			want: ReportErrors{},
		},
	}

	for _, tc := range testCases {
		got := CheckReport(tc.form)
		if got != tc.want {
			t.Errorf("%s: CheckReport = %+v, want %+v", tc.name, got, tc.want)
		}
		if got.OK() != (tc.want == ReportErrors{}) {
			t.Errorf("%s: OK() = %v", tc.name, got.OK())
		}
	}
}

func TestCheckLoginAndSignUp(t *testing.T) {
	if errs := CheckLogin("user@example.com", "123456"); !errs.OK() {
		t.Errorf("valid login flagged: %+v", errs)
	}
	if errs := CheckLogin("not-an-email", "123"); errs.Email == "" || errs.Password == "" {
		t.Errorf("invalid login passed: %+v", errs)
	}
	if errs := CheckSignUp("Jo", "user@example.com", "123456", "123456"); !errs.OK() {
		t.Errorf("valid sign-up flagged: %+v", errs)
	}
	errs := CheckSignUp("Jo", "user@example.com", "123456", "654321")
	if errs.ConfirmPassword != "Passwords do not match" {
		t.Errorf("mismatch message: %q", errs.ConfirmPassword)
	}
}
