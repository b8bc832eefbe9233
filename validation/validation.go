// Package validation holds the pure field checks run before any network
// call. Every function is deterministic, side-effect free and returns an
// empty string when the field is acceptable.
package validation

import (
	"regexp"
	"strings"

	"cleancity/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	minPasswordLen = 6
	minNameLen     = 2
)

func Email(email string) string {
	switch {
	case strings.TrimSpace(email) == "":
		return "Email is required"
	case !emailPattern.MatchString(strings.TrimSpace(email)):
		return "Invalid email format"
	}
	return ""
}

func Password(password string) string {
	switch {
	case strings.TrimSpace(password) == "":
		return "Password is required"
	case len(password) < minPasswordLen:
		return "Password must be at least 6 characters"
	}
	return ""
}

func ConfirmPassword(password, confirm string) string {
	switch {
	case strings.TrimSpace(confirm) == "":
		return "Please confirm your password"
	case password != confirm:
		return "Passwords do not match"
	}
	return ""
}

func Name(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "Name is required"
	case len(strings.TrimSpace(name)) < minNameLen:
		return "Name must be at least 2 characters"
	}
	return ""
}

// LoginErrors carries one message per login field, empty when valid.
type LoginErrors struct {
	Email    string
	Password string
}

func (e LoginErrors) OK() bool {
	return e == LoginErrors{}
}

func CheckLogin(email, password string) LoginErrors {
	return LoginErrors{
		Email:    Email(email),
		Password: Password(password),
	}
}

type SignUpErrors struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func (e SignUpErrors) OK() bool {
	return e == SignUpErrors{}
}

func CheckSignUp(name, email, password, confirm string) SignUpErrors {
	return SignUpErrors{
		Name:            Name(name),
		Email:           Email(email),
		Password:        Password(password),
		ConfirmPassword: ConfirmPassword(password, confirm),
	}
}

type ReportErrors struct {
	Image       string
	Description string
	Location    string
}

func (e ReportErrors) OK() bool {
	return e == ReportErrors{}
}

// CheckReport validates a report draft: a captured image, a description and
// a resolved location are all required before submission may start.
func CheckReport(form models.ReportForm) ReportErrors {
	var e ReportErrors
	if len(form.ImageData) == 0 {
		e.Image = "Please capture a photo"
	}
	if strings.TrimSpace(form.Description) == "" {
		e.Description = "Please add a description"
	}
	if form.Latitude == nil || form.Longitude == nil {
		e.Location = "Please set location"
	}
	return e
}
