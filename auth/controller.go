// Package auth implements the login, sign-up and password-reset flows
// against an injected auth service.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/apex/log"

	"cleancity/collab"
	"cleancity/models"
	"cleancity/state"
	"cleancity/validation"
)

// ErrBusy is returned when an operation is invoked while a previous attempt
// of the same operation is still in flight.
var ErrBusy = errors.New("operation already in flight")

// Controller owns the auth form drafts and one operation state per flow.
// All mutations of those states go through this controller.
type Controller struct {
	auth collab.AuthService

	loginGuard  state.Guard
	signUpGuard state.Guard
	resetGuard  state.Guard

	loginForm  *state.Value[models.LoginForm]
	signUpForm *state.Value[models.SignUpForm]

	loginState  *state.Value[models.OpState]
	signUpState *state.Value[models.OpState]
	resetState  *state.Value[models.OpState]
}

func NewController(auth collab.AuthService) *Controller {
	return &Controller{
		auth:        auth,
		loginForm:   state.NewValue(models.LoginForm{}),
		signUpForm:  state.NewValue(models.SignUpForm{}),
		loginState:  state.NewValue(models.Idle()),
		signUpState: state.NewValue(models.Idle()),
		resetState:  state.NewValue(models.Idle()),
	}
}

func (c *Controller) LoginForm() *state.Value[models.LoginForm]   { return c.loginForm }
func (c *Controller) SignUpForm() *state.Value[models.SignUpForm] { return c.signUpForm }
func (c *Controller) LoginState() *state.Value[models.OpState]    { return c.loginState }
func (c *Controller) SignUpState() *state.Value[models.OpState]   { return c.signUpState }
func (c *Controller) ResetState() *state.Value[models.OpState]    { return c.resetState }

// IsAuthenticated reports whether an identity is currently signed in.
func (c *Controller) IsAuthenticated() bool {
	return c.auth.Current() != nil
}

// Editing a field clears its previous validation error.

func (c *Controller) SetEmail(email string) {
	form := c.loginForm.Get()
	form.Email = email
	form.EmailError = ""
	c.loginForm.Set(form)
}

func (c *Controller) SetPassword(password string) {
	form := c.loginForm.Get()
	form.Password = password
	form.PasswordError = ""
	c.loginForm.Set(form)
}

func (c *Controller) TogglePasswordVisibility() {
	form := c.loginForm.Get()
	form.PasswordVisible = !form.PasswordVisible
	c.loginForm.Set(form)
}

func (c *Controller) SetName(name string) {
	form := c.signUpForm.Get()
	form.Name = name
	form.NameError = ""
	c.signUpForm.Set(form)
}

func (c *Controller) SetSignUpEmail(email string) {
	form := c.signUpForm.Get()
	form.Email = email
	form.EmailError = ""
	c.signUpForm.Set(form)
}

func (c *Controller) SetSignUpPassword(password string) {
	form := c.signUpForm.Get()
	form.Password = password
	form.PasswordError = ""
	c.signUpForm.Set(form)
}

func (c *Controller) SetConfirmPassword(confirm string) {
	form := c.signUpForm.Get()
	form.ConfirmPassword = confirm
	form.ConfirmPasswordError = ""
	c.signUpForm.Set(form)
}

func (c *Controller) ToggleSignUpPasswordVisibility() {
	form := c.signUpForm.Get()
	form.PasswordVisible = !form.PasswordVisible
	c.signUpForm.Set(form)
}

func (c *Controller) ToggleConfirmPasswordVisibility() {
	form := c.signUpForm.Get()
	form.ConfirmPasswordVisible = !form.ConfirmPasswordVisible
	c.signUpForm.Set(form)
}

// Login validates the draft and, when it passes, runs one sign-in attempt.
// Validation failures write field errors and leave the operation Idle
// without touching the network. Collaborator failures surface through the
// login state, never as a returned error; the only error returned is
// ErrBusy.
func (c *Controller) Login(ctx context.Context) error {
	form := c.loginForm.Get()
	if errs := validation.CheckLogin(form.Email, form.Password); !errs.OK() {
		form.EmailError = errs.Email
		form.PasswordError = errs.Password
		c.loginForm.Set(form)
		return nil
	}

	if !c.loginGuard.Begin() {
		return ErrBusy
	}
	defer c.loginGuard.End()

	c.loginState.Set(models.Busy())

	identity, err := c.auth.SignIn(ctx, strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		log.Errorf("Sign-in failed: %v", err)
		c.loginState.Set(models.Failure(loginMessage(err)))
		return nil
	}

	c.loginState.Set(models.Success(identity.ID))
	return nil
}

// SignUp creates the account and then sets the display name as part of the
// same attempt; a failed name update fails the whole attempt.
func (c *Controller) SignUp(ctx context.Context) error {
	form := c.signUpForm.Get()
	if errs := validation.CheckSignUp(form.Name, form.Email, form.Password, form.ConfirmPassword); !errs.OK() {
		form.NameError = errs.Name
		form.EmailError = errs.Email
		form.PasswordError = errs.Password
		form.ConfirmPasswordError = errs.ConfirmPassword
		c.signUpForm.Set(form)
		return nil
	}

	if !c.signUpGuard.Begin() {
		return ErrBusy
	}
	defer c.signUpGuard.End()

	c.signUpState.Set(models.Busy())

	identity, err := c.auth.SignUp(ctx, strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		log.Errorf("Sign-up failed: %v", err)
		c.signUpState.Set(models.Failure(signUpMessage(err)))
		return nil
	}

	if err := c.auth.UpdateDisplayName(ctx, identity, strings.TrimSpace(form.Name)); err != nil {
		log.Errorf("Display name update failed for %s: %v", identity.ID, err)
		c.signUpState.Set(models.Failure(signUpMessage(err)))
		return nil
	}

	c.signUpState.Set(models.Success(identity.ID))
	return nil
}

// ResetPassword sends a reset mail to the given address. On success the
// state's value is a confirmation line rather than an id.
func (c *Controller) ResetPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		c.resetState.Set(models.Failure("Please enter your email address"))
		return nil
	}
	if msg := validation.Email(email); msg != "" {
		c.resetState.Set(models.Failure("Please enter a valid email address"))
		return nil
	}

	if !c.resetGuard.Begin() {
		return ErrBusy
	}
	defer c.resetGuard.End()

	c.resetState.Set(models.Busy())

	if err := c.auth.SendPasswordReset(ctx, strings.TrimSpace(email)); err != nil {
		log.Errorf("Password reset failed: %v", err)
		c.resetState.Set(models.Failure("Failed to send reset email. Please try again."))
		return nil
	}

	c.resetState.Set(models.Success("Password reset email sent!"))
	return nil
}

func (c *Controller) ResetLoginState()  { c.loginState.Set(models.Idle()) }
func (c *Controller) ResetSignUpState() { c.signUpState.Set(models.Idle()) }
func (c *Controller) ResetResetState()  { c.resetState.Set(models.Idle()) }

// loginMessage translates a sign-in failure into a user-facing line by
// matching the known provider error substrings.
func loginMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "password is invalid"):
		return "Incorrect password. Please try again."
	case strings.Contains(msg, "no user record"):
		return "No account found with this email."
	case strings.Contains(msg, "network"):
		return "Network error. Please check your connection."
	case strings.Contains(msg, "too many requests"):
		return "Too many attempts. Please try again later."
	default:
		return "Login failed. Please try again."
	}
}

func signUpMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email address is already in use"):
		return "This email is already registered. Please login instead."
	case strings.Contains(msg, "email address is badly formatted"):
		return "Invalid email format. Please check your email."
	case strings.Contains(msg, "password is invalid"):
		return "Password must be at least 6 characters."
	case strings.Contains(msg, "network"):
		return "Network error. Please check your connection."
	default:
		return "Sign up failed. Please try again."
	}
}
