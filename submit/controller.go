// Package submit implements the report submission pipeline: validate the
// draft, upload the photo, then write the report document and bump the
// author's counter.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"

	"cleancity/api"
	"cleancity/collab"
	"cleancity/geo"
	"cleancity/models"
	"cleancity/state"
	"cleancity/validation"
)

// ErrBusy is returned when Submit is called while an attempt is already
// uploading.
var ErrBusy = errors.New("submission already in flight")

// Controller owns one report draft and the submission state. A draft lives
// from the first field edit until the submission that persists it.
type Controller struct {
	auth     collab.AuthService
	store    collab.DocumentStore
	images   collab.ImageHost
	location collab.LocationProvider

	guard state.Guard

	form    *state.Value[models.ReportForm]
	opState *state.Value[models.OpState]
}

func NewController(auth collab.AuthService, store collab.DocumentStore, images collab.ImageHost, location collab.LocationProvider) *Controller {
	return &Controller{
		auth:     auth,
		store:    store,
		images:   images,
		location: location,
		form:     state.NewValue(models.NewReportForm()),
		opState:  state.NewValue(models.Idle()),
	}
}

func (c *Controller) Form() *state.Value[models.ReportForm] { return c.form }
func (c *Controller) State() *state.Value[models.OpState]   { return c.opState }

// ImageCaptured stores the captured photo bytes in the draft.
func (c *Controller) ImageCaptured(data []byte, name string) {
	form := c.form.Get()
	form.ImageData = data
	form.ImageName = name
	form.ImageError = ""
	c.form.Set(form)
}

func (c *Controller) SetDescription(description string) {
	form := c.form.Get()
	form.Description = description
	form.DescriptionError = ""
	c.form.Set(form)
}

func (c *Controller) SetCategory(category models.Category) {
	form := c.form.Get()
	form.Category = category
	c.form.Set(form)
}

// FetchLocation asks the device for its position and reverse-geocodes it
// into the draft. Failures land in the draft's location error slot; nothing
// is fatal.
func (c *Controller) FetchLocation(ctx context.Context) {
	form := c.form.Get()

	coords, err := c.location.Current(ctx)
	if err != nil {
		form.LocationError = fmt.Sprintf("Location error: %v", err)
		c.form.Set(form)
		return
	}
	if coords == nil {
		form.LocationError = "Unable to get location"
		c.form.Set(form)
		return
	}

	lat, lon := coords.Latitude, coords.Longitude
	form.Latitude = &lat
	form.Longitude = &lon
	form.LocationError = ""

	addr, err := c.location.AddressFor(ctx, lat, lon)
	if err != nil {
		log.Warnf("Reverse geocoding failed for %f,%f: %v", lat, lon, err)
	}
	form.Address, form.City = addressLine(addr, lat, lon)
	c.form.Set(form)
}

// addressLine builds a readable address string, falling back to coordinates
// when geocoding produced nothing.
func addressLine(addr *collab.Address, lat, lon float64) (address, city string) {
	if addr == nil {
		return fmt.Sprintf("Lat: %.4f, Long: %.4f", lat, lon), ""
	}
	if addr.Street != "" {
		return addr.Street, addr.City
	}
	line := ""
	for _, part := range []string{addr.City, addr.State, addr.Country} {
		if part == "" {
			continue
		}
		if line != "" {
			line += ", "
		}
		line += part
	}
	if line == "" {
		line = fmt.Sprintf("Lat: %.4f, Long: %.4f", lat, lon)
	}
	return line, addr.City
}

// Submit runs the whole pipeline once. An invalid draft writes field errors
// and leaves the state Idle without any collaborator call. The only error
// returned is ErrBusy; everything else surfaces through the state.
func (c *Controller) Submit(ctx context.Context) error {
	form := c.form.Get()

	if errs := validation.CheckReport(form); !errs.OK() {
		form.ImageError = errs.Image
		form.DescriptionError = errs.Description
		form.LocationError = errs.Location
		c.form.Set(form)
		return nil
	}

	// Submission UI is gated behind login, so this should be unreachable.
	identity := c.auth.Current()
	if identity == nil {
		c.opState.Set(models.Failure("Please login to submit reports"))
		return nil
	}

	if !c.guard.Begin() {
		return ErrBusy
	}
	defer c.guard.End()

	c.opState.Set(models.Busy())

	imageURL, err := c.images.Upload(ctx, form.ImageData, form.ImageName)
	if err != nil {
		log.Errorf("Image upload failed: %v", err)
		c.opState.Set(models.Failure("Failed to upload image"))
		return nil
	}

	lat, lon := *form.Latitude, *form.Longitude
	city := form.City
	if city == "" {
		city = "Unknown"
	}

	rec := collab.Record{
		"userId":         identity.ID,
		"userName":       displayName(identity),
		"userProfileUrl": identity.AvatarURL,
		"imageUrl":       imageURL,
		"description":    form.Description,
		"category":       string(form.Category),
		"location": map[string]any{
			"latitude":  lat,
			"longitude": lon,
			"address":   form.Address,
			"city":      city,
			"geohash":   geo.Hash(lat, lon),
		},
		"status":       string(models.StatusPending),
		"upvotes":      0,
		"upvotedBy":    []string{},
		"commentCount": 0,
		"resolvedAt":   nil,
		"resolvedBy":   nil,
	}

	reportID, err := c.store.Insert(ctx, api.ReportsCollection, rec)
	if err != nil {
		log.Errorf("Report insert failed: %v", err)
		c.opState.Set(models.Failure(fmt.Sprintf("Failed to submit report: %v", err)))
		return nil
	}

	// The report is persisted at this point. The author's counter bump is
	// best-effort: failing it must not push the user into re-submitting a
	// report that already exists.
	if err := c.store.MergeUpdate(ctx, api.UsersCollection, identity.ID, collab.Record{
		api.FieldReportsSubmitted: collab.Increment{By: 1},
	}); err != nil {
		log.Warnf("Report %s saved but counter increment for user %s failed: %v", reportID, identity.ID, err)
	}

	c.opState.Set(models.Success(reportID))
	c.form.Set(models.NewReportForm())
	return nil
}

func displayName(identity *models.Identity) string {
	if identity.Name == "" {
		return "Anonymous"
	}
	return identity.Name
}

// ResetState returns the submission state to Idle for the next attempt.
func (c *Controller) ResetState() { c.opState.Set(models.Idle()) }
