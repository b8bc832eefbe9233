// Dev/test client for dev/test/troubleshooting: wires the real collaborator
// adapters into the controllers and walks one login -> submit -> feed pass.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/apex/log"

	"cleancity/auth"
	"cleancity/collab"
	"cleancity/collab/authhttp"
	"cleancity/collab/dochttp"
	"cleancity/collab/geocode"
	"cleancity/collab/mediahttp"
	"cleancity/feed"
	"cleancity/models"
	"cleancity/submit"
)

var (
	backendURL  = flag.String("backend_url", "http://127.0.0.1:8080", "Dev backend base URL.")
	geocodeURL  = flag.String("geocode_url", "", "Nominatim-compatible base URL for reverse geocoding, empty to disable.")
	email       = flag.String("email", "", "Account email.")
	password    = flag.String("password", "", "Account password.")
	name        = flag.String("name", "", "Display name; registers a new account when set.")
	description = flag.String("description", "", "Report description; submits a report when set.")
	category    = flag.String("category", string(models.DefaultCategory), "Report category.")
	imagePath   = flag.String("image", "", "Path to a report photo; a built-in sample is used when empty.")
	lat         = flag.Float64("lat", 54.5742, "Device latitude.")
	lon         = flag.Float64("lon", -1.2349, "Device longitude.")
	sortBy      = flag.String("sort", "newest", "Feed sort: newest, oldest, upvoted, nearest.")
)

// A minimal JPEG header: enough for a round trip without shipping a photo.
var sampleImage = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

func main() {
	flag.Parse()
	ctx := context.Background()

	authClient := authhttp.NewClient(*backendURL)
	token := func() string {
		if id := authClient.Current(); id != nil {
			return id.Token
		}
		return ""
	}
	store := dochttp.NewClient(*backendURL, token)
	images := mediahttp.NewClient(*backendURL, token)
	images.Progress = func(sent, total int64) {
		log.Infof("Upload progress: %d/%d bytes", sent, total)
	}
	fix := &collab.Coordinates{Latitude: *lat, Longitude: *lon}
	location := geocode.NewProvider(fix, *geocodeURL)

	authCtrl := auth.NewController(authClient)
	submitCtrl := submit.NewController(authClient, store, images, location)
	feedCtrl := feed.NewController(store, location)

	authCtrl.LoginState().Subscribe(func(s models.OpState) {
		log.Infof("Login state: %s %s%s", s.Phase, s.Value, s.Message)
	})
	authCtrl.SignUpState().Subscribe(func(s models.OpState) {
		log.Infof("Sign-up state: %s %s%s", s.Phase, s.Value, s.Message)
	})
	submitCtrl.State().Subscribe(func(s models.OpState) {
		log.Infof("Submission state: %s %s%s", s.Phase, s.Value, s.Message)
	})

	if !signIn(ctx, authCtrl) {
		os.Exit(1)
	}

	if *description != "" {
		submitReport(ctx, submitCtrl)
	}

	showFeed(ctx, feedCtrl)
}

func signIn(ctx context.Context, c *auth.Controller) bool {
	if *name != "" {
		c.SetName(*name)
		c.SetSignUpEmail(*email)
		c.SetSignUpPassword(*password)
		c.SetConfirmPassword(*password)
		if err := c.SignUp(ctx); err != nil {
			log.Errorf("Sign-up rejected: %v", err)
			return false
		}
		form := c.SignUpForm().Get()
		if form.NameError != "" || form.EmailError != "" || form.PasswordError != "" {
			log.Errorf("Sign-up form invalid: %q %q %q", form.NameError, form.EmailError, form.PasswordError)
			return false
		}
		return c.SignUpState().Get().Phase == models.PhaseSuccess
	}

	c.SetEmail(*email)
	c.SetPassword(*password)
	if err := c.Login(ctx); err != nil {
		log.Errorf("Login rejected: %v", err)
		return false
	}
	form := c.LoginForm().Get()
	if form.EmailError != "" || form.PasswordError != "" {
		log.Errorf("Login form invalid: %q %q", form.EmailError, form.PasswordError)
		return false
	}
	return c.LoginState().Get().Phase == models.PhaseSuccess
}

func submitReport(ctx context.Context, c *submit.Controller) {
	image := sampleImage
	imageName := "sample.jpg"
	if *imagePath != "" {
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			log.Errorf("Failed to read %s: %v", *imagePath, err)
			return
		}
		image = data
		imageName = *imagePath
	}

	c.ImageCaptured(image, imageName)
	c.SetDescription(*description)
	c.SetCategory(models.ParseCategory(*category))
	c.FetchLocation(ctx)

	if form := c.Form().Get(); form.LocationError != "" {
		log.Warnf("Location problem: %s", form.LocationError)
	}

	if err := c.Submit(ctx); err != nil {
		log.Errorf("Submit rejected: %v", err)
	}
}

func showFeed(ctx context.Context, c *feed.Controller) {
	c.FetchDeviceLocation(ctx)
	if err := c.Fetch(ctx); err != nil {
		log.Errorf("Fetch rejected: %v", err)
		return
	}

	switch *sortBy {
	case "oldest":
		c.SetSort(models.SortOldest)
	case "upvoted":
		c.SetSort(models.SortMostUpvoted)
	case "nearest":
		c.SetSort(models.SortNearest)
	}

	view := c.View().Get()
	if view.Phase != models.PhaseSuccess {
		log.Errorf("Feed not available: %s", view.Message)
		return
	}
	if c.Dropped() > 0 {
		log.Warnf("Feed dropped %d unparsable records", c.Dropped())
	}

	for _, r := range view.Reports {
		fmt.Printf("%s  [%s] %-12s  %s (%s)\n",
			r.ID, r.Status.Label(), r.Category.Label(), r.Description, r.Location.City)
	}
	log.Infof("%d reports shown", len(view.Reports))
}
