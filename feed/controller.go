// Package feed implements the community feed: one bulk fetch of all
// reports, then purely client-side filtering and sorting of the cached
// list.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/apex/log"

	"cleancity/api"
	"cleancity/collab"
	"cleancity/geo"
	"cleancity/models"
	"cleancity/state"
)

// ErrBusy is returned when a fetch is started while one is running.
var ErrBusy = errors.New("fetch already in flight")

// State is the published feed view. Reports holds the filtered and sorted
// list while Phase is Success.
type State struct {
	Phase   models.Phase
	Reports []models.Report
	Message string
}

// Controller retains the full unfiltered report list as source of truth and
// exposes a derived view recomputed whenever the data or the selection
// changes.
type Controller struct {
	store    collab.DocumentStore
	location collab.LocationProvider

	guard state.Guard

	mu       sync.Mutex
	all      []models.Report
	filter   models.Filter
	sortBy   models.Sort
	device   *collab.Coordinates
	located  bool
	dropped  int

	view *state.Value[State]
}

func NewController(store collab.DocumentStore, location collab.LocationProvider) *Controller {
	return &Controller{
		store:    store,
		location: location,
		filter:   models.FilterAll,
		sortBy:   models.SortNewest,
		view:     state.NewValue(State{Phase: models.PhaseIdle}),
	}
}

func (c *Controller) View() *state.Value[State] { return c.view }

// Filter returns the current filter selection.
func (c *Controller) Filter() models.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Sort returns the current sort selection.
func (c *Controller) Sort() models.Sort {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortBy
}

// Dropped returns how many records the last fetch discarded as unparsable.
// Dropped records are invisible to the user, so this is the only place the
// loss shows up.
func (c *Controller) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Fetch loads the whole report collection, newest first. Records that fail
// to parse are dropped one by one; only a failure of the bulk read itself
// surfaces as an error state. The previously fetched list survives a failed
// refresh.
func (c *Controller) Fetch(ctx context.Context) error {
	if !c.guard.Begin() {
		return ErrBusy
	}
	defer c.guard.End()

	c.view.Set(State{Phase: models.PhaseBusy})

	recs, err := c.store.Query(ctx, api.ReportsCollection, api.FieldCreatedAt, true)
	if err != nil {
		log.Errorf("Report fetch failed: %v", err)
		c.view.Set(State{
			Phase:   models.PhaseError,
			Message: fmt.Sprintf("Failed to load reports: %v", err),
		})
		return nil
	}

	reports := make([]models.Report, 0, len(recs))
	dropped := 0
	for _, rec := range recs {
		id, _ := rec["id"].(string)
		r, err := models.ParseReport(id, rec)
		if err != nil {
			log.Warnf("Dropping unparsable report record: %v", err)
			dropped++
			continue
		}
		reports = append(reports, r)
	}
	if dropped > 0 {
		log.Warnf("Feed fetch dropped %d of %d records", dropped, len(recs))
	}

	c.mu.Lock()
	c.all = reports
	c.dropped = dropped
	c.mu.Unlock()

	c.recompute()
	return nil
}

// Refresh re-runs the fetch from scratch. There is no incremental sync.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Fetch(ctx)
}

// FetchDeviceLocation grabs the device position once, best-effort. Its
// absence never blocks the feed; it only disables the nearest-first sort.
func (c *Controller) FetchDeviceLocation(ctx context.Context) {
	c.mu.Lock()
	if c.located {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	coords, err := c.location.Current(ctx)
	if err != nil {
		log.Warnf("Device location unavailable: %v", err)
		return
	}

	c.mu.Lock()
	c.located = true
	c.device = coords
	c.mu.Unlock()
}

// SetFilter updates the selection and recomputes the view. Never refetches.
func (c *Controller) SetFilter(f models.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	c.recompute()
}

// SetSort updates the selection and recomputes the view. Never refetches.
func (c *Controller) SetSort(s models.Sort) {
	c.mu.Lock()
	c.sortBy = s
	c.mu.Unlock()
	c.recompute()
}

func (c *Controller) recompute() {
	c.mu.Lock()
	filter := c.filter
	sortBy := c.sortBy
	device := c.device
	filtered := applyFilter(c.all, filter)
	c.mu.Unlock()

	applySort(filtered, sortBy, device)
	c.view.Set(State{Phase: models.PhaseSuccess, Reports: filtered})
}

func applyFilter(reports []models.Report, f models.Filter) []models.Report {
	want, ok := f.Status()
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if ok && r.Status != want {
			continue
		}
		out = append(out, r)
	}
	return out
}

// applySort reorders in place. Stable, so equal keys keep fetch order, and
// nearest-first without a device fix degrades to the fetch order.
func applySort(reports []models.Report, s models.Sort, device *collab.Coordinates) {
	switch s {
	case models.SortNewest:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].CreatedAt > reports[j].CreatedAt
		})
	case models.SortOldest:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].CreatedAt < reports[j].CreatedAt
		})
	case models.SortMostUpvoted:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].Upvotes > reports[j].Upvotes
		})
	case models.SortNearest:
		if device == nil {
			return
		}
		sort.SliceStable(reports, func(i, j int) bool {
			di := geo.DistanceKm(device.Latitude, device.Longitude,
				reports[i].Location.Latitude, reports[i].Location.Longitude)
			dj := geo.DistanceKm(device.Latitude, device.Longitude,
				reports[j].Location.Latitude, reports[j].Location.Longitude)
			return di < dj
		})
	}
}
