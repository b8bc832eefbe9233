package models

import (
	"reflect"
	"testing"
)

func fullRecord() map[string]any {
	return map[string]any{
		"userId":         "u1",
		"userName":       "Ada",
		"userProfileUrl": "https://cdn.example/ada.jpg",
		"imageUrl":       "https://cdn.example/r1.jpg",
		"description":    "overflowing bin on high street",
		"category":       "overflowing_bin",
		"location": map[string]any{
			"latitude":  54.57,
			"longitude": -1.23,
			"address":   "12 High Street",
			"city":      "Middlesbrough",
			"geohash":   "gcyetqydq8",
		},
		"status":       "pending",
		"upvotes":      float64(7),
		"upvotedBy":    []any{"u2", "u3"},
		"commentCount": float64(2),
		"createdAt":    float64(1700000000),
		"updatedAt":    float64(1700000100),
	}
}

func TestParseReport(t *testing.T) {
	r, err := ParseReport("r1", fullRecord())
	if err != nil {
		t.Fatalf("ParseReport failed: %v", err)
	}

	if r.ID != "r1" || r.UserID != "u1" || r.UserName != "Ada" {
		t.Errorf("identity fields wrong: %+v", r)
	}
	if r.Category != CategoryOverflowingBin || r.Status != StatusPending {
		t.Errorf("enums wrong: %s %s", r.Category, r.Status)
	}
	if r.Upvotes != 7 || r.CommentCount != 2 {
		t.Errorf("counters wrong: %d %d", r.Upvotes, r.CommentCount)
	}
	if !reflect.DeepEqual(r.UpvotedBy, []string{"u2", "u3"}) {
		t.Errorf("upvotedBy = %v", r.UpvotedBy)
	}
	if r.CreatedAt != 1700000000 || r.UpdatedAt != 1700000100 {
		t.Errorf("timestamps wrong: %d %d", r.CreatedAt, r.UpdatedAt)
	}
	if r.ResolvedAt != 0 || r.ResolvedBy != "" {
		t.Errorf("resolution defaults wrong: %d %q", r.ResolvedAt, r.ResolvedBy)
	}
	if r.Location.City != "Middlesbrough" || r.Location.Latitude != 54.57 {
		t.Errorf("location wrong: %+v", r.Location)
	}
}

func TestParseReportMissingRequiredFields(t *testing.T) {
	for _, field := range []string{"userId", "description", "imageUrl"} {
		rec := fullRecord()
		delete(rec, field)
		if _, err := ParseReport("r1", rec); err == nil {
			t.Errorf("record without %s parsed", field)
		}
	}
}

func TestParseReportDefaults(t *testing.T) {
	rec := map[string]any{
		"userId":      "u1",
		"description": "blocked drain",
		"imageUrl":    "https://cdn.example/r2.jpg",
	}

	r, err := ParseReport("r2", rec)
	if err != nil {
		t.Fatalf("minimal record rejected: %v", err)
	}
	if r.UserName != "Anonymous" {
		t.Errorf("UserName = %q, want Anonymous", r.UserName)
	}
	if r.Status != StatusUnknown || r.Category != CategoryUnknown {
		t.Errorf("missing enums should fall back to Unknown, got %s %s", r.Status, r.Category)
	}
	if r.CreatedAt != 0 {
		t.Errorf("missing createdAt = %d, want 0", r.CreatedAt)
	}
	if r.Location != (ReportLocation{}) {
		t.Errorf("missing location = %+v", r.Location)
	}
}

func TestParseStatusAndCategoryUnknown(t *testing.T) {
	if ParseStatus("weird") != StatusUnknown {
		t.Error("unknown status not mapped")
	}
	if ParseStatus("weird").Label() != "Unknown" {
		t.Error("unknown status label wrong")
	}
	if ParseCategory("weird") != CategoryUnknown {
		t.Error("unknown category not mapped")
	}
	if ParseStatus("in_progress") != StatusInProgress {
		t.Error("in_progress not recognized")
	}
}

func TestFilterStatus(t *testing.T) {
	if _, ok := FilterAll.Status(); ok {
		t.Error("FilterAll should select nothing specific")
	}
	if s, ok := FilterPending.Status(); !ok || s != StatusPending {
		t.Errorf("FilterPending -> %s %v", s, ok)
	}
	if FilterInProgress.Label() != "In Progress" {
		t.Errorf("label = %q", FilterInProgress.Label())
	}
}

func TestOpStateConstructors(t *testing.T) {
	if s := Success("abc"); s.Phase != PhaseSuccess || s.Value != "abc" {
		t.Errorf("Success = %+v", s)
	}
	if s := Failure("boom"); s.Phase != PhaseError || s.Message != "boom" {
		t.Errorf("Failure = %+v", s)
	}
	if Idle().Phase != PhaseIdle || Busy().Phase != PhaseBusy {
		t.Error("Idle/Busy constructors wrong")
	}
}
