package models

import "fmt"

// Category is the closed set of report categories. On the wire it is a
// lowercase string; anything unrecognized parses to CategoryUnknown.
type Category string

const (
	CategoryOverflowingBin      Category = "overflowing_bin"
	CategoryIllegalDump         Category = "illegal_dump"
	CategoryBlockedDrain        Category = "blocked_drain"
	CategoryDirtyStreet         Category = "dirty_street"
	CategoryGarbageNotCollected Category = "garbage_not_collected"
	CategoryUnknown             Category = "unknown"
)

// DefaultCategory is what a fresh report draft starts with.
const DefaultCategory = CategoryIllegalDump

var categoryLabels = map[Category]string{
	CategoryOverflowingBin:      "Overflowing Dustbin",
	CategoryIllegalDump:         "Illegal Garbage Dumping",
	CategoryBlockedDrain:        "Blocked / Open Drain",
	CategoryDirtyStreet:         "Unclean Road or Street",
	CategoryGarbageNotCollected: "Garbage Not Collected",
}

func ParseCategory(s string) Category {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return CategoryUnknown
	}
	return c
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "Unknown"
}

// Categories lists all selectable categories in display order.
func Categories() []Category {
	return []Category{
		CategoryOverflowingBin,
		CategoryIllegalDump,
		CategoryBlockedDrain,
		CategoryDirtyStreet,
		CategoryGarbageNotCollected,
	}
}

// Status is the report lifecycle state. Transitions happen on the backend
// (pending -> in_progress -> resolved); this client only reads them.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusUnknown    Status = "unknown"
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
}

func ParseStatus(s string) Status {
	st := Status(s)
	if _, ok := statusLabels[st]; !ok {
		return StatusUnknown
	}
	return st
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// ReportLocation is where a report was filed.
type ReportLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Geohash   string  `json:"geohash"`
}

// Report is one community report as read back from the document store.
// Timestamps are unix seconds; zero means the field was never set.
type Report struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
	UserProfileURL string         `json:"userProfileUrl"`
	ImageURL       string         `json:"imageUrl"`
	Description    string         `json:"description"`
	Category       Category       `json:"category"`
	Location       ReportLocation `json:"location"`
	Status         Status         `json:"status"`
	Upvotes        int            `json:"upvotes"`
	UpvotedBy      []string       `json:"upvotedBy"`
	CommentCount   int            `json:"commentCount"`
	CreatedAt      int64          `json:"createdAt"`
	UpdatedAt      int64          `json:"updatedAt"`
	ResolvedAt     int64          `json:"resolvedAt"`
	ResolvedBy     string         `json:"resolvedBy"`
}

// ParseReport builds a Report from a raw document record. Records come from
// a store we do not control, so everything is read defensively: missing
// optional fields get defaults, unknown enum strings become Unknown. A
// record without a user id, description or image URL is unusable and
// returns an error so the caller can drop it.
func ParseReport(id string, rec map[string]any) (Report, error) {
	userID := stringField(rec, "userId")
	if userID == "" {
		return Report{}, fmt.Errorf("report %s: missing userId", id)
	}
	description := stringField(rec, "description")
	if description == "" {
		return Report{}, fmt.Errorf("report %s: missing description", id)
	}
	imageURL := stringField(rec, "imageUrl")
	if imageURL == "" {
		return Report{}, fmt.Errorf("report %s: missing imageUrl", id)
	}

	userName := stringField(rec, "userName")
	if userName == "" {
		userName = "Anonymous"
	}

	r := Report{
		ID:             id,
		UserID:         userID,
		UserName:       userName,
		UserProfileURL: stringField(rec, "userProfileUrl"),
		ImageURL:       imageURL,
		Description:    description,
		Category:       ParseCategory(stringField(rec, "category")),
		Status:         ParseStatus(stringField(rec, "status")),
		Upvotes:        int(numField(rec, "upvotes")),
		UpvotedBy:      stringListField(rec, "upvotedBy"),
		CommentCount:   int(numField(rec, "commentCount")),
		CreatedAt:      numField(rec, "createdAt"),
		UpdatedAt:      numField(rec, "updatedAt"),
		ResolvedAt:     numField(rec, "resolvedAt"),
		ResolvedBy:     stringField(rec, "resolvedBy"),
	}

	if loc, ok := rec["location"].(map[string]any); ok {
		r.Location = ReportLocation{
			Latitude:  floatField(loc, "latitude"),
			Longitude: floatField(loc, "longitude"),
			Address:   stringField(loc, "address"),
			City:      stringField(loc, "city"),
			Geohash:   stringField(loc, "geohash"),
		}
	}

	return r, nil
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

// numField tolerates the numeric types JSON decoding and hand-built records
// produce for integral values.
func numField(rec map[string]any, key string) int64 {
	switch v := rec[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func floatField(rec map[string]any, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func stringListField(rec map[string]any, key string) []string {
	switch v := rec[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
