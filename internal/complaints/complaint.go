package complaints

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
)

// Complaint mirrors the complaints API representation.
type Complaint struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Address       string     `json:"address"`
	ReporterEmail string     `json:"reporter_email"`
	Status        Status     `json:"status"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	PhotoPath     string     `json:"photo_path"`
	AdminNote     string     `json:"admin_note"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// GeoTagged reports whether both coordinates are present and non-zero.
func (c Complaint) GeoTagged() bool {
	return c.Latitude != nil && c.Longitude != nil && *c.Latitude != 0 && *c.Longitude != 0
}

// HasPhoto reports whether the API stored a photo for the complaint.
func (c Complaint) HasPhoto() bool {
	return PhotoFilename(c.PhotoPath) != ""
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the location as "lat,lng".
func (l Location) String() string {
	return formatCoordinate(l.Lat) + "," + formatCoordinate(l.Lng)
}

// Submission is a new complaint as entered in the report form.
type Submission struct {
	Title         string
	Description   string
	Address       string
	ReporterEmail string
	Location      *Location
	Photo         []byte
}

// Normalize trims free-text fields in place.
func (s *Submission) Normalize() {
	if s == nil {
		return
	}
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Address = strings.TrimSpace(s.Address)
	s.ReporterEmail = strings.TrimSpace(s.ReporterEmail)
}

// Validate checks the fields the front-end requires before calling the API.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return apperrors.New(apperrors.CodeTitleRequired, "title is required")
	}
	return nil
}

// StatusUpdate is the admin triage payload.
type StatusUpdate struct {
	Status    Status `json:"status"`
	AdminNote string `json:"admin_note"`
}

// Validate requires a known status.
func (u StatusUpdate) Validate() error {
	if !u.Status.Valid() {
		return apperrors.WithMetadata(apperrors.CodeInvalidStatus, "unknown status", map[string]string{"Status": string(u.Status)})
	}
	return nil
}

// ParseID accepts a non-empty run of ASCII digits.
func ParseID(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.New(apperrors.CodeInvalidComplaintID, "complaint id is required")
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, apperrors.New(apperrors.CodeInvalidComplaintID, "complaint id must be numeric")
		}
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidComplaintID, "complaint id out of range", err)
	}
	return id, nil
}

// PhotoFilename returns the last path segment of the stored photo path.
func PhotoFilename(photoPath string) string {
	trimmed := strings.TrimSpace(photoPath)
	if trimmed == "" {
		return ""
	}
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// MapEmbedURL returns the Google Maps embed URL centered on the first
// geo-tagged complaint in items.
// The query keeps the q, z, output order with an unescaped comma.
func MapEmbedURL(items []Complaint) (string, bool) {
	tagged := GeoTagged(items)
	if len(tagged) == 0 {
		return "", false
	}
	center := Location{Lat: *tagged[0].Latitude, Lng: *tagged[0].Longitude}
	return "https://maps.google.com/maps?q=" + center.String() + "&z=15&output=embed", true
}

// GeoTagged returns the subset of items with coordinates.
func GeoTagged(items []Complaint) []Complaint {
	out := make([]Complaint, 0, len(items))
	for _, item := range items {
		if item.GeoTagged() {
			out = append(out, item)
		}
	}
	return out
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// DisplayAddress returns the address or the given fallback when it is blank.
func (c Complaint) DisplayAddress(fallback string) string {
	if strings.TrimSpace(c.Address) == "" {
		return fallback
	}
	return c.Address
}

// Label formats "#id — title" as shown in listings.
func (c Complaint) Label() string {
	return fmt.Sprintf("#%d — %s", c.ID, c.Title)
}
