package rescue

import (
	"strconv"
	"time"
)

const apiTimestampLayout = "2006-01-02 15:04:05"

// Dog mirrors a single listing returned by /api/dogs.
type Dog struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Slug            string        `json:"slug"`
	Breed           string        `json:"standardized_breed"`
	BreedGroup      string        `json:"breed_group"`
	Size            string        `json:"standardized_size"`
	AgeCategory     string        `json:"age_category"`
	Sex             string        `json:"sex"`
	OrganizationID  int64         `json:"organization_id"`
	Organization    *Organization `json:"organization,omitempty"`
	LocationCountry string        `json:"location_country"`
	AvailableTo     []string      `json:"available_to_countries"`
	AvailableRegion []string      `json:"available_to_regions,omitempty"`
	AdoptionURL     string        `json:"adoption_url"`
	ImageURL        string        `json:"primary_image_url"`
	CreatedAt       string        `json:"created_at"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (d Dog) ParsedCreatedAt() time.Time {
	return parseTime(d.CreatedAt)
}

// OrganizationName returns the embedded organization name when present.
func (d Dog) OrganizationName() string {
	if d.Organization == nil {
		return ""
	}
	return d.Organization.Name
}

// Organization describes a rescue organization.
type Organization struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
}

// IDString returns the id in the form it takes in a location query.
func (o Organization) IDString() string {
	return strconv.FormatInt(o.ID, 10)
}

// CountOption is one filter value with the number of dogs matching it.
type CountOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FilterCounts mirrors /api/dogs/counts.
type FilterCounts struct {
	Size             []CountOption `json:"size_options"`
	Age              []CountOption `json:"age_options"`
	Sex              []CountOption `json:"sex_options"`
	Breed            []CountOption `json:"breed_options"`
	BreedGroup       []CountOption `json:"breed_group_options"`
	Organization     []CountOption `json:"organization_options"`
	LocationCountry  []CountOption `json:"location_country_options"`
	AvailableCountry []CountOption `json:"available_country_options"`
	AvailableRegion  []CountOption `json:"available_region_options"`
}

// Lookup returns the count for value in opts, or -1 when absent.
func Lookup(opts []CountOption, value string) int {
	for _, opt := range opts {
		if opt.Value == value {
			return opt.Count
		}
	}
	return -1
}

// ListQuery configures /api/dogs requests.
type ListQuery struct {
	Limit  int
	Offset int
	Params map[string]string
}

type regionsResponse struct {
	Country string   `json:"country"`
	Regions []string `json:"regions"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(apiTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
