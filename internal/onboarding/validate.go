package onboarding

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldErrors maps form field keys to messages. Repeated rows are keyed by
// index, e.g. "locations[2].city".
type FieldErrors map[string]string

// emailShape is the minimal local@domain.tld check the dashboard applies
// before a request ever leaves the process. The backend stays authoritative.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 6

func validLatitude(v *float64) bool {
	return v == nil || (*v >= -90 && *v <= 90)
}

func validLongitude(v *float64) bool {
	return v == nil || (*v >= -180 && *v <= 180)
}

// ValidateBusiness checks the step-1 form. The admin password rule applies
// in create mode only; edit mode omits the password entirely.
func ValidateBusiness(f BusinessForm, mode Mode) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.CompanyName) == "" {
		errs["companyName"] = "company name is required"
	}
	if strings.TrimSpace(f.ContactName) == "" {
		errs["contactName"] = "contact name is required"
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "email is required"
	case !emailShape.MatchString(f.Email):
		errs["email"] = "email address is not valid"
	}
	if strings.TrimSpace(f.Phone) == "" {
		errs["phone"] = "phone is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "city is required"
	}
	if strings.TrimSpace(f.Country) == "" {
		errs["country"] = "country is required"
	}
	if !validLatitude(f.Latitude) {
		errs["latitude"] = "latitude must be between -90 and 90"
	}
	if !validLongitude(f.Longitude) {
		errs["longitude"] = "longitude must be between -180 and 180"
	}
	if mode == ModeCreate && len(f.AdminPassword) < minPasswordLen {
		errs["adminPassword"] = fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	}

	return errs
}

// ValidateLocations checks every step-2 row. Errors are keyed per row index
// so a repeated sub-form can highlight exactly the offending field. The flow
// requires at least one row; an empty list fails under the list-level key.
func ValidateLocations(rows []LocationForm) FieldErrors {
	errs := FieldErrors{}

	if len(rows) == 0 {
		errs["locations"] = "at least one location is required"
		return errs
	}

	for i, row := range rows {
		key := func(field string) string { return fmt.Sprintf("locations[%d].%s", i, field) }

		if strings.TrimSpace(row.Name) == "" {
			errs[key("name")] = "location name is required"
		}
		if strings.TrimSpace(row.City) == "" {
			errs[key("city")] = "city is required"
		}
		if strings.TrimSpace(row.Country) == "" {
			errs[key("country")] = "country is required"
		}
		if !validLatitude(row.Latitude) {
			errs[key("latitude")] = "latitude must be between -90 and 90"
		}
		if !validLongitude(row.Longitude) {
			errs[key("longitude")] = "longitude must be between -180 and 180"
		}
	}

	return errs
}

// ValidateFacilities checks every step-3 row. Like step 2, the list itself
// must not be empty.
func ValidateFacilities(rows []FacilityForm) FieldErrors {
	errs := FieldErrors{}

	if len(rows) == 0 {
		errs["facilities"] = "at least one facility is required"
		return errs
	}

	for i, row := range rows {
		key := func(field string) string { return fmt.Sprintf("facilities[%d].%s", i, field) }

		if strings.TrimSpace(row.Name) == "" {
			errs[key("name")] = "facility name is required"
		}
		if row.Type == "" {
			errs[key("type")] = "facility type is required"
		}
		if row.LocationID == "" {
			errs[key("locationId")] = "a location must be assigned"
		}
	}

	return errs
}
