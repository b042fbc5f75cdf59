// Package onboarding implements the multi-step business onboarding flow as
// an explicit state machine: typed steps, pure per-step validation, and
// transitions that only touch the backend after the local gate passes.
// The package knows nothing about HTTP handlers or rendering.
package onboarding

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
)

var errMissingClientID = errors.New("response carried no client identifier")

// Step identifies a wizard state.
type Step string

const (
	StepBusiness   Step = "business"
	StepLocations  Step = "locations"
	StepFacilities Step = "facilities"
	StepDone       Step = "done"
)

// Mode distinguishes creating a new business from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Variant selects the 2-step (no facilities) or 3-step flow.
type Variant int

const (
	TwoStep   Variant = 2
	ThreeStep Variant = 3
)

// BusinessForm carries the step-1 fields. AdminPassword is only read in
// create mode.
type BusinessForm struct {
	CompanyName   string   `json:"company_name"`
	ContactName   string   `json:"contact_name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address,omitempty"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	AdminPassword string   `json:"admin_password,omitempty"`
}

// LocationForm is one repeatable step-2 row. A non-empty ID marks a
// location that already exists upstream; submission skips it.
type LocationForm struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// FacilityForm is one repeatable step-3 row.
type FacilityForm struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name"`
	Type       domain.FacilityType `json:"type"`
	LocationID string              `json:"location_id"`
	Capacity   *int                `json:"capacity,omitempty"`
}

// Backend is the slice of the platform API the wizard needs.
type Backend interface {
	RegisterClient(ctx context.Context, req *domain.RegisterClientRequest) (*domain.RegisterClientResponse, error)
	UpdateClient(ctx context.Context, id string, update *domain.Client) (*domain.Client, error)
	CreateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error)
	CreateFacility(ctx context.Context, f *domain.Facility) (*domain.Facility, error)
}

// Wizard is the full flow state. Navigating back never discards entered
// values; only Next issues backend calls.
type Wizard struct {
	Mode    Mode    `json:"mode"`
	Variant Variant `json:"variant"`
	Step    Step    `json:"step"`

	Business   BusinessForm   `json:"business"`
	Locations  []LocationForm `json:"locations"`
	Facilities []FacilityForm `json:"facilities"`

	// ClientID anchors steps 2 and 3. Set after a successful business
	// submission, or up front in edit mode.
	ClientID string `json:"client_id,omitempty"`

	// LocationOptions is the selection list for step 3, filled from the
	// locations known after step 2.
	LocationOptions []domain.Location `json:"location_options,omitempty"`

	// Errors holds the current step's field errors; StepError is the one
	// step-global message (typically a backend failure).
	Errors    FieldErrors `json:"errors,omitempty"`
	StepError string      `json:"step_error,omitempty"`

	backend Backend
	logger  *zap.Logger
}

// New starts a create-mode wizard at step 1 with one empty row per
// repeatable list.
func New(variant Variant, backend Backend, logger *zap.Logger) *Wizard {
	return &Wizard{
		Mode:       ModeCreate,
		Variant:    variant,
		Step:       StepBusiness,
		Locations:  []LocationForm{{}},
		Facilities: []FacilityForm{{}},
		Errors:     FieldErrors{},
		backend:    backend,
		logger:     logger,
	}
}

// NewEdit starts an edit-mode wizard anchored to an existing business,
// pre-filling step 1 from its current profile.
func NewEdit(variant Variant, client *domain.Client, existing []domain.Location, backend Backend, logger *zap.Logger) *Wizard {
	w := New(variant, backend, logger)
	w.Mode = ModeEdit
	w.ClientID = client.ID
	w.Business = BusinessForm{
		CompanyName: client.CompanyName,
		ContactName: client.ContactName,
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		City:        client.City,
		Country:     client.Country,
		Latitude:    client.Latitude,
		Longitude:   client.Longitude,
	}
	if len(existing) > 0 {
		w.Locations = w.Locations[:0]
		for _, loc := range existing {
			w.Locations = append(w.Locations, LocationForm{
				ID:        loc.ID,
				Name:      loc.Name,
				Address:   loc.Address,
				City:      loc.City,
				Country:   loc.Country,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			})
		}
		w.LocationOptions = append(w.LocationOptions, existing...)
	}
	return w
}

// AddLocation appends an empty location row.
func (w *Wizard) AddLocation() {
	w.Locations = append(w.Locations, LocationForm{})
}

// RemoveLocation drops row i. Removing the last remaining row is a no-op:
// the flow always keeps at least one.
func (w *Wizard) RemoveLocation(i int) {
	if len(w.Locations) <= 1 || i < 0 || i >= len(w.Locations) {
		return
	}
	w.Locations = append(w.Locations[:i], w.Locations[i+1:]...)
}

// AddFacility appends an empty facility row, pre-filled with the first
// known location when one exists.
func (w *Wizard) AddFacility() {
	row := FacilityForm{}
	if len(w.LocationOptions) > 0 {
		row.LocationID = w.LocationOptions[0].ID
	}
	w.Facilities = append(w.Facilities, row)
}

// RemoveFacility drops row i, keeping at least one row.
func (w *Wizard) RemoveFacility(i int) {
	if len(w.Facilities) <= 1 || i < 0 || i >= len(w.Facilities) {
		return
	}
	w.Facilities = append(w.Facilities[:i], w.Facilities[i+1:]...)
}

// ClearFieldError drops one field's error. Called when the operator enters
// a field, so a corrected value stops showing a stale message. The
// step-global message stays until the next submission.
func (w *Wizard) ClearFieldError(key string) {
	delete(w.Errors, key)
}

// Back returns to the previous step. Entered values are preserved; the
// abandoned step's error display is reset.
func (w *Wizard) Back() {
	switch w.Step {
	case StepLocations:
		w.Step = StepBusiness
	case StepFacilities:
		w.Step = StepLocations
	}
	w.Errors = FieldErrors{}
	w.StepError = ""
}

// Next validates the current step and, when the gate passes, performs the
// step's backend round-trip and advances. On a validation failure the
// wizard stays put with Errors populated; on a backend failure it stays
// put with StepError set.
func (w *Wizard) Next(ctx context.Context) error {
	w.Errors = FieldErrors{}
	w.StepError = ""

	switch w.Step {
	case StepBusiness:
		return w.submitBusiness(ctx)
	case StepLocations:
		return w.submitLocations(ctx)
	case StepFacilities:
		return w.submitFacilities(ctx)
	default:
		return nil
	}
}

func (w *Wizard) submitBusiness(ctx context.Context) error {
	if errs := ValidateBusiness(w.Business, w.Mode); len(errs) > 0 {
		w.Errors = errs
		return &domain.ErrValidation{Field: "business", Message: "step has invalid fields"}
	}

	client := domain.Client{
		CompanyName: w.Business.CompanyName,
		ContactName: w.Business.ContactName,
		Email:       w.Business.Email,
		Phone:       w.Business.Phone,
		Address:     w.Business.Address,
		City:        w.Business.City,
		Country:     w.Business.Country,
		Latitude:    w.Business.Latitude,
		Longitude:   w.Business.Longitude,
	}

	if w.ClientID == "" {
		req := &domain.RegisterClientRequest{
			User: domain.RegisterRequest{
				Name:     w.Business.ContactName,
				Email:    w.Business.Email,
				Password: w.Business.AdminPassword,
			},
			Client: client,
		}
		resp, err := w.backend.RegisterClient(ctx, req)
		if err != nil {
			w.StepError = err.Error()
			return err
		}
		id := resp.ResolveClientID()
		if id == "" {
			w.StepError = "backend did not return a client identifier"
			return &domain.ErrExternalService{Service: "platform/register-client", Err: errMissingClientID}
		}
		w.ClientID = id
		w.logger.Info("onboarding: business created", zap.String("client_id", id))
	} else {
		if _, err := w.backend.UpdateClient(ctx, w.ClientID, &client); err != nil {
			w.StepError = err.Error()
			return err
		}
		w.logger.Info("onboarding: business updated", zap.String("client_id", w.ClientID))
	}

	w.Step = StepLocations
	return nil
}

func (w *Wizard) submitLocations(ctx context.Context) error {
	// Guarded precondition: step 2 is meaningless without the anchor from
	// step 1. Send the operator back with an explanation instead of
	// posting orphaned locations.
	if w.ClientID == "" {
		w.Step = StepBusiness
		w.StepError = "the business must be created before adding locations"
		return &domain.ErrPrecondition{Message: w.StepError}
	}

	if errs := ValidateLocations(w.Locations); len(errs) > 0 {
		w.Errors = errs
		return &domain.ErrValidation{Field: "locations", Message: "step has invalid fields"}
	}

	created := make([]domain.Location, 0, len(w.Locations))
	for i := range w.Locations {
		row := &w.Locations[i]
		if row.ID != "" {
			// Already persisted (edit mode or an earlier partial
			// submission); never create it twice.
			created = append(created, domain.Location{
				ID: row.ID, ClientID: w.ClientID, Name: row.Name,
				Address: row.Address, City: row.City, Country: row.Country,
				Latitude: row.Latitude, Longitude: row.Longitude,
			})
			continue
		}

		loc, err := w.backend.CreateLocation(ctx, &domain.Location{
			ClientID:  w.ClientID,
			Name:      row.Name,
			Address:   row.Address,
			City:      row.City,
			Country:   row.Country,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		})
		if err != nil {
			// Rows created before the failure keep their IDs, so a retry
			// resumes instead of duplicating.
			w.StepError = err.Error()
			return err
		}
		row.ID = loc.ID
		created = append(created, *loc)
	}

	w.LocationOptions = created

	if w.Variant == ThreeStep {
		// Pre-fill facility rows that have no location choice yet.
		if len(created) > 0 {
			for i := range w.Facilities {
				if w.Facilities[i].LocationID == "" {
					w.Facilities[i].LocationID = created[0].ID
				}
			}
		}
		w.Step = StepFacilities
		return nil
	}

	w.Step = StepDone
	return nil
}

func (w *Wizard) submitFacilities(ctx context.Context) error {
	if errs := ValidateFacilities(w.Facilities); len(errs) > 0 {
		w.Errors = errs
		return &domain.ErrValidation{Field: "facilities", Message: "step has invalid fields"}
	}

	for i := range w.Facilities {
		row := &w.Facilities[i]
		if row.ID != "" {
			continue
		}

		f, err := w.backend.CreateFacility(ctx, &domain.Facility{
			LocationID: row.LocationID,
			Name:       row.Name,
			Type:       row.Type,
			Status:     domain.FacilityActive,
			Capacity:   row.Capacity,
		})
		if err != nil {
			w.StepError = err.Error()
			return err
		}
		row.ID = f.ID
	}

	w.Step = StepDone
	w.logger.Info("onboarding: flow completed", zap.String("client_id", w.ClientID))
	return nil
}
