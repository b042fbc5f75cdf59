package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/venuedesk/admin-bff-go/internal/domain"
	"github.com/venuedesk/admin-bff-go/internal/infra/cache"
	"github.com/venuedesk/admin-bff-go/internal/onboarding"
)

func newOnboardingService(api *mockPlatform) (*OnboardingService, *cache.InMemory[*onboarding.Wizard]) {
	sessions := cache.New[*onboarding.Wizard](time.Minute)
	svc := NewOnboardingService(api, api, api, sessions, 30*time.Minute, zap.NewNop())
	return svc, sessions
}

func fptr(v float64) *float64 { return &v }

func filledBusiness() onboarding.BusinessForm {
	return onboarding.BusinessForm{
		CompanyName:   "Acme",
		ContactName:   "Jo",
		Email:         "jo@acme.com",
		Phone:         "+1",
		City:          "NYC",
		Country:       "US",
		AdminPassword: "secret1",
	}
}

func TestStartCreate_SessionRetrievable(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, w := svc.StartCreate(onboarding.TwoStep)
	if id == "" {
		t.Fatal("expected a session id")
	}
	if w.Step != onboarding.StepBusiness {
		t.Fatalf("expected wizard at the business step, got %s", w.Step)
	}

	got, err := svc.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != w {
		t.Error("Get must return the same wizard instance")
	}
}

func TestGet_UnknownSession(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	_, err := svc.Get("nope")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestNext_CompletedSessionIsDropped(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, _ := svc.StartCreate(onboarding.TwoStep)

	business := filledBusiness()
	if _, err := svc.UpdateForms(id, &business, nil, nil); err != nil {
		t.Fatalf("UpdateForms: %v", err)
	}
	if _, err := svc.Next(context.Background(), id); err != nil {
		t.Fatalf("Next (business): %v", err)
	}

	locations := []onboarding.LocationForm{
		{Name: "Downtown", City: "NYC", Country: "US", Latitude: fptr(40.7), Longitude: fptr(-74)},
	}
	if _, err := svc.UpdateForms(id, nil, locations, nil); err != nil {
		t.Fatalf("UpdateForms: %v", err)
	}
	w, err := svc.Next(context.Background(), id)
	if err != nil {
		t.Fatalf("Next (locations): %v", err)
	}
	if w.Step != onboarding.StepDone {
		t.Fatalf("expected the flow to finish, got %s", w.Step)
	}

	if _, err := svc.Get(id); err == nil {
		t.Error("completed sessions must be dropped")
	}
}

func TestNext_ValidationFailureKeepsSession(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, _ := svc.StartCreate(onboarding.TwoStep)

	w, err := svc.Next(context.Background(), id)
	if err == nil {
		t.Fatal("expected a validation error on an empty form")
	}
	if w.Step != onboarding.StepBusiness {
		t.Errorf("wizard must stay on the business step, got %s", w.Step)
	}
	if _, err := svc.Get(id); err != nil {
		t.Errorf("session must survive a failed submission: %v", err)
	}
}

func TestStartEdit_PrefillsFromPlatform(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, w, err := svc.StartEdit(context.Background(), onboarding.ThreeStep, "c-1")
	if err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if id == "" {
		t.Fatal("expected a session id")
	}
	if w.Mode != onboarding.ModeEdit {
		t.Errorf("expected edit mode, got %s", w.Mode)
	}
	if w.ClientID != "c-1" {
		t.Errorf("expected the wizard anchored to c-1, got %q", w.ClientID)
	}
	if w.Business.CompanyName != "Acme" {
		t.Errorf("expected prefilled company name, got %q", w.Business.CompanyName)
	}
	if len(w.Locations) != 1 || w.Locations[0].ID != "l-1" {
		t.Errorf("expected one prefilled location row, got %v", w.Locations)
	}
}

func TestBack_PreservesSession(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, _ := svc.StartCreate(onboarding.TwoStep)
	business := filledBusiness()
	if _, err := svc.UpdateForms(id, &business, nil, nil); err != nil {
		t.Fatalf("UpdateForms: %v", err)
	}
	if _, err := svc.Next(context.Background(), id); err != nil {
		t.Fatalf("Next: %v", err)
	}

	w, err := svc.Back(id)
	if err != nil {
		t.Fatalf("Back: %v", err)
	}
	if w.Step != onboarding.StepBusiness {
		t.Errorf("expected the business step after Back, got %s", w.Step)
	}
	if w.Business.CompanyName != "Acme" {
		t.Error("Back must preserve entered values")
	}
}

func TestRowMutations(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, _ := svc.StartCreate(onboarding.ThreeStep)

	w, err := svc.AddLocation(id)
	if err != nil {
		t.Fatalf("AddLocation: %v", err)
	}
	if len(w.Locations) != 2 {
		t.Fatalf("expected 2 location rows, got %d", len(w.Locations))
	}

	w, err = svc.RemoveLocation(id, 1)
	if err != nil {
		t.Fatalf("RemoveLocation: %v", err)
	}
	if len(w.Locations) != 1 {
		t.Fatalf("expected 1 location row, got %d", len(w.Locations))
	}

	w, err = svc.AddFacility(id)
	if err != nil {
		t.Fatalf("AddFacility: %v", err)
	}
	if len(w.Facilities) != 2 {
		t.Fatalf("expected 2 facility rows, got %d", len(w.Facilities))
	}
}

func TestAbandon(t *testing.T) {
	svc, sessions := newOnboardingService(&mockPlatform{})
	defer sessions.Close()

	id, _ := svc.StartCreate(onboarding.TwoStep)
	if err := svc.Abandon(id); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if _, err := svc.Get(id); err == nil {
		t.Error("abandoned sessions must be gone")
	}

	if err := svc.Abandon(id); err == nil {
		t.Error("abandoning twice must report not found")
	}
}
