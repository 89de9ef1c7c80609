package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"idx_pro/internal/app"
	"idx_pro/internal/domain"
)

type fakeLeadRepo struct {
	mu    sync.Mutex
	saved []domain.Lead
	err   error
}

func (r *fakeLeadRepo) SaveLead(_ context.Context, l domain.Lead) error {
	r.mu.Lock()
	r.saved = append(r.saved, l)
	r.mu.Unlock()
	return r.err
}

func validLead() domain.Lead {
	return domain.Lead{
		Name:       "Jordan Example",
		Email:      "jordan@example.com",
		Phone:      "555-0100",
		Message:    "Is this still available?",
		PropertyID: "sample-1",
		Type:       "inquiry",
	}
}

func TestSubmit_ValidatesRequiredFields(t *testing.T) {
	svc := app.NewLeadService(&fakeProvider{}, nil, 2)

	cases := []func(*domain.Lead){
		func(l *domain.Lead) { l.Name = "" },
		func(l *domain.Lead) { l.Email = "" },
		func(l *domain.Lead) { l.Phone = "" },
		func(l *domain.Lead) { l.Message = "" },
	}
	for i, blank := range cases {
		l := validLead()
		blank(&l)
		if _, err := svc.Submit(context.Background(), l); !errors.Is(err, app.ErrInvalidLead) {
			t.Fatalf("case %d: want ErrInvalidLead, got %v", i, err)
		}
	}

	// propertyId and type are optional
	l := validLead()
	l.PropertyID, l.Type = "", ""
	if _, err := svc.Submit(context.Background(), l); err != nil {
		t.Fatalf("optional fields must not be required: %v", err)
	}
	svc.Drain()
}

func TestSubmit_AssignsIDAndForwards(t *testing.T) {
	provider := &fakeProvider{}
	repo := &fakeLeadRepo{}
	svc := app.NewLeadService(provider, repo, 2)

	accepted, err := svc.Submit(context.Background(), validLead())
	if err != nil {
		t.Fatal(err)
	}
	if accepted.ID == "" {
		t.Fatal("expected an assigned lead id")
	}
	svc.Drain()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.saved) != 1 || repo.saved[0].ID != accepted.ID {
		t.Fatalf("persisted lead: %+v", repo.saved)
	}
	provider.mu.Lock()
	defer provider.mu.Unlock()
	if len(provider.inquiries) != 1 || provider.inquiries[0].ID != accepted.ID {
		t.Fatalf("forwarded inquiry: %+v", provider.inquiries)
	}
}

func TestSubmit_ForwardFailuresDoNotSurface(t *testing.T) {
	provider := &fakeProvider{inquiryErr: errors.New("provider down")}
	repo := &fakeLeadRepo{err: errors.New("db down")}
	svc := app.NewLeadService(provider, repo, 2)

	if _, err := svc.Submit(context.Background(), validLead()); err != nil {
		t.Fatalf("ack must not depend on forwarding: %v", err)
	}
	svc.Drain()
}

func TestSubmit_NilRepoSkipsPersistence(t *testing.T) {
	provider := &fakeProvider{}
	svc := app.NewLeadService(provider, nil, 1)

	if _, err := svc.Submit(context.Background(), validLead()); err != nil {
		t.Fatal(err)
	}
	svc.Drain()

	provider.mu.Lock()
	defer provider.mu.Unlock()
	if len(provider.inquiries) != 1 {
		t.Fatalf("inquiry still forwards without a repo: %+v", provider.inquiries)
	}
}

func TestSubmit_CancelledContextStillAcks(t *testing.T) {
	provider := &fakeProvider{}
	svc := app.NewLeadService(provider, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	accepted, err := svc.Submit(ctx, validLead())
	if err != nil || accepted.ID == "" {
		t.Fatalf("cancelled context: lead=%+v err=%v", accepted, err)
	}
	svc.Drain()
}
