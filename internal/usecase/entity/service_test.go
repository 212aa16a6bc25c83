package entity

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	domainentity "github.com/kailas-cloud/catalogmcp/internal/domain/entity"
)

// mockRepo implements Repository backed by an in-memory record.
type mockRepo struct {
	rec    *domainentity.Record
	getErr error
	saved  *domainentity.Record
}

func (m *mockRepo) Get(ctx context.Context, urn string) (*domainentity.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.rec, nil
}

func (m *mockRepo) Save(ctx context.Context, rec *domainentity.Record) error {
	m.saved = rec
	return nil
}

func (m *mockRepo) Exists(ctx context.Context, urn string) (bool, error) {
	return m.rec != nil, nil
}

func newTestService(rec *domainentity.Record) (*Service, *mockRepo) {
	mr := &mockRepo{rec: rec}
	return New(mr, zap.NewNop()), mr
}

func record(t *testing.T) *domainentity.Record {
	t.Helper()
	rec, err := domainentity.NewRecord("urn:li:dataset:orders")
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return rec
}

func TestService_AddTags(t *testing.T) {
	svc, mr := newTestService(record(t))

	if err := svc.AddTags(context.Background(), "urn:li:dataset:orders", []string{"pii"}); err != nil {
		t.Fatalf("AddTags: %v", err)
	}
	if mr.saved == nil || len(mr.saved.Tags) != 1 || mr.saved.Tags[0] != "pii" {
		t.Errorf("saved = %+v", mr.saved)
	}
}

func TestService_AddTagsValidation(t *testing.T) {
	svc, mr := newTestService(record(t))

	if err := svc.AddTags(context.Background(), "urn:li:dataset:orders", nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.AddTags(context.Background(), "", []string{"x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty urn, got %v", err)
	}
	if mr.saved != nil {
		t.Error("nothing must be saved on validation failure")
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc, mr := newTestService(nil)
	mr.getErr = domain.ErrNotFound

	if _, err := svc.Get(context.Background(), "urn:li:dataset:missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_RemoveTermsPartialFailure(t *testing.T) {
	rec := record(t)
	rec.AddGlossaryTerms("urn:li:glossaryTerm:Revenue", "urn:li:glossaryTerm:Churn")
	svc, mr := newTestService(rec)

	err := svc.RemoveTerms(context.Background(), rec.URN, []string{
		"urn:li:glossaryTerm:Revenue",
		"urn:li:glossaryTerm:Unknown",
	})

	var pf *domain.PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if len(pf.Outcomes) != 2 {
		t.Fatalf("outcomes = %d", len(pf.Outcomes))
	}
	if pf.Outcomes[0].Err != nil {
		t.Errorf("revenue outcome = %v, want success", pf.Outcomes[0].Err)
	}
	if !errors.Is(pf.Outcomes[1].Err, domain.ErrNotFound) {
		t.Errorf("unknown outcome = %v, want not found", pf.Outcomes[1].Err)
	}

	// The successful removal is persisted despite the partial failure.
	if mr.saved == nil || len(mr.saved.GlossaryTerms) != 1 {
		t.Errorf("saved terms = %+v", mr.saved)
	}
}

func TestService_RemoveTermsAllSucceed(t *testing.T) {
	rec := record(t)
	rec.AddGlossaryTerms("urn:li:glossaryTerm:Revenue")
	svc, _ := newTestService(rec)

	if err := svc.RemoveTerms(context.Background(), rec.URN,
		[]string{"urn:li:glossaryTerm:Revenue"}); err != nil {
		t.Fatalf("RemoveTerms: %v", err)
	}
}

func TestService_DomainLifecycle(t *testing.T) {
	rec := record(t)
	svc, mr := newTestService(rec)

	if err := svc.SetDomain(context.Background(), rec.URN, "urn:li:domain:sales"); err != nil {
		t.Fatalf("SetDomain: %v", err)
	}
	if mr.saved.Domain != "urn:li:domain:sales" {
		t.Errorf("domain = %q", mr.saved.Domain)
	}

	if err := svc.SetDomain(context.Background(), rec.URN, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.UnsetDomain(context.Background(), rec.URN); err != nil {
		t.Fatalf("UnsetDomain: %v", err)
	}
	if mr.saved.Domain != "" {
		t.Errorf("domain = %q after unset", mr.saved.Domain)
	}
}

func TestService_SetStructuredProperty(t *testing.T) {
	rec := record(t)
	svc, mr := newTestService(rec)

	err := svc.SetStructuredProperty(context.Background(), rec.URN,
		"urn:li:structuredProperty:tier", []string{"gold"})
	if err != nil {
		t.Fatalf("SetStructuredProperty: %v", err)
	}
	if got := mr.saved.Properties["urn:li:structuredProperty:tier"]; len(got) != 1 || got[0] != "gold" {
		t.Errorf("properties = %+v", mr.saved.Properties)
	}

	err = svc.SetStructuredProperty(context.Background(), rec.URN,
		"urn:li:structuredProperty:tier", nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_UpdateDescription(t *testing.T) {
	rec := record(t)
	svc, mr := newTestService(rec)

	if err := svc.UpdateDescription(context.Background(), rec.URN, "fact table"); err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}
	if mr.saved.Description != "fact table" {
		t.Errorf("description = %q", mr.saved.Description)
	}
}
