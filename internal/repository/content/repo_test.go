package content

import (
	"context"
	"errors"
	"testing"
)

type mockStore struct {
	hGetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	return m.hGetAllMultiFn(ctx, keys)
}

func TestRepo_FetchContents(t *testing.T) {
	ms := &mockStore{
		hGetAllMultiFn: func(ctx context.Context, keys []string) ([]map[string]string, error) {
			want := []string{"catalog:entity:urn:li:doc:a", "catalog:entity:urn:li:doc:b"}
			if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
				t.Errorf("keys = %v", keys)
			}
			return []map[string]string{
				{"name": "Runbook A", "content": "first body"},
				{"name": "Runbook B", "content": "second body"},
			}, nil
		},
	}
	repo := New(ms, "catalog:")

	docs, err := repo.FetchContents(context.Background(), []string{"urn:li:doc:a", "urn:li:doc:b"})
	if err != nil {
		t.Fatalf("FetchContents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d", len(docs))
	}
	if docs[0].Ref != "urn:li:doc:a" || docs[0].Title != "Runbook A" || docs[0].Text != "first body" {
		t.Errorf("doc[0] = %+v", docs[0])
	}
}

func TestRepo_FetchContentsMissingRecord(t *testing.T) {
	ms := &mockStore{
		hGetAllMultiFn: func(ctx context.Context, keys []string) ([]map[string]string, error) {
			return []map[string]string{{}}, nil
		},
	}
	repo := New(ms, "catalog:")

	docs, err := repo.FetchContents(context.Background(), []string{"urn:li:doc:missing"})
	if err != nil {
		t.Fatalf("FetchContents: %v", err)
	}
	if docs[0].Ref != "urn:li:doc:missing" || docs[0].Text != "" {
		t.Errorf("doc = %+v", docs[0])
	}
}

func TestRepo_FetchContentsEmptyRefs(t *testing.T) {
	ms := &mockStore{
		hGetAllMultiFn: func(ctx context.Context, keys []string) ([]map[string]string, error) {
			t.Fatal("store must not be called for empty refs")
			return nil, nil
		},
	}
	repo := New(ms, "catalog:")

	docs, err := repo.FetchContents(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchContents: %v", err)
	}
	if docs != nil {
		t.Errorf("docs = %v", docs)
	}
}

func TestRepo_FetchContentsStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	ms := &mockStore{
		hGetAllMultiFn: func(ctx context.Context, keys []string) ([]map[string]string, error) {
			return nil, storeErr
		},
	}
	repo := New(ms, "catalog:")

	if _, err := repo.FetchContents(context.Background(), []string{"r"}); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
