package grep

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/grep"
)

type mockBackend struct {
	fetchContentsFn func(ctx context.Context, refs []string) ([]grep.Document, error)
	called          bool
}

func (m *mockBackend) FetchContents(ctx context.Context, refs []string) ([]grep.Document, error) {
	m.called = true
	return m.fetchContentsFn(ctx, refs)
}

func newTestService(t *testing.T) (*Service, *mockBackend) {
	t.Helper()
	mb := &mockBackend{}
	return New(mb, zap.NewNop()), mb
}

func mustRequest(
	t *testing.T, refs []string, pattern string,
	contextChars, maxMatches, startOffset int,
) *grep.Request {
	t.Helper()
	req, err := grep.NewRequest(refs, pattern, contextChars, maxMatches, startOffset)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return &req
}

func singleDoc(text string) func(ctx context.Context, refs []string) ([]grep.Document, error) {
	return func(ctx context.Context, refs []string) ([]grep.Document, error) {
		return []grep.Document{{Ref: refs[0], Title: "Doc", Text: text}}, nil
	}
}

func TestService_GrepEmptyRefsSkipsBackend(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc("anything")

	sum, err := svc.Grep(context.Background(), mustRequest(t, nil, "x", 0, 0, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if mb.called {
		t.Error("backend must not be called for empty refs")
	}
	if sum.TotalMatches != 0 || sum.DocsWithMatches != 0 || len(sum.Docs) != 0 {
		t.Errorf("summary = %+v, want zero", sum)
	}
}

func TestService_GrepInvalidPattern(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc("anything")

	_, err := svc.Grep(context.Background(), mustRequest(t, []string{"r"}, "(unclosed", 0, 0, 0))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid regex pattern") {
		t.Errorf("error text = %q", err.Error())
	}
	if mb.called {
		t.Error("backend must not be called when the pattern does not compile")
	}
}

func TestService_GrepBoundedExcerptsUnboundedCount(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc(strings.Repeat("needle ", 9))

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"r"}, "needle", 10, 3, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}

	doc := sum.Docs[0]
	if doc.TotalMatches != 9 {
		t.Errorf("totalMatches = %d, want 9", doc.TotalMatches)
	}
	if len(doc.Matches) != 3 {
		t.Errorf("materialized = %d, want 3", len(doc.Matches))
	}
	if sum.TotalMatches != 9 || sum.DocsWithMatches != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestService_GrepPositionsAreAbsolute(t *testing.T) {
	svc, mb := newTestService(t)
	// "target" at byte 10 of the full text; view starts at offset 4.
	mb.fetchContentsFn = singleDoc("0123456789target tail")

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"r"}, "target", 200, 5, 4))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}

	doc := sum.Docs[0]
	if doc.Matches[0].Position != 10 {
		t.Errorf("position = %d, want 10", doc.Matches[0].Position)
	}
	if doc.ContentLength == nil || *doc.ContentLength != 21 {
		t.Errorf("contentLength = %v, want 21", doc.ContentLength)
	}
}

func TestService_GrepContentLengthOnlyWithOffset(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc("find me here")

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"r"}, "find", 200, 5, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if sum.Docs[0].ContentLength != nil {
		t.Errorf("contentLength = %v, want nil for zero offset", sum.Docs[0].ContentLength)
	}
}

func TestService_GrepSkipsDocWhenOffsetBeyondText(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = func(ctx context.Context, refs []string) ([]grep.Document, error) {
		return []grep.Document{
			{Ref: "short", Text: "tiny"},
			{Ref: "long", Text: "padpadpad match"},
		}, nil
	}

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"short", "long"}, "match|tiny", 200, 5, 9))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if len(sum.Docs) != 1 || sum.Docs[0].Ref != "long" {
		t.Errorf("docs = %+v, want only the long doc", sum.Docs)
	}
}

func TestService_GrepEllipsisClipping(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc("aaaaaaaaaaXaaaaaaaaaa")

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"r"}, "X", 3, 5, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}

	got := sum.Docs[0].Matches[0].Text
	if got != "...aaaXaaa..." {
		t.Errorf("excerpt = %q", got)
	}
}

func TestService_GrepNoEllipsisAtBounds(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc("Xab")

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"r"}, "X", 5, 5, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}

	if got := sum.Docs[0].Matches[0].Text; got != "Xab" {
		t.Errorf("excerpt = %q", got)
	}
}

func TestService_GrepExcludesZeroMatchDocs(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = func(ctx context.Context, refs []string) ([]grep.Document, error) {
		return []grep.Document{
			{Ref: "hit", Text: "the word appears"},
			{Ref: "miss", Text: "nothing of interest"},
			{Ref: "empty", Text: ""},
		}, nil
	}

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"hit", "miss", "empty"}, "word", 200, 5, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if len(sum.Docs) != 1 || sum.Docs[0].Ref != "hit" {
		t.Errorf("docs = %+v", sum.Docs)
	}
	if sum.DocsWithMatches != 1 {
		t.Errorf("docsWithMatches = %d", sum.DocsWithMatches)
	}
}

func TestService_GrepBackendError(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = func(ctx context.Context, refs []string) ([]grep.Document, error) {
		return nil, errors.New("store offline")
	}

	_, err := svc.Grep(context.Background(), mustRequest(t, []string{"r"}, "x", 0, 0, 0))
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestService_GrepNonOverlappingMatches(t *testing.T) {
	svc, mb := newTestService(t)
	mb.fetchContentsFn = singleDoc("aaaa")

	sum, err := svc.Grep(context.Background(),
		mustRequest(t, []string{"r"}, "aa", 200, 5, 0))
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	doc := sum.Docs[0]
	if doc.TotalMatches != 2 {
		t.Errorf("totalMatches = %d, want 2 non-overlapping", doc.TotalMatches)
	}
	if doc.Matches[0].Position != 0 || doc.Matches[1].Position != 2 {
		t.Errorf("positions = %d,%d", doc.Matches[0].Position, doc.Matches[1].Position)
	}
}
