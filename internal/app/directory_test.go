package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/kennel/internal/rescue"
)

type fakeOrgs struct {
	mu    sync.Mutex
	errs  []error
	orgs  []rescue.Organization
	calls int
}

func (f *fakeOrgs) FetchOrganizations(context.Context) ([]rescue.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.orgs, nil
}

func (f *fakeOrgs) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestDirectory(t *testing.T) {
	var d Directory
	if ids := d.IDs(); len(ids) != 0 {
		t.Fatalf("empty directory IDs = %v", ids)
	}
	if !d.LoadedAt().IsZero() {
		t.Fatal("empty directory reports a load time")
	}

	orgs := []rescue.Organization{{ID: 7, Name: "Tierhilfe"}, {ID: 12, Name: "Galgos del Sol"}}
	d.Set(orgs)
	orgs[0].Name = "changed"

	if got := d.IDs(); len(got) != 2 || got[0] != "7" || got[1] != "12" {
		t.Fatalf("IDs() = %v, want [7 12]", got)
	}
	if got := d.Name("7"); got != "Tierhilfe" {
		t.Fatalf("Name(7) = %q, want Tierhilfe", got)
	}
	if got := d.Name("99"); got != "" {
		t.Fatalf("Name(99) = %q, want empty", got)
	}
	if d.LoadedAt().IsZero() {
		t.Fatal("LoadedAt not set")
	}
}

func TestLoadOrganizations_RetriesServerErrors(t *testing.T) {
	f := &fakeOrgs{
		errs: []error{&rescue.APIError{Path: "/api/organizations", Status: http.StatusBadGateway}, errors.New("connection refused")},
		orgs: []rescue.Organization{{ID: 1, Name: "Paws"}},
	}
	orgs, err := loadOrganizations(context.Background(), f, time.Millisecond, quietLogger())
	if err != nil {
		t.Fatalf("loadOrganizations returned error: %v", err)
	}
	if len(orgs) != 1 || f.callCount() != 3 {
		t.Fatalf("orgs=%v calls=%d, want 1 org after 3 calls", orgs, f.callCount())
	}
}

func TestLoadOrganizations_ClientErrorIsFinal(t *testing.T) {
	f := &fakeOrgs{errs: []error{&rescue.APIError{Path: "/api/organizations", Status: http.StatusNotFound}}}
	_, err := loadOrganizations(context.Background(), f, time.Millisecond, quietLogger())
	var apiErr *rescue.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 APIError", err)
	}
	if f.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", f.callCount())
	}
}

func TestLoadOrganizations_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeOrgs{errs: []error{boom, boom, boom, boom, boom}}
	_, err := loadOrganizations(context.Background(), f, time.Millisecond, quietLogger())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if f.callCount() != startupRetries+1 {
		t.Fatalf("calls = %d, want %d", f.callCount(), startupRetries+1)
	}
}
