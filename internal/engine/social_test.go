package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayuni-ai/ayuni/internal/store"
)

// seedAEI creates a user and companion without a chat session.
func seedAEI(t *testing.T, db *store.DB, name string) *store.AEI {
	t.Helper()
	user, err := db.CreateUser(fmt.Sprintf("%s@example.com", name), name, "BETA1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	aei, err := db.CreateAEI(user.ID, name, "Test persona.")
	if err != nil {
		t.Fatalf("CreateAEI: %v", err)
	}
	return aei
}

func TestInitializeSocialEnvironment(t *testing.T) {
	eng, db, _, _ := testEngine(t)
	aei := seedAEI(t, db, "Luna")

	created, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID)
	if err != nil {
		t.Fatalf("InitializeSocialEnvironment: %v", err)
	}
	if !created {
		t.Fatal("first initialization should create contacts")
	}

	contacts, err := db.ListActiveContacts(aei.ID)
	if err != nil {
		t.Fatalf("ListActiveContacts: %v", err)
	}
	if len(contacts) != len(starterContacts) {
		t.Errorf("contacts = %d, want %d", len(contacts), len(starterContacts))
	}

	// Idempotent: second call is a no-op, not an error.
	created, err = eng.InitializeSocialEnvironment(context.Background(), aei.ID)
	if err != nil {
		t.Fatalf("second InitializeSocialEnvironment: %v", err)
	}
	if created {
		t.Error("second initialization should return false")
	}
}

func TestInitializeSocialEnvironmentUnknownAEI(t *testing.T) {
	eng, _, _, _ := testEngine(t)

	_, err := eng.InitializeSocialEnvironment(context.Background(), "no-such-aei")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessAEIGeneratesInteraction(t *testing.T) {
	eng, db, mock, _ := testEngine(t)
	aei := seedAEI(t, db, "Luna")
	if _, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID); err != nil {
		t.Fatalf("init: %v", err)
	}

	n, err := eng.ProcessAEI(context.Background(), aei.ID)
	if err != nil {
		t.Fatalf("ProcessAEI: %v", err)
	}
	if n != 1 {
		t.Fatalf("interactions = %d, want 1 with chance 1.0", n)
	}
	if len(mock.Calls()) != 1 {
		t.Errorf("llm calls = %d, want 1", len(mock.Calls()))
	}

	items, err := db.ListInteractions(aei.ID, 10)
	if err != nil {
		t.Fatalf("ListInteractions: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("stored interactions = %d, want 1", len(items))
	}
	it := items[0]
	if it.InitiatedBy != "aei" && it.InitiatedBy != "contact" {
		t.Errorf("InitiatedBy = %q", it.InitiatedBy)
	}
	if len(it.DialogHistory) != 2 {
		t.Errorf("dialog turns = %d, want 2", len(it.DialogHistory))
	}
	if it.AEIThoughts == "" {
		t.Error("thoughts should be stored")
	}
}

func TestProcessAEIConcurrent(t *testing.T) {
	eng, db, _, _ := testEngine(t)
	aei := seedAEI(t, db, "Luna")
	if _, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID); err != nil {
		t.Fatalf("init: %v", err)
	}

	// Single-AEI processing is reachable from concurrent admin requests;
	// run under -race to catch unsynchronized RNG access.
	const workers = 4
	var wg sync.WaitGroup
	var generated atomic.Int64
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := eng.ProcessAEI(context.Background(), aei.ID)
			if err != nil {
				errs <- err
				return
			}
			generated.Add(int64(n))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("ProcessAEI: %v", err)
	}

	items, err := db.ListInteractions(aei.ID, 10)
	if err != nil {
		t.Fatalf("ListInteractions: %v", err)
	}
	if int64(len(items)) != generated.Load() {
		t.Errorf("stored = %d, generated = %d", len(items), generated.Load())
	}
	if generated.Load() != workers {
		t.Errorf("generated = %d, want %d with chance 1.0", generated.Load(), workers)
	}
}

func TestProcessAEIChanceGate(t *testing.T) {
	eng, db, mock, _ := testEngine(t)
	aei := seedAEI(t, db, "Luna")
	if _, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID); err != nil {
		t.Fatalf("init: %v", err)
	}

	eng.SocialChance = 0.0
	n, err := eng.ProcessAEI(context.Background(), aei.ID)
	if err != nil {
		t.Fatalf("ProcessAEI: %v", err)
	}
	if n != 0 {
		t.Errorf("interactions = %d, want 0 with chance 0", n)
	}
	if len(mock.Calls()) != 0 {
		t.Errorf("llm calls = %d, want 0 when the gate skips", len(mock.Calls()))
	}
}

func TestProcessAEINoContacts(t *testing.T) {
	eng, db, _, _ := testEngine(t)
	aei := seedAEI(t, db, "Luna")

	n, err := eng.ProcessAEI(context.Background(), aei.ID)
	if err != nil {
		t.Fatalf("ProcessAEI: %v", err)
	}
	if n != 0 {
		t.Errorf("interactions = %d, want 0 without contacts", n)
	}
}

func TestProcessAEIUnknown(t *testing.T) {
	eng, _, _, _ := testEngine(t)

	_, err := eng.ProcessAEI(context.Background(), "no-such-aei")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessAllSocialPartialFailure(t *testing.T) {
	eng, db, mock, _ := testEngine(t)
	a := seedAEI(t, db, "Luna")
	b := seedAEI(t, db, "Nox")
	for _, aei := range []*store.AEI{a, b} {
		if _, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID); err != nil {
			t.Fatalf("init %s: %v", aei.Name, err)
		}
	}

	// Collaborator down: every companion fails, the batch does not.
	mock.Err = errors.New("text generation timeout")
	mock.Response = nil

	report, err := eng.ProcessAllSocial(context.Background())
	if err != nil {
		t.Fatalf("ProcessAllSocial: %v", err)
	}
	if len(report.Failures) != 2 {
		t.Errorf("failures = %d, want 2", len(report.Failures))
	}
	if report.Generated != 0 {
		t.Errorf("generated = %d, want 0", report.Generated)
	}
}

func TestProcessAllSocialAggregates(t *testing.T) {
	eng, db, _, _ := testEngine(t)
	a := seedAEI(t, db, "Luna")
	b := seedAEI(t, db, "Nox")
	for _, aei := range []*store.AEI{a, b} {
		if _, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID); err != nil {
			t.Fatalf("init %s: %v", aei.Name, err)
		}
	}

	report, err := eng.ProcessAllSocial(context.Background())
	if err != nil {
		t.Fatalf("ProcessAllSocial: %v", err)
	}
	if report.Processed != 2 {
		t.Errorf("processed = %d, want 2", report.Processed)
	}
	if report.Generated != 2 {
		t.Errorf("generated = %d, want 2 with chance 1.0", report.Generated)
	}
}

func TestCleanupInteractions(t *testing.T) {
	eng, db, _, _ := testEngine(t)
	aei := seedAEI(t, db, "Luna")
	if _, err := eng.InitializeSocialEnvironment(context.Background(), aei.ID); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := eng.ProcessAEI(context.Background(), aei.ID); err != nil {
		t.Fatalf("ProcessAEI: %v", err)
	}

	// Backdate the interaction beyond the retention window.
	backdate := time.Now().AddDate(0, 0, -(eng.RetentionDays + 10)).UnixMilli()
	if _, err := db.Exec(`UPDATE contact_interactions SET created_at = ?`, backdate); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	deleted, err := eng.CleanupInteractions(context.Background())
	if err != nil {
		t.Fatalf("CleanupInteractions: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestParseDialogResponseFenced(t *testing.T) {
	fenced := "```json\n" + dialogJSON + "\n```"
	p, err := parseDialogResponse(fenced)
	if err != nil {
		t.Fatalf("parseDialogResponse: %v", err)
	}
	if len(p.Turns) != 2 {
		t.Errorf("turns = %d, want 2", len(p.Turns))
	}

	if _, err := parseDialogResponse("not json at all"); err == nil {
		t.Error("expected error for junk content")
	}
	if _, err := parseDialogResponse(`{"turns":[]}`); err == nil {
		t.Error("expected error for empty turns")
	}
}
