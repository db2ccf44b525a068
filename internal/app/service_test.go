package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bizdev/api/internal/config"
	"bizdev/api/internal/identity"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/llm"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *llm.Mock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mock := &llm.Mock{}
	cfg := config.Config{JWTSecret: "test-secret", JWTIssuer: "bizdev-identity"}
	service := New(cfg, kvstore.NewRedisStoreWithClient(client), mock, zap.NewNop())
	return service, mock
}

func principal(userID string) identity.Principal {
	return identity.Principal{UserID: userID, Name: "Test User"}
}

func TestCreateJourneyAlwaysActive(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	journey, err := service.CreateJourney(ctx, principal("u1"), JourneyInput{
		BusinessName: "Acme Tacos",
		IsActive:     false,
	})
	if err != nil {
		t.Fatalf("CreateJourney: %v", err)
	}
	if !journey.IsActive {
		t.Fatalf("expected new journey to be active")
	}
	if journey.UserID != "u1" {
		t.Fatalf("expected owner u1, got %q", journey.UserID)
	}
	if !strings.HasPrefix(journey.ID, "jrn_") {
		t.Fatalf("unexpected journey id %q", journey.ID)
	}
	if journey.CreatedDate.IsZero() {
		t.Fatalf("expected created_date to be set")
	}
}

func TestListJourneysOwnerScopedNewestFirst(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		tick := base.Add(time.Duration(i) * time.Hour)
		service.now = func() time.Time { return tick }
		if _, err := service.CreateJourney(ctx, principal("u1"), JourneyInput{BusinessName: name}); err != nil {
			t.Fatalf("CreateJourney %s: %v", name, err)
		}
	}
	service.now = func() time.Time { return base.Add(30 * time.Minute) }
	if _, err := service.CreateJourney(ctx, principal("u2"), JourneyInput{BusinessName: "other"}); err != nil {
		t.Fatalf("CreateJourney other: %v", err)
	}

	journeys, err := service.ListJourneys(ctx, principal("u1"))
	if err != nil {
		t.Fatalf("ListJourneys: %v", err)
	}
	if len(journeys) != 3 {
		t.Fatalf("expected 3 journeys, got %d", len(journeys))
	}
	for _, journey := range journeys {
		if journey.UserID != "u1" {
			t.Fatalf("listing leaked journey owned by %q", journey.UserID)
		}
	}
	want := []string{"third", "second", "first"}
	for i, journey := range journeys {
		if journey.BusinessName != want[i] {
			t.Fatalf("position %d: expected %q, got %q", i, want[i], journey.BusinessName)
		}
	}
}

func TestGetJourneyOwnership(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	journey, err := service.CreateJourney(ctx, principal("u1"), JourneyInput{BusinessName: "Acme"})
	if err != nil {
		t.Fatalf("CreateJourney: %v", err)
	}

	if _, err := service.GetJourney(ctx, principal("u1"), journey.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	_, err = service.GetJourney(ctx, principal("u2"), journey.ID)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 403 {
		t.Fatalf("expected 403 for foreign reader, got %v", err)
	}

	_, err = service.GetJourney(ctx, principal("u1"), "jrn_missing")
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 for missing journey, got %v", err)
	}
}

func TestUpdateJourneyReplacesWritableFields(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return created }
	journey, err := service.CreateJourney(ctx, principal("u1"), JourneyInput{
		BusinessName: "Acme",
		Description:  "taco stand",
	})
	if err != nil {
		t.Fatalf("CreateJourney: %v", err)
	}

	updated, err := service.UpdateJourney(ctx, principal("u1"), journey.ID, JourneyInput{
		BusinessName: "Acme Holdings",
		IsActive:     false,
	})
	if err != nil {
		t.Fatalf("UpdateJourney: %v", err)
	}
	if updated.BusinessName != "Acme Holdings" {
		t.Fatalf("expected renamed journey, got %q", updated.BusinessName)
	}
	if updated.Description != "" {
		t.Fatalf("expected omitted field to be dropped, got %q", updated.Description)
	}
	if updated.IsActive {
		t.Fatalf("expected update to honor is_active=false")
	}
	if updated.ID != journey.ID || updated.UserID != "u1" {
		t.Fatalf("identity fields changed: %+v", updated)
	}
	if !updated.CreatedDate.Equal(created) {
		t.Fatalf("created_date changed on update")
	}
}

func TestDeleteJourney(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	journey, err := service.CreateJourney(ctx, principal("u1"), JourneyInput{BusinessName: "Acme"})
	if err != nil {
		t.Fatalf("CreateJourney: %v", err)
	}
	if err := service.DeleteJourney(ctx, principal("u1"), journey.ID); err != nil {
		t.Fatalf("DeleteJourney: %v", err)
	}

	var domainErr *DomainError
	_, err = service.GetJourney(ctx, principal("u1"), journey.ID)
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
	err = service.DeleteJourney(ctx, principal("u1"), journey.ID)
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 deleting twice, got %v", err)
	}
}

func TestUpsertStepCompletionStampsDateOnce(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return first }
	step, err := service.UpsertStepCompletion(ctx, principal("u1"), "jrn_1", "business-plan", true)
	if err != nil {
		t.Fatalf("UpsertStepCompletion: %v", err)
	}
	if !step.Completed {
		t.Fatalf("expected step completed")
	}
	if step.CompletedDate == nil || !step.CompletedDate.Equal(first) {
		t.Fatalf("expected completed_date %v, got %v", first, step.CompletedDate)
	}

	// Un-completing keeps the original stamp.
	step, err = service.UpsertStepCompletion(ctx, principal("u1"), "jrn_1", "business-plan", false)
	if err != nil {
		t.Fatalf("UpsertStepCompletion uncomplete: %v", err)
	}
	if step.Completed {
		t.Fatalf("expected step not completed")
	}
	if step.CompletedDate == nil || !step.CompletedDate.Equal(first) {
		t.Fatalf("expected original completed_date to survive, got %v", step.CompletedDate)
	}

	// Re-completing later stamps the new transition time.
	second := first.Add(48 * time.Hour)
	service.now = func() time.Time { return second }
	step, err = service.UpsertStepCompletion(ctx, principal("u1"), "jrn_1", "business-plan", true)
	if err != nil {
		t.Fatalf("UpsertStepCompletion recomplete: %v", err)
	}
	if step.CompletedDate == nil || !step.CompletedDate.Equal(second) {
		t.Fatalf("expected completed_date %v, got %v", second, step.CompletedDate)
	}

	steps, err := service.ListStepsByJourney(ctx, principal("u1"), "jrn_1")
	if err != nil {
		t.Fatalf("ListStepsByJourney: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("expected one record per (journey, step) pair, got %d", len(steps))
	}
}

func TestUpsertStepNotesCreatesIncomplete(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	step, err := service.UpsertStepNotes(ctx, principal("u1"), "jrn_1", "funding", "talk to the bank")
	if err != nil {
		t.Fatalf("UpsertStepNotes: %v", err)
	}
	if step.Completed {
		t.Fatalf("notes-only upsert must not complete the step")
	}
	if step.CompletedDate != nil {
		t.Fatalf("notes-only upsert must not stamp completed_date")
	}
	if step.Notes != "talk to the bank" {
		t.Fatalf("unexpected notes %q", step.Notes)
	}

	// Completing afterwards keeps the notes.
	step, err = service.UpsertStepCompletion(ctx, principal("u1"), "jrn_1", "funding", true)
	if err != nil {
		t.Fatalf("UpsertStepCompletion: %v", err)
	}
	if step.Notes != "talk to the bank" {
		t.Fatalf("completion wiped notes: %q", step.Notes)
	}
}

func TestUpdateStepByID(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	step, err := service.UpsertStepNotes(ctx, principal("u1"), "jrn_1", "insurance", "pending quotes")
	if err != nil {
		t.Fatalf("UpsertStepNotes: %v", err)
	}

	completed := true
	updated, err := service.UpdateStep(ctx, principal("u1"), step.ID, &completed, nil)
	if err != nil {
		t.Fatalf("UpdateStep: %v", err)
	}
	if !updated.Completed || updated.Notes != "pending quotes" {
		t.Fatalf("unexpected step after update: %+v", updated)
	}

	// Someone else's record reads as missing, not forbidden.
	var domainErr *DomainError
	_, err = service.UpdateStep(ctx, principal("u2"), step.ID, &completed, nil)
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 for foreign step, got %v", err)
	}
	_, err = service.UpdateStep(ctx, principal("u1"), "stp_missing", &completed, nil)
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 for missing step, got %v", err)
	}
}

func TestListStepsByJourneyScoping(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.UpsertStepNotes(ctx, principal("u1"), "jrn_1", "website", "a"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := service.UpsertStepNotes(ctx, principal("u1"), "jrn_2", "website", "b"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := service.UpsertStepNotes(ctx, principal("u2"), "jrn_1", "website", "c"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	steps, err := service.ListStepsByJourney(ctx, principal("u1"), "jrn_1")
	if err != nil {
		t.Fatalf("ListStepsByJourney: %v", err)
	}
	if len(steps) != 1 || steps[0].Notes != "a" {
		t.Fatalf("expected only u1's jrn_1 step, got %+v", steps)
	}
}

func TestConversationTitleDerivation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	long := strings.Repeat("x", 60)
	cases := []struct {
		name     string
		title    string
		messages []llm.Message
		want     string
	}{
		{
			name:     "explicit title wins",
			title:    "My Idea",
			messages: []llm.Message{{Role: llm.RoleUser, Content: "hello"}},
			want:     "My Idea",
		},
		{
			name:     "derived from first user message",
			messages: []llm.Message{{Role: llm.RoleAssistant, Content: "Hi!"}, {Role: llm.RoleUser, Content: "I want to open a bakery"}},
			want:     "I want to open a bakery",
		},
		{
			name:     "long message truncated",
			messages: []llm.Message{{Role: llm.RoleUser, Content: long}},
			want:     strings.Repeat("x", 50) + "...",
		},
		{
			name: "no user message falls back",
			want: "New Conversation",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conversation, err := service.CreateConversation(ctx, principal("u1"), tc.title, tc.messages)
			if err != nil {
				t.Fatalf("CreateConversation: %v", err)
			}
			if conversation.Title != tc.want {
				t.Fatalf("expected title %q, got %q", tc.want, conversation.Title)
			}
		})
	}
}

func TestUpdateConversationKeepsDerivedTitleStable(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	messages := []llm.Message{{Role: llm.RoleUser, Content: "I want to open a bakery"}}
	conversation, err := service.CreateConversation(ctx, principal("u1"), "", messages)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	later := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return later }
	grown := append(messages,
		llm.Message{Role: llm.RoleAssistant, Content: "What kind of bakery?"},
		llm.Message{Role: llm.RoleUser, Content: "Sourdough, mostly"},
	)
	updated, err := service.UpdateConversation(ctx, principal("u1"), conversation.ID, "", grown)
	if err != nil {
		t.Fatalf("UpdateConversation: %v", err)
	}
	if updated.Title != "I want to open a bakery" {
		t.Fatalf("derived title drifted to %q", updated.Title)
	}
	if len(updated.Messages) != 3 {
		t.Fatalf("expected transcript replaced wholesale, got %d messages", len(updated.Messages))
	}
	if !updated.LastUpdated.Equal(later) {
		t.Fatalf("expected last_updated refreshed, got %v", updated.LastUpdated)
	}
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		service.now = func() time.Time { return tick }
		conversation, err := service.CreateConversation(ctx, principal("u1"), "", []llm.Message{{Role: llm.RoleUser, Content: "topic"}})
		if err != nil {
			t.Fatalf("CreateConversation: %v", err)
		}
		ids = append(ids, conversation.ID)
	}

	// Touching the oldest moves it to the front.
	service.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := service.UpdateConversation(ctx, principal("u1"), ids[0], "", []llm.Message{{Role: llm.RoleUser, Content: "topic"}}); err != nil {
		t.Fatalf("UpdateConversation: %v", err)
	}

	conversations, err := service.ListConversations(ctx, principal("u1"))
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(conversations) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(conversations))
	}
	want := []string{ids[0], ids[2], ids[1]}
	for i, conversation := range conversations {
		if conversation.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], conversation.ID)
		}
	}
}

func TestDeleteConversationOwnership(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	conversation, err := service.CreateConversation(ctx, principal("u1"), "Plans", nil)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	var domainErr *DomainError
	err = service.DeleteConversation(ctx, principal("u2"), conversation.ID)
	if !errors.As(err, &domainErr) || domainErr.Status != 403 {
		t.Fatalf("expected 403 for foreign delete, got %v", err)
	}
	if err := service.DeleteConversation(ctx, principal("u1"), conversation.ID); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	err = service.DeleteConversation(ctx, principal("u1"), conversation.ID)
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 deleting twice, got %v", err)
	}
}

func TestConverseWrapsProviderFailure(t *testing.T) {
	service, mock := newTestService(t)
	ctx := context.Background()

	history := []llm.Message{{Role: llm.RoleUser, Content: "hello"}}
	text, err := service.Converse(ctx, history)
	if err != nil {
		t.Fatalf("Converse: %v", err)
	}
	if text == "" {
		t.Fatalf("expected a reply")
	}
	if len(mock.LastHistory) != 1 || mock.LastHistory[0].Content != "hello" {
		t.Fatalf("history not forwarded: %+v", mock.LastHistory)
	}

	mock.Err = errors.New("quota exceeded")
	_, err = service.Converse(ctx, history)
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 500 || domainErr.Code != "UPSTREAM_FAILURE" {
		t.Fatalf("expected wrapped upstream failure, got %v", err)
	}
}
