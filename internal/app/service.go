package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizdev/api/internal/config"
	"bizdev/api/internal/identity"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/llm"

	"go.uber.org/zap"
)

// Journey is one tracked business-onboarding effort, owned by one user.
type Journey struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	BusinessName        string    `json:"business_name"`
	Description         string    `json:"description"`
	BusinessStatus      string    `json:"business_status"`
	BusinessExplanation string    `json:"business_explanation"`
	IsActive            bool      `json:"is_active"`
	CreatedDate         time.Time `json:"created_date"`
}

// Step is a user's completion/notes record against one checklist entry.
// CompletedDate stays nil until the first false->true transition and is
// preserved afterwards.
type Step struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	JourneyID     string     `json:"journey_id"`
	StepID        string     `json:"step_id"`
	Completed     bool       `json:"completed"`
	Notes         string     `json:"notes"`
	CompletedDate *time.Time `json:"completed_date"`
}

// Conversation is a persisted idea-chat transcript.
type Conversation struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Title       string        `json:"title"`
	Messages    []llm.Message `json:"messages"`
	LastUpdated time.Time     `json:"last_updated"`
}

// JourneyInput carries the client-writable journey fields. Updates replace
// exactly this field set; anything not supplied is dropped.
type JourneyInput struct {
	BusinessName        string `json:"business_name"`
	Description         string `json:"description"`
	BusinessStatus      string `json:"business_status"`
	BusinessExplanation string `json:"business_explanation"`
	IsActive            bool   `json:"is_active"`
}

type Service struct {
	cfg      config.Config
	records  kvstore.Store
	chat     llm.Client
	verifier *identity.Verifier
	logger   *zap.Logger
	now      func() time.Time
}

func New(cfg config.Config, records kvstore.Store, chat llm.Client, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		records:  records,
		chat:     chat,
		verifier: identity.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer),
		logger:   logger,
		now:      time.Now,
	}
}

// PrincipalFromToken resolves the calling user from a bearer token.
func (s *Service) PrincipalFromToken(token string) (identity.Principal, error) {
	return s.verifier.Verify(token)
}

// Ping reports record store reachability.
func (s *Service) Ping(ctx context.Context) error {
	return s.records.Ping(ctx)
}

// putRecord serializes and writes one record.
func (s *Service) putRecord(ctx context.Context, collection, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", collection, err)
	}
	if err := s.records.Put(ctx, collection, id, data); err != nil {
		return err
	}
	return nil
}

// getRecord loads and parses one record into target. Absence becomes a
// NotFound domain error with the given message.
func (s *Service) getRecord(ctx context.Context, collection, id string, target any, missing string) error {
	data, err := s.records.Get(ctx, collection, id)
	if errors.Is(err, kvstore.ErrNotFound) {
		return notFound(missing)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s record %s: %w", collection, id, err)
	}
	return nil
}

// listRecords loads every record in a collection, skipping nothing; a
// record that fails to parse fails the whole listing.
func listRecords[T any](ctx context.Context, s *Service, collection string) ([]T, error) {
	data, err := s.records.ListAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(data))
	for _, raw := range data {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("parse %s record: %w", collection, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// deriveTitle names a conversation after its first user message, truncated
// to 50 characters. The first user message never changes, so the derived
// title is stable across saves.
func deriveTitle(messages []llm.Message) string {
	for _, message := range messages {
		if message.Role != llm.RoleUser {
			continue
		}
		runes := []rune(message.Content)
		if len(runes) > 50 {
			return string(runes[:50]) + "..."
		}
		return message.Content
	}
	return "New Conversation"
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
