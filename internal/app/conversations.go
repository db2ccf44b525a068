package app

import (
	"context"
	"sort"

	"bizdev/api/internal/identity"
	"bizdev/api/internal/kvstore"
	"bizdev/api/internal/llm"
	"bizdev/api/internal/util"
)

// CreateConversation persists a new transcript. When the caller supplies
// no title, one is derived from the first user message.
func (s *Service) CreateConversation(ctx context.Context, principal identity.Principal, title string, messages []llm.Message) (Conversation, error) {
	if blank(title) {
		title = deriveTitle(messages)
	}
	conversation := Conversation{
		ID:          util.NewID("cnv"),
		UserID:      principal.UserID,
		Title:       title,
		Messages:    messages,
		LastUpdated: s.now(),
	}
	if err := s.putRecord(ctx, kvstore.CollectionConversations, conversation.ID, conversation); err != nil {
		return Conversation{}, err
	}
	return conversation, nil
}

// ListConversations returns the caller's transcripts, most recent first.
func (s *Service) ListConversations(ctx context.Context, principal identity.Principal) ([]Conversation, error) {
	all, err := listRecords[Conversation](ctx, s, kvstore.CollectionConversations)
	if err != nil {
		return nil, err
	}
	conversations := make([]Conversation, 0, len(all))
	for _, conversation := range all {
		if conversation.UserID == principal.UserID {
			conversations = append(conversations, conversation)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastUpdated.After(conversations[j].LastUpdated)
	})
	return conversations, nil
}

func (s *Service) GetConversation(ctx context.Context, principal identity.Principal, id string) (Conversation, error) {
	var conversation Conversation
	if err := s.getRecord(ctx, kvstore.CollectionConversations, id, &conversation, "Conversation not found"); err != nil {
		return Conversation{}, err
	}
	if conversation.UserID != principal.UserID {
		return Conversation{}, forbidden()
	}
	return conversation, nil
}

// UpdateConversation replaces title and messages wholesale and refreshes
// last_updated. Concurrent updates race; the later write wins. A blank
// title re-derives from the first user message, which never changes, so
// the stored title stays stable as the transcript grows.
func (s *Service) UpdateConversation(ctx context.Context, principal identity.Principal, id, title string, messages []llm.Message) (Conversation, error) {
	conversation, err := s.GetConversation(ctx, principal, id)
	if err != nil {
		return Conversation{}, err
	}
	if blank(title) {
		title = deriveTitle(messages)
	}
	conversation.Title = title
	conversation.Messages = messages
	conversation.LastUpdated = s.now()
	if err := s.putRecord(ctx, kvstore.CollectionConversations, conversation.ID, conversation); err != nil {
		return Conversation{}, err
	}
	return conversation, nil
}

func (s *Service) DeleteConversation(ctx context.Context, principal identity.Principal, id string) error {
	if _, err := s.GetConversation(ctx, principal, id); err != nil {
		return err
	}
	existed, err := s.records.Delete(ctx, kvstore.CollectionConversations, id)
	if err != nil {
		return err
	}
	if !existed {
		return notFound("Conversation not found")
	}
	return nil
}
