package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/pkg/logservice"
)

// searchTurns is how many leading chat turns Browse searches.
const searchTurns = 5

type Service interface {
	// Browse lists conversations whose user details or opening chat turns
	// contain query, case-insensitively. An empty query matches all.
	Browse(ctx context.Context, query string) ([]logservice.Conversation, error)
	Get(ctx context.Context, id string) (*logservice.Conversation, error)
	// Candidates lists anonymous conversations, the only ones a new
	// patient may be linked to.
	Candidates(ctx context.Context) ([]logservice.Conversation, error)
}

type conversationService struct {
	api logservice.API
}

func New(api logservice.API) Service {
	return &conversationService{api: api}
}

func (s *conversationService) Browse(ctx context.Context, query string) ([]logservice.Conversation, error) {
	convs, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if query == "" {
		return convs, nil
	}

	q := strings.ToLower(query)
	return lo.Filter(convs, func(c logservice.Conversation, _ int) bool {
		return strings.Contains(searchText(c), q)
	}), nil
}

func (s *conversationService) Get(ctx context.Context, id string) (*logservice.Conversation, error) {
	conv, err := s.api.Get(ctx, id)
	if err != nil {
		if errors.Is(err, logservice.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (s *conversationService) Candidates(ctx context.Context) ([]logservice.Conversation, error) {
	convs, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return lo.Reject(convs, func(c logservice.Conversation, _ int) bool { return c.HasName() }), nil
}

func searchText(c logservice.Conversation) string {
	parts := make([]string, 0, 3+searchTurns)
	if c.UserInfo != nil {
		parts = append(parts, c.UserInfo.Name, c.UserInfo.Email, c.UserInfo.PhoneNumber)
	}
	for _, turn := range lo.Slice(c.Chat, 0, searchTurns) {
		parts = append(parts, turn.Text())
	}
	return strings.ToLower(strings.Join(parts, " "))
}
