package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"partshop-bot/internal/locale"
	"partshop-bot/pkg/api"
	"partshop-bot/pkg/redis"
)

// Conversation states. The empty state means the session was never
// initialized (or was cleared) and the next contact re-runs login/register.
const (
	StateNone             = ""
	StateRegisterLanguage = "register_language"
	StateRegisterPhone    = "register_phone"
	StateMainMenu         = "menu_main"
	StateCatalog          = "catalog"
	StateAmount           = "amount"
	StateCart             = "cart"
	StateSettingsLanguage = "settings_language"
	StateComment          = "comment"
)

// CartLine is one product pending order submission.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    float64 `json:"quantity"`
}

func (l CartLine) Total() float64 {
	return l.UnitPrice * l.Quantity
}

// Session is the per-conversation state bag. One Redis value per chat,
// serialized as JSON.
type Session struct {
	State           string                     `json:"state"`
	Language        string                     `json:"language"`
	Token           string                     `json:"token"`
	Cart            []CartLine                 `json:"cart"`
	GroupsStack     []string                   `json:"groups_stack"`
	CurrentParentID string                     `json:"current_parent_id"`
	CurrentPage     int                        `json:"current_page"`
	NameMap         map[string]api.CatalogItem `json:"item_name_map"`
	SelectedProduct *api.Product               `json:"selected_product,omitempty"`
}

// Lang returns the session language, defaulting to Russian.
func (s *Session) Lang() string {
	if s.Language == "" {
		return locale.LangDefault
	}
	return s.Language
}

// CartTotal is the sum of line totals, the same arithmetic the order
// payload uses.
func (s *Session) CartTotal() float64 {
	var total float64
	for _, line := range s.Cart {
		total += line.Total()
	}
	return total
}

// PopGroup removes the current level from the navigation stack and returns
// the parent to render; empty means root.
func (s *Session) PopGroup() string {
	if len(s.GroupsStack) == 0 {
		return ""
	}
	s.GroupsStack = s.GroupsStack[:len(s.GroupsStack)-1]
	if len(s.GroupsStack) == 0 {
		return ""
	}
	return s.GroupsStack[len(s.GroupsStack)-1]
}

// ResetNavigation drops the browsing position back to the catalog root.
// The cart survives; only navigation state is reset.
func (s *Session) ResetNavigation() {
	s.GroupsStack = nil
	s.CurrentParentID = ""
	s.CurrentPage = 0
	s.NameMap = nil
}

// SessionStore keeps sessions in Redis with a TTL refreshed on every save.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get loads the chat's session. A missing key yields a fresh zero session.
func (s *SessionStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(chatID))
	if err != nil {
		if redis.IsNotFound(err) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, chatID int64, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(chatID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.Del(ctx, sessionKey(chatID)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
