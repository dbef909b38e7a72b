// Package session holds the client's current-user state: at most one
// active session, written on login/register and cleared on logout.
// Views take the cache as an explicit dependency instead of re-reading
// ambient storage.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Alexaslastina/makeadate/client/storage"
	"github.com/Alexaslastina/makeadate/internal/domain"
)

const sessionKey = "makeadate_session"

type Session struct {
	User        *domain.UserInfo `json:"user"`
	AccessToken string           `json:"access_token"`
}

// Cache is the single session holder. Mutations notify subscribers so
// dependent views resynchronize without polling.
type Cache struct {
	store storage.Store

	mu      sync.Mutex
	current *Session
	loaded  bool
	subs    []func(*domain.UserInfo)
}

func NewCache(store storage.Store) *Cache {
	return &Cache{store: store}
}

func (c *Cache) load() *Session {
	if c.loaded {
		return c.current
	}
	c.loaded = true

	data, err := c.store.Get(sessionKey)
	if err != nil || data == nil {
		return nil
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.User == nil {
		// A corrupt session is treated as logged out.
		return nil
	}

	c.current = &s
	return c.current
}

// Current returns the logged-in user, or nil.
func (c *Cache) Current() *domain.UserInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.load(); s != nil {
		return s.User
	}
	return nil
}

// Token returns the stored access token, or "".
func (c *Cache) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.load(); s != nil {
		return s.AccessToken
	}
	return ""
}

func (c *Cache) IsLoggedIn() bool {
	return c.Current() != nil
}

// IsAdmin gates the admin UI. The server re-checks the role on every
// privileged call; this is presentation-level only.
func (c *Cache) IsAdmin() bool {
	user := c.Current()
	return user != nil && user.Role == domain.RoleAdmin
}

func (c *Cache) Save(user *domain.UserInfo, accessToken string) error {
	if user == nil {
		return fmt.Errorf("cannot save session without a user")
	}

	c.mu.Lock()
	s := &Session{User: user, AccessToken: accessToken}
	data, err := json.Marshal(s)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := c.store.Set(sessionKey, data); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	c.current = s
	c.loaded = true
	subs := append([]func(*domain.UserInfo){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
	return nil
}

func (c *Cache) Clear() error {
	c.mu.Lock()
	if err := c.store.Delete(sessionKey); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to clear session: %w", err)
	}
	c.current = nil
	c.loaded = true
	subs := append([]func(*domain.UserInfo){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
	return nil
}

// Subscribe registers fn to run on every login/logout with the new
// user (nil on logout).
func (c *Cache) Subscribe(fn func(user *domain.UserInfo)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}
