// Package favorites is the device-scoped saved-dates store. It is not
// synchronized to the server; the catalog ids are stable so the same
// item saved on two devices stays two independent lists.
package favorites

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Alexaslastina/makeadate/client/storage"
	"github.com/Alexaslastina/makeadate/internal/domain"
)

const favoritesKey = "makeadate_favorites"

type Store struct {
	store storage.Store

	mu   sync.Mutex
	subs []func(items []domain.FavoriteItem)
}

func NewStore(store storage.Store) *Store {
	return &Store{store: store}
}

func (s *Store) load() []domain.FavoriteItem {
	data, err := s.store.Get(favoritesKey)
	if err != nil || data == nil {
		return nil
	}

	var items []domain.FavoriteItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func (s *Store) save(items []domain.FavoriteItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	return s.store.Set(favoritesKey, data)
}

func (s *Store) notify(items []domain.FavoriteItem) {
	for _, fn := range s.subs {
		fn(items)
	}
}

// List returns the saved items in insertion order.
func (s *Store) List() []domain.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add saves an item. Adding an already-saved id is a no-op.
func (s *Store) Add(item domain.FavoriteItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(item)
}

// add requires s.mu to be held.
func (s *Store) add(item domain.FavoriteItem) error {
	items := s.load()
	for _, existing := range items {
		if existing.ID == item.ID {
			return nil
		}
	}

	items = append(items, item)
	if err := s.save(items); err != nil {
		return err
	}
	s.notify(items)
	return nil
}

// Remove drops an item by id. Removing an absent id is a no-op.
func (s *Store) Remove(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(itemID)
}

// remove requires s.mu to be held.
func (s *Store) remove(itemID string) error {
	items := s.load()
	kept := items[:0]
	for _, existing := range items {
		if existing.ID != itemID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	if err := s.save(kept); err != nil {
		return err
	}
	s.notify(kept)
	return nil
}

// Contains reports whether the id is saved.
func (s *Store) Contains(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.load() {
		if existing.ID == itemID {
			return true
		}
	}
	return false
}

// Toggle flips membership and returns the resulting state: true when
// the item was added, false when it was removed. The check and the
// mutation happen under one lock, so concurrent toggles serialize.
func (s *Store) Toggle(item domain.FavoriteItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.load() {
		if existing.ID == item.ID {
			return false, s.remove(item.ID)
		}
	}
	return true, s.add(item)
}

// Clear wipes the whole list, e.g. after a favorites checkout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(favoritesKey); err != nil {
		return err
	}
	s.notify(nil)
	return nil
}

// Count feeds the header badge.
func (s *Store) Count() int {
	return len(s.List())
}

// Subscribe registers fn to run with the new list after every mutation.
func (s *Store) Subscribe(fn func(items []domain.FavoriteItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
