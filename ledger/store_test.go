package ledger

import (
	"sync"

	"market/model"
)

// memStore in-memory Store for tests, keeps rows by item id
type memStore struct {
	mu    sync.Mutex
	items map[uint64]model.MarketItem
}

func (s *memStore) SaveItem(item *model.MarketItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[uint64]model.MarketItem)
	}
	s.items[item.ItemId] = *item
	return nil
}

func (s *memStore) LoadItems() ([]*model.MarketItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*model.MarketItem, 0, len(s.items))
	for id := uint64(1); ; id++ {
		item, ok := s.items[id]
		if !ok {
			return items, nil
		}
		items = append(items, &item)
	}
}
