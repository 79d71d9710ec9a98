package ledger

import (
	"errors"
	"math/big"
	"strconv"
	"sync"
	"time"

	"market/common/types"
	"market/model"
)

var (
	ErrNotFound         = errors.New("no market item with that id")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrAlreadySold      = errors.New("market item already sold")
	ErrDuplicateListing = errors.New("asset is already listed and unsold")
)

// Store persists accepted ledger mutations and restores them at startup.
// A mutation is only visible to readers after the store accepted it.
type Store interface {
	SaveItem(item *model.MarketItem) error
	LoadItems() ([]*model.MarketItem, error)
}

type assetKey struct {
	contract types.Address
	tokenId  string
}

// Ledger the authoritative store of market items and the sole mutator of
// their state. All mutations are serialized by a single lock, readers never
// observe a half applied {owner, sold} pair. Item ids are assigned in
// creation order starting at 1 and are never reused, rows are never deleted.
type Ledger struct {
	mu     sync.RWMutex
	store  Store
	escrow types.Address
	items  []*model.MarketItem //insertion order, items[i].ItemId == i+1
	active map[assetKey]uint64 //the unsold listing per asset, at most one
}

// New creates the ledger, reloading every previously accepted row from the
// store. A nil store keeps the ledger purely in memory.
func New(escrow types.Address, store Store) (*Ledger, error) {
	l := &Ledger{
		store:  store,
		escrow: escrow,
		active: make(map[assetKey]uint64),
	}
	if store == nil {
		return l, nil
	}
	items, err := store.LoadItems()
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if item.ItemId != uint64(i+1) {
			return nil, errors.New("ledger store is missing item " + strconv.Itoa(i+1))
		}
		if price, ok := new(big.Int).SetString(item.Price, 0); !ok || price.Sign() <= 0 {
			return nil, errors.New("ledger store has a bad price for item " + strconv.Itoa(i+1))
		}
		l.items = append(l.items, item)
		if !item.Sold {
			l.active[assetKey{item.AssetContract, item.TokenId}] = item.ItemId
		}
	}
	return l, nil
}

// Escrow the marketplace custody address recorded as owner of unsold items
func (l *Ledger) Escrow() types.Address {
	return l.escrow
}

// Append creates an unsold market item owned by the escrow address and
// returns its id. The price must be greater than zero and the asset must not
// already have an unsold listing.
func (l *Ledger) Append(contract types.Address, tokenId string, seller types.Address, price *big.Int) (uint64, error) {
	if price == nil || price.Sign() <= 0 {
		return 0, ErrInvalidPrice
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := assetKey{contract, tokenId}
	if _, ok := l.active[key]; ok {
		return 0, ErrDuplicateListing
	}
	item := &model.MarketItem{
		ItemId:        uint64(len(l.items) + 1),
		AssetContract: contract,
		TokenId:       tokenId,
		Seller:        seller,
		Owner:         l.escrow,
		Price:         price.Text(10),
		Timestamp:     uint64(time.Now().Unix()),
	}
	if l.store != nil {
		if err := l.store.SaveItem(item); err != nil {
			return 0, err
		}
	}
	l.items = append(l.items, item)
	l.active[key] = item.ItemId
	return item.ItemId, nil
}

// Get returns the item by id, ErrNotFound if the id was never issued
func (l *Ledger) Get(itemId uint64) (model.MarketItem, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, err := l.at(itemId)
	if err != nil {
		return model.MarketItem{}, err
	}
	return *item, nil
}

// ActiveListing returns the id of the unsold listing for the asset, if any
func (l *Ledger) ActiveListing(contract types.Address, tokenId string) (uint64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.active[assetKey{contract, tokenId}]
	return id, ok
}

// MarkSold reassigns the item to the buyer and flips sold in one commit.
// The transition is terminal, a second call fails with ErrAlreadySold no
// matter how the calls are ordered.
func (l *Ledger) MarkSold(itemId uint64, buyer types.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := l.at(itemId)
	if err != nil {
		return err
	}
	if item.Sold {
		return ErrAlreadySold
	}
	updated := *item
	updated.Owner = buyer
	updated.Sold = true
	if l.store != nil {
		if err := l.store.SaveItem(&updated); err != nil {
			return err
		}
	}
	item.Owner = buyer
	item.Sold = true
	delete(l.active, assetKey{item.AssetContract, item.TokenId})
	return nil
}

// MarkReleased records that asset custody reached the buyer. Reports true
// only for the call that performed the transition, later calls are no-ops.
func (l *Ledger) MarkReleased(itemId uint64) (bool, error) {
	return l.flag(itemId, func(item *model.MarketItem) *bool { return &item.Released })
}

// MarkCredited records that the sale price was credited to the seller.
// Reports true only for the call that performed the transition, the caller
// that wins the flag is the one that applies the credit.
func (l *Ledger) MarkCredited(itemId uint64) (bool, error) {
	return l.flag(itemId, func(item *model.MarketItem) *bool { return &item.Credited })
}

func (l *Ledger) flag(itemId uint64, field func(*model.MarketItem) *bool) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := l.at(itemId)
	if err != nil {
		return false, err
	}
	if !item.Sold {
		return false, ErrNotFound
	}
	if *field(item) {
		return false, nil
	}
	updated := *item
	*field(&updated) = true
	if l.store != nil {
		if err := l.store.SaveItem(&updated); err != nil {
			return false, err
		}
	}
	*field(item) = true
	return true, nil
}

// at looks up by id, the caller holds at least the read lock
func (l *Ledger) at(itemId uint64) (*model.MarketItem, error) {
	if itemId == 0 || itemId > uint64(len(l.items)) {
		return nil, ErrNotFound
	}
	return l.items[itemId-1], nil
}

// AllItems every item ever listed, in creation order
func (l *Ledger) AllItems() []model.MarketItem {
	return l.filter(func(item *model.MarketItem) bool { return true })
}

// UnsoldItems the currently listed items, in creation order
func (l *Ledger) UnsoldItems() []model.MarketItem {
	return l.filter(func(item *model.MarketItem) bool { return !item.Sold })
}

// ItemsBySeller every item created by the seller, sold or not, in creation order
func (l *Ledger) ItemsBySeller(seller types.Address) []model.MarketItem {
	return l.filter(func(item *model.MarketItem) bool { return item.Seller == seller })
}

// ItemsByOwner the sold items bought by the owner, in creation order. An
// unsold item belongs to the escrow, not to any market participant.
func (l *Ledger) ItemsByOwner(owner types.Address) []model.MarketItem {
	return l.filter(func(item *model.MarketItem) bool { return item.Sold && item.Owner == owner })
}

// UnsettledItems the sold items whose custody release or seller credit has
// not completed yet, the reconciliation work list
func (l *Ledger) UnsettledItems() []model.MarketItem {
	return l.filter(func(item *model.MarketItem) bool { return item.Sold && !(item.Released && item.Credited) })
}

func (l *Ledger) filter(keep func(*model.MarketItem) bool) []model.MarketItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	items := make([]model.MarketItem, 0, len(l.items))
	for _, item := range l.items {
		if keep(item) {
			items = append(items, *item)
		}
	}
	return items
}
