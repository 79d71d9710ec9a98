package engine

import (
	"context"
	"errors"
	"math/big"

	"market/common/types"
	"market/funds"
	"market/ledger"
	"market/log"
	"market/registry"
)

var (
	ErrWrongPayment    = errors.New("please submit the asking price in order to complete the purchase")
	ErrInsufficientFee = errors.New("value must equal the listing fee")
	ErrUnauthorized    = errors.New("caller does not own the asset or has not approved the marketplace")
)

// Engine executes the two state changing marketplace workflows, moving asset
// custody, payment and ledger state together. The ledger serializes the
// mutations, the engine owns the ordering: a purchase is committed to the
// ledger before custody release and seller credit run, so a failure after
// the commit leaves a recoverable state for Reconcile instead of a lost sale.
type Engine struct {
	ledger     *ledger.Ledger
	funds      *funds.Ledger
	registry   registry.AssetRegistry
	operator   types.Address //listing fee recipient
	listingFee *big.Int
}

func New(l *ledger.Ledger, f *funds.Ledger, r registry.AssetRegistry, operator types.Address, listingFee *big.Int) *Engine {
	return &Engine{
		ledger:     l,
		funds:      f,
		registry:   r,
		operator:   operator,
		listingFee: listingFee,
	}
}

// ListingFee the fixed fee charged when an item is listed (unit: wei)
func (e *Engine) ListingFee() *big.Int {
	return new(big.Int).Set(e.listingFee)
}

// List escrows the asset and creates the market item, returning its id.
// The seller must hold the asset and have approved the marketplace, and the
// paid fee must equal the listing fee exactly. A registry failure aborts
// before any ledger row exists.
func (e *Engine) List(ctx context.Context, seller, contract types.Address, tokenId string, price, feePaid *big.Int) (uint64, error) {
	if price == nil || price.Sign() <= 0 {
		return 0, ledger.ErrInvalidPrice
	}
	if feePaid == nil || feePaid.Cmp(e.listingFee) != 0 {
		return 0, ErrInsufficientFee
	}
	if id, ok := e.ledger.ActiveListing(contract, tokenId); ok {
		log.Debugf("asset %v %v is already listed as item %v", contract, tokenId, id)
		return 0, ledger.ErrDuplicateListing
	}

	owner, err := e.registry.OwnerOf(ctx, contract, tokenId)
	if err != nil {
		return 0, err
	}
	if owner != seller {
		return 0, ErrUnauthorized
	}
	approved, err := e.registry.IsApprovedForMarketplace(ctx, contract, seller, tokenId)
	if err != nil {
		return 0, err
	}
	if !approved {
		return 0, ErrUnauthorized
	}

	escrow := e.ledger.Escrow()
	if err = e.registry.TransferCustody(ctx, contract, tokenId, seller, escrow); err != nil {
		return 0, err
	}
	itemId, err := e.ledger.Append(contract, tokenId, seller, price)
	if err != nil {
		// the asset reached escrow without a row, the operator has to hand it back
		log.Errorf("asset %v %v escrowed but not listed: %v", contract, tokenId, err)
		return 0, err
	}
	e.funds.Credit(e.operator, feePaid)
	log.Infof("item %v listed: asset %v %v, seller %v, price %v wei", itemId, contract, tokenId, seller, price)
	return itemId, nil
}

// Buy settles the purchase of an item. The payment must equal the asking
// price exactly, under and overpayment are both rejected. The sale is
// committed by the ledger first, then custody moves to the buyer and the
// price is credited to the seller's withdrawable balance. A failure after
// the commit is surfaced but the sale stands, Reconcile replays the rest.
func (e *Engine) Buy(ctx context.Context, buyer types.Address, itemId uint64, amountPaid *big.Int) error {
	item, err := e.ledger.Get(itemId)
	if err != nil {
		return err
	}
	price, _ := new(big.Int).SetString(item.Price, 0)
	if amountPaid == nil || amountPaid.Cmp(price) != 0 {
		return ErrWrongPayment
	}
	if item.Sold {
		return ledger.ErrAlreadySold
	}

	// the single point of truth for the sold transition, a concurrent
	// purchase of the same item fails here with ErrAlreadySold
	if err = e.ledger.MarkSold(itemId, buyer); err != nil {
		return err
	}
	log.Infof("item %v sold to %v for %v wei", itemId, buyer, price)

	if err = e.registry.TransferCustody(ctx, item.AssetContract, item.TokenId, e.ledger.Escrow(), buyer); err != nil {
		log.Errorf("item %v sold but custody not released, left for reconciliation: %v", itemId, err)
		return err
	}
	if _, err = e.ledger.MarkReleased(itemId); err != nil {
		log.Errorf("item %v custody released but not recorded: %v", itemId, err)
		return err
	}

	// the flag decides who credits, a concurrent reconcile pass must not
	// pay the seller a second time
	won, err := e.ledger.MarkCredited(itemId)
	if err != nil {
		log.Errorf("item %v sold but seller credit not recorded, left for reconciliation: %v", itemId, err)
		return err
	}
	if won {
		e.funds.Credit(item.Seller, price)
	}
	return nil
}

// Reconcile replays the unfinished half of committed sales: custody release
// and seller credit. Safe to run repeatedly and concurrently with purchases,
// a sale is never validated against payment again once committed. Custody
// release checks the registry first so a transfer that landed before a crash
// is not repeated, and the credit only happens for the caller that wins the
// credited flag, a purchase finishing mid-pass keeps the seller paid once.
func (e *Engine) Reconcile(ctx context.Context) {
	for _, stale := range e.ledger.UnsettledItems() {
		// the snapshot ages while earlier items settle, work off current flags
		item, err := e.ledger.Get(stale.ItemId)
		if err != nil {
			continue
		}
		if !item.Released {
			owner, err := e.registry.OwnerOf(ctx, item.AssetContract, item.TokenId)
			if err != nil {
				log.Warnf("reconcile item %v: %v", item.ItemId, err)
				continue
			}
			if owner != item.Owner {
				err = e.registry.TransferCustody(ctx, item.AssetContract, item.TokenId, e.ledger.Escrow(), item.Owner)
				if err != nil {
					log.Warnf("reconcile item %v: %v", item.ItemId, err)
					continue
				}
			}
			won, err := e.ledger.MarkReleased(item.ItemId)
			if err != nil {
				log.Warnf("reconcile item %v: %v", item.ItemId, err)
				continue
			}
			if won {
				log.Infof("reconcile item %v: custody released to %v", item.ItemId, item.Owner)
			}
		}
		if !item.Credited {
			won, err := e.ledger.MarkCredited(item.ItemId)
			if err != nil {
				log.Warnf("reconcile item %v: %v", item.ItemId, err)
				continue
			}
			if won {
				price, _ := new(big.Int).SetString(item.Price, 0)
				e.funds.Credit(item.Seller, price)
				log.Infof("reconcile item %v: seller %v credited %v wei", item.ItemId, item.Seller, price)
			}
		}
	}
}
