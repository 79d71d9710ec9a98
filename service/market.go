package service

import (
	"market/common/types"
	"market/engine"
	"market/funds"
	"market/ledger"
	"market/model"
)

// ErrRes interface error message returned
type ErrRes struct {
	ErrStr string `json:"err_str"` //Error message
}

// shared instances, wired once at startup
var (
	Market *engine.Engine
	Items  *ledger.Ledger
	Funds  *funds.Ledger
)

func Init(e *engine.Engine, l *ledger.Ledger, f *funds.Ledger) {
	Market, Items, Funds = e, l, f
}

// MarketItemsRes market item paging return parameters
type MarketItemsRes struct {
	Total int64              `json:"total"` //The total number of matching items
	Items []model.MarketItem `json:"items"` //Market item list
}

// FetchMarketItems the currently unsold items, in creation order
func FetchMarketItems(page, size int) MarketItemsRes {
	return paged(Items.UnsoldItems(), page, size)
}

// FetchItemsCreated every item the seller listed, sold or not, in creation order
func FetchItemsCreated(seller types.Address, page, size int) MarketItemsRes {
	return paged(Items.ItemsBySeller(seller), page, size)
}

// FetchMyNFTs the items the owner bought, in creation order
func FetchMyNFTs(owner types.Address, page, size int) MarketItemsRes {
	return paged(Items.ItemsByOwner(owner), page, size)
}

// GetMarketItem a single item by id, sold or not
func GetMarketItem(itemId uint64) (model.MarketItem, error) {
	return Items.Get(itemId)
}

// ListingFee the fee charged at listing time (unit: wei)
func ListingFee() string {
	return Market.ListingFee().Text(10)
}

// BalanceOf the withdrawable balance of an account (unit: wei)
func BalanceOf(addr types.Address) string {
	return Funds.BalanceOf(addr).Text(10)
}

// Withdraw zeroes and returns the account's withdrawable balance (unit: wei)
func Withdraw(addr types.Address) string {
	return Funds.Withdraw(addr).Text(10)
}

func paged(items []model.MarketItem, page, size int) (res MarketItemsRes) {
	res.Total = int64(len(items))
	start := (page - 1) * size
	if start >= len(items) {
		res.Items = []model.MarketItem{}
		return
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	res.Items = items[start:end]
	return
}
