package model

import "market/common/types"

// MarketItem sale listing information, one row per listing, never deleted
type MarketItem struct {
	ItemId        uint64        `json:"item_id" gorm:"primaryKey;autoIncrement:false"` //listing id, assigned in creation order, never reused
	AssetContract types.Address `json:"asset_contract" gorm:"type:CHAR(42);index"`     //asset collection contract address
	TokenId       string        `json:"token_id" gorm:"type:VARCHAR(80)"`              //asset id inside the collection, decimal string
	Seller        types.Address `json:"seller" gorm:"type:CHAR(42);index"`             //address that created the listing
	Owner         types.Address `json:"owner" gorm:"type:CHAR(42);index"`              //escrow address while unsold, buyer after the sale
	Price         string        `json:"price"`                                         //asking price, fixed at creation (unit: wei)
	Sold          bool          `json:"sold"`                                          //set exactly once on successful purchase, terminal
	Released      bool          `json:"released"`                                      //asset custody handed over to the buyer
	Credited      bool          `json:"credited"`                                      //sale price credited to the seller balance
	Timestamp     uint64        `json:"timestamp"`                                     //listing creation time
}

// Balance withdrawable funds per account, credited by settlement and pulled by the owner
type Balance struct {
	Address types.Address `json:"address" gorm:"type:CHAR(42);primaryKey"` //account address
	Amount  string        `json:"amount"`                                  //withdrawable amount (unit: wei)
}
