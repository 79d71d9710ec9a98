package registry

import (
	"context"

	"market/common/types"
)

// AssetRegistry the capability surface of the asset contracts the
// marketplace settles against. Transfers fail when from does not currently
// hold the asset, the contract guarantees it.
type AssetRegistry interface {
	// OwnerOf the current holder of the asset
	OwnerOf(ctx context.Context, contract types.Address, tokenId string) (types.Address, error)
	// IsApprovedForMarketplace whether the marketplace may move the owner's asset
	IsApprovedForMarketplace(ctx context.Context, contract, owner types.Address, tokenId string) (bool, error)
	// TransferCustody moves the asset between holders
	TransferCustody(ctx context.Context, contract types.Address, tokenId string, from, to types.Address) error
}

// CallError an asset registry call that was unreachable or rejected
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return "asset registry " + e.Op + ": " + e.Err.Error()
}

func (e *CallError) Unwrap() error {
	return e.Err
}
