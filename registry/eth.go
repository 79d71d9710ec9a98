package registry

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"market/common/types"
	"market/node"
)

// ERC-721 function selectors
const (
	ownerOfHash          = "0x6352211e"
	getApprovedHash      = "0x081812fc"
	isApprovedForAllHash = "0xe985e9c5"
	transferFromHash     = "0x23b872dd"
)

// transferGasLimit fallback when the node refuses to estimate
const transferGasLimit = 300000

type callParam struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Data string `json:"data"`
}

type receipt struct {
	Status string `json:"status"`
}

// EthRegistry talks to the NFT contracts over JSON-RPC. Views are eth_call
// with hand packed calldata, custody transfers are transferFrom transactions
// signed with the escrow key. Every call is bounded by the configured timeout.
type EthRegistry struct {
	client  *node.Client
	signer  ethtypes.EIP155Signer
	prv     *ecdsa.PrivateKey
	escrow  common.Address
	timeout time.Duration
}

func NewEthRegistry(chainUrl string, chainId int64, prv *ecdsa.PrivateKey, timeout time.Duration) (*EthRegistry, error) {
	client, err := node.Dial(chainUrl)
	if err != nil {
		return nil, err
	}
	return &EthRegistry{
		client:  client,
		signer:  ethtypes.NewEIP155Signer(big.NewInt(chainId)),
		prv:     prv,
		escrow:  crypto.PubkeyToAddress(prv.PublicKey),
		timeout: timeout,
	}, nil
}

// Escrow the marketplace custody address, derived from the signing key
func (r *EthRegistry) Escrow() types.Address {
	return types.ToAddress(r.escrow.Hex())
}

func (r *EthRegistry) OwnerOf(ctx context.Context, contract types.Address, tokenId string) (types.Address, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	payload, err := pack(ownerOfHash, tokenId)
	if err != nil {
		return "", &CallError{"ownerOf", err}
	}
	var ret string
	err = r.client.CallContext(ctx, &ret, "eth_call", callParam{To: string(contract), Data: payload}, "latest")
	if err != nil {
		return "", &CallError{"ownerOf", err}
	}
	owner, err := unpackAddress(ret)
	if err != nil {
		return "", &CallError{"ownerOf", err}
	}
	return owner, nil
}

func (r *EthRegistry) IsApprovedForMarketplace(ctx context.Context, contract, owner types.Address, tokenId string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	// single token approval first, then the blanket operator approval
	payload, err := pack(getApprovedHash, tokenId)
	if err != nil {
		return false, &CallError{"getApproved", err}
	}
	var ret string
	err = r.client.CallContext(ctx, &ret, "eth_call", callParam{To: string(contract), Data: payload}, "latest")
	if err != nil {
		return false, &CallError{"getApproved", err}
	}
	approved, err := unpackAddress(ret)
	if err != nil {
		return false, &CallError{"getApproved", err}
	}
	if approved == r.Escrow() {
		return true, nil
	}

	payload, err = pack(isApprovedForAllHash, string(owner), r.escrow.Hex())
	if err != nil {
		return false, &CallError{"isApprovedForAll", err}
	}
	err = r.client.CallContext(ctx, &ret, "eth_call", callParam{To: string(contract), Data: payload}, "latest")
	if err != nil {
		return false, &CallError{"isApprovedForAll", err}
	}
	var flag big.Int
	flag.SetString(ret, 0)
	return flag.Uint64() == 1, nil
}

func (r *EthRegistry) TransferCustody(ctx context.Context, contract types.Address, tokenId string, from, to types.Address) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	payload, err := pack(transferFromHash, string(from), string(to), tokenId)
	if err != nil {
		return &CallError{"transferFrom", err}
	}

	var nonceHex string
	err = r.client.CallContext(ctx, &nonceHex, "eth_getTransactionCount", r.escrow.Hex(), "pending")
	if err != nil {
		return &CallError{"transferFrom", err}
	}
	nonce, err := hexutil.DecodeUint64(nonceHex)
	if err != nil {
		return &CallError{"transferFrom", err}
	}

	var gasPriceHex string
	err = r.client.CallContext(ctx, &gasPriceHex, "eth_gasPrice")
	if err != nil {
		return &CallError{"transferFrom", err}
	}
	gasPrice, err := hexutil.DecodeBig(gasPriceHex)
	if err != nil {
		return &CallError{"transferFrom", err}
	}

	gas := uint64(transferGasLimit)
	var gasHex string
	err = r.client.CallContext(ctx, &gasHex, "eth_estimateGas", callParam{From: r.escrow.Hex(), To: string(contract), Data: payload})
	if err == nil {
		if estimated, err := hexutil.DecodeUint64(gasHex); err == nil {
			gas = estimated
		}
	}

	data, _ := hex.DecodeString(payload[2:])
	tx := ethtypes.NewTransaction(nonce, common.HexToAddress(string(contract)), new(big.Int), gas, gasPrice, data)
	signedTx, err := ethtypes.SignTx(tx, r.signer, r.prv)
	if err != nil {
		return &CallError{"transferFrom", err}
	}
	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return &CallError{"transferFrom", err}
	}
	var txHash string
	err = r.client.CallContext(ctx, &txHash, "eth_sendRawTransaction", hexutil.Encode(raw))
	if err != nil {
		return &CallError{"transferFrom", err}
	}
	if err = r.waitMined(ctx, txHash); err != nil {
		return &CallError{"transferFrom", err}
	}
	return nil
}

// waitMined polls for the receipt until the transaction lands or ctx expires
func (r *EthRegistry) waitMined(ctx context.Context, txHash string) error {
	for {
		var ret *receipt
		err := r.client.CallContext(ctx, &ret, "eth_getTransactionReceipt", txHash)
		if err == nil && ret != nil {
			if ret.Status == "0x1" {
				return nil
			}
			return errors.New("transaction " + txHash + " reverted")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func (r *EthRegistry) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// pack builds calldata from the selector and 32 byte padded words, each
// argument an address or decimal number string
func pack(funcHash string, args ...string) (string, error) {
	payload := make([]byte, 4+32*len(args))
	var tmp big.Int
	tmp.SetString(funcHash, 0)
	copy(payload[4-len(tmp.Bytes()):4], tmp.Bytes())
	for i, arg := range args {
		if _, ok := tmp.SetString(arg, 0); !ok {
			return "", fmt.Errorf("not an address or number: %v", arg)
		}
		if len(tmp.Bytes()) > 32 {
			return "", fmt.Errorf("argument over 32 bytes: %v", arg)
		}
		end := 4 + 32*(i+1)
		copy(payload[end-len(tmp.Bytes()):end], tmp.Bytes())
	}
	return "0x" + hex.EncodeToString(payload), nil
}

// unpackAddress reads an address from a 32 byte return word
func unpackAddress(ret string) (types.Address, error) {
	var tmp big.Int
	if _, ok := tmp.SetString(ret, 0); !ok {
		return "", fmt.Errorf("not an address word: %v", ret)
	}
	return types.Address(strings.ToLower(fmt.Sprintf("0x%040x", &tmp))), nil
}
