package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/engine"
	"market/funds"
	"market/ledger"
	"market/service"
)

const (
	escrow   = types.Address("0x00000000000000000000000000000000000000ff")
	contract = types.Address("0x00000000000000000000000000000000000000c0")
	// the caller's identity comes from the signature, not the request
	callerKey = "7bbfec284ee43e328438d46ec803863c8e1367ab46072f7864c07e0a03ba61fd"
)

type stubRegistry struct {
	owners map[string]types.Address
}

func (s *stubRegistry) OwnerOf(ctx context.Context, contract types.Address, tokenId string) (types.Address, error) {
	return s.owners[string(contract)+"/"+tokenId], nil
}

func (s *stubRegistry) IsApprovedForMarketplace(ctx context.Context, contract, owner types.Address, tokenId string) (bool, error) {
	return true, nil
}

func (s *stubRegistry) TransferCustody(ctx context.Context, contract types.Address, tokenId string, from, to types.Address) error {
	s.owners[string(contract)+"/"+tokenId] = to
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, types.Address) {
	gin.SetMode(gin.TestMode)
	key, err := utils.HexToECDSA(callerKey)
	if err != nil {
		t.Fatal(err)
	}
	caller := utils.PubkeyToAddress(key.PubKey())

	items, err := ledger.New(escrow, nil)
	if err != nil {
		t.Fatal(err)
	}
	balances, err := funds.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	assets := &stubRegistry{owners: map[string]types.Address{string(contract) + "/1": caller}}
	service.Init(engine.New(items, balances, assets, escrow, big.NewInt(10)), items, balances)

	e := gin.New()
	Market(e)
	return e, caller
}

func post(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	r.ServeHTTP(w, req)
	return w
}

func TestListAndBuySigned(t *testing.T) {
	r, _ := newTestRouter(t)
	sellerKey, _ := utils.HexToECDSA(callerKey)
	sig, err := utils.SignMsg(string(contract)+"/1/100/10", sellerKey)
	if err != nil {
		t.Fatal(err)
	}
	w := post(r, "/market/item", map[string]string{
		"asset_contract": string(contract),
		"token_id":       "1",
		"price":          "100",
		"fee":            "10",
		"sig":            sig,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %v, body %v", w.Code, w.Body)
	}
	var listed struct {
		ItemId uint64 `json:"item_id"`
	}
	if err = json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if listed.ItemId != 1 {
		t.Fatalf("item id = %v, want 1", listed.ItemId)
	}

	buyerKey, _ := utils.HexToECDSA("3b2546a5d4e658d079c6b2755c6d7495edd01a686fddae010830e9c93b23e398")
	sig, _ = utils.SignMsg("1/100", buyerKey)
	w = post(r, "/market/item/1/buy", map[string]string{"amount": "100", "sig": sig})
	if w.Code != http.StatusOK {
		t.Fatalf("buy status = %v, body %v", w.Code, w.Body)
	}

	// the item belongs to the signer of the buy message, nobody else
	item, err := service.GetMarketItem(1)
	if err != nil {
		t.Fatal(err)
	}
	if item.Owner != utils.PubkeyToAddress(buyerKey.PubKey()) {
		t.Fatalf("owner = %v, want the buy signer", item.Owner)
	}
}

func TestWithdrawDeadline(t *testing.T) {
	r, caller := newTestRouter(t)
	key, _ := utils.HexToECDSA(callerKey)
	service.Funds.Credit(caller, big.NewInt(55))

	deadline := fmt.Sprint(time.Now().Add(time.Minute).Unix())
	sig, err := utils.SignMsg("withdraw/"+deadline, key)
	if err != nil {
		t.Fatal(err)
	}
	w := post(r, "/market/withdraw", map[string]string{"deadline": deadline, "sig": sig})
	if w.Code != http.StatusOK {
		t.Fatalf("withdraw status = %v, body %v", w.Code, w.Body)
	}
	var res struct {
		Amount string `json:"amount"`
	}
	if err = json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Amount != "55" {
		t.Fatalf("amount = %v, want 55", res.Amount)
	}

	// a signature past its deadline no longer authenticates
	expired := fmt.Sprint(time.Now().Add(-time.Minute).Unix())
	sig, _ = utils.SignMsg("withdraw/"+expired, key)
	w = post(r, "/market/withdraw", map[string]string{"deadline": expired, "sig": sig})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expired withdraw status = %v, want 400", w.Code)
	}
}
