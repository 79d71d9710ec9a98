package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/ledger"
	"market/registry"
	"market/service"
)

func Market(e *gin.Engine) {
	e.POST("/market/item", listItem)
	e.POST("/market/item/:id/buy", buyItem)
	e.GET("/market/item/page", pageItems)
	e.GET("/market/item/created/page", pageItemsCreated)
	e.GET("/market/item/owned/page", pageItemsOwned)
	e.GET("/market/item/:id", getItem)
	e.GET("/market/fee", listingFee)
	e.GET("/market/balance/:addr", getBalance)
	e.POST("/market/withdraw", withdraw)
	e.GET("/market/meta", getMeta)
}

// errStatus maps settlement errors to response codes
func errStatus(err error) int {
	var callErr *registry.CallError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadySold), errors.Is(err, ledger.ErrDuplicateListing):
		return http.StatusConflict
	case errors.As(err, &callErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// @Tags        Market
// @Summary     list an asset for sale
// @Description Escrows the asset and creates a market item. The signature is over asset_contract/token_id/price/fee (slash separated) and identifies the seller, who must hold the asset and have approved the marketplace.
// @Accept      json
// @Produce     json
// @Param       body body     object true "asset_contract, token_id, price (wei), fee (wei), sig"
// @Success     200  {object} map[string]uint64
// @Failure     400  {object} service.ErrRes
// @Router      /market/item [post]
func listItem(c *gin.Context) {
	req := struct {
		AssetContract string `json:"asset_contract" binding:"required"`
		TokenId       string `json:"token_id" binding:"required"`
		Price         string `json:"price" binding:"required"`
		Fee           string `json:"fee" binding:"required"`
		Sig           string `json:"sig" binding:"required"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	seller, err := utils.RecoverAddress(strings.Join([]string{req.AssetContract, req.TokenId, req.Price, req.Fee}, "/"), req.Sig)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	price := utils.ParseBigInt(req.Price)
	fee := utils.ParseBigInt(req.Fee)
	if price == nil || fee == nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: "price and fee must be numbers"})
		return
	}

	itemId, err := service.Market.List(c.Request.Context(), seller, types.ToAddress(req.AssetContract), req.TokenId, price, fee)
	if err != nil {
		c.JSON(errStatus(err), service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemId})
}

// @Tags        Market
// @Summary     buy a market item
// @Description Settles the purchase of the item: the sale is committed, custody moves to the buyer and the price is credited to the seller's withdrawable balance. The signature is over id/amount (slash separated) and identifies the buyer. The amount must equal the asking price exactly.
// @Accept      json
// @Produce     json
// @Param       id   path     string true "item id"
// @Param       body body     object true "amount (wei), sig"
// @Success     200  {object} model.MarketItem
// @Failure     400  {object} service.ErrRes
// @Router      /market/item/{id}/buy [post]
func buyItem(c *gin.Context) {
	req := struct {
		Amount string `json:"amount" binding:"required"`
		Sig    string `json:"sig" binding:"required"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	itemId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	buyer, err := utils.RecoverAddress(c.Param("id")+"/"+req.Amount, req.Sig)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	amount := utils.ParseBigInt(req.Amount)
	if amount == nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: "amount must be a number"})
		return
	}

	if err = service.Market.Buy(c.Request.Context(), buyer, itemId, amount); err != nil {
		c.JSON(errStatus(err), service.ErrRes{ErrStr: err.Error()})
		return
	}
	item, err := service.GetMarketItem(itemId)
	if err != nil {
		c.JSON(errStatus(err), service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Tags        Market
// @Summary     query unsold market items
// @Description Query the currently listed items in creation order
// @Accept      json
// @Produce     json
// @Param       page      query    string false "Page, default 1"
// @Param       page_size query    string false "Page size, default 10"
// @Success     200       {object} service.MarketItemsRes
// @Failure     400       {object} service.ErrRes
// @Router      /market/item/page [get]
func pageItems(c *gin.Context) {
	req := struct {
		Page     *int `form:"page"`
		PageSize *int `form:"page_size"`
	}{}
	err := c.BindQuery(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	page, size, err := utils.ParsePage(req.Page, req.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	c.JSON(http.StatusOK, service.FetchMarketItems(page, size))
}

// @Tags        Market
// @Summary     query items created by a seller
// @Description Query every item the seller listed, sold or not, in creation order
// @Accept      json
// @Produce     json
// @Param       addr      query    string true  "Seller address"
// @Param       page      query    string false "Page, default 1"
// @Param       page_size query    string false "Page size, default 10"
// @Success     200       {object} service.MarketItemsRes
// @Failure     400       {object} service.ErrRes
// @Router      /market/item/created/page [get]
func pageItemsCreated(c *gin.Context) {
	pageByAddress(c, service.FetchItemsCreated)
}

// @Tags        Market
// @Summary     query items owned by a buyer
// @Description Query the items the owner bought, in creation order
// @Accept      json
// @Produce     json
// @Param       addr      query    string true  "Owner address"
// @Param       page      query    string false "Page, default 1"
// @Param       page_size query    string false "Page size, default 10"
// @Success     200       {object} service.MarketItemsRes
// @Failure     400       {object} service.ErrRes
// @Router      /market/item/owned/page [get]
func pageItemsOwned(c *gin.Context) {
	pageByAddress(c, service.FetchMyNFTs)
}

func pageByAddress(c *gin.Context, fetch func(types.Address, int, int) service.MarketItemsRes) {
	req := struct {
		Page     *int   `form:"page"`
		PageSize *int   `form:"page_size"`
		Addr     string `form:"addr"`
	}{}
	err := c.BindQuery(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	if req.Addr == "" {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: "addr is required"})
		return
	}
	page, size, err := utils.ParsePage(req.Page, req.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	c.JSON(http.StatusOK, fetch(types.ToAddress(req.Addr), page, size))
}

// @Tags        Market
// @Summary     query one market item
// @Description Query the item by id, sold or not
// @Accept      json
// @Produce     json
// @Param       id path     string true "item id"
// @Success     200 {object} model.MarketItem
// @Failure     400 {object} service.ErrRes
// @Router      /market/item/{id} [get]
func getItem(c *gin.Context) {
	itemId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	item, err := service.GetMarketItem(itemId)
	if err != nil {
		c.JSON(errStatus(err), service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Tags        Market
// @Summary     query the listing fee
// @Description The fixed fee charged when an item is listed, in wei
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /market/fee [get]
func listingFee(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fee": service.ListingFee()})
}

// @Tags        Market
// @Summary     query a withdrawable balance
// @Description The amount credited to the address by settlement and not yet withdrawn, in wei
// @Produce     json
// @Param       addr path     string true "account address"
// @Success     200  {object} map[string]string
// @Router      /market/balance/{addr} [get]
func getBalance(c *gin.Context) {
	addr := types.ToAddress(c.Param("addr"))
	c.JSON(http.StatusOK, gin.H{"balance": service.BalanceOf(addr)})
}

// @Tags        Market
// @Summary     withdraw the caller's balance
// @Description Zeroes the caller's withdrawable balance and returns the amount. The signature is over withdraw/deadline (unix seconds, slash separated) and identifies the caller, a signature past its deadline is rejected so a captured one cannot be replayed later.
// @Accept      json
// @Produce     json
// @Param       body body     object true "deadline (unix seconds), sig"
// @Success     200  {object} map[string]string
// @Failure     400  {object} service.ErrRes
// @Router      /market/withdraw [post]
func withdraw(c *gin.Context) {
	req := struct {
		Deadline string `json:"deadline" binding:"required"`
		Sig      string `json:"sig" binding:"required"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	deadline, err := strconv.ParseInt(req.Deadline, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	if deadline < time.Now().Unix() {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: "signature deadline has passed"})
		return
	}
	addr, err := utils.RecoverAddress("withdraw/"+req.Deadline, req.Sig)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": service.Withdraw(addr)})
}

// @Tags        Market
// @Summary     resolve asset meta information
// @Description Resolves name, description and image from the token URI, ipfs links go through the configured gateway
// @Produce     json
// @Param       url query    string true "token URI"
// @Success     200 {object} service.NFTMeta
// @Failure     400 {object} service.ErrRes
// @Router      /market/meta [get]
func getMeta(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: "url is required"})
		return
	}
	meta, err := service.GetNFTMeta(url)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, meta)
}
