package main

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"market/conf"
	"market/database"
	"market/engine"
	"market/funds"
	"market/ledger"
	"market/registry"
	"market/router"
	"market/service"
)

// @title       NFT marketplace API
// @version     1.0
// @description Marketplace settlement back-end interface, lists assets into escrow, settles purchases and serves market item queries
func main() {
	store, err := database.Open(conf.MysqlDsn, conf.ResetDB)
	if err != nil {
		log.Fatalf("Database failed to open: %v\n", err)
	}
	assets, err := registry.NewEthRegistry(conf.ChainUrl, conf.ChainId, conf.PrivateKey, conf.CallTimeout)
	if err != nil {
		log.Fatalf("Chain node failed to connect: %v\n", err)
	}
	log.Printf("marketplace escrow address: %v\n", conf.EscrowAddr)

	items, err := ledger.New(assets.Escrow(), store)
	if err != nil {
		log.Fatalf("Listing ledger failed to load: %v\n", err)
	}
	balances, err := funds.New(store)
	if err != nil {
		log.Fatalf("Fund ledger failed to load: %v\n", err)
	}
	market := engine.New(items, balances, assets, assets.Escrow(), conf.ListingFee)
	service.Init(market, items, balances)

	// replay the unfinished half of committed sales on a schedule
	runner := cron.New()
	if _, err = runner.AddFunc(conf.ReconcileSpec, func() { market.Reconcile(context.Background()) }); err != nil {
		log.Fatalf("Reconciler failed to schedule: %v\n", err)
	}
	runner.Start()

	if err = router.Run(conf.ServerAddr); err != nil {
		log.Printf("Server failed to run: %v\n", err)
	}
}
