package conf

import (
	"crypto/ecdsa"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
)

// default allocation
var (
	ServerAddr           = ":3000"
	MysqlDsn             = "root:123456@tcp(127.0.0.1:3306)/market"
	ResetDB              = false
	ChainId        int64 = 1337
	ChainUrl             = "http://127.0.0.1:8545"
	HexKey               = "7b2546a5d4e658d079c6b2755c6d7495edd01a686fddae010830e9c93b23e398"
	ListingFeeStr        = "25000000000000000" //listing fee in wei, 0.025 coin
	CallTimeoutSec int64 = 10
	ReconcileSpec        = "@every 30s"
	IpfsServer           = "http://localhost:8080"
)

// globally available object instantiated from config
var (
	PrivateKey  *ecdsa.PrivateKey //escrow account private key, signs custody transfers
	EscrowAddr  string            //escrow account address, holds listed assets and collects fees
	ListingFee  *big.Int          //listing fee (unit: wei)
	CallTimeout time.Duration     //bound for asset registry calls
)

func init() {
	// set log printout to stdout instead of stderr
	log.SetOutput(os.Stdout)

	// read configuration to override default value
	setConf()

	var err error
	PrivateKey, err = crypto.HexToECDSA(HexKey)
	if err != nil {
		panic(err)
	}
	EscrowAddr = strings.ToLower(crypto.PubkeyToAddress(PrivateKey.PublicKey).Hex())

	ListingFee = new(big.Int)
	if _, ok := ListingFee.SetString(ListingFeeStr, 0); !ok {
		panic("conf.ListingFeeStr is not a number: " + ListingFeeStr)
	}
	if ListingFee.Sign() < 0 {
		panic("conf.ListingFee < 0")
	}
	if CallTimeoutSec < 1 {
		panic("conf.CallTimeoutSec < 1")
	}
	CallTimeout = time.Duration(CallTimeoutSec) * time.Second
}

func setConf() {
	err := godotenv.Load("market.env")
	if err != nil {
		log.Println("Failed to load environment variables from .env file,", err)
	}

	// Parse the basic configuration of the server
	if serverAddr := os.Getenv("SERVER_ADDR"); serverAddr != "" {
		ServerAddr = serverAddr
	}
	if mysqlDsn := os.Getenv("MYSQL_DSN"); mysqlDsn != "" {
		MysqlDsn = mysqlDsn
	}
	if resetDB := os.Getenv("RESET_DB"); resetDB != "" {
		ResetDB = resetDB == "true"
	}
	if chainId := os.Getenv("CHAIN_ID"); chainId != "" {
		ChainId, err = strconv.ParseInt(chainId, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if chainUrl := os.Getenv("CHAIN_URL"); chainUrl != "" {
		ChainUrl = chainUrl
	}
	if hexKey := os.Getenv("HEX_KEY"); hexKey != "" {
		HexKey = hexKey
	}
	if listingFee := os.Getenv("LISTING_FEE"); listingFee != "" {
		ListingFeeStr = listingFee
	}
	if callTimeout := os.Getenv("CALL_TIMEOUT"); callTimeout != "" {
		CallTimeoutSec, err = strconv.ParseInt(callTimeout, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if reconcileSpec := os.Getenv("RECONCILE_SPEC"); reconcileSpec != "" {
		ReconcileSpec = reconcileSpec
	}
	if ipfsServer := os.Getenv("IPFS_SERVER"); ipfsServer != "" {
		IpfsServer = ipfsServer
	}
}
