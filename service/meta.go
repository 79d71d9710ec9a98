package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"market/conf"
)

// NFTMeta NFT core meta information, only these fields are parsed, the extra fields are ignored
type NFTMeta struct {
	Name        string `json:"name"`        //name
	Description string `json:"description"` //description
	Image       string `json:"image"`       //image file link
}

// GetNFTMeta gets NFT meta information from the link
func GetNFTMeta(url string) (meta NFTMeta, err error) {
	// If the ipfs link does not give the server address, use the local ipfs server
	realUrl := url
	if strings.Index(url, "/ipfs/") == 0 {
		realUrl = conf.IpfsServer + url
	} else if strings.Index(url, "ipfs://") == 0 {
		realUrl = conf.IpfsServer + "/ipfs/" + url[7:]
	}

	resp, err := http.Get(realUrl)
	if err != nil {
		return
	}
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	err = json.Unmarshal(data, &meta)
	return
}
