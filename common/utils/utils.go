package utils

import (
	"fmt"
	"math/big"
)

// ParsePage parses paging parameters, page defaults to 1 and size to 10
func ParsePage(pagePtr, sizePtr *int) (int, int, error) {
	page, size := 1, 10
	if pagePtr != nil {
		if *pagePtr <= 0 {
			return 0, 0, fmt.Errorf("page must be greater than 0")
		}
		page = *pagePtr
	}
	if sizePtr != nil {
		if *sizePtr <= 0 || *sizePtr > 100 {
			return 0, 0, fmt.Errorf("page_size must be between 1 and 100")
		}
		size = *sizePtr
	}
	return page, size, nil
}

// ParseBigInt parses a decimal or 0x hex amount string, nil if not a number
func ParseBigInt(s string) *big.Int {
	value, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil
	}
	return value
}
