package types

import (
	"fmt"
	"math/big"
	"strings"
)

// Address 20 byte account or contract address, lowercase 0x prefixed hex
type Address string

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Address) UnmarshalText(input []byte) error {
	*a = Address(strings.ToLower(string(input)))
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(input []byte) error {
	if len(input) < 2 || input[0] != '"' {
		return fmt.Errorf("address must be a string: %s", input)
	}
	return a.UnmarshalText(input[1 : len(input)-1])
}

// ToAddress normalizes a hex address string for storage and comparison
func ToAddress(s string) Address {
	return Address(strings.ToLower(s))
}

// Hash 32 byte hash, 0x prefixed hex
type Hash string

// BigInt big number represented by decimal string
type BigInt string

// UnmarshalText implements encoding.TextUnmarshaler
func (b *BigInt) UnmarshalText(input []byte) error {
	t := new(big.Int)
	err := t.UnmarshalText(input)
	if err != nil {
		return err
	}
	*b = BigInt(t.String())
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BigInt) UnmarshalJSON(input []byte) error {
	if len(input) > 2 && input[0] == '"' {
		input = input[1 : len(input)-1]
	}
	return b.UnmarshalText(input)
}
