package venue

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/croftland/croftland/internal/chain"
)

// Four-byte selectors for the contract calls the adapters issue. These are
// fixed by the deployed contracts, not derived at runtime.
var (
	// approve(address,uint256)
	selectorApprove = [4]byte{0x09, 0x5e, 0xa7, 0xb3}
	// supply(address,uint256,address,uint16) — Aave v3 pool
	selectorSupply = [4]byte{0x61, 0x7b, 0xa0, 0x37}
	// deposit(uint256,uint256) — QuickSwap farm (MasterChef)
	selectorDeposit = [4]byte{0xe2, 0xbb, 0xb1, 0x58}
)

// encodeCall concatenates a selector with 32-byte argument words.
func encodeCall(selector [4]byte, words ...[32]byte) []byte {
	data := make([]byte, 4, 4+32*len(words))
	copy(data, selector[:])
	for _, word := range words {
		data = append(data, word[:]...)
	}
	return data
}

// addressWord left-pads a 20-byte address into a 32-byte ABI word.
func addressWord(addr chain.Address) ([32]byte, error) {
	var word [32]byte
	raw := strings.TrimPrefix(strings.ToLower(string(addr)), "0x")
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return word, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if len(decoded) != 20 {
		return word, fmt.Errorf("address %q must be 20 bytes, got %d", addr, len(decoded))
	}
	copy(word[12:], decoded)
	return word, nil
}

// uintWord right-aligns an unsigned integer into a 32-byte ABI word.
func uintWord(value *big.Int) ([32]byte, error) {
	var word [32]byte
	if value == nil || value.Sign() < 0 {
		return word, fmt.Errorf("value must be a non-negative integer")
	}
	raw := value.Bytes()
	if len(raw) > 32 {
		return word, fmt.Errorf("value %s overflows uint256", value)
	}
	copy(word[32-len(raw):], raw)
	return word, nil
}
