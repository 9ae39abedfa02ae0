package common

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var literalAddressRe = regexp.MustCompile("^(0x|0X)?[0-9a-fA-F]{40}$")

// IsLiteralAddress reports whether str has the lexical shape of an address:
// 40 hex digits with an optional 0x prefix. Checksum casing is not validated.
func IsLiteralAddress(str string) bool {
	return literalAddressRe.MatchString(strings.TrimSpace(str))
}

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(strings.TrimSpace(hex))
}

// ChecksumAddress returns the EIP-55 form of a literal address.
func ChecksumAddress(hex string) string {
	return HexToAddress(hex).Hex()
}

// LowerAddresses returns the lower-cased hex of every address, used as
// stable cache keys.
func LowerAddresses(addrs []common.Address) []string {
	result := make([]string, 0, len(addrs))
	for _, a := range addrs {
		result = append(result, strings.ToLower(a.Hex()))
	}
	return result
}
