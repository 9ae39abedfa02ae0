// Package identity turns what a user typed into a canonical address: it
// classifies the identifier, resolves names through a naming service and
// memoizes the results.
package identity

import (
	"github.com/ethereum/go-ethereum/common"

	lenscommon "github.com/tranvictor/addrlens/common"
)

type Classification struct {
	IsLiteral bool
}

// Classify decides from the lexical shape alone whether identifier is an
// address. Anything that is not 40 hex digits is treated as a name and is
// allowed to fail later, at resolution.
func Classify(identifier string) Classification {
	return Classification{IsLiteral: lenscommon.IsLiteralAddress(identifier)}
}

// Canonical returns the checksummed address of a literal identifier.
func Canonical(identifier string) (common.Address, bool) {
	if !Classify(identifier).IsLiteral {
		return common.Address{}, false
	}
	return lenscommon.HexToAddress(identifier), true
}
