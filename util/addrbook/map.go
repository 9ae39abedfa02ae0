package addrbook

import (
	"strings"

	lenscommon "github.com/tranvictor/addrlens/common"
)

// Map is an AddressResolver for tests, keyed by lower cased address.
//
//	r := addrbook.Map{
//	    "0xd8da6bf26964af9d7eed9e03e53415d37aa96045": "Vitalik Buterin",
//	}
type Map map[string]string

func (m Map) Resolve(addr string) lenscommon.Address {
	if desc, ok := m[strings.ToLower(addr)]; ok {
		return lenscommon.Address{Address: addr, Desc: desc}
	}
	return lenscommon.Address{Address: addr, Desc: lenscommon.UNKNOWN_NAME}
}
