// Package addrbook maps addresses to labels and labels to addresses using
// the local label book.
//
// [Default] is the production AddressResolver, it looks addresses up in a
// db.LabelDB. [Map] is a plain map for tests. [NameService] goes the other
// way and serves as an identity.NameResolver for labels.
package addrbook

import (
	lenscommon "github.com/tranvictor/addrlens/common"
)

// AddressResolver maps a hex address to a labeled address.
//
// Contract: if the address is not known, Desc must be set to "unknown".
type AddressResolver interface {
	Resolve(addr string) lenscommon.Address
}
