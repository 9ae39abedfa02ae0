package addrbook

import (
	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/db"
)

// Default resolves addresses from a label database.
type Default struct {
	labels *db.LabelDB
}

func NewDefault(labels *db.LabelDB) AddressResolver {
	return Default{labels: labels}
}

func (r Default) Resolve(addr string) lenscommon.Address {
	if !lenscommon.IsLiteralAddress(addr) {
		return lenscommon.Address{Address: addr, Desc: lenscommon.UNKNOWN_NAME}
	}
	return lenscommon.Address{
		Address: lenscommon.ChecksumAddress(addr),
		Desc:    r.labels.GetName(addr),
	}
}
