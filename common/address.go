package common

const UNKNOWN_NAME = "unknown"

// Address is an address together with its human readable label. Desc is
// UNKNOWN_NAME when nothing is known about it.
type Address struct {
	Address string `json:"address"`
	Desc    string `json:"desc"`
}

func (a Address) Known() bool {
	return a.Desc != "" && a.Desc != UNKNOWN_NAME
}
