package addrbook

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/addrlens/db"
)

// NameService resolves a label to the one address carrying it.
type NameService struct {
	labels *db.LabelDB
	source string
}

// NewNameService names its endpoint after source, usually the label files.
func NewNameService(labels *db.LabelDB, source string) *NameService {
	return &NameService{labels: labels, source: source}
}

func (ns *NameService) Endpoint() string {
	return fmt.Sprintf("addrbook:%s", ns.source)
}

func (ns *NameService) ResolveName(ctx context.Context, name string) (common.Address, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}
	return ns.labels.AddressOf(name)
}
