// Package ens resolves ENS names to addresses by reading the registry and
// the name's resolver contract through a node.
package ens

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	lenscommon "github.com/tranvictor/addrlens/common"
)

const registryABI = `[{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`

const resolverABI = `[{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	registryContract = mustParseABI(registryABI)
	resolverContract = mustParseABI(resolverABI)

	lower = cases.Lower(language.Und)
)

func mustParseABI(s string) abi.ABI {
	result, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return result
}

// ContractCaller executes a read-only call. util/reader.EthReader
// implements it.
type ContractCaller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Normalize lower-cases name and strips surrounding whitespace and dots.
// Full UTS-46 processing is left to the name's owner; lower-casing is what
// makes "Alice.ETH" and "alice.eth" the same name.
func Normalize(name string) string {
	return strings.Trim(lower.String(strings.TrimSpace(name)), ".")
}

// NameHash implements the EIP-137 namehash of an already normalized name.
func NameHash(name string) common.Hash {
	node := common.Hash{}
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), labelHash)
	}
	return node
}

type Resolver struct {
	caller   ContractCaller
	registry common.Address
	chainID  uint64
}

func NewResolver(caller ContractCaller, chainID uint64, registry common.Address) *Resolver {
	return &Resolver{
		caller:   caller,
		registry: registry,
		chainID:  chainID,
	}
}

// Endpoint identifies the naming service: the registry on a given chain.
func (r *Resolver) Endpoint() string {
	return fmt.Sprintf("ens:%d:%s", r.chainID, strings.ToLower(r.registry.Hex()))
}

func (r *Resolver) ResolveName(ctx context.Context, name string) (common.Address, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return common.Address{}, fmt.Errorf("empty name: %w", lenscommon.ErrNotFound)
	}
	node := NameHash(normalized)

	resolver, err := r.readAddress(ctx, r.registry, &registryContract, "resolver", node)
	if err != nil {
		return common.Address{}, lenscommon.NewTransportError("ens registry", err)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no resolver for %s: %w", normalized, lenscommon.ErrNotFound)
	}

	addr, err := r.readAddress(ctx, resolver, &resolverContract, "addr", node)
	if err != nil {
		return common.Address{}, lenscommon.NewTransportError("ens resolver", err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no address for %s: %w", normalized, lenscommon.ErrNotFound)
	}
	return addr, nil
}

func (r *Resolver) readAddress(ctx context.Context, to common.Address, contract *abi.ABI, method string, node common.Hash) (common.Address, error) {
	data, err := contract.Pack(method, [32]byte(node))
	if err != nil {
		return common.Address{}, fmt.Errorf("packing %s: %w", method, err)
	}
	out, err := r.caller.CallContract(ctx, to, data)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		// calling an address without code returns nothing
		return common.Address{}, nil
	}
	values, err := contract.Unpack(method, out)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpacking %s: %w", method, err)
	}
	if len(values) != 1 {
		return common.Address{}, fmt.Errorf("unexpected %s output: %v", method, values)
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s output type %T", method, values[0])
	}
	return addr, nil
}
