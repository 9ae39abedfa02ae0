package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	lenscommon "github.com/tranvictor/addrlens/common"
)

// NameResolver is a naming service. It doesn't cache and doesn't retry;
// a name that doesn't exist is reported with an error wrapping
// common.ErrNotFound.
type NameResolver interface {
	// Endpoint identifies the service instance, it is part of every cache
	// key so two services never share answers.
	Endpoint() string
	ResolveName(ctx context.Context, name string) (common.Address, error)
}

// Chain asks each resolver in order and returns the first address found.
type Chain []NameResolver

func (c Chain) Endpoint() string {
	endpoints := make([]string, 0, len(c))
	for _, r := range c {
		endpoints = append(endpoints, r.Endpoint())
	}
	return strings.Join(endpoints, "|")
}

func (c Chain) ResolveName(ctx context.Context, name string) (common.Address, error) {
	if len(c) == 0 {
		return common.Address{}, fmt.Errorf("no naming service configured: %w", lenscommon.ErrNotFound)
	}
	errs := []error{}
	for _, r := range c {
		addr, err := r.ResolveName(ctx, name)
		if err == nil {
			return addr, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Endpoint(), err))
	}
	return common.Address{}, errors.Join(errs...)
}

// ResolverFunc adapts a function to NameResolver.
type ResolverFunc struct {
	Name string
	Fn   func(ctx context.Context, name string) (common.Address, error)
}

func (f ResolverFunc) Endpoint() string {
	return f.Name
}

func (f ResolverFunc) ResolveName(ctx context.Context, name string) (common.Address, error) {
	return f.Fn(ctx, name)
}
