// Package names resolves card issuer and card keys to display names.
//
// The tables are embedded at build time and never change at runtime. Unknown
// keys resolve to themselves.
package names

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed names.yaml
var tablesYAML []byte

// Tables is the issuer and card name mapping.
type Tables struct {
	Issuers map[string]string            `yaml:"issuers"`
	Cards   map[string]map[string]string `yaml:"cards"`
}

// Resolver answers display-name lookups over a fixed set of tables.
type Resolver struct {
	tables Tables
}

// Parse decodes YAML tables into a Resolver.
func Parse(data []byte) (*Resolver, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode name tables: %w", err)
	}
	return New(t), nil
}

// New returns a Resolver over t.
func New(t Tables) *Resolver {
	return &Resolver{tables: t}
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the resolver built from the embedded tables.
func Default() *Resolver {
	defaultOnce.Do(func() {
		r, err := Parse(tablesYAML)
		if err != nil {
			panic(err)
		}
		defaultResolver = r
	})
	return defaultResolver
}

// IssuerName returns the display name for an issuer key, or the key itself.
func (r *Resolver) IssuerName(key string) string {
	if name, ok := r.tables.Issuers[key]; ok {
		return name
	}
	return key
}

// CardName returns the display name for a card under an issuer, or the card key itself.
func (r *Resolver) CardName(issuerKey, cardKey string) string {
	if cards, ok := r.tables.Cards[issuerKey]; ok {
		if name, ok := cards[cardKey]; ok {
			return name
		}
	}
	return cardKey
}

// Option is a key and display name pair.
type Option struct {
	Key  string
	Name string
}

// Issuers lists known issuers ordered by display name.
func (r *Resolver) Issuers() []Option {
	return sortedOptions(r.tables.Issuers)
}

// Cards lists known cards for an issuer ordered by display name.
func (r *Resolver) Cards(issuerKey string) []Option {
	return sortedOptions(r.tables.Cards[issuerKey])
}

func sortedOptions(m map[string]string) []Option {
	out := make([]Option, 0, len(m))
	for k, v := range m {
		out = append(out, Option{Key: k, Name: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Key < out[j].Key
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// IssuerName resolves key against the embedded tables.
func IssuerName(key string) string {
	return Default().IssuerName(key)
}

// CardName resolves a card against the embedded tables.
func CardName(issuerKey, cardKey string) string {
	return Default().CardName(issuerKey, cardKey)
}
