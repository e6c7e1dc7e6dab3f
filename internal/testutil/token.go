package testutil

import (
	"fmt"
	"sync"
)

// FixedTokenGenerator returns the same run token every time.
//
// The same scenario with the same generator produces byte-identical logs.
// If token is empty, Generate returns "test-run-default".
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed run token generator.
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}

// SequenceTokenGenerator returns "<prefix>-1", "<prefix>-2", ...
type SequenceTokenGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceTokenGenerator creates a counting token generator.
func NewSequenceTokenGenerator(prefix string) *SequenceTokenGenerator {
	return &SequenceTokenGenerator{prefix: prefix}
}

// Generate returns the next token.
func (g *SequenceTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
