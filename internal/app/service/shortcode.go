package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/sifan077/LinkDesk/internal/app/repository"
)

// ShortCodeLength is the number of hex characters in a generated short code.
const ShortCodeLength = 6

// GenerateShortCode returns the first six hex characters of four random bytes.
func GenerateShortCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:ShortCodeLength], nil
}

// CodeFilter remembers issued short codes so the generator can skip codes
// that are certainly or probably taken. False positives only cost a retry.
type CodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeFilter sizes the filter for the expected number of codes.
func NewCodeFilter(expected uint, falsePositiveRate float64) *CodeFilter {
	return &CodeFilter{filter: bloom.NewWithEstimates(expected, falsePositiveRate)}
}

// MayContain reports whether code may already be taken. False positives are possible.
func (f *CodeFilter) MayContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}

// Add records code as taken.
func (f *CodeFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(code)
}

// SeedCodeFilter loads every stored short code into f.
func SeedCodeFilter(ctx context.Context, urls repository.URLRepository, f *CodeFilter) (int, error) {
	codes, err := urls.ListShortCodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed code filter: %w", err)
	}
	for _, code := range codes {
		f.Add(code)
	}
	return len(codes), nil
}
