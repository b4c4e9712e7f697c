package snapshot

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the tiktoken encoding used for summary counts; cl100k_base
// matches the GPT-4 model family.
const tokenEncoding = "cl100k_base"

// TokenCounter reports model token counts for snapshot text.
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
}

// NewTokenCounter loads the cl100k_base ranks. tiktoken downloads them on
// first use unless TIKTOKEN_CACHE_DIR provides a local copy, so callers
// treat failure as a degradation, not a fatal error.
func NewTokenCounter() (*TokenCounter, error) {
	encoder, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", tokenEncoding, err)
	}
	return &TokenCounter{encoder: encoder}, nil
}

// Count returns the number of tokens in text.
func (t *TokenCounter) Count(text string) int {
	return len(t.encoder.Encode(text, nil, nil))
}
