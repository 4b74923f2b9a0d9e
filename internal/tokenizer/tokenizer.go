package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// defaultEncoding is the BPE used for token metadata on content-heavy tool
// results.
const defaultEncoding = "cl100k_base"

// TikToken wraps tiktoken-go to implement domain.Tokenizer.
type TikToken struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer with the given encoding name. Common encodings:
// "cl100k_base", "o200k_base". Returns an error if the encoding is not
// recognized or cannot be loaded.
func New(encodingName string) (*TikToken, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: unknown encoding %q: %w", encodingName, err)
	}
	return &TikToken{encoding: enc}, nil
}

// NewDefault creates a tokenizer with the default encoding. Callers treat a
// failure as "no token metadata" rather than a fatal condition.
func NewDefault() (*TikToken, error) {
	return New(defaultEncoding)
}

// CountTokens returns the number of tokens in the given text.
func (t *TikToken) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	tokens := t.encoding.Encode(text, nil, nil)
	return len(tokens), nil
}
