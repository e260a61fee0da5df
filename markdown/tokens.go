package markdown

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter reports token counts for chunk sizing and progress stats.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter loads the cl100k_base encoding.
func NewTokenCounter() (*TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load encoding: %w", err)
	}
	return &TokenCounter{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (c *TokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Annotate fills the Tokens field of each chunk. A nil counter leaves the
// chunks untouched.
func (c *TokenCounter) Annotate(chunks []Chunk) {
	if c == nil {
		return
	}
	for i := range chunks {
		chunks[i].Tokens = c.Count(chunks[i].Text)
	}
}
