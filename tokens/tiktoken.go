package tokens

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when a model has no known encoding.
const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts tokens with the BPE encoding of an OpenAI model.
// The encoding is loaded on first use; if loading fails the counter falls
// back to estimation so a preflight check never blocks a run.
type TiktokenCounter struct {
	model string

	once     sync.Once
	enc      *tiktoken.Tiktoken
	encName  string
	loadErr  error
	fallback *EstimatingCounter
}

// NewTiktokenCounter creates a counter for a model name or encoding name.
func NewTiktokenCounter(modelOrEncoding string) *TiktokenCounter {
	return &TiktokenCounter{
		model:    modelOrEncoding,
		fallback: NewEstimatingCounter(),
	}
}

func (c *TiktokenCounter) load() {
	c.once.Do(func() {
		if enc, err := tiktoken.EncodingForModel(c.model); err == nil {
			c.enc, c.encName = enc, c.model
			return
		}
		if enc, err := tiktoken.GetEncoding(c.model); err == nil {
			c.enc, c.encName = enc, c.model
			return
		}
		enc, err := tiktoken.GetEncoding(DefaultEncoding)
		if err != nil {
			c.loadErr = fmt.Errorf("load encoding %s: %w", DefaultEncoding, err)
			return
		}
		c.enc, c.encName = enc, DefaultEncoding
	})
}

// Err returns the error that forced the counter onto estimation, if any.
func (c *TiktokenCounter) Err() error {
	c.load()
	return c.loadErr
}

// Encoding returns the name of the encoding in use, or "" when estimating.
func (c *TiktokenCounter) Encoding() string {
	c.load()
	if c.enc == nil {
		return ""
	}
	return c.encName
}

// Count returns the number of tokens in the given text.
func (c *TiktokenCounter) Count(text string) int {
	c.load()
	if c.enc == nil {
		return c.fallback.Count(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *TiktokenCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}
