// Package token provides model-accurate token counting for budget accounting.
//
// The counter uses the cl100k_base encoding, which is shared by the chat and
// embedding models this application targets. Counting with the model's own
// encoding keeps the context-budget math in sync with what the completion
// endpoint will actually accept.
package token

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// EncodingName is the tiktoken encoding used for all budget accounting.
const EncodingName = "cl100k_base"

// Counter counts tokens in text using a fixed tiktoken encoding.
//
// Counter is stateless after construction and safe for concurrent use by
// multiple queries without coordination.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the cl100k_base encoding and returns a Counter.
// The encoding tables are loaded once; construction is the only operation
// that can fail.
func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding(EncodingName)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", EncodingName, err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens in text. It is deterministic for
// identical input and never returns a negative value.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
