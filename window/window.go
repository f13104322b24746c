package window

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidWindowConfig is returned when size and overlap would never
// advance the window offset.
var ErrInvalidWindowConfig = errors.New("invalid window config")

// Window is a contiguous run of document words.
type Window struct {
	// Index is the position of the window in the sequence.
	Index int `json:"index"`

	// Start is the offset of the first word in the document.
	Start int `json:"start"`

	// Words is the number of words in the window.
	Words int `json:"words"`

	// Text is the words rejoined with single spaces.
	Text string `json:"text"`
}

// Words splits text into its whitespace-delimited words.
func Words(text string) []string {
	return strings.Fields(text)
}

// Validate checks size and overlap before any windowing happens.
// size must be positive and overlap must be in [0, size).
func Validate(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", ErrInvalidWindowConfig, size)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must be >= 0, got %d", ErrInvalidWindowConfig, overlap)
	}
	if overlap >= size {
		return fmt.Errorf("%w: overlap (%d) must be less than size (%d)", ErrInvalidWindowConfig, overlap, size)
	}
	return nil
}

// Offsets returns the start offset of every window for a document of n
// words. A document shorter than size has the single offset 0.
func Offsets(n, size, overlap int) ([]int, error) {
	if err := Validate(size, overlap); err != nil {
		return nil, err
	}
	if n < size {
		return []int{0}, nil
	}

	step := size - overlap
	offsets := make([]int, 0, (n-size)/step+1)
	for start := 0; start+size <= n; start += step {
		offsets = append(offsets, start)
	}
	return offsets, nil
}

// Dropped returns how many trailing words no window covers.
func Dropped(n, size, overlap int) (int, error) {
	offsets, err := Offsets(n, size, overlap)
	if err != nil {
		return 0, err
	}
	if n < size {
		return 0, nil
	}
	last := offsets[len(offsets)-1]
	return n - (last + size), nil
}

// Plan returns the windows over words with their offsets.
func Plan(words []string, size, overlap int) ([]Window, error) {
	offsets, err := Offsets(len(words), size, overlap)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, len(offsets))
	for i, start := range offsets {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		windows[i] = Window{
			Index: i,
			Start: start,
			Words: end - start,
			Text:  strings.Join(words[start:end], " "),
		}
	}
	return windows, nil
}

// Split returns the text of every window over words.
func Split(words []string, size, overlap int) ([]string, error) {
	windows, err := Plan(words, size, overlap)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(windows))
	for i, w := range windows {
		texts[i] = w.Text
	}
	return texts, nil
}
