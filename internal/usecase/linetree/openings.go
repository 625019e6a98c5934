package linetree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpeningBook maps a movetext prefix ("1. e4 c5") to an opening name.
type OpeningBook map[string]string

// Resolve returns the name of the longest book entry that is a whole-token
// prefix of notation.
func (b OpeningBook) Resolve(notation string) string {
	if len(b) == 0 || notation == "" {
		return ""
	}
	end := len(notation)
	for end > 0 {
		if name, ok := b[notation[:end]]; ok {
			return name
		}
		end = strings.LastIndexByte(notation[:end], ' ')
	}
	return ""
}

// LoadOpeningBook reads a YAML mapping of movetext to opening name.
func LoadOpeningBook(path string) (OpeningBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opening book: %w", err)
	}
	defer f.Close()
	return ReadOpeningBook(f)
}

func ReadOpeningBook(r io.Reader) (OpeningBook, error) {
	raw := make(map[string]string)
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode opening book: %w", err)
	}
	book := make(OpeningBook, len(raw))
	for notation, name := range raw {
		key := strings.Join(strings.Fields(notation), " ")
		if key == "" {
			continue
		}
		book[key] = name
	}
	return book, nil
}
