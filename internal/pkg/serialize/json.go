// Package serialize renders boards in the published wire format.
package serialize

import (
	"bytes"
	"encoding/json"

	"github.com/samirrijal/railboard/internal/core/domain"
)

const indent = "    "

// Board renders one board as indented JSON.
func Board(board domain.StationAndServices) ([]byte, error) {
	return encode(board)
}

// Boards renders boards as an indented JSON array. A nil slice renders as [].
func Boards(boards []domain.StationAndServices) ([]byte, error) {
	if boards == nil {
		boards = []domain.StationAndServices{}
	}
	return encode(boards)
}

// encode keeps station messages byte-for-byte, so & < > are not escaped.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
