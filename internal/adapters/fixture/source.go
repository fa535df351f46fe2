// Package fixture serves departure boards recorded as JSON files. It stands
// in for the live upstream service in local runs and tests.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// Source implements ports.DepartureBoardSource by reading <dir>/<origin>.json.
type Source struct {
	dir string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

func (s *Source) GetDepartureBoard(ctx context.Context, originName string) (*domain.DepartureBoard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, originName+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &domain.LookupError{Station: originName}
	}
	if err != nil {
		return nil, &domain.UpstreamError{Station: originName, Err: err}
	}

	var board domain.DepartureBoard
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, domain.Malformed(filepath.Base(path), fmt.Errorf("decode: %w", err))
	}
	return &board, nil
}
