package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// OverrideSource supplies a precomputed comparison document. When the service
// is configured with one, a present document is returned verbatim instead of
// a scored result.
type OverrideSource interface {
	Payload(ctx context.Context) (json.RawMessage, error)
}

// FileOverride reads the document from a JSON file on every call.
type FileOverride struct {
	Path string
}

var _ OverrideSource = FileOverride{}

func (f FileOverride) Payload(_ context.Context) (json.RawMessage, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("mock comparison: no path configured: %w", types.ErrMissingReferenceData)
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("mock comparison %s: %w", f.Path, types.ErrMissingReferenceData)
		}
		return nil, fmt.Errorf("failed to read mock comparison: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("mock comparison %s is not valid JSON", f.Path)
	}
	return b, nil
}
