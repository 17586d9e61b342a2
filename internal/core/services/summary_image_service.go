package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	portssvc "github.com/SscSPs/country_currency_api/internal/core/ports/services"
)

// SummaryImageFile is the cached image name inside the cache directory.
const SummaryImageFile = "summary.png"

// summaryImageService renders the summary through a SummaryRenderer and caches it on disk.
type summaryImageService struct {
	BaseService
	renderer ports.SummaryRenderer
	dir      string
}

// NewSummaryImageService creates a service caching images under dir.
func NewSummaryImageService(renderer ports.SummaryRenderer, dir string) portssvc.SummaryImageSvc {
	return &summaryImageService{renderer: renderer, dir: dir}
}

var _ portssvc.SummaryImageSvc = (*summaryImageService)(nil)

func (s *summaryImageService) path() string {
	return filepath.Join(s.dir, SummaryImageFile)
}

// GenerateSummaryImage renders the image and swaps it in with a rename,
// so readers never observe a half-written file.
func (s *summaryImageService) GenerateSummaryImage(ctx context.Context, countries []domain.Country, refreshedAt time.Time) error {
	data, err := s.renderer.RenderSummary(countries, refreshedAt)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "summary-*.png.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary image file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write summary image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write summary image: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		return fmt.Errorf("failed to replace summary image: %w", err)
	}

	s.LogInfo(ctx, "Summary image generated",
		slog.String("path", s.path()),
		slog.Int("bytes", len(data)))
	return nil
}

// SummaryImage returns the cached PNG bytes.
func (s *summaryImageService) SummaryImage(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		s.LogError(ctx, err, "Failed to read summary image")
		return nil, err
	}
	return data, nil
}
