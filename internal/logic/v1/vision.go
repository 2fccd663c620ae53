package v1

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lorehq/lore-web/internal/core/domain"
	"github.com/lorehq/lore-web/middleware"
)

// VisionService implements the one-shot image analyzer. Overlapping requests
// from the same page race at the model, but only the latest one's result is
// kept: each request takes a generation number and a completion whose
// generation is no longer current is discarded.
type VisionService struct {
	model domain.ChatModel

	mu          sync.Mutex
	generations map[string]uint64
}

// NewVisionService creates a new VisionService.
func NewVisionService(model domain.ChatModel) *VisionService {
	return &VisionService{
		model:       model,
		generations: make(map[string]uint64),
	}
}

// Analyze validates and describes one user-selected image. Non-image input
// is rejected before any remote call. A result superseded by a newer request
// on the same page returns ErrAnalysisSuperseded instead of text.
func (s *VisionService) Analyze(ctx context.Context, pageID, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFileSelected
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", ErrNotAnImage
	}

	ctx, span := middleware.StartSpan(ctx, "vision.analyze", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("mime_type", mimeType),
		attribute.Int("size_bytes", len(data)),
	))
	defer span.End()

	gen := s.begin(pageID)

	text, err := s.model.DescribeImage(ctx, data, mimeType)

	if !s.current(pageID, gen) {
		span.AddEvent("analysis.superseded")
		return "", ErrAnalysisSuperseded
	}
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("mime_type", mimeType).Msg("Image analysis failed")
		return "", fmt.Errorf("analyze image: %w", err)
	}
	return text, nil
}

func (s *VisionService) begin(pageID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[pageID]++
	return s.generations[pageID]
}

func (s *VisionService) current(pageID string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[pageID] == gen
}
