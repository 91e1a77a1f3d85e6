package analysis

import (
	"bytes"
	"context"
	"image"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/eyeway/uxlens/internal/application"
	domai "github.com/eyeway/uxlens/internal/domain/ai"
	domain "github.com/eyeway/uxlens/internal/domain/analysis"
	"github.com/eyeway/uxlens/internal/domain/analysisfaults"
	"github.com/eyeway/uxlens/internal/middleware"
)

// Service implements use-cases untuk Analysis.
// Safe for concurrent use; every submission may have one background
// completion goroutine in flight.
type Service struct {
	Repo   domain.Repository
	Faults analysisfaults.Repository // optional, best-effort failure log
	Images domain.ImageStore
	AI     domai.Client
	Prompt PromptBuilder
	Clock  application.Clock

	wg sync.WaitGroup
}

// PromptBuilder renders the final prompt from the stored user intent and the
// probed screenshot dimensions.
type PromptBuilder interface {
	Build(userIntent string, width, height int) string
}

// Submit persists a new record in processing state and fires the AI analysis
// in the background. It returns the fresh record immediately; callers observe
// completion by polling the status.
func (s *Service) Submit(ctx context.Context, ownerID, imagePath, userIntent string) (*domain.Analysis, error) {
	if strings.TrimSpace(imagePath) == "" {
		return nil, domain.ErrNoFile
	}

	a := &domain.Analysis{
		ID:         domain.AnalysisID(uuid.New().String()),
		OwnerID:    ownerID,
		ImagePath:  imagePath,
		UserIntent: userIntent,
		Status:     domain.StatusProcessing,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, err
	}

	// 🚀 jalankan analisis di background, biar jalan sampai selesai
	s.wg.Add(1)
	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	go func() {
		defer s.wg.Done()
		defer middleware.DecrementAnalysesRunning()
		s.complete(context.Background(), a.ID, ownerID, imagePath, userIntent)
	}()

	return a, nil
}

// complete performs the AI call + extraction and writes exactly one terminal
// state. On any failure the record holds status=failed and nothing else; a
// partial result is never persisted.
func (s *Service) complete(ctx context.Context, id domain.AnalysisID, ownerID, imagePath, userIntent string) {
	aiResult, highlights, err := s.analyze(ctx, imagePath, userIntent)
	if err != nil {
		log.WithError(err).WithField("analysis_id", string(id)).Error("background analysis failed")
		middleware.IncrementAnalysesFailed()
		s.recordFault(ctx, ownerID, id, "analyze", err)

		if _, uerr := s.Repo.UpdateResult(ctx, id, domain.StatusFailed, "", nil); uerr != nil {
			log.WithError(uerr).WithField("analysis_id", string(id)).Error("failed to mark analysis failed")
			s.recordFault(ctx, ownerID, id, "persist", uerr)
		}
		return
	}

	rows, err := s.Repo.UpdateResult(ctx, id, domain.StatusCompleted, aiResult, highlights)
	if err != nil {
		log.WithError(err).WithField("analysis_id", string(id)).Error("failed to persist analysis result")
		s.recordFault(ctx, ownerID, id, "persist", err)
		return
	}
	if rows == 0 {
		// record deleted while the analysis was in flight; drop the result
		log.WithField("analysis_id", string(id)).Info("analysis deleted before completion, result dropped")
	}
}

func (s *Service) analyze(ctx context.Context, imagePath, userIntent string) (string, []domain.Highlight, error) {
	data, err := s.Images.Read(ctx, imagePath)
	if err != nil {
		return "", nil, err
	}
	width, height := imageDimensions(imagePath, data)

	prompt := s.Prompt.Build(userIntent, width, height)
	text, err := s.AI.Analyze(ctx, imagePath, prompt)
	if err != nil {
		return "", nil, err
	}
	return text, domain.ExtractHighlights(text), nil
}

// Get ambil 1 analysis by id, scoped ke owner
func (s *Service) Get(ctx context.Context, ownerID string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, ownerID, id)
}

// List semua analysis milik owner, terbaru dulu
func (s *Service) List(ctx context.Context, ownerID string) ([]*domain.Analysis, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Delete removes the stored image (best effort) and then the record. The
// ownership check happens before any side effect.
func (s *Service) Delete(ctx context.Context, ownerID string, id domain.AnalysisID) error {
	a, err := s.Repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.Images.Remove(ctx, a.ImagePath); err != nil {
		log.WithError(err).WithField("image_path", a.ImagePath).Warn("failed to remove image file")
	}
	return s.Repo.Delete(ctx, ownerID, id)
}

// Wait blocks until every in-flight completion has finished. Used by shutdown
// and by tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) recordFault(ctx context.Context, ownerID string, id domain.AnalysisID, phase string, cause error) {
	if s.Faults == nil {
		return
	}
	f := &analysisfaults.Fault{
		OwnerID:    ownerID,
		AnalysisID: string(id),
		Phase:      phase,
		Message:    cause.Error(),
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Faults.Save(ctx, f); err != nil {
		log.WithError(err).Warn("failed to record analysis fault")
	}
}

// imageDimensions probes the screenshot size for the prompt. Probe failure is
// not fatal; the prompt then carries 0x0.
func imageDimensions(imagePath string, data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.WithError(err).WithField("image_path", imagePath).Warn("could not probe image dimensions")
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
