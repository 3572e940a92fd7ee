package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// DefaultQRSize is the edge length in pixels of a share QR code
const DefaultQRSize = 256

// BaseURLSource provides the externally reachable base URL
type BaseURLSource interface {
	GetBaseURL(ctx context.Context) (string, error)
}

// ShareService builds links and QR codes that open a program on another device
type ShareService struct {
	log      logger.Logger
	repo     repository.ProgramRepository
	settings BaseURLSource
}

// NewShareService creates a new ShareService
func NewShareService(log logger.Logger, repo repository.ProgramRepository, settings BaseURLSource) *ShareService {
	return &ShareService{log: log, repo: repo, settings: settings}
}

// ProgramURL returns <base_url>/programs/<id>
func (s *ShareService) ProgramURL(ctx context.Context, programID int) (string, error) {
	if _, err := requireProgram(ctx, s.repo, programID); err != nil {
		return "", err
	}
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		return "", ErrNoBaseURL
	}
	return fmt.Sprintf("%s/programs/%d", strings.TrimSuffix(baseURL, "/"), programID), nil
}

// ProgramQR returns a PNG QR code of the program URL. A size of 0 uses DefaultQRSize.
func (s *ShareService) ProgramQR(ctx context.Context, programID, size int) ([]byte, error) {
	link, err := s.ProgramURL(ctx, programID)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	s.log.Debug("Generating QR code", "program_id", programID, "url", link)
	return qrcode.Encode(link, qrcode.Medium, size)
}
