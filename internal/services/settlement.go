package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	repository "github.com/aaravmahajanofficial/dutyfree-pos/internal/repositories"
	"github.com/google/uuid"
)

const (
	defaultWarningLimit = 20
	maxWarningLimit     = 100
)

type SettlementService interface {
	ListOpen(ctx context.Context, limit int) (*models.PaginatedResponse, error)
	Retry(ctx context.Context, session models.Session, id uuid.UUID) (*models.SettlementWarning, error)
}

type settlementService struct {
	repo   repository.SettlementRepository
	client backoffice.Client
}

func NewSettlementService(repo repository.SettlementRepository, client backoffice.Client) SettlementService {
	return &settlementService{repo: repo, client: client}
}

// ListOpen returns the oldest unresolved warnings first.
func (s *settlementService) ListOpen(ctx context.Context, limit int) (*models.PaginatedResponse, error) {

	if limit < 1 {
		limit = defaultWarningLimit
	}

	if limit > maxWarningLimit {
		limit = maxWarningLimit
	}

	warnings, total, err := s.repo.ListOpen(ctx, limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list settlement warnings").WithError(err)
	}

	if warnings == nil {
		warnings = []*models.SettlementWarning{}
	}

	return &models.PaginatedResponse{Data: warnings, Total: total, Limit: limit}, nil
}

// Retry re-issues the failed loyalty operation with the caller's token. The
// entry is claimed before the back-office call so concurrent retries of one
// warning issue a single operation, and the claim is released if the call fails.
func (s *settlementService) Retry(ctx context.Context, session models.Session, id uuid.UUID) (*models.SettlementWarning, error) {

	logger := middleware.LoggerFromContext(ctx)

	warning, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrWarningNotFound) {
			return nil, errors.NotFoundError("Settlement warning not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load settlement warning").WithError(err)
	}

	if warning.Resolved {
		return nil, errors.BadRequestError("Settlement warning already resolved").WithDetail(id.String())
	}

	if warning.Operation != models.SettlementWalletDeduct && warning.Operation != models.SettlementPointsAdd {
		return nil, errors.InternalError("Unknown settlement operation").WithDetail(string(warning.Operation))
	}

	if err := s.repo.MarkResolved(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrWarningNotFound) {
			return nil, errors.BadRequestError("Settlement warning already resolved").WithDetail(id.String()).WithError(err)
		}

		return nil, errors.DatabaseError("Failed to resolve settlement warning").WithError(err)
	}

	if warning.Operation == models.SettlementWalletDeduct {
		_, err = s.client.DeductFromWallet(ctx, session.Token, warning.CardNumber, warning.Amount)
	} else {
		_, err = s.client.AddPoints(ctx, session.Token, warning.CardNumber, int64(warning.Amount))
	}

	if err != nil {
		logger.Warn("Settlement retry failed",
			slog.String("warningId", id.String()),
			slog.String("operation", string(warning.Operation)),
			slog.String("error", err.Error()),
		)

		if reopenErr := s.repo.Reopen(ctx, id); reopenErr != nil {
			logger.Error("Failed to reopen settlement warning",
				slog.String("warningId", id.String()),
				slog.String("error", reopenErr.Error()),
			)
		}

		return nil, upstreamError("Failed to retry settlement operation", err)
	}

	logger.Info("Settlement warning resolved",
		slog.String("warningId", id.String()),
		slog.String("saleNumber", warning.SaleNumber),
		slog.String("operation", string(warning.Operation)),
	)

	resolvedAt := time.Now().UTC()
	warning.Resolved = true
	warning.ResolvedAt = &resolvedAt

	return warning, nil
}
