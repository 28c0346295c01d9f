package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/pkg/sendGrid"
)

// NotificationService tells the back-office about loyalty follow-ups that
// need manual reconciliation.
type NotificationService interface {
	NotifySettlementWarning(ctx context.Context, session models.Session, warning *models.SettlementWarning) error
}

type notificationService struct {
	emailService sendGrid.EmailService
	recipient    string
}

// NewNotificationService returns a notifier that mails recipient. With no
// email service or no recipient configured every notification is dropped.
func NewNotificationService(emailService sendGrid.EmailService, recipient string) NotificationService {
	return &notificationService{emailService: emailService, recipient: strings.TrimSpace(recipient)}
}

// NotifySettlementWarning implements NotificationService.
func (n *notificationService) NotifySettlementWarning(ctx context.Context, session models.Session, warning *models.SettlementWarning) error {

	if n.emailService == nil || n.recipient == "" {
		return nil
	}

	req := &models.EmailNotificationRequest{
		To:      n.recipient,
		Subject: fmt.Sprintf("[POS] %s failed for sale %s", warning.Operation, warning.SaleNumber),
		Content: settlementWarningBody(session, warning),
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		return fmt.Errorf("failed to send settlement alert: %w", err)
	}

	middleware.LoggerFromContext(ctx).Info("Settlement alert sent",
		slog.String("warningId", warning.ID.String()),
		slog.String("recipient", n.recipient),
	)

	return nil
}

func settlementWarningBody(session models.Session, warning *models.SettlementWarning) string {

	var b strings.Builder

	fmt.Fprintf(&b, "A loyalty follow-up failed after sale %s was recorded.\n\n", warning.SaleNumber)
	fmt.Fprintf(&b, "Warning:       %s\n", warning.ID)
	fmt.Fprintf(&b, "Operation:     %s\n", warning.Operation)
	fmt.Fprintf(&b, "Card:          %s\n", warning.CardNumber)

	switch warning.Operation {
	case models.SettlementWalletDeduct:
		fmt.Fprintf(&b, "Wallet amount: %.2f\n", warning.Amount)
	case models.SettlementPointsAdd:
		fmt.Fprintf(&b, "Points:        %.0f\n", warning.Amount)
	}

	fmt.Fprintf(&b, "Cash register: %d\n", session.CashRegisterID)
	fmt.Fprintf(&b, "Cashier:       %s\n", session.Username)
	fmt.Fprintf(&b, "Reason:        %s\n\n", warning.Reason)
	b.WriteString("Retry it from POST /api/v1/settlements/warnings/{id}/retry once the back-office is reachable.\n")

	return b.String()
}
