// Package mocks holds a testify mock of the e-mail service.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *EmailService) GetSendGridClient() *sendgrid.Client {
	return nil
}
