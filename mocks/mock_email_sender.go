package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstr1/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReportReady(ctx context.Context, toEmail string, n port.ReportNotification) error {
	args := m.Called(ctx, toEmail, n)
	return args.Error(0)
}
