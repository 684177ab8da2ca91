package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstr1/internal/domain"
	"gstr1/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, input service.GenerateInput) (*domain.RunResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunResult), args.Error(1)
}
