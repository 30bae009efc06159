package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/catalog-admin/internal/imagehost"
)

type HostMock struct {
	mock.Mock
}

func (m *HostMock) Upload(ctx context.Context, r io.Reader) (imagehost.Image, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(imagehost.Image), args.Error(1)
}

func (m *HostMock) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}
