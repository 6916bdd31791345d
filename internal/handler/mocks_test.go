package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/service"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	r, _ := args.Get(0).(*service.LoginResult)
	return r, args.Error(1)
}

func (m *mockAuth) Me(ctx context.Context, id authz.Identity) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockReset struct{ mock.Mock }

func (m *mockReset) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockReset) ResetPassword(ctx context.Context, secret, newPassword string) error {
	return m.Called(ctx, secret, newPassword).Error(0)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) CreateLocal(ctx context.Context, actor authz.Identity, in service.LocalInput) (*model.Local, error) {
	args := m.Called(ctx, actor, in)
	l, _ := args.Get(0).(*model.Local)
	return l, args.Error(1)
}

func (m *mockCatalog) ListMyLocales(ctx context.Context, actor authz.Identity) ([]model.Local, error) {
	args := m.Called(ctx, actor)
	l, _ := args.Get(0).([]model.Local)
	return l, args.Error(1)
}

func (m *mockCatalog) ListRooms(ctx context.Context, f service.RoomFilter) (*service.RoomPage, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).(*service.RoomPage)
	return p, args.Error(1)
}

func (m *mockCatalog) GetRoom(ctx context.Context, id uint64) (*model.EscapeRoom, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.EscapeRoom)
	return r, args.Error(1)
}

func (m *mockCatalog) CreateRoom(ctx context.Context, actor authz.Identity, in service.RoomInput) (*model.EscapeRoom, error) {
	args := m.Called(ctx, actor, in)
	r, _ := args.Get(0).(*model.EscapeRoom)
	return r, args.Error(1)
}

func (m *mockCatalog) UpdateRoom(ctx context.Context, actor authz.Identity, id uint64, patch service.RoomPatch) (*model.EscapeRoom, error) {
	args := m.Called(ctx, actor, id, patch)
	r, _ := args.Get(0).(*model.EscapeRoom)
	return r, args.Error(1)
}

func (m *mockCatalog) DeleteRoom(ctx context.Context, actor authz.Identity, id uint64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) one(args mock.Arguments) (*model.Booking, error) {
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) Create(ctx context.Context, actor authz.Identity, in service.CreateBookingInput) (*model.Booking, error) {
	return m.one(m.Called(ctx, actor, in))
}

func (m *mockBookings) CancelByUser(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return m.one(m.Called(ctx, actor, id))
}

func (m *mockBookings) Confirm(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return m.one(m.Called(ctx, actor, id))
}

func (m *mockBookings) Complete(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return m.one(m.Called(ctx, actor, id))
}

func (m *mockBookings) CancelByOwner(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return m.one(m.Called(ctx, actor, id))
}

func (m *mockBookings) ListMine(ctx context.Context, actor authz.Identity) ([]model.Booking, error) {
	args := m.Called(ctx, actor)
	l, _ := args.Get(0).([]model.Booking)
	return l, args.Error(1)
}

func (m *mockBookings) ListForOwner(ctx context.Context, actor authz.Identity, status string) ([]model.Booking, error) {
	args := m.Called(ctx, actor, status)
	l, _ := args.Get(0).([]model.Booking)
	return l, args.Error(1)
}

type mockReviews struct{ mock.Mock }

func (m *mockReviews) Create(ctx context.Context, actor authz.Identity, in service.CreateReviewInput) (*model.Review, error) {
	args := m.Called(ctx, actor, in)
	r, _ := args.Get(0).(*model.Review)
	return r, args.Error(1)
}

func (m *mockReviews) ListMine(ctx context.Context, actor authz.Identity) ([]model.Review, error) {
	args := m.Called(ctx, actor)
	l, _ := args.Get(0).([]model.Review)
	return l, args.Error(1)
}

func (m *mockReviews) ListByRoom(ctx context.Context, roomID uint64) ([]model.Review, error) {
	args := m.Called(ctx, roomID)
	l, _ := args.Get(0).([]model.Review)
	return l, args.Error(1)
}
