package handler

import (
	"context"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/service"
)

// The interfaces below are the service methods each handler calls.  The
// concrete services in internal/service satisfy them.

type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Me(ctx context.Context, id authz.Identity) (*model.User, error)
}

type PasswordResetter interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, secret, newPassword string) error
}

type Catalog interface {
	CreateLocal(ctx context.Context, actor authz.Identity, in service.LocalInput) (*model.Local, error)
	ListMyLocales(ctx context.Context, actor authz.Identity) ([]model.Local, error)
	ListRooms(ctx context.Context, f service.RoomFilter) (*service.RoomPage, error)
	GetRoom(ctx context.Context, id uint64) (*model.EscapeRoom, error)
	CreateRoom(ctx context.Context, actor authz.Identity, in service.RoomInput) (*model.EscapeRoom, error)
	UpdateRoom(ctx context.Context, actor authz.Identity, id uint64, patch service.RoomPatch) (*model.EscapeRoom, error)
	DeleteRoom(ctx context.Context, actor authz.Identity, id uint64) error
}

type Bookings interface {
	Create(ctx context.Context, actor authz.Identity, in service.CreateBookingInput) (*model.Booking, error)
	CancelByUser(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error)
	Confirm(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error)
	Complete(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error)
	CancelByOwner(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error)
	ListMine(ctx context.Context, actor authz.Identity) ([]model.Booking, error)
	ListForOwner(ctx context.Context, actor authz.Identity, status string) ([]model.Booking, error)
}

type Reviews interface {
	Create(ctx context.Context, actor authz.Identity, in service.CreateReviewInput) (*model.Review, error)
	ListMine(ctx context.Context, actor authz.Identity) ([]model.Review, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Review, error)
}

var (
	_ Authenticator    = (*service.AuthService)(nil)
	_ PasswordResetter = (*service.PasswordResetService)(nil)
	_ Catalog          = (*service.CatalogService)(nil)
	_ Bookings         = (*service.BookingService)(nil)
	_ Reviews          = (*service.ReviewService)(nil)
)
