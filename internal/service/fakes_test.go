package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/queue"
	"github.com/iliyamo/escape-room-booking/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL schema.  It enforces the
// same unique keys (users.email, the active booking slot and
// reviews.booking_id) under one mutex, so races resolve the way the
// database resolves them.
type memDB struct {
	mu       sync.Mutex
	nextID   uint64
	clock    time.Time
	users    map[uint64]*model.User
	tokens   map[uint64]*model.PasswordResetToken
	locals   map[uint64]*model.Local
	rooms    map[uint64]*model.EscapeRoom
	bookings map[uint64]*model.Booking
	reviews  map[uint64]*model.Review

	failPasswordUpdate bool
}

func newMemDB() *memDB {
	return &memDB{
		clock:    time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		users:    map[uint64]*model.User{},
		tokens:   map[uint64]*model.PasswordResetToken{},
		locals:   map[uint64]*model.Local{},
		rooms:    map[uint64]*model.EscapeRoom{},
		bookings: map[uint64]*model.Booking{},
		reviews:  map[uint64]*model.Review{},
	}
}

// tick returns a new id and a strictly increasing timestamp.
func (db *memDB) tick() (uint64, time.Time) {
	db.nextID++
	db.clock = db.clock.Add(time.Second)
	return db.nextID, db.clock
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, x := range s.db.users {
		if x.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	id, now := s.db.tick()
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	cp := *u
	s.db.users[id] = &cp
	return nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memLedger struct{ db *memDB }

func (s memLedger) Issue(_ context.Context, userID uint64, hash string, expiresAt, now time.Time) (*model.PasswordResetToken, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	for _, t := range s.db.tokens {
		if t.UserID == userID && t.Active(now) {
			used := now
			t.UsedAt = &used
		}
	}
	id, _ := s.db.tick()
	t := &model.PasswordResetToken{ID: id, UserID: userID, TokenHash: hash, ExpiresAt: expiresAt, CreatedAt: now}
	s.db.tokens[id] = t
	cp := *t
	return &cp, nil
}

func (s memLedger) Consume(_ context.Context, hash, passwordHash string, now time.Time) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, t := range s.db.tokens {
		if t.TokenHash != hash {
			continue
		}
		if !t.Active(now) {
			return 0, repository.ErrStaleState
		}
		if s.db.failPasswordUpdate {
			return 0, errors.New("password update failed")
		}
		s.db.users[t.UserID].PasswordHash = passwordHash
		used := now
		t.UsedAt = &used
		return t.UserID, nil
	}
	return 0, repository.ErrNotFound
}

// activeTokens counts usable tokens of a user.
func (db *memDB) activeTokens(userID uint64, now time.Time) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, t := range db.tokens {
		if t.UserID == userID && t.Active(now) {
			n++
		}
	}
	return n
}

type memLocals struct{ db *memDB }

func (s memLocals) Create(_ context.Context, l *model.Local) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id, now := s.db.tick()
	l.ID, l.CreatedAt, l.UpdatedAt = id, now, now
	cp := *l
	s.db.locals[id] = &cp
	return nil
}

func (s memLocals) GetByID(_ context.Context, id uint64) (*model.Local, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	l, ok := s.db.locals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s memLocals) ListByOwner(_ context.Context, ownerID uint64) ([]model.Local, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Local{}
	for _, l := range s.db.locals {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memRooms struct{ db *memDB }

func (s memRooms) Create(_ context.Context, r *model.EscapeRoom) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id, now := s.db.tick()
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	cp := *r
	s.db.rooms[id] = &cp
	return nil
}

func (s memRooms) GetByID(_ context.Context, id uint64) (*model.EscapeRoom, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s memRooms) Update(_ context.Context, r *model.EscapeRoom) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.rooms[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *r
	cp.LocalID = cur.LocalID
	_, cp.UpdatedAt = s.db.tick()
	s.db.rooms[r.ID] = &cp
	*r = cp
	return nil
}

func (s memRooms) Deactivate(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.rooms[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.IsActive = false
	return nil
}

func (s memRooms) Search(_ context.Context, q repository.RoomQuery) ([]model.EscapeRoom, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var all []model.EscapeRoom
	for _, r := range s.db.rooms {
		if !r.IsActive || (q.City != "" && r.City != q.City) || (q.Difficulty != "" && r.Difficulty != q.Difficulty) {
			continue
		}
		if q.Theme != "" && !contains(r.Themes, q.Theme) {
			continue
		}
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool {
		switch q.Sort {
		case repository.SortOldest:
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		case repository.SortPriceAsc:
			return all[i].PriceFrom < all[j].PriceFrom
		case repository.SortPriceDesc:
			return all[i].PriceFrom > all[j].PriceFrom
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s memRooms) OwnerOf(_ context.Context, roomID uint64) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.rooms[roomID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	l, ok := s.db.locals[r.LocalID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return l.OwnerID, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type memBookings struct {
	db *memDB
	// skipPrecheck makes HasActive always report a free slot so tests
	// exercise the unique-key path.
	skipPrecheck bool
	// staleOnce makes the next Transition miss its compare-and-set.
	staleOnce bool
}

func (s *memBookings) Create(_ context.Context, b *model.Booking) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, x := range s.db.bookings {
		if x.RoomID == b.RoomID && x.ScheduledAt.Equal(b.ScheduledAt) && x.Status.Active() && b.Status.Active() {
			return repository.ErrDuplicate
		}
	}
	id, now := s.db.tick()
	b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
	cp := *b
	s.db.bookings[id] = &cp
	return nil
}

func (s *memBookings) HasActive(_ context.Context, roomID uint64, at time.Time) (bool, error) {
	if s.skipPrecheck {
		return false, nil
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, x := range s.db.bookings {
		if x.RoomID == roomID && x.ScheduledAt.Equal(at) && x.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBookings) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memBookings) Transition(_ context.Context, id uint64, to model.BookingStatus, from ...model.BookingStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.staleOnce {
		s.staleOnce = false
		return repository.ErrStaleState
	}
	b, ok := s.db.bookings[id]
	if !ok {
		return repository.ErrStaleState
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			_, b.UpdatedAt = s.db.tick()
			return nil
		}
	}
	return repository.ErrStaleState
}

func (s *memBookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.db.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memBookings) ListForOwner(_ context.Context, q repository.OwnerBookingQuery) ([]model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.db.bookings {
		room := s.db.rooms[b.RoomID]
		local := s.db.locals[room.LocalID]
		if q.OwnerID != nil && local.OwnerID != *q.OwnerID {
			continue
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memReviews struct {
	db *memDB
	// skipPrecheck hides existing reviews from ExistsForBooking.
	skipPrecheck bool
}

func (s *memReviews) Create(_ context.Context, rv *model.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, x := range s.db.reviews {
		if x.BookingID == rv.BookingID {
			return repository.ErrDuplicate
		}
	}
	id, now := s.db.tick()
	rv.ID, rv.CreatedAt, rv.UpdatedAt = id, now, now
	cp := *rv
	s.db.reviews[id] = &cp
	return nil
}

func (s *memReviews) ExistsForBooking(_ context.Context, bookingID uint64) (bool, error) {
	if s.skipPrecheck {
		return false, nil
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, x := range s.db.reviews {
		if x.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memReviews) ListByUser(_ context.Context, userID uint64) ([]model.Review, error) {
	return s.list(func(rv *model.Review) bool { return rv.UserID == userID }), nil
}

func (s *memReviews) ListByRoom(_ context.Context, roomID uint64) ([]model.Review, error) {
	return s.list(func(rv *model.Review) bool { return rv.RoomID == roomID }), nil
}

func (s *memReviews) list(keep func(*model.Review) bool) []model.Review {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Review{}
	for _, rv := range s.db.reviews {
		if keep(rv) {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// mockPublisher records booking events.
type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, ev queue.BookingStatusEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// fakeMailer captures reset links.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct{ to, url string }

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, url: resetURL})
	return f.err
}

// blockingMailer holds every send until release is closed.
type blockingMailer struct {
	release chan struct{}
	inner   *fakeMailer
}

func (b blockingMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	<-b.release
	return b.inner.SendPasswordReset(ctx, to, resetURL)
}

func (f *fakeMailer) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
