package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/notify"
)

type stubStore struct {
	reservations map[uint]*models.Reservation
	rooms        map[uint]*models.Room
	users        map[uint]*models.User
	nextID       uint
	inserts      int
	saves        int
}

func newStubStore() *stubStore {
	s := &stubStore{
		reservations: make(map[uint]*models.Reservation),
		rooms:        make(map[uint]*models.Room),
		users:        make(map[uint]*models.User),
	}
	s.rooms[1] = &models.Room{ID: 1, RoomName: "Boardroom", Capacity: 10, Location: "HQ", RoomType: models.RoomTypeConference}
	s.rooms[2] = &models.Room{ID: 2, RoomName: "Huddle A", Capacity: 4, Location: "HQ", RoomType: models.RoomTypeHuddle}
	s.users[1] = &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	s.users[2] = &models.User{ID: 2, Username: "bob", Email: "bob@example.com"}
	s.users[3] = &models.User{ID: 3, Username: "root", Email: "root@example.com", IsStaff: true}
	return s
}

func (s *stubStore) InTx(fn func(store ReservationStore) error) error {
	return fn(s)
}

func (s *stubStore) FindOverlapping(roomID uint, date time.Time, start, end string, excludeID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range s.reservations {
		if r.ID == excludeID {
			continue
		}
		if r.Overlaps(roomID, date, start, end) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubStore) Insert(r *models.Reservation) error {
	s.nextID++
	r.ID = s.nextID
	copied := *r
	s.reservations[r.ID] = &copied
	s.inserts++
	return nil
}

func (s *stubStore) FindByID(id uint) (*models.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *stubStore) Save(r *models.Reservation) error {
	if _, ok := s.reservations[r.ID]; !ok {
		return ErrNotFound
	}
	copied := *r
	s.reservations[r.ID] = &copied
	s.saves++
	return nil
}

func (s *stubStore) Delete(id uint) error {
	if _, ok := s.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *stubStore) list(filter func(*models.Reservation) bool) []models.Reservation {
	var out []models.Reservation
	for _, r := range s.reservations {
		if filter(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *stubStore) ListAll() ([]models.Reservation, error) {
	return s.list(func(*models.Reservation) bool { return true }), nil
}

func (s *stubStore) ListByUser(userID uint) ([]models.Reservation, error) {
	return s.list(func(r *models.Reservation) bool { return r.UserID == userID }), nil
}

func (s *stubStore) ListConfirmedOn(date time.Time) ([]models.Reservation, error) {
	return s.list(func(r *models.Reservation) bool {
		return r.Status == models.StatusConfirmed && sameDate(r.Date, date)
	}), nil
}

func (s *stubStore) FindRoom(id uint) (*models.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return room, nil
}

func (s *stubStore) FindUser(id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *stubStore) confirmedCount(roomID uint, date time.Time) int {
	count := 0
	for _, r := range s.reservations {
		if r.RoomID == roomID && r.Status == models.StatusConfirmed && sameDate(r.Date, date) {
			count++
		}
	}
	return count
}

type sentNotification struct {
	kind      notify.Kind
	recipient string
}

type stubNotifier struct {
	sent []sentNotification
	err  error
}

func (n *stubNotifier) Send(kind notify.Kind, recipientEmail string, snap notify.Snapshot) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{kind: kind, recipient: recipientEmail})
	return nil
}

type stubAudit struct{ entries int }

func (a *stubAudit) CreateAuditLog(userID *uint, action string, details map[string]interface{}) error {
	a.entries++
	return nil
}

func newTestService() (*ReservationService, *stubStore, *stubNotifier) {
	store := newStubStore()
	notifier := &stubNotifier{}
	return NewReservationService(store, notifier, &stubAudit{}), store, notifier
}

var testDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func mustCreate(t *testing.T, svc *ReservationService, actor models.Actor, in CreateInput) *models.Reservation {
	t.Helper()
	result, err := svc.Create(actor, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return result.Reservation
}

func TestCreateConfirmsReservation(t *testing.T) {
	svc, store, notifier := newTestService()
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	if r.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want Confirmed", r.Status)
	}
	if r.UserID != 1 {
		t.Errorf("user = %d, want actor 1", r.UserID)
	}
	if r.StartTime != "09:00:00" || r.EndTime != "10:00:00" {
		t.Errorf("interval = [%s, %s), want normalized times", r.StartTime, r.EndTime)
	}
	if store.confirmedCount(1, testDate) != 1 {
		t.Errorf("confirmed count = %d, want 1", store.confirmedCount(1, testDate))
	}
	if len(notifier.sent) != 1 || notifier.sent[0].kind != notify.KindConfirmation {
		t.Errorf("notifications = %v, want one confirmation", notifier.sent)
	}
	if notifier.sent[0].recipient != "alice@example.com" {
		t.Errorf("recipient = %q, want alice@example.com", notifier.sent[0].recipient)
	}
}

func TestCreateInvertedIntervalFailsValidation(t *testing.T) {
	svc, store, _ := newTestService()

	for _, interval := range [][2]string{{"10:00", "09:00"}, {"09:00", "09:00"}} {
		_, err := svc.Create(models.Actor{ID: 1}, CreateInput{
			RoomID: 1, Date: testDate, StartTime: interval[0], EndTime: interval[1],
		})
		if !IsValidation(err) {
			t.Errorf("Create [%s,%s) error = %v, want ValidationError", interval[0], interval[1], err)
		}
	}
	if store.inserts != 0 {
		t.Errorf("inserts = %d, want 0 after failed validation", store.inserts)
	}
}

func TestCreateOverlapConflicts(t *testing.T) {
	svc, store, _ := newTestService()
	actor := models.Actor{ID: 1}

	mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	_, err := svc.Create(actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:30", EndTime: "10:30"})
	if !IsConflict(err) {
		t.Fatalf("overlapping create error = %v, want ConflictError", err)
	}
	if got := store.confirmedCount(1, testDate); got != 1 {
		t.Errorf("confirmed count = %d, want 1 after rejected overlap", got)
	}
}

func TestCreateAdjacentIntervalsAllowed(t *testing.T) {
	svc, _, _ := newTestService()
	actor := models.Actor{ID: 1}

	mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	// [10:00, 11:00) shares only the boundary; half-open intervals do not collide.
	if _, err := svc.Create(actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00"}); err != nil {
		t.Fatalf("adjacent create failed: %v", err)
	}
}

func TestCancelledReservationsDoNotBlock(t *testing.T) {
	svc, _, _ := newTestService()
	actor := models.Actor{ID: 1}

	first := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})
	if _, err := svc.Cancel(actor, first.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if _, err := svc.Create(actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("create over cancelled slot failed: %v", err)
	}
}

func TestOtherRoomOrDateDoesNotConflict(t *testing.T) {
	svc, _, _ := newTestService()
	actor := models.Actor{ID: 1}

	mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	if _, err := svc.Create(actor, CreateInput{RoomID: 2, Date: testDate, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("same slot in another room failed: %v", err)
	}
	nextDay := testDate.AddDate(0, 0, 1)
	if _, err := svc.Create(actor, CreateInput{RoomID: 1, Date: nextDay, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("same slot on another date failed: %v", err)
	}
}

func TestNonStaffCannotBookForOthers(t *testing.T) {
	svc, _, _ := newTestService()

	r := mustCreate(t, svc, models.Actor{ID: 1}, CreateInput{
		RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00", TargetUserID: 2,
	})
	if r.UserID != 1 {
		t.Errorf("user = %d, want 1 (non-staff target overridden)", r.UserID)
	}
}

func TestStaffBooksOnBehalf(t *testing.T) {
	svc, _, notifier := newTestService()

	r := mustCreate(t, svc, models.Actor{ID: 3, Staff: true}, CreateInput{
		RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00", TargetUserID: 2,
	})
	if r.UserID != 2 {
		t.Errorf("user = %d, want 2", r.UserID)
	}
	if notifier.sent[0].recipient != "bob@example.com" {
		t.Errorf("confirmation went to %q, want the target user", notifier.sent[0].recipient)
	}
}

func TestNotificationFailureDegradesButCommits(t *testing.T) {
	store := newStubStore()
	notifier := &stubNotifier{err: &notify.NotifyError{Kind: notify.KindConfirmation, Recipient: "alice@example.com", Err: errors.New("smtp down")}}
	svc := NewReservationService(store, notifier, &stubAudit{})

	result, err := svc.Create(models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if result.Warning == "" {
		t.Error("expected a degraded-success warning when notification fails")
	}
	if store.confirmedCount(1, testDate) != 1 {
		t.Error("reservation must stay committed despite notification failure")
	}
}

func TestUpdatePermission(t *testing.T) {
	svc, _, _ := newTestService()

	r := mustCreate(t, svc, models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	status := models.StatusConfirmed
	_, err := svc.Update(models.Actor{ID: 2}, r.ID, UpdateInput{Status: &status})
	if !errors.Is(err, ErrPermission) {
		t.Errorf("update of someone else's reservation error = %v, want ErrPermission", err)
	}
}

func TestNonStaffStatusPatchSilentlyDropped(t *testing.T) {
	svc, store, notifier := newTestService()
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	// Owner asking for any status other than Cancelled is ignored, not rejected.
	status := models.StatusPending
	result, err := svc.Update(actor, r.ID, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if result.Reservation.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want Confirmed (patch dropped)", result.Reservation.Status)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 for a no-op patch", store.saves)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("notifications = %d, want only the original confirmation", len(notifier.sent))
	}
}

func TestNonStaffUserFieldIgnored(t *testing.T) {
	svc, _, _ := newTestService()
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	other := uint(2)
	end := "11:00"
	result, err := svc.Update(actor, r.ID, UpdateInput{UserID: &other, EndTime: &end})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if result.Reservation.UserID != 1 {
		t.Errorf("user = %d, want 1 (user field dropped for non-staff)", result.Reservation.UserID)
	}
	if result.Reservation.EndTime != "11:00:00" {
		t.Errorf("end = %q, want the time change applied", result.Reservation.EndTime)
	}
}

func TestUpdateReRunsConflictCheckExcludingSelf(t *testing.T) {
	svc, _, _ := newTestService()
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	// Moving within its own slot must not conflict with itself.
	start, end := "09:15", "09:45"
	if _, err := svc.Update(actor, r.ID, UpdateInput{StartTime: &start, EndTime: &end}); err != nil {
		t.Fatalf("shrink within own slot failed: %v", err)
	}

	mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00"})

	// Extending into the second reservation must conflict.
	badEnd := "10:30"
	_, err := svc.Update(actor, r.ID, UpdateInput{EndTime: &badEnd})
	if !IsConflict(err) {
		t.Errorf("extend into booked slot error = %v, want ConflictError", err)
	}
}

func TestShrinkUnblocksOtherRequest(t *testing.T) {
	svc, _, _ := newTestService()
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "11:00"})

	blocked := CreateInput{RoomID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00"}
	if _, err := svc.Create(actor, blocked); !IsConflict(err) {
		t.Fatalf("pre-shrink create error = %v, want ConflictError", err)
	}

	end := "10:00"
	if _, err := svc.Update(actor, r.ID, UpdateInput{EndTime: &end}); err != nil {
		t.Fatalf("shrink failed: %v", err)
	}

	if _, err := svc.Create(actor, blocked); err != nil {
		t.Fatalf("post-shrink create failed: %v", err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	svc, _, notifier := newTestService()
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	result, err := svc.Cancel(actor, r.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if result.Reservation.Status != models.StatusCancelled {
		t.Errorf("status = %q, want Cancelled", result.Reservation.Status)
	}

	cancellations := 0
	for _, n := range notifier.sent {
		if n.kind == notify.KindCancellation {
			cancellations++
		}
	}
	if cancellations != 1 {
		t.Fatalf("cancellation notifications = %d, want exactly 1", cancellations)
	}

	// Cancelling again is a no-op with zero additional notifications.
	if _, err := svc.Cancel(actor, r.ID); err != nil {
		t.Fatalf("second Cancel failed: %v", err)
	}
	total := len(notifier.sent)
	if total != 2 { // one confirmation + one cancellation
		t.Errorf("notifications = %d, want 2 after idempotent re-cancel", total)
	}
}

func TestStaffCanSetPending(t *testing.T) {
	svc, _, _ := newTestService()
	staff := models.Actor{ID: 3, Staff: true}

	r := mustCreate(t, svc, staff, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	status := models.StatusPending
	result, err := svc.Update(staff, r.ID, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("staff Pending update failed: %v", err)
	}
	if result.Reservation.Status != models.StatusPending {
		t.Errorf("status = %q, want Pending", result.Reservation.Status)
	}

	// A Pending reservation does not block the slot.
	if _, err := svc.Create(models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("create over pending slot failed: %v", err)
	}
}

func TestReconfirmRunsConflictCheck(t *testing.T) {
	svc, _, _ := newTestService()
	staff := models.Actor{ID: 3, Staff: true}
	actor := models.Actor{ID: 1}

	r := mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})
	if _, err := svc.Cancel(actor, r.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	mustCreate(t, svc, actor, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:30", EndTime: "10:30"})

	status := models.StatusConfirmed
	_, err := svc.Update(staff, r.ID, UpdateInput{Status: &status})
	if !IsConflict(err) {
		t.Errorf("re-confirm into occupied slot error = %v, want ConflictError", err)
	}
}

func TestDeletePermissions(t *testing.T) {
	svc, store, _ := newTestService()

	r := mustCreate(t, svc, models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	if err := svc.Delete(models.Actor{ID: 2}, r.ID); !errors.Is(err, ErrPermission) {
		t.Errorf("delete by non-owner error = %v, want ErrPermission", err)
	}
	if err := svc.Delete(models.Actor{ID: 3, Staff: true}, r.ID); err != nil {
		t.Errorf("staff delete failed: %v", err)
	}
	if len(store.reservations) != 0 {
		t.Error("reservation still present after staff delete")
	}

	if err := svc.Delete(models.Actor{ID: 1}, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete of missing id error = %v, want ErrNotFound", err)
	}
}

func TestListVisibleScoping(t *testing.T) {
	svc, _, _ := newTestService()
	staff := models.Actor{ID: 3, Staff: true}

	mustCreate(t, svc, models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "12:00", EndTime: "13:00"})
	mustCreate(t, svc, models.Actor{ID: 2}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, svc, models.Actor{ID: 2}, CreateInput{RoomID: 2, Date: testDate.AddDate(0, 0, -1), StartTime: "09:00", EndTime: "10:00"})

	all, err := svc.ListVisible(staff)
	if err != nil {
		t.Fatalf("ListVisible(staff) failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("staff sees %d reservations, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Date.After(cur.Date) || (prev.Date.Equal(cur.Date) && prev.StartTime > cur.StartTime) {
			t.Errorf("ordering violated at %d: %v %s before %v %s", i, prev.Date, prev.StartTime, cur.Date, cur.StartTime)
		}
	}

	own, err := svc.ListVisible(models.Actor{ID: 2})
	if err != nil {
		t.Fatalf("ListVisible(user) failed: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("user sees %d reservations, want 2", len(own))
	}
	for _, r := range own {
		if r.UserID != 2 {
			t.Errorf("non-staff list leaked reservation of user %d", r.UserID)
		}
	}
}

func TestListOwnScopesStaffToThemselves(t *testing.T) {
	svc, _, _ := newTestService()
	staff := models.Actor{ID: 3, Staff: true}

	mustCreate(t, svc, models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})
	mustCreate(t, svc, staff, CreateInput{RoomID: 2, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	own, err := svc.ListOwn(staff)
	if err != nil {
		t.Fatalf("ListOwn failed: %v", err)
	}
	if len(own) != 1 || own[0].UserID != staff.ID {
		t.Errorf("ListOwn = %d rows, want only the staff member's own booking", len(own))
	}
}

func TestGetVisibility(t *testing.T) {
	svc, _, _ := newTestService()

	r := mustCreate(t, svc, models.Actor{ID: 1}, CreateInput{RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00"})

	if _, err := svc.Get(models.Actor{ID: 2}, r.ID); !errors.Is(err, ErrPermission) {
		t.Errorf("Get by stranger error = %v, want ErrPermission", err)
	}
	if _, err := svc.Get(models.Actor{ID: 3, Staff: true}, r.ID); err != nil {
		t.Errorf("Get by staff failed: %v", err)
	}
	if _, err := svc.Get(models.Actor{ID: 1}, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get of missing id error = %v, want ErrNotFound", err)
	}
}

func TestCreateUnknownRoomOrUser(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(models.Actor{ID: 1}, CreateInput{RoomID: 99, Date: testDate, StartTime: "09:00", EndTime: "10:00"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown room error = %v, want ErrNotFound", err)
	}

	_, err = svc.Create(models.Actor{ID: 3, Staff: true}, CreateInput{
		RoomID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00", TargetUserID: 99,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown target user error = %v, want ErrNotFound", err)
	}
}

func TestClockNormalization(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "09:00:00"},
		{in: "23:59:59", want: "23:59:59"},
		{in: "9am", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := normalizeClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("normalizeClock(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("normalizeClock(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
}
