package appointments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"laikavet/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Appointment
}

func newTestRepo(as ...Appointment) *testRepo {
	r := &testRepo{byID: map[string]Appointment{}}
	for _, a := range as {
		r.byID[a.ID] = a
	}
	return r
}

func (r *testRepo) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	return r.ListBetween(ctx, date, date)
}

func (r *testRepo) ListBetween(ctx context.Context, from, to string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Appointment{}
	for _, a := range r.byID {
		if a.Date >= from && a.Date <= to {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, id string) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) Insert(ctx context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

type idSet map[string]bool

func (s idSet) Exists(ctx context.Context, id string) (bool, error)         { return s[id], nil }
func (s idSet) IsVeterinarian(ctx context.Context, id string) (bool, error) { return s[id], nil }

type testNotifier struct {
	mu        sync.Mutex
	scheduled []notify.AppointmentEvent
	reminders []notify.AppointmentEvent
	err       error
}

func (n *testNotifier) AppointmentScheduled(ctx context.Context, e notify.AppointmentEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = append(n.scheduled, e)
	return n.err
}

func (n *testNotifier) AppointmentReminder(ctx context.Context, e notify.AppointmentEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, e)
	return n.err
}

func newTestService(repo *testRepo, n *testNotifier) *Service {
	var notifier notify.Notifier
	if n != nil {
		notifier = n
	}
	svc := NewService(repo, idSet{"1": true, "2": true}, idSet{"2": true}, notifier, nil)
	svc.now = func() time.Time { return time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestListForDate_FiltersAndSortsByTime(t *testing.T) {
	repo := newTestRepo(
		Appointment{ID: "a", Date: "2025-12-02", Time: "11:30"},
		Appointment{ID: "b", Date: "2025-12-02", Time: "09:00"},
		Appointment{ID: "c", Date: "2025-12-03", Time: "08:00"},
		Appointment{ID: "d", Date: "2025-12-02", Time: "09:00"},
	)
	svc := newTestService(repo, nil)

	got, err := svc.ListForDate(context.Background(), "2025-12-02")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "d", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})

	empty, err := svc.ListForDate(context.Background(), "2025-12-04")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.ListForDate(context.Background(), "02/12/2025")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_PendingAndNotifies(t *testing.T) {
	n := &testNotifier{}
	svc := newTestService(newTestRepo(), n)

	a, err := svc.Create(context.Background(), CreateInput{
		PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00", Type: TypeVacunacion,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, StatusPending, a.Status)

	require.Len(t, n.scheduled, 1)
	assert.Equal(t, notify.KindScheduled, n.scheduled[0].Kind)
	assert.Equal(t, a.ID, n.scheduled[0].AppointmentID)
	assert.Equal(t, "vacunacion", n.scheduled[0].Type)

	got, err := svc.ListForDate(context.Background(), "2025-12-02")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestCreate_NotifierErrorIsNotReturned(t *testing.T) {
	n := &testNotifier{err: errors.New("broker down")}
	svc := newTestService(newTestRepo(), n)

	_, err := svc.Create(context.Background(), CreateInput{
		PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00",
	})
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"bad date", CreateInput{PatientID: "1", VetID: "2", Date: "2025-13-01", Time: "10:00"}, ErrInvalidInput},
		{"unpadded time", CreateInput{PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "9:00"}, ErrInvalidInput},
		{"bad type", CreateInput{PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00", Type: "grooming"}, ErrInvalidInput},
		{"empty patient", CreateInput{VetID: "2", Date: "2025-12-02", Time: "10:00"}, ErrDanglingReference},
		{"unknown patient", CreateInput{PatientID: "9", VetID: "2", Date: "2025-12-02", Time: "10:00"}, ErrDanglingReference},
		{"not a vet", CreateInput{PatientID: "1", VetID: "1", Date: "2025-12-02", Time: "10:00"}, ErrDanglingReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_RejectsDoubleBookingUnlessCancelled(t *testing.T) {
	repo := newTestRepo(Appointment{ID: "x", PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00", Status: StatusConfirmed})
	svc := newTestService(repo, nil)
	ctx := context.Background()

	in := CreateInput{PatientID: "2", VetID: "2", Date: "2025-12-02", Time: "10:00"}
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = svc.Transition(ctx, "x", StatusDone)
	require.NoError(t, err)
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrSlotTaken, "done still occupies the slot")

	repo.byID["x"] = Appointment{ID: "x", PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00", Status: StatusCancelled}
	_, err = svc.Create(ctx, in)
	assert.NoError(t, err)
}

func TestTransition_CancelledIsTerminal(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00"})
	require.NoError(t, err)

	a, err = svc.Transition(ctx, a.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, a.Status)

	_, err = svc.Transition(ctx, a.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestTransition_HappyPathAndErrors(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{PatientID: "1", VetID: "2", Date: "2025-12-02", Time: "10:00"})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, a.ID, StatusDone)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot jump to done")

	a, err = svc.Transition(ctx, a.ID, StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, a.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	a, err = svc.Transition(ctx, a.ID, StatusDone)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, a.Status)

	_, err = svc.Transition(ctx, "missing", StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Transition(ctx, a.ID, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListUpcoming_SkipsCancelled(t *testing.T) {
	repo := newTestRepo(
		Appointment{ID: "a", Date: "2025-12-02", Time: "11:00", Status: StatusPending},
		Appointment{ID: "b", Date: "2025-12-02", Time: "10:00", Status: StatusCancelled},
		Appointment{ID: "c", Date: "2025-12-03", Time: "08:00", Status: StatusConfirmed},
		Appointment{ID: "d", Date: "2025-12-05", Time: "08:00", Status: StatusPending},
	)
	svc := newTestService(repo, nil)

	got, err := svc.ListUpcoming(context.Background(), "2025-12-02", "2025-12-03")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	_, err = svc.ListUpcoming(context.Background(), "2025-12-03", "2025-12-02")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemind_PublishesReminder(t *testing.T) {
	n := &testNotifier{}
	svc := newTestService(newTestRepo(), n)

	err := svc.Remind(context.Background(), Appointment{ID: "a", Status: StatusConfirmed, Type: TypeConsulta})
	require.NoError(t, err)
	require.Len(t, n.reminders, 1)
	assert.Equal(t, notify.KindReminder, n.reminders[0].Kind)
	assert.Equal(t, "confirmed", n.reminders[0].Status)
}
