package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"laikavet/internal/domain/appointments"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointments struct {
	items    []appointments.Appointment
	listErr  error
	failIDs  map[string]bool
	from, to string
	reminded []string
}

func (f *fakeAppointments) ListUpcoming(_ context.Context, from, to string) ([]appointments.Appointment, error) {
	f.from, f.to = from, to
	return f.items, f.listErr
}

func (f *fakeAppointments) Remind(_ context.Context, a appointments.Appointment) error {
	if f.failIDs[a.ID] {
		return errors.New("broker down")
	}
	f.reminded = append(f.reminded, a.ID)
	return nil
}

func newTestJob(f *fakeAppointments) *Job {
	j := New(f, nil)
	j.now = func() time.Time { return time.Date(2026, 3, 31, 7, 0, 0, 0, time.UTC) }
	return j
}

func TestRunOnce_RemindsTomorrow(t *testing.T) {
	f := &fakeAppointments{
		items:   []appointments.Appointment{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}},
		failIDs: map[string]bool{"a2": true},
	}

	sent, err := newTestJob(f).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-04-01", f.from)
	assert.Equal(t, "2026-04-01", f.to)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"a1", "a3"}, f.reminded)
}

func TestRunOnce_ListError(t *testing.T) {
	f := &fakeAppointments{listErr: errors.New("db down")}

	sent, err := newTestJob(f).RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, sent)
}

func TestRunOnce_StopsOnCancel(t *testing.T) {
	f := &fakeAppointments{items: []appointments.Appointment{{ID: "a1"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := newTestJob(f).RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sent)
	assert.Empty(t, f.reminded)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	j := newTestJob(&fakeAppointments{})

	_, err := Schedule(c, "", j)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	_, err = Schedule(c, "not a spec", j)
	assert.Error(t, err)
}
