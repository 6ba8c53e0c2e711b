package capacity

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chakai/reservation-api/internal/model"
)

// fakeStore is an in-memory capacity.Store with transaction semantics:
// WithTx runs against a deep copy and only publishes it when fn returns
// nil, mirroring commit/rollback of the SQL implementation.
type fakeStore struct {
	state fakeState
}

type fakeState struct {
	events       map[uint64]model.Event
	slots        map[uint64]model.TimeSlot
	reservations map[uint64]model.Reservation
	keys         map[string]uint64
	nextID       uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: fakeState{
		events:       map[uint64]model.Event{},
		slots:        map[uint64]model.TimeSlot{},
		reservations: map[uint64]model.Reservation{},
		keys:         map[string]uint64{},
		nextID:       1,
	}}
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx Ledger) error) error {
	work := s.state.clone()
	if err := fn(&fakeLedger{st: &work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (st fakeState) clone() fakeState {
	out := fakeState{
		events:       make(map[uint64]model.Event, len(st.events)),
		slots:        make(map[uint64]model.TimeSlot, len(st.slots)),
		reservations: make(map[uint64]model.Reservation, len(st.reservations)),
		keys:         make(map[string]uint64, len(st.keys)),
		nextID:       st.nextID,
	}
	for k, v := range st.events {
		out.events[k] = v
	}
	for k, v := range st.slots {
		out.slots[k] = v
	}
	for k, v := range st.reservations {
		v.Companions = append([]string(nil), v.Companions...)
		out.reservations[k] = v
	}
	for k, v := range st.keys {
		out.keys[k] = v
	}
	return out
}

func (s *fakeStore) addEvent(costYen uint32, active bool) uint64 {
	id := s.state.nextID
	s.state.nextID++
	s.state.events[id] = model.Event{ID: id, Title: "event", CostYen: costYen, IsActive: active, Version: 1}
	return id
}

func (s *fakeStore) addSlot(eventID uint64, max uint32) uint64 {
	id := s.state.nextID
	s.state.nextID++
	s.state.slots[id] = model.TimeSlot{ID: id, EventID: eventID, Label: "10:00", MaxParticipants: max, Version: 1}
	ev := s.state.events[eventID]
	ev.MaxParticipants += max
	s.state.events[eventID] = ev
	return id
}

type fakeLedger struct {
	st *fakeState
}

func (l *fakeLedger) EventForUpdate(_ context.Context, id uint64) (*model.Event, error) {
	e, ok := l.st.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

func (l *fakeLedger) SlotForUpdate(_ context.Context, id uint64) (*model.TimeSlot, error) {
	s, ok := l.st.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &s, nil
}

func (l *fakeLedger) ReservationForUpdate(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := l.st.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return &r, nil
}

func (l *fakeLedger) ReservationByNumberForUpdate(_ context.Context, eventID uint64, number string) (*model.Reservation, error) {
	for _, r := range l.st.reservations {
		if r.EventID == eventID && r.Number == number {
			return &r, nil
		}
	}
	return nil, ErrReservationNotFound
}

func (l *fakeLedger) ReservationByKey(_ context.Context, key string) (*model.Reservation, error) {
	id, ok := l.st.keys[key]
	if !ok {
		return nil, nil
	}
	r := l.st.reservations[id]
	return &r, nil
}

func (l *fakeLedger) NumberTaken(_ context.Context, eventID uint64, number string) (bool, error) {
	for _, r := range l.st.reservations {
		if r.EventID == eventID && r.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (l *fakeLedger) InsertReservation(_ context.Context, res *model.Reservation, key string) error {
	res.ID = l.st.nextID
	l.st.nextID++
	res.Version = 1
	l.st.reservations[res.ID] = *res
	if key != "" {
		l.st.keys[key] = res.ID
	}
	return nil
}

func (l *fakeLedger) UpdateReservation(_ context.Context, res *model.Reservation) error {
	cur, ok := l.st.reservations[res.ID]
	if !ok || cur.Version != res.Version {
		return ErrVersionConflict
	}
	res.Version++
	l.st.reservations[res.ID] = *res
	return nil
}

func (l *fakeLedger) DeleteReservation(_ context.Context, id uint64) error {
	delete(l.st.reservations, id)
	return nil
}

func (l *fakeLedger) DeleteReservationsBySlot(_ context.Context, slotID uint64) error {
	for id, r := range l.st.reservations {
		if r.SlotID == slotID {
			delete(l.st.reservations, id)
		}
	}
	return nil
}

func (l *fakeLedger) AddSlotSeats(_ context.Context, slotID uint64, delta int64) error {
	s := l.st.slots[slotID]
	s.CurrentParticipants = clamp(int64(s.CurrentParticipants) + delta)
	l.st.slots[slotID] = s
	return nil
}

func (l *fakeLedger) AddEventSeats(_ context.Context, eventID uint64, delta int64) error {
	e := l.st.events[eventID]
	e.CurrentParticipants = clamp(int64(e.CurrentParticipants) + delta)
	l.st.events[eventID] = e
	return nil
}

func (l *fakeLedger) InsertSlot(_ context.Context, slot *model.TimeSlot) error {
	slot.ID = l.st.nextID
	l.st.nextID++
	slot.Version = 1
	l.st.slots[slot.ID] = *slot
	return nil
}

func (l *fakeLedger) UpdateSlot(_ context.Context, slot *model.TimeSlot) error {
	cur, ok := l.st.slots[slot.ID]
	if !ok || cur.Version != slot.Version {
		return ErrVersionConflict
	}
	slot.Version++
	l.st.slots[slot.ID] = *slot
	return nil
}

func (l *fakeLedger) DeleteSlot(_ context.Context, slotID uint64) error {
	delete(l.st.slots, slotID)
	return nil
}

func (l *fakeLedger) SyncEventCapacity(_ context.Context, eventID uint64) error {
	var sum uint32
	for _, s := range l.st.slots {
		if s.EventID == eventID {
			sum += s.MaxParticipants
		}
	}
	e := l.st.events[eventID]
	e.MaxParticipants = sum
	l.st.events[eventID] = e
	return nil
}

func (l *fakeLedger) DeleteEventCascade(_ context.Context, eventID uint64) error {
	for id, r := range l.st.reservations {
		if r.EventID == eventID {
			delete(l.st.reservations, id)
		}
	}
	for id, s := range l.st.slots {
		if s.EventID == eventID {
			delete(l.st.slots, id)
		}
	}
	delete(l.st.events, eventID)
	return nil
}

func clamp(v int64) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// assertCountersConsistent checks the two ledger invariants: each
// event's and each slot's current_participants must equal the summed
// party sizes of its live reservations.
func assertCountersConsistent(t *testing.T, st *fakeStore) {
	t.Helper()
	eventSums := map[uint64]uint32{}
	slotSums := map[uint64]uint32{}
	for _, r := range st.state.reservations {
		eventSums[r.EventID] += r.Participants
		slotSums[r.SlotID] += r.Participants
	}
	for id, e := range st.state.events {
		assert.Equal(t, eventSums[id], e.CurrentParticipants, "event %d counter", id)
	}
	for id, s := range st.state.slots {
		assert.Equal(t, slotSums[id], s.CurrentParticipants, "slot %d counter", id)
	}
}

func baseReserve(eventID, slotID uint64, n uint32) ReserveInput {
	return ReserveInput{
		EventID:      eventID,
		SlotID:       slotID,
		Participants: n,
		Name:         "Hanako Sato",
		Email:        "hanako@example.com",
		Phone:        "090-0000-0000",
	}
}

// The concrete scenario from the capacity model: 1500 yen per head, one
// slot of 10; book 2, revise to 4, cancel, and the counters return to 0.
func TestServiceReserveReviseCancelScenario(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1500, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 2))
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), res.TotalCostYen)
	assert.Len(t, res.Number, 6)
	assert.Equal(t, uint32(2), st.state.slots[slotID].CurrentParticipants)
	assert.Equal(t, uint32(2), st.state.events[eventID].CurrentParticipants)
	assertCountersConsistent(t, st)

	revised, err := svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: res.ID,
		Version:       res.Version,
		SlotID:        slotID,
		Participants:  4,
		Name:          res.Name,
		Email:         res.Email,
		Phone:         res.Phone,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(6000), revised.TotalCostYen)
	assert.Equal(t, uint32(4), st.state.slots[slotID].CurrentParticipants)
	assert.Equal(t, uint32(4), st.state.events[eventID].CurrentParticipants)
	assertCountersConsistent(t, st)

	require.NoError(t, svc.CancelReservation(ctx, res.ID))
	assert.Equal(t, uint32(0), st.state.slots[slotID].CurrentParticipants)
	assert.Equal(t, uint32(0), st.state.events[eventID].CurrentParticipants)
	assertCountersConsistent(t, st)
}

func TestServiceReserveValidation(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 5)
	svc := NewService(st)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ReserveInput)
	}{
		{"zero participants", func(in *ReserveInput) { in.Participants = 0 }},
		{"oversized party", func(in *ReserveInput) { in.Participants = 4_294_967_290 }},
		{"too many companions", func(in *ReserveInput) {
			in.Companions = []string{"a", "b", "c", "d"}
		}},
		{"blank name", func(in *ReserveInput) { in.Name = "  " }},
		{"blank email", func(in *ReserveInput) { in.Email = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseReserve(eventID, slotID, 2)
			tc.mutate(&in)
			_, err := svc.ReserveSeats(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assertCountersConsistent(t, st)
}

func TestServiceReserveHardCap(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 5)
	svc := NewService(st)
	ctx := context.Background()

	_, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 4))
	require.NoError(t, err)

	_, err = svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 2))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	// The rejected booking must leave nothing behind.
	assert.Equal(t, uint32(4), st.state.slots[slotID].CurrentParticipants)
	assert.Len(t, st.state.reservations, 1)
	assertCountersConsistent(t, st)

	// Filling the slot exactly is allowed.
	_, err = svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 1))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), st.state.slots[slotID].CurrentParticipants)
}

// A party size chosen so that current+participants wraps around uint32
// must still be rejected, not slip under the cap.
func TestServiceReserveCapCheckDoesNotWrap(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 10))
	require.NoError(t, err)

	_, err = svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 4_294_967_290))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, uint32(10), st.state.slots[slotID].CurrentParticipants)
	assert.Len(t, st.state.reservations, 1)
	assertCountersConsistent(t, st)

	// Even with the counter itself near the uint32 ceiling the check
	// must not wrap. Drift a slot up and book a legal party size.
	crowded := st.addSlot(eventID, 10)
	sl := st.state.slots[crowded]
	sl.MaxParticipants = math.MaxUint32
	sl.CurrentParticipants = math.MaxUint32 - 5
	st.state.slots[crowded] = sl

	_, err = svc.ReserveSeats(ctx, baseReserve(eventID, crowded, 50))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, uint32(math.MaxUint32-5), st.state.slots[crowded].CurrentParticipants)

	// The cross-slot revise path runs the same check.
	_, err = svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: res.ID, Version: res.Version, SlotID: crowded,
		Participants: 50, Name: res.Name, Email: res.Email,
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, uint32(10), st.state.slots[slotID].CurrentParticipants)
}

func TestServiceReserveInactiveEvent(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, false)
	slotID := st.addSlot(eventID, 5)
	svc := NewService(st)
	ctx := context.Background()

	_, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 1))
	assert.ErrorIs(t, err, ErrEventInactive)

	// Admins may register reservations on unpublished events.
	in := baseReserve(eventID, slotID, 1)
	in.AdminOverride = true
	_, err = svc.ReserveSeats(ctx, in)
	assert.NoError(t, err)
}

func TestServiceReserveSlotOfOtherEvent(t *testing.T) {
	st := newFakeStore()
	eventA := st.addEvent(1000, true)
	eventB := st.addEvent(1000, true)
	slotB := st.addSlot(eventB, 5)
	svc := NewService(st)

	_, err := svc.ReserveSeats(context.Background(), baseReserve(eventA, slotB, 1))
	assert.ErrorIs(t, err, ErrSlotMismatch)
}

func TestServiceReserveIdempotentReplay(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(2000, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	in := baseReserve(eventID, slotID, 3)
	in.IdempotencyKey = "k-123"
	first, err := svc.ReserveSeats(ctx, in)
	require.NoError(t, err)

	// A double submission with the same key returns the original booking
	// and books nothing new.
	second, err := svc.ReserveSeats(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)
	assert.Len(t, st.state.reservations, 1)
	assert.Equal(t, uint32(3), st.state.events[eventID].CurrentParticipants)
	assertCountersConsistent(t, st)
}

func TestServiceReserveNumberCollisionRetries(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	numbers := []string{"111111", "111111", "222222"}
	svc.newNumber = func() (string, error) {
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n, nil
	}

	first, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 1))
	require.NoError(t, err)
	assert.Equal(t, "111111", first.Number)

	// The generator repeats the taken number once before yielding a free
	// one; the allocator must retry past the collision.
	second, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 1))
	require.NoError(t, err)
	assert.Equal(t, "222222", second.Number)
}

func TestServiceReviseMovesBetweenSlots(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1500, true)
	morning := st.addSlot(eventID, 10)
	afternoon := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, morning, 3))
	require.NoError(t, err)

	_, err = svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: res.ID,
		Version:       res.Version,
		SlotID:        afternoon,
		Participants:  5,
		Name:          res.Name,
		Email:         res.Email,
	})
	require.NoError(t, err)

	// Old slot fully released, new slot carries the new party size.
	assert.Equal(t, uint32(0), st.state.slots[morning].CurrentParticipants)
	assert.Equal(t, uint32(5), st.state.slots[afternoon].CurrentParticipants)
	assert.Equal(t, uint32(5), st.state.events[eventID].CurrentParticipants)
	assertCountersConsistent(t, st)
}

func TestServiceReviseRejectsStaleVersion(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1500, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 2))
	require.NoError(t, err)

	_, err = svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: res.ID,
		Version:       res.Version,
		SlotID:        slotID,
		Participants:  3,
		Name:          res.Name,
		Email:         res.Email,
	})
	require.NoError(t, err)

	// Replaying the first edit with the now-stale version must fail and
	// must not move the counters.
	_, err = svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: res.ID,
		Version:       res.Version,
		SlotID:        slotID,
		Participants:  9,
		Name:          res.Name,
		Email:         res.Email,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, uint32(3), st.state.slots[slotID].CurrentParticipants)
	assertCountersConsistent(t, st)
}

func TestServiceReviseRespectsTargetCap(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1500, true)
	small := st.addSlot(eventID, 3)
	large := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, large, 5))
	require.NoError(t, err)

	_, err = svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: res.ID,
		Version:       res.Version,
		SlotID:        small,
		Participants:  5,
		Name:          res.Name,
		Email:         res.Email,
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, uint32(5), st.state.slots[large].CurrentParticipants)
	assertCountersConsistent(t, st)
}

func TestServiceCancelClampsAtZero(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 4))
	require.NoError(t, err)

	// Simulate pre-existing drift: the counters were lost before the
	// cancellation arrives.
	sl := st.state.slots[slotID]
	sl.CurrentParticipants = 1
	st.state.slots[slotID] = sl
	ev := st.state.events[eventID]
	ev.CurrentParticipants = 1
	st.state.events[eventID] = ev

	require.NoError(t, svc.CancelReservation(ctx, res.ID))
	assert.Equal(t, uint32(0), st.state.slots[slotID].CurrentParticipants)
	assert.Equal(t, uint32(0), st.state.events[eventID].CurrentParticipants)
}

func TestServiceCancelByNumber(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 2))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelByNumber(ctx, eventID, "000000"),
		ErrReservationNotFound)

	require.NoError(t, svc.CancelByNumber(ctx, eventID, res.Number))
	assert.Empty(t, st.state.reservations)
	assertCountersConsistent(t, st)
}

func TestServiceSlotLifecycle(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	svc := NewService(st)
	ctx := context.Background()

	slot, err := svc.AddSlot(ctx, eventID, "10:00", 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), st.state.events[eventID].MaxParticipants)

	second, err := svc.AddSlot(ctx, eventID, "13:00", 6)
	require.NoError(t, err)
	assert.Equal(t, uint32(14), st.state.events[eventID].MaxParticipants)

	_, err = svc.ReviseSlot(ctx, second.ID, second.Version, "13:30", 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), st.state.events[eventID].MaxParticipants)
	assert.Equal(t, "13:30", st.state.slots[second.ID].Label)

	// Shrinking below already-booked seats is rejected.
	res, err := svc.ReserveSeats(ctx, baseReserve(eventID, slot.ID, 5))
	require.NoError(t, err)
	_, err = svc.ReviseSlot(ctx, slot.ID, st.state.slots[slot.ID].Version, "10:00", 4)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_ = res
	assertCountersConsistent(t, st)
}

func TestServiceRemoveSlotCascades(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	morning := st.addSlot(eventID, 10)
	afternoon := st.addSlot(eventID, 10)
	svc := NewService(st)
	ctx := context.Background()

	_, err := svc.ReserveSeats(ctx, baseReserve(eventID, morning, 2))
	require.NoError(t, err)
	_, err = svc.ReserveSeats(ctx, baseReserve(eventID, morning, 3))
	require.NoError(t, err)
	keep, err := svc.ReserveSeats(ctx, baseReserve(eventID, afternoon, 4))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveSlot(ctx, morning))

	// Exactly the slot's reservations are gone, the event counter drops
	// by their summed party sizes, and the maximum is recomputed.
	assert.Len(t, st.state.reservations, 1)
	_, kept := st.state.reservations[keep.ID]
	assert.True(t, kept)
	assert.Equal(t, uint32(4), st.state.events[eventID].CurrentParticipants)
	assert.Equal(t, uint32(10), st.state.events[eventID].MaxParticipants)
	assertCountersConsistent(t, st)
}

func TestServiceRemoveEventCascades(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1000, true)
	slotID := st.addSlot(eventID, 10)
	other := st.addEvent(500, true)
	otherSlot := st.addSlot(other, 5)
	svc := NewService(st)
	ctx := context.Background()

	_, err := svc.ReserveSeats(ctx, baseReserve(eventID, slotID, 2))
	require.NoError(t, err)
	kept, err := svc.ReserveSeats(ctx, baseReserve(other, otherSlot, 1))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveEvent(ctx, eventID))

	_, exists := st.state.events[eventID]
	assert.False(t, exists)
	assert.Empty(t, slotsOfEvent(st, eventID))
	assert.Len(t, st.state.reservations, 1)
	_, ok := st.state.reservations[kept.ID]
	assert.True(t, ok)
	assertCountersConsistent(t, st)
}

func slotsOfEvent(st *fakeStore, eventID uint64) []model.TimeSlot {
	var out []model.TimeSlot
	for _, s := range st.state.slots {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out
}

// Counter consistency must hold after any interleaving of operations,
// not just the happy paths above.
func TestServiceCountersStayConsistentAcrossSequence(t *testing.T) {
	st := newFakeStore()
	eventID := st.addEvent(1200, true)
	a := st.addSlot(eventID, 6)
	b := st.addSlot(eventID, 6)
	svc := NewService(st)
	ctx := context.Background()

	r1, err := svc.ReserveSeats(ctx, baseReserve(eventID, a, 2))
	require.NoError(t, err)
	assertCountersConsistent(t, st)

	r2, err := svc.ReserveSeats(ctx, baseReserve(eventID, b, 3))
	require.NoError(t, err)
	assertCountersConsistent(t, st)

	_, err = svc.ReviseReservation(ctx, ReviseInput{
		ReservationID: r1.ID, Version: r1.Version, SlotID: b,
		Participants: 1, Name: r1.Name, Email: r1.Email,
	})
	require.NoError(t, err)
	assertCountersConsistent(t, st)

	require.NoError(t, svc.CancelReservation(ctx, r2.ID))
	assertCountersConsistent(t, st)

	require.NoError(t, svc.RemoveSlot(ctx, b))
	assertCountersConsistent(t, st)
	assert.Empty(t, st.state.reservations)
}
