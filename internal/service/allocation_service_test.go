package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAllocator(roomStore *fakeRoomStore, scheduleStore *fakeScheduleStore) *AllocationService {
	return NewAllocationService(roomStore, scheduleStore, zap.NewNop())
}

func TestAvailableRoomsFullRosterWhenEmpty(t *testing.T) {
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102", "103")}, &fakeScheduleStore{})

	free, err := svc.AvailableRooms(context.Background(), "2025-04-07", 18)
	require.NoError(t, err)
	require.Len(t, free, 3)
	assert.Equal(t, "101", free[0].Name)
	assert.Equal(t, "103", free[2].Name)
}

func TestAvailableRoomsExcludesExactDateHourOnly(t *testing.T) {
	schedules := &fakeScheduleStore{entries: []*model.ScheduleEntry{
		{Date: "2025. 04. 07.", Hour: 18, DurationHours: 2, RoomName: "101", StudentName: "mina"},
		{Date: "2025. 04. 07.", Hour: 17, DurationHours: 1, RoomName: "102", StudentName: "juno"},
		{Date: "2025. 04. 08.", Hour: 18, DurationHours: 1, RoomName: "103", StudentName: "mina"},
	}}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102", "103")}, schedules)

	// занята только 101: у 102 другой час, у 103 другая дата.
	// Запись 101 идёт 18-20, но запрос на 19:00 её не видит — пересечение
	// по длительности дальше часа начала не проверяется.
	free, err := svc.AvailableRooms(context.Background(), "2025. 04. 07.", 18)
	require.NoError(t, err)
	names := roomNames(free)
	assert.Equal(t, []string{"102", "103"}, names)

	free, err = svc.AvailableRooms(context.Background(), "2025. 04. 07.", 19)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103"}, roomNames(free))
}

func TestAvailableRoomsNormalizesDate(t *testing.T) {
	schedules := &fakeScheduleStore{entries: []*model.ScheduleEntry{
		{Date: "2025. 04. 07.", Hour: 18, RoomName: "101"},
	}}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102")}, schedules)

	// запрос в другом формате должен увидеть ту же бронь
	free, err := svc.AvailableRooms(context.Background(), "20250407", 18)
	require.NoError(t, err)
	assert.Equal(t, []string{"102"}, roomNames(free))
}

func TestAvailableRoomsInvalidDate(t *testing.T) {
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101")}, &fakeScheduleStore{})

	_, err := svc.AvailableRooms(context.Background(), "not a date", 18)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAllocatePicksFirstRoomInRosterOrder(t *testing.T) {
	schedules := &fakeScheduleStore{entries: []*model.ScheduleEntry{
		{Date: "2025. 04. 07.", Hour: 18, RoomName: "101"},
	}}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102", "103")}, schedules)

	entry, err := svc.Allocate(context.Background(), "2025-04-07", 18, 1, "sunny", "mina")
	require.NoError(t, err)
	assert.Equal(t, "102", entry.RoomName)
	assert.Equal(t, "2025. 04. 07.", entry.Date)
	assert.NotZero(t, entry.ID)
}

func TestAllocateNoRoomLeft(t *testing.T) {
	schedules := &fakeScheduleStore{entries: []*model.ScheduleEntry{
		{Date: "2025. 04. 07.", Hour: 18, RoomName: "101"},
	}}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101")}, schedules)

	_, err := svc.Allocate(context.Background(), "2025. 04. 07.", 18, 1, "sunny", "mina")
	assert.ErrorIs(t, err, ErrNoAvailableRoom)
}

func TestAllocateBatchAllSucceed(t *testing.T) {
	schedules := &fakeScheduleStore{}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102")}, schedules)

	dates := []string{"2025-04-07", "2025-04-14", "2025-04-21"}
	allocated, err := svc.AllocateBatch(context.Background(), dates, 18, 1, "sunny", "mina")
	require.NoError(t, err)
	require.Len(t, allocated, 3)

	// одна и та же комната повторяется на разных датах:
	// конфликт возможен только внутри одной пары (дата, час)
	for _, entry := range allocated {
		assert.Equal(t, "101", entry.RoomName)
	}
	assert.Len(t, schedules.entries, 3)
}

func TestAllocateBatchPartialCompletion(t *testing.T) {
	// на вторую дату обе комнаты уже заняты
	schedules := &fakeScheduleStore{entries: []*model.ScheduleEntry{
		{Date: "2025. 04. 14.", Hour: 18, RoomName: "101"},
		{Date: "2025. 04. 14.", Hour: 18, RoomName: "102"},
	}}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102")}, schedules)

	dates := []string{"2025-04-07", "2025-04-14", "2025-04-21"}
	allocated, err := svc.AllocateBatch(context.Background(), dates, 18, 1, "sunny", "mina")

	// первая дата осталась забронированной, отката нет
	require.ErrorIs(t, err, ErrNoAvailableRoom)
	require.Len(t, allocated, 1)
	assert.Equal(t, "2025. 04. 07.", allocated[0].Date)
	assert.Len(t, schedules.entries, 3) // 2 старых + 1 новая
}

func TestAllocateBatchNotIdempotent(t *testing.T) {
	schedules := &fakeScheduleStore{}
	svc := newAllocator(&fakeRoomStore{rooms: rooms("101", "102")}, schedules)

	dates := []string{"2025-04-07"}
	_, err := svc.AllocateBatch(context.Background(), dates, 18, 1, "sunny", "mina")
	require.NoError(t, err)
	second, err := svc.AllocateBatch(context.Background(), dates, 18, 1, "sunny", "mina")
	require.NoError(t, err)

	// повторный вызов с теми же аргументами бронирует вторую комнату
	assert.Equal(t, "102", second[0].RoomName)
	assert.Len(t, schedules.entries, 2)
}

func roomNames(roomList []*model.Room) []string {
	names := make([]string, 0, len(roomList))
	for _, room := range roomList {
		names = append(names, room.Name)
	}
	return names
}

func TestAvailableRoomsStoreError(t *testing.T) {
	svc := newAllocator(&fakeRoomStore{err: errStore}, &fakeScheduleStore{})

	_, err := svc.AvailableRooms(context.Background(), "2025-04-07", 18)
	assert.True(t, errors.Is(err, errStore))
}
