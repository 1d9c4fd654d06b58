package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Its-Zach/grandline/internal/storage"
	"github.com/Its-Zach/grandline/pkg/types"
)

// MockReadingStore is a testify mock of the storage contract.
type MockReadingStore struct {
	mock.Mock
}

func (m *MockReadingStore) InsertReading(ctx context.Context, reading *types.Reading) (int64, error) {
	args := m.Called(ctx, reading)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReadingStore) GetReading(ctx context.Context, id int64) (*types.Reading, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Reading), args.Error(1)
}

func (m *MockReadingStore) GetLatestReading(ctx context.Context) (*types.Reading, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Reading), args.Error(1)
}

func (m *MockReadingStore) ListReadings(ctx context.Context, opts storage.ListOptions) (*storage.PaginatedResult[types.Reading], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PaginatedResult[types.Reading]), args.Error(1)
}

func (m *MockReadingStore) UpdateReading(ctx context.Context, id, islandID, characterID int64) (int64, error) {
	args := m.Called(ctx, id, islandID, characterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReadingStore) DeleteReading(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReadingStore) CountReadings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReadingStore) ListIslands(ctx context.Context) ([]types.NamedEntity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.NamedEntity), args.Error(1)
}

func (m *MockReadingStore) ListCharacters(ctx context.Context) ([]types.NamedEntity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.NamedEntity), args.Error(1)
}

func (m *MockReadingStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	testIslands = []types.NamedEntity{
		{ID: 1, Name: "East Blue"},
		{ID: 2, Name: "Alabasta"},
	}
	testCharacters = []types.NamedEntity{
		{ID: 1, Name: "Luffy"},
		{ID: 2, Name: "Zoro"},
	}
)

func intentRequest(name string, slots map[string]string) Request {
	req := Request{
		Type:   RequestTypeIntent,
		Intent: Intent{Name: name, Slots: map[string]Slot{}},
	}
	for k, v := range slots {
		req.Intent.Slots[k] = Slot{Name: k, Value: v}
	}
	return req
}

func expectReferenceLists(store *MockReadingStore) {
	store.On("ListIslands", mock.Anything).Return(testIslands, nil)
	store.On("ListCharacters", mock.Anything).Return(testCharacters, nil)
}

func TestDispatcherQueryLatest(t *testing.T) {
	store := new(MockReadingStore)
	store.On("GetLatestReading", mock.Anything).Return(&types.Reading{
		ID:            42,
		Ultrasonic:    10,
		Lidar:         20,
		IslandID:      1,
		CharacterID:   1,
		IslandName:    "East Blue",
		CharacterName: "Luffy",
	}, nil)

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("GetLatestReadingIntent", nil))

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "Luffy")
	assert.Contains(t, result.Response.OutputSpeech, "East Blue")
	assert.Contains(t, result.Response.OutputSpeech, "10")
	assert.Contains(t, result.Response.OutputSpeech, "20")
	store.AssertExpectations(t)
}

func TestDispatcherQueryLatestEmptyLog(t *testing.T) {
	store := new(MockReadingStore)
	store.On("GetLatestReading", mock.Anything).Return(nil, storage.ErrNotFound)

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("GetLatestReadingIntent", nil))

	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "no readings")
}

func TestDispatcherQueryLatestStorageFailure(t *testing.T) {
	store := new(MockReadingStore)
	store.On("GetLatestReading", mock.Anything).Return(nil, errors.New("connection refused"))

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("GetLatestReadingIntent", nil))

	assert.Equal(t, OutcomeUpstreamFailure, result.Outcome)
	assert.Equal(t, apologyText, result.Response.OutputSpeech)
	assert.NotContains(t, result.Response.OutputSpeech, "connection refused")
}

func TestDispatcherSaveReading(t *testing.T) {
	store := new(MockReadingStore)
	expectReferenceLists(store)
	store.On("InsertReading", mock.Anything, mock.MatchedBy(func(r *types.Reading) bool {
		return r.IslandID == 1 && r.CharacterID == 1 && r.Ultrasonic == 12.5 && r.Lidar == 30
	})).Return(int64(1), nil).Once()

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("SaveReadingIntent", map[string]string{
		SlotIslandName:      "East Blue",
		SlotCharacterName:   "Luffy!",
		SlotUltrasonicValue: "12.5",
		SlotLidarValue:      "30",
	}))

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "Luffy")
	assert.Contains(t, result.Response.OutputSpeech, "East Blue")
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "InsertReading", 1)
}

func TestDispatcherSaveReadingDefaultsMissingValues(t *testing.T) {
	store := new(MockReadingStore)
	expectReferenceLists(store)
	store.On("InsertReading", mock.Anything, mock.MatchedBy(func(r *types.Reading) bool {
		return r.Ultrasonic == 0 && r.Lidar == 0
	})).Return(int64(1), nil).Once()

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("SaveReadingIntent", map[string]string{
		SlotIslandName:    "east blue",
		SlotCharacterName: "luffy",
	}))

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	store.AssertExpectations(t)
}

func TestDispatcherSaveReadingInvalidNumber(t *testing.T) {
	store := new(MockReadingStore)
	expectReferenceLists(store)

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("SaveReadingIntent", map[string]string{
		SlotIslandName:      "east blue",
		SlotCharacterName:   "luffy",
		SlotUltrasonicValue: "banana",
	}))

	assert.Equal(t, OutcomeInvalidInput, result.Outcome)
	store.AssertNotCalled(t, "InsertReading", mock.Anything, mock.Anything)
}

func TestDispatcherUpdateUnresolvableIslandNeverMutates(t *testing.T) {
	store := new(MockReadingStore)
	expectReferenceLists(store)

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("UpdateReadingIntent", map[string]string{
		SlotIslandName:    "qqq",
		SlotCharacterName: "luffy",
	}))

	assert.Equal(t, OutcomeAmbiguous, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "island")
	store.AssertNotCalled(t, "GetLatestReading", mock.Anything)
	store.AssertNotCalled(t, "UpdateReading", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcherUpdateLatest(t *testing.T) {
	store := new(MockReadingStore)
	expectReferenceLists(store)
	store.On("GetLatestReading", mock.Anything).Return(&types.Reading{ID: 9}, nil)
	store.On("UpdateReading", mock.Anything, int64(9), int64(2), int64(2)).Return(int64(1), nil).Once()

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("UpdateReadingIntent", map[string]string{
		SlotIslandName:    "alabasta",
		SlotCharacterName: "zoro",
	}))

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "Zoro")
	assert.Contains(t, result.Response.OutputSpeech, "Alabasta")
	store.AssertExpectations(t)
}

func TestDispatcherDeleteLatestEmptyLog(t *testing.T) {
	store := new(MockReadingStore)
	store.On("GetLatestReading", mock.Anything).Return(nil, storage.ErrNotFound)

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("DeleteReadingIntent", nil))

	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "no readings")
	store.AssertNotCalled(t, "DeleteReading", mock.Anything, mock.Anything)
}

func TestDispatcherDeleteLatest(t *testing.T) {
	store := new(MockReadingStore)
	store.On("GetLatestReading", mock.Anything).Return(&types.Reading{ID: 5}, nil)
	store.On("DeleteReading", mock.Anything, int64(5)).Return(int64(1), nil).Once()

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("DeleteReadingIntent", nil))

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Contains(t, result.Response.OutputSpeech, "Deleted")
	store.AssertExpectations(t)
}

func TestDispatcherSessionRequests(t *testing.T) {
	store := new(MockReadingStore)
	d := NewDispatcher(store, "grand line tracker")
	ctx := context.Background()

	launch := d.HandleRequest(ctx, Request{Type: RequestTypeLaunch})
	assert.Equal(t, OutcomeSuccess, launch.Outcome)
	assert.Contains(t, launch.Response.OutputSpeech, "grand line tracker")

	help := d.HandleRequest(ctx, intentRequest("AMAZON.HelpIntent", nil))
	assert.Equal(t, OutcomeSuccess, help.Outcome)
	assert.False(t, help.Response.ShouldEndSession)

	stop := d.HandleRequest(ctx, intentRequest("AMAZON.StopIntent", nil))
	assert.True(t, stop.Response.ShouldEndSession)

	fallback := d.HandleRequest(ctx, intentRequest("AMAZON.FallbackIntent", nil))
	assert.Equal(t, OutcomeInvalidInput, fallback.Outcome)
	assert.NotEmpty(t, fallback.Response.Reprompt)

	unknown := d.HandleRequest(ctx, intentRequest("SingAShantyIntent", nil))
	assert.Equal(t, OutcomeInvalidInput, unknown.Outcome)

	ended := d.HandleRequest(ctx, Request{Type: RequestTypeSessionEnded})
	assert.Equal(t, OutcomeSuccess, ended.Outcome)
	assert.Empty(t, ended.Response.OutputSpeech)
}

func TestDispatcherReferenceListFailure(t *testing.T) {
	store := new(MockReadingStore)
	store.On("ListIslands", mock.Anything).Return(nil, errors.New("database is locked"))

	d := NewDispatcher(store, "grand line tracker")
	result := d.HandleRequest(context.Background(), intentRequest("SaveReadingIntent", map[string]string{
		SlotIslandName:    "east blue",
		SlotCharacterName: "luffy",
	}))

	assert.Equal(t, OutcomeUpstreamFailure, result.Outcome)
	assert.Equal(t, apologyText, result.Response.OutputSpeech)
	store.AssertNotCalled(t, "InsertReading", mock.Anything, mock.Anything)
}
