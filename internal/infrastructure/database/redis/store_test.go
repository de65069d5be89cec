package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/pkg/errors"
)

type StoreTestSuite struct {
	suite.Suite
	mock   redismock.ClientMock
	client *Client
	store  *SolarTermStore
	ctx    context.Context
}

func (s *StoreTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.client = NewClientFrom(db, nil, logging.NewNopLogger())
	s.store = NewSolarTermStore(s.client, WithKeyPrefix("test:"))
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func sampleTable() *calendar.TermTable {
	return &calendar.TermTable{
		Method: calendar.MethodVSOP87,
		Year:   2024,
		Terms: []calendar.TermInstant{
			{Term: calendar.Xiaohan, Longitude: 285, Instant: time.Date(2024, 1, 6, 4, 49, 0, 0, time.UTC)},
			{Term: calendar.Lichun, Longitude: 315, Instant: time.Date(2024, 2, 4, 8, 27, 0, 0, time.UTC)},
		},
		PriorWinterSolstice: time.Date(2023, 12, 22, 3, 27, 0, 0, time.UTC),
		LunarNewYear:        time.Date(2024, 2, 10, 0, 59, 0, 0, time.UTC),
	}
}

func (s *StoreTestSuite) TestKey() {
	s.Equal("test:solarterm:vsop87:2024", s.store.Key(calendar.MethodVSOP87, 2024))
	s.Equal("saju:solarterm:low-precision:1900", NewSolarTermStore(s.client).Key(calendar.MethodLowPrecision, 1900))
}

func (s *StoreTestSuite) TestSaveAndLoad() {
	t := sampleTable()
	data, err := json.Marshal(t)
	s.Require().NoError(err)
	key := s.store.Key(t.Method, t.Year)

	s.mock.ExpectSet(key, data, DefaultTableTTL).SetVal("OK")
	s.Require().NoError(s.store.SaveTable(s.ctx, t))

	s.mock.ExpectGet(key).SetVal(string(data))
	got, err := s.store.LoadTable(s.ctx, t.Method, t.Year)
	s.Require().NoError(err)
	if diff := cmp.Diff(t, got); diff != "" {
		s.T().Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func (s *StoreTestSuite) TestLoadMiss() {
	s.mock.ExpectGet("test:solarterm:vsop87:1999").RedisNil()
	got, err := s.store.LoadTable(s.ctx, calendar.MethodVSOP87, 1999)
	s.NoError(err)
	s.Nil(got)
}

func (s *StoreTestSuite) TestLoadFailure() {
	s.mock.ExpectGet("test:solarterm:vsop87:1999").SetErr(stderrors.New("connection reset"))
	_, err := s.store.LoadTable(s.ctx, calendar.MethodVSOP87, 1999)
	s.True(errors.IsCode(err, errors.ErrCodeCacheError))
}

func (s *StoreTestSuite) TestLoadCorrupt() {
	s.mock.ExpectGet("test:solarterm:vsop87:1999").SetVal("{not json")
	_, err := s.store.LoadTable(s.ctx, calendar.MethodVSOP87, 1999)
	s.True(errors.IsCode(err, errors.ErrCodeSerialization))
}

func (s *StoreTestSuite) TestSaveFailure() {
	t := sampleTable()
	data, _ := json.Marshal(t)
	s.mock.ExpectSet(s.store.Key(t.Method, t.Year), data, DefaultTableTTL).SetErr(stderrors.New("READONLY"))
	err := s.store.SaveTable(s.ctx, t)
	s.True(errors.IsCode(err, errors.ErrCodeCacheError))
}

func (s *StoreTestSuite) TestDeleteYear() {
	s.mock.ExpectDel("test:solarterm:vsop87:2024", "test:solarterm:low-precision:2024").SetVal(1)
	n, err := s.store.DeleteYear(s.ctx, 2024, calendar.MethodVSOP87, calendar.MethodLowPrecision)
	s.NoError(err)
	s.Equal(int64(1), n)

	n, err = s.store.DeleteYear(s.ctx, 2024)
	s.NoError(err)
	s.Zero(n)
}

func (s *StoreTestSuite) TestClosedClient() {
	s.Require().NoError(s.client.Close())
	_, err := s.store.LoadTable(s.ctx, calendar.MethodVSOP87, 2024)
	s.True(errors.IsCode(err, errors.ErrCodeCacheError))
	s.ErrorIs(s.client.Ping(s.ctx), ErrClientClosed)
	s.NoError(s.client.Close())
}

func TestSolarTermStore_BacksCache(t *testing.T) {
	ctx := context.Background()
	want, err := calendar.NewSolarTermCache().Table(ctx, calendar.MethodLowPrecision, 2001)
	require.NoError(t, err)
	data, err := json.Marshal(want)
	require.NoError(t, err)

	db, mock := redismock.NewClientMock()
	store := NewSolarTermStore(NewClientFrom(db, nil, nil))
	key := store.Key(calendar.MethodLowPrecision, 2001)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, DefaultTableTTL).SetVal("OK")
	cold := calendar.NewSolarTermCache(calendar.WithTableStore(store))
	_, err = cold.Table(ctx, calendar.MethodLowPrecision, 2001)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cold.Stats().Computations)

	mock.ExpectGet(key).SetVal(string(data))
	warm := calendar.NewSolarTermCache(calendar.WithTableStore(store))
	got, err := warm.Table(ctx, calendar.MethodLowPrecision, 2001)
	require.NoError(t, err)
	assert.Equal(t, int64(0), warm.Stats().Computations)
	assert.Equal(t, int64(1), warm.Stats().StoreHits)
	assert.True(t, want.Lichun().Equal(got.Lichun()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

//Personal.AI order the ending
