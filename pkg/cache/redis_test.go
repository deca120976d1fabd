package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectGet("test:mykey").SetVal("நன்றி")

	val, ok := c.Get(context.Background(), "mykey")
	assert.True(t, ok)
	assert.Equal(t, "நன்றி", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectGet("test:mykey").RedisNil()

	val, ok := c.Get(context.Background(), "mykey")
	assert.False(t, ok)
	assert.Empty(t, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Get_ErrorIsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectGet("test:mykey").SetErr(errors.New("connection reset"))

	_, ok := c.Get(context.Background(), "mykey")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, time.Hour, "test:")
	mock.ExpectSet("test:mykey", "myvalue", time.Hour).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "mykey", "myvalue"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, 0, "")
	mock.ExpectSet(DefaultKeyPrefix+"mykey", "myvalue", 0).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "mykey", "myvalue"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, 0, "test:")
	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
