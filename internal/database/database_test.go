package database

import (
	"testing"
	"waugzee/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, RATE_LIMIT_CACHE_INDEX)
	assert.Equal(t, 1, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Equal(t, log, db.log)
	assert.Nil(t, db.SQL)
}

func TestTXDefer_IsDefined(t *testing.T) {
	log := logger.New("test")

	assert.NotNil(t, TXDefer)
	assert.NotNil(t, log)
}
