package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOneShotCodeLifecycle(t *testing.T) {
	now := time.Now()

	var empty OneShotCode
	assert.False(t, empty.Pending())
	assert.False(t, empty.Expired(now))
	assert.False(t, empty.Matches("123456"))

	code := "123456"
	exp := now.Add(time.Minute)
	pending := OneShotCode{Code: &code, ExpiresAt: &exp}
	assert.True(t, pending.Pending())
	assert.False(t, pending.Expired(now))
	assert.True(t, pending.Matches("123456"))
	assert.False(t, pending.Matches("654321"))

	past := now.Add(-time.Minute)
	expired := OneShotCode{Code: &code, ExpiresAt: &past}
	assert.True(t, expired.Pending())
	assert.True(t, expired.Expired(now))
}
