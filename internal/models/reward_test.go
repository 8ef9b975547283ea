package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRewardUsable(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.True(t, (&Reward{Used: false, ExpiresAt: future}).Usable(now))

	// used rewards stay ineligible regardless of expiry
	assert.False(t, (&Reward{Used: true, ExpiresAt: future}).Usable(now))
	assert.False(t, (&Reward{Used: true, ExpiresAt: past}).Usable(now))

	// expired rewards stay ineligible even when unused
	assert.False(t, (&Reward{Used: false, ExpiresAt: past}).Usable(now))
}

func TestRewardExpired(t *testing.T) {
	now := time.Now()

	assert.True(t, (&Reward{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.False(t, (&Reward{ExpiresAt: now.Add(time.Second)}).Expired(now))
	assert.False(t, (&Reward{ExpiresAt: now}).Expired(now))
}
