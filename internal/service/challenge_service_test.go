package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingAnswer(t *testing.T, svc *ChallengeService, id string) string {
	t.Helper()
	svc.mu.Lock()
	defer svc.mu.Unlock()
	ch, ok := svc.pending[id]
	require.True(t, ok, "challenge %s not pending", id)
	return ch.answer
}

func TestChallengeVerify(t *testing.T) {
	svc := NewChallengeService(5 * time.Minute)

	ch := svc.New()
	require.NotEmpty(t, ch.ID)
	assert.Contains(t, ch.Question, "What is")

	answer := pendingAnswer(t, svc, ch.ID)
	assert.True(t, svc.Verify(ch.ID, answer))

	// Single use: the same challenge cannot be replayed.
	assert.False(t, svc.Verify(ch.ID, answer))
}

func TestChallengeWrongAnswerConsumes(t *testing.T) {
	svc := NewChallengeService(5 * time.Minute)

	ch := svc.New()
	answer := pendingAnswer(t, svc, ch.ID)

	assert.False(t, svc.Verify(ch.ID, "999"))
	assert.False(t, svc.Verify(ch.ID, answer), "wrong guess must burn the challenge")
}

func TestChallengeAnswerWhitespace(t *testing.T) {
	svc := NewChallengeService(5 * time.Minute)

	ch := svc.New()
	answer := pendingAnswer(t, svc, ch.ID)
	assert.True(t, svc.Verify(ch.ID, "  "+answer+" "))
}

func TestChallengeExpiry(t *testing.T) {
	svc := NewChallengeService(5 * time.Minute)
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }

	ch := svc.New()
	answer := pendingAnswer(t, svc, ch.ID)
	assert.Equal(t, base.Add(5*time.Minute), ch.ExpiresAt)

	current = base.Add(6 * time.Minute)
	assert.False(t, svc.Verify(ch.ID, answer))
}

func TestChallengePruneExpired(t *testing.T) {
	svc := NewChallengeService(5 * time.Minute)
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }

	stale := svc.New()
	current = base.Add(10 * time.Minute)
	fresh := svc.New()

	assert.Equal(t, 1, svc.PruneExpired())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.NotContains(t, svc.pending, stale.ID)
	assert.Contains(t, svc.pending, fresh.ID)
}
