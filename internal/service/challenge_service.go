package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"adria/internal/entities"

	"github.com/google/uuid"
)

// ChallengeService issues small arithmetic questions used as an anti-bot
// gate before booking. The answer never leaves the server; a challenge is
// valid for one attempt within its TTL.
type ChallengeService struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]challenge
	now     func() time.Time
}

type challenge struct {
	answer    string
	expiresAt time.Time
}

func NewChallengeService(ttl time.Duration) *ChallengeService {
	return &ChallengeService{
		ttl:     ttl,
		pending: make(map[string]challenge),
		now:     time.Now,
	}
}

func (s *ChallengeService) New() *entities.Challenge {
	a := rand.Intn(9) + 1
	b := rand.Intn(9) + 1

	var question string
	var answer int
	switch rand.Intn(3) {
	case 0:
		question = fmt.Sprintf("What is %d + %d?", a, b)
		answer = a + b
	case 1:
		if b > a {
			a, b = b, a
		}
		question = fmt.Sprintf("What is %d - %d?", a, b)
		answer = a - b
	default:
		question = fmt.Sprintf("What is %d × %d?", a, b)
		answer = a * b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)
	s.pending[id] = challenge{answer: strconv.Itoa(answer), expiresAt: expiresAt}

	return &entities.Challenge{ID: id, Question: question, ExpiresAt: expiresAt}
}

// Verify consumes the challenge whether or not the answer matches, so a
// wrong guess cannot be retried against the same question.
func (s *ChallengeService) Verify(id, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)

	if s.now().After(ch.expiresAt) {
		return false
	}
	return strings.TrimSpace(answer) == ch.answer
}

// PruneExpired drops challenges past their TTL and returns how many went.
func (s *ChallengeService) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for id, ch := range s.pending {
		if now.After(ch.expiresAt) {
			delete(s.pending, id)
			pruned++
		}
	}
	return pruned
}
