package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request holds the doctor's slot
var ErrSlotLocked = errors.New("appointment slot is locked by another request")

// releaseSlotScript deletes the key only while it still holds our token, so a
// request whose lock expired cannot free a lock taken over by someone else.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// Redis key prefix for appointment slot locks
	RedisSlotKeyPrefix = "appointment:slot:"

	// Timeout for the release call, which runs after the request ctx may be gone
	redisReleaseTimeout = 5 * time.Second
)

// SlotLocker serialises concurrent bookings of the same doctor and instant.
type SlotLocker interface {
	Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (release func(), err error)
}

// SlotLockService is a Redis SET NX lock per (doctor, date-time).
// The partial unique index on appointments stays the authoritative guard;
// the lock keeps most racing requests away from the database.
type SlotLockService struct {
	redis *redis.Client
	log   *logrus.Logger
	ttl   time.Duration
}

func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *SlotLockService {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SlotLockService{
		redis: redisClient,
		log:   log,
		ttl:   ttl,
	}
}

// SlotKey returns the Redis key for a doctor's slot
func SlotKey(doctorID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s%s:%d", RedisSlotKeyPrefix, doctorID, at.Unix())
}

// Acquire takes the slot lock. The returned release func is safe to call more than once.
func (s *SlotLockService) Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error) {
	key := SlotKey(doctorID, at)
	token := uuid.NewString()

	ok, err := s.redis.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire slot lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrSlotLocked
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true

		releaseCtx, cancel := context.WithTimeout(context.Background(), redisReleaseTimeout)
		defer cancel()
		if err := releaseSlotScript.Run(releaseCtx, s.redis, []string{key}, token).Err(); err != nil {
			s.log.Warnf("Failed to release slot lock %s: %+v", key, err)
		}
	}

	return release, nil
}
