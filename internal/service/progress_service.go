package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"assessment-service/internal/models"
	"assessment-service/internal/progression"

	"go.mongodb.org/mongo-driver/mongo"
)

type ProgressStore interface {
	FindByUser(ctx context.Context, userID string) (*models.ProgressRecord, error)
	Save(ctx context.Context, record *models.ProgressRecord) error
	TopByXP(ctx context.Context, limit int) ([]models.ProgressRecord, error)
}

// Publisher mirrors the event publisher; nil-safe at every call site because
// events are best-effort.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
}

// LeaderboardCache is the optional Redis-backed cache for the leaderboard
// read path.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
}

const leaderboardKey = "leaderboard:xp"
const leaderboardTTL = 30 * time.Second

// ProgressService is the Progression Ledger's entry point: exactly one
// ApplyCompletion call per completed, ended or saved session.
type ProgressService struct {
	store  ProgressStore
	ledger *progression.Ledger
	events Publisher
	cache  LeaderboardCache
}

func NewProgressService(store ProgressStore, ledger *progression.Ledger, events Publisher, cache LeaderboardCache) *ProgressService {
	return &ProgressService{store: store, ledger: ledger, events: events, cache: cache}
}

// ApplyCompletion folds a session completion into the user's progress
// record. The ledger mutates in memory and the record is persisted once, so
// the XP change and any badges it unlocks commit together.
func (s *ProgressService) ApplyCompletion(ctx context.Context, userID string, c progression.Completion) (*progression.Result, error) {
	record, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		record = models.NewProgressRecord(userID)
	} else if err != nil {
		return nil, err
	}

	result := s.ledger.Apply(record, c, time.Now())

	if err := s.store.Save(ctx, record); err != nil {
		return nil, err
	}

	if s.events != nil {
		for _, badge := range result.NewBadges {
			s.events.Publish("assessment.badge.awarded", map[string]interface{}{
				"user_id":  userID,
				"badge_id": badge.ID,
				"name":     badge.Name,
			})
		}
		if result.LeveledUp {
			s.events.Publish("assessment.levelup", map[string]interface{}{
				"user_id": userID,
				"level":   result.Level,
			})
		}
	}

	return &result, nil
}

// Snapshot returns the user's progress record without mutating it. A user
// with no record yet gets a fresh, unpersisted one.
func (s *ProgressService) Snapshot(ctx context.Context, userID string) (*models.ProgressRecord, error) {
	record, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewProgressRecord(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Leaderboard returns the top records by XP, served from the cache when
// fresh. Cache failures fall back to storage.
func (s *ProgressService) Leaderboard(ctx context.Context, limit int) ([]models.ProgressRecord, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardKey); err == nil && cached != "" {
			var records []models.ProgressRecord
			if err := json.Unmarshal([]byte(cached), &records); err == nil && len(records) >= limit {
				return records[:limit], nil
			}
		}
	}

	records, err := s.store.TopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(records); err == nil {
			if err := s.cache.Set(ctx, leaderboardKey, string(encoded), leaderboardTTL); err != nil {
				log.Printf("leaderboard cache write failed: %v", err)
			}
		}
	}

	return records, nil
}
