package repositories

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	statsCollection = "stats"
	statsDocument   = "listeners"
	likesCollection = "likes"
)

// FirestoreStatsRepository implements StatsRepository for Firestore. All
// counters live in the single stats/listeners document.
type FirestoreStatsRepository struct {
	client *firestore.Client
}

// NewFirestoreStatsRepository creates a new FirestoreStatsRepository
func NewFirestoreStatsRepository(client *firestore.Client) *FirestoreStatsRepository {
	return &FirestoreStatsRepository{client: client}
}

func (r *FirestoreStatsRepository) statsRef() *firestore.DocumentRef {
	return r.client.Collection(statsCollection).Doc(statsDocument)
}

// readStats loads the counters inside tx; a missing document reads as zeros
func readStats(tx *firestore.Transaction, ref *firestore.DocumentRef) (models.ListenerStats, bool, error) {
	var stats models.ListenerStats
	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return stats, false, nil
		}
		return stats, false, err
	}
	if err := snap.DataTo(&stats); err != nil {
		return stats, true, err
	}
	return stats, true, nil
}

// TrackListener counts a new listener and raises the 24h peak when exceeded
func (r *FirestoreStatsRepository) TrackListener(ctx context.Context, at time.Time) error {
	ref := r.statsRef()
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stats, exists, err := readStats(tx, ref)
		if err != nil {
			return err
		}
		current := stats.CurrentListeners + 1
		if !exists {
			return tx.Set(ref, models.ListenerStats{
				CurrentListeners: current,
				TotalVisits:      1,
				PeakListeners24h: current,
				PeakTimestamp:    &at,
				LastUpdated:      &at,
			})
		}
		updates := []firestore.Update{
			{Path: "currentListeners", Value: firestore.Increment(1)},
			{Path: "totalVisits", Value: firestore.Increment(1)},
			{Path: "lastUpdated", Value: at},
		}
		if current > stats.PeakListeners24h {
			updates = append(updates,
				firestore.Update{Path: "peakListeners24h", Value: current},
				firestore.Update{Path: "peakTimestamp", Value: at},
			)
		}
		return tx.Update(ref, updates)
	})
}

// DecrementListener removes a listener, never going below zero
func (r *FirestoreStatsRepository) DecrementListener(ctx context.Context, at time.Time) error {
	ref := r.statsRef()
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stats, exists, err := readStats(tx, ref)
		if err != nil || !exists {
			return err
		}
		updates := []firestore.Update{{Path: "lastUpdated", Value: at}}
		if stats.CurrentListeners > 0 {
			updates = append(updates, firestore.Update{Path: "currentListeners", Value: firestore.Increment(-1)})
		}
		return tx.Update(ref, updates)
	})
}

// GetStats returns the counters, all zero when nothing was recorded yet
func (r *FirestoreStatsRepository) GetStats(ctx context.Context) (*models.ListenerStats, error) {
	var stats models.ListenerStats
	snap, err := r.statsRef().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &stats, nil
		}
		return nil, err
	}
	if err := snap.DataTo(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ToggleLike flips the like for userID and adjusts totalLikes24h
func (r *FirestoreStatsRepository) ToggleLike(ctx context.Context, userID string, at time.Time) (bool, error) {
	if !validDocID(userID) {
		return false, ErrNotFound
	}
	likeRef := r.client.Collection(likesCollection).Doc(userID)
	statsRef := r.statsRef()
	var liked bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var like models.Like
		snap, err := tx.Get(likeRef)
		switch {
		case err == nil:
			if err := snap.DataTo(&like); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}
		stats, exists, err := readStats(tx, statsRef)
		if err != nil {
			return err
		}

		liked = !like.Liked
		if err := tx.Set(likeRef, models.Like{Liked: liked, Timestamp: at}); err != nil {
			return err
		}
		switch {
		case !exists && liked:
			return tx.Set(statsRef, map[string]interface{}{"totalLikes24h": 1, "lastUpdated": at}, firestore.MergeAll)
		case !exists:
			return nil
		case liked:
			return tx.Update(statsRef, []firestore.Update{{Path: "totalLikes24h", Value: firestore.Increment(1)}})
		case stats.TotalLikes24h > 0:
			return tx.Update(statsRef, []firestore.Update{{Path: "totalLikes24h", Value: firestore.Increment(-1)}})
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// HasLiked reports whether userID currently likes the stream
func (r *FirestoreStatsRepository) HasLiked(ctx context.Context, userID string) (bool, error) {
	if !validDocID(userID) {
		return false, nil
	}
	snap, err := r.client.Collection(likesCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	var like models.Like
	if err := snap.DataTo(&like); err != nil {
		return false, err
	}
	return like.Liked, nil
}

func validDocID(id string) bool {
	return id != "" && !strings.Contains(id, "/") && !(strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"))
}
