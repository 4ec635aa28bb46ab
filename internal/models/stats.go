package models

import "time"

// ListenerStats is the single stats document for the live stream
type ListenerStats struct {
	CurrentListeners int64      `json:"currentListeners" firestore:"currentListeners"`
	TotalVisits      int64      `json:"totalVisits" firestore:"totalVisits"`
	PeakListeners24h int64      `json:"peakListeners24h" firestore:"peakListeners24h"`
	PeakTimestamp    *time.Time `json:"peakTimestamp,omitempty" firestore:"peakTimestamp,omitempty"`
	TotalLikes24h    int64      `json:"totalLikes24h" firestore:"totalLikes24h"`
	LastUpdated      *time.Time `json:"lastUpdated,omitempty" firestore:"lastUpdated,omitempty"`
}

// Like records whether an anonymous listener currently likes the stream
type Like struct {
	Liked     bool      `json:"liked" firestore:"liked"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
