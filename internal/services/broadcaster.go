package services

import "ritmo-backend/internal/models"

// Broadcaster pushes ledger changes to connected clients.
type Broadcaster interface {
	BroadcastBalance(userID string, gems int64)
	BroadcastProgress(userID string, progress models.Progress, leveledUp bool)
}

type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastBalance(string, int64)                  {}
func (NopBroadcaster) BroadcastProgress(string, models.Progress, bool) {}
