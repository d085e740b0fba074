package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"journal-api/pkg/logging"
)

// ReplayProtection remembers recently processed webhook event ids so a
// re-delivered event is acknowledged without being reapplied.
type ReplayProtection struct {
	processedEvents map[string]time.Time
	mutex           sync.RWMutex
	cleanupInterval time.Duration
	eventTTL        time.Duration
	stopCleanup     chan bool
}

// NewReplayProtection 创建重放防护实例
func NewReplayProtection() *ReplayProtection {
	rp := &ReplayProtection{
		processedEvents: make(map[string]time.Time),
		cleanupInterval: time.Hour,
		eventTTL:        time.Hour * 24,
		stopCleanup:     make(chan bool),
	}

	go rp.startCleanupRoutine()

	return rp
}

// IsReplay reports whether the event was already applied successfully.
// Events without an id cannot be deduplicated and are always allowed;
// their effects are idempotent overwrites, so re-applying is safe.
func (rp *ReplayProtection) IsReplay(eventID string, timestamp int64) bool {
	if eventID == "" {
		return false
	}

	rp.mutex.RLock()
	defer rp.mutex.RUnlock()

	if processedTime, exists := rp.processedEvents[rp.eventKey(eventID, timestamp)]; exists {
		logging.Infof("Duplicate webhook event - id: %s, previously processed at: %v", eventID, processedTime)
		return true
	}
	return false
}

// MarkProcessed records the event so a re-delivery is treated as a replay.
// Callers invoke this only after the event's effects persisted; a delivery
// that failed stays unrecorded so the provider's retry is applied normally.
func (rp *ReplayProtection) MarkProcessed(eventID string, timestamp int64) {
	if eventID == "" {
		return
	}

	rp.mutex.Lock()
	defer rp.mutex.Unlock()

	rp.processedEvents[rp.eventKey(eventID, timestamp)] = time.Now()
}

// eventKey 生成事件的唯一标识符
func (rp *ReplayProtection) eventKey(eventID string, timestamp int64) string {
	data := fmt.Sprintf("%s:%d", eventID, timestamp)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// startCleanupRoutine 启动清理协程
func (rp *ReplayProtection) startCleanupRoutine() {
	ticker := time.NewTicker(rp.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rp.cleanup()
		case <-rp.stopCleanup:
			return
		}
	}
}

// cleanup 清理过期的事件记录
func (rp *ReplayProtection) cleanup() {
	rp.mutex.Lock()
	defer rp.mutex.Unlock()

	now := time.Now()
	initialCount := len(rp.processedEvents)

	for key, processedTime := range rp.processedEvents {
		if now.Sub(processedTime) > rp.eventTTL {
			delete(rp.processedEvents, key)
		}
	}

	cleanedCount := initialCount - len(rp.processedEvents)
	if cleanedCount > 0 {
		logging.Infof("Replay protection cleanup: removed %d expired events, remaining: %d",
			cleanedCount, len(rp.processedEvents))
	}
}

// Clear 清空所有记录（用于测试）
func (rp *ReplayProtection) Clear() {
	rp.mutex.Lock()
	defer rp.mutex.Unlock()

	rp.processedEvents = make(map[string]time.Time)
}

// Stop 停止清理协程
func (rp *ReplayProtection) Stop() {
	close(rp.stopCleanup)
}
