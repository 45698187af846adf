package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unclebandit/smsinbound-backend/internal/model"
)

// MemoryMessageRepository keeps messages in process memory. It backs the
// service when no database is configured and is the repository used in most
// tests. The mutex makes check-and-insert atomic, so concurrent inserts of
// the same message_id resolve to exactly one ResultCreated.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]model.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		messages: make(map[string]model.Message),
	}
}

func (r *MemoryMessageRepository) Insert(msg *model.Message) (InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.messages[msg.MessageID]; exists {
		return ResultDuplicate, nil
	}
	msg.CreatedAt = time.Now().UTC()
	r.messages[msg.MessageID] = *msg
	return ResultCreated, nil
}

func (r *MemoryMessageRepository) Query(limit, offset int, filter MessageFilter) ([]model.Message, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []model.Message{}
	for _, m := range r.messages {
		if filter.From != "" && m.From != filter.From {
			continue
		}
		if filter.Since != nil && m.TS.Before(*filter.Since) {
			continue
		}
		if filter.Q != "" {
			if m.Text == nil || !strings.Contains(strings.ToLower(*m.Text), strings.ToLower(filter.Q)) {
				continue
			}
		}
		matched = append(matched, m)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].TS.Equal(matched[j].TS) {
			return matched[i].TS.Before(matched[j].TS)
		}
		return matched[i].MessageID < matched[j].MessageID
	})

	total := len(matched)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := make([]model.Message, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (r *MemoryMessageRepository) Stats() (*MessageStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &MessageStats{MessagesPerSender: []SenderCount{}}
	counts := map[string]int{}

	for _, m := range r.messages {
		stats.TotalMessages++
		counts[m.From]++
		if stats.FirstMessageTS == nil || m.TS.Before(*stats.FirstMessageTS) {
			ts := m.TS
			stats.FirstMessageTS = &ts
		}
		if stats.LastMessageTS == nil || m.TS.After(*stats.LastMessageTS) {
			ts := m.TS
			stats.LastMessageTS = &ts
		}
	}
	stats.SendersCount = len(counts)

	for from, count := range counts {
		stats.MessagesPerSender = append(stats.MessagesPerSender, SenderCount{From: from, Count: count})
	}
	sort.Slice(stats.MessagesPerSender, func(i, j int) bool {
		if stats.MessagesPerSender[i].Count != stats.MessagesPerSender[j].Count {
			return stats.MessagesPerSender[i].Count > stats.MessagesPerSender[j].Count
		}
		return stats.MessagesPerSender[i].From < stats.MessagesPerSender[j].From
	})
	if len(stats.MessagesPerSender) > 10 {
		stats.MessagesPerSender = stats.MessagesPerSender[:10]
	}

	return stats, nil
}

var _ MessageRepositoryInterface = (*MemoryMessageRepository)(nil)
