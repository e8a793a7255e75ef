package bowl

import (
	"sync"
	"time"

	"bowl-customizer/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager 客製化流程註冊表
// 每個流程擁有自己的 Session，放棄的流程由清理協程按 TTL 回收
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	engine   *Engine
	ttl      time.Duration
	done     chan struct{}

	created int64
	expired int64
}

// NewManager 創建流程註冊表並啟動清理協程
func NewManager(engine *Engine, ttl, cleanupInterval time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		engine:   engine,
		ttl:      ttl,
		done:     make(chan struct{}),
	}

	go m.startCleanup(cleanupInterval)

	common.LogInfo("流程註冊表已初始化",
		zap.Duration("存活時間", ttl),
		zap.Duration("清理間隔", cleanupInterval),
	)

	return m
}

// Create 創建新的客製化流程
func (m *Manager) Create(dish *Dish, view CatalogView) *Session {
	session := m.engine.NewSession(uuid.New().String(), dish, view)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.created++
	m.mu.Unlock()

	return session
}

// Get 取得流程
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Delete 移除流程（放棄或結帳完成）
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// startCleanup 定期回收過期流程
func (m *Manager) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

// cleanup 移除超過 TTL 未操作的流程
func (m *Manager) cleanup() {
	now := time.Now()
	var stale []string

	m.mu.RLock()
	for id, session := range m.sessions {
		if now.Sub(session.LastAccess()) > m.ttl {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	if len(stale) == 0 {
		return
	}

	m.mu.Lock()
	for _, id := range stale {
		delete(m.sessions, id)
		m.expired++
	}
	m.mu.Unlock()

	common.LogInfo("過期流程已回收",
		zap.Int("數量", len(stale)),
	)
}

// Stats 註冊表統計信息
func (m *Manager) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"active":  len(m.sessions),
		"created": m.created,
		"expired": m.expired,
	}
}

// Close 停止清理協程並清空流程
func (m *Manager) Close() {
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
}
