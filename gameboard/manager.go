package gameboard

import (
	"sync"

	"github.com/SprayArt/ardk-upm/common"
	"go.uber.org/zap"
)

// Manager owns the active gameboard and forwards queries to it, so agents
// keep working when the board is swapped for a new level.
type Manager struct {
	mu    sync.RWMutex
	board *Gameboard
	log   *zap.Logger
}

func NewManager(board *Gameboard, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{board: board, log: log}
}

func (m *Manager) Gameboard() *Gameboard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board
}

func (m *Manager) SetGameboard(board *Gameboard) {
	m.mu.Lock()
	m.board = board
	m.mu.Unlock()
	if board != nil {
		m.log.Info("gameboard replaced", zap.Float64("area", board.Area()))
	}
}

func (m *Manager) Settings() Settings {
	if b := m.Gameboard(); b != nil {
		return b.Settings()
	}
	return DefaultSettings()
}

func (m *Manager) Area() float64 {
	if b := m.Gameboard(); b != nil {
		return b.Area()
	}
	return 0
}

func (m *Manager) FindNearestFreePosition(p common.Vec3) (common.Vec3, bool) {
	if b := m.Gameboard(); b != nil {
		return b.FindNearestFreePosition(p)
	}
	return p, false
}

func (m *Manager) IsOnGameboard(p common.Vec3, tolerance float64) bool {
	if b := m.Gameboard(); b != nil {
		return b.IsOnGameboard(p, tolerance)
	}
	return false
}

func (m *Manager) CalculatePath(start, destination common.Vec3, cfg AgentConfiguration) (bool, Path) {
	if b := m.Gameboard(); b != nil {
		return b.CalculatePath(start, destination, cfg)
	}
	return false, InvalidPath()
}
