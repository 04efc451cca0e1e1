// Package session хранит транзиентное состояние диалогов по пользователям.
// У пользователя одновременно не больше одного активного диалога; запись
// удаляется при завершении или отмене диалога и нигде не персистится.
package session

import (
	"sync"

	"github.com/tempizhere/gipervygoda/internal/dialogue"
)

// Manager содержит активные диалоги пользователей
type Manager struct {
	mutex  sync.Mutex
	active map[int64]dialogue.Dialogue
}

// NewManager создаёт новый экземпляр Manager
func NewManager() *Manager {
	return &Manager{
		active: make(map[int64]dialogue.Dialogue),
	}
}

// Set делает диалог активным для пользователя, заменяя предыдущий
func (m *Manager) Set(userID int64, d dialogue.Dialogue) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.active[userID] = d
}

// Get возвращает активный диалог пользователя и флаг существования
func (m *Manager) Get(userID int64) (dialogue.Dialogue, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	d, ok := m.active[userID]
	return d, ok
}

// Clear удаляет активный диалог пользователя
func (m *Manager) Clear(userID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.active, userID)
}

// Len возвращает количество активных диалогов
func (m *Manager) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.active)
}
