package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempizhere/gipervygoda/internal/dialogue"
)

func TestManager(t *testing.T) {
	m := NewManager()

	// Тест 1: У нового менеджера нет активных диалогов
	_, ok := m.Get(42)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	// Тест 2: Set делает диалог активным
	order := dialogue.NewOrderDialogue(42, "testuser")
	m.Set(42, order)
	got, ok := m.Get(42)
	require.True(t, ok)
	assert.Same(t, order, got)
	assert.Equal(t, 1, m.Len())

	// Тест 3: Повторный Set заменяет предыдущий диалог
	review := dialogue.NewReviewDialogue(42, "testuser", 10, 1000)
	m.Set(42, review)
	got, ok = m.Get(42)
	require.True(t, ok)
	assert.Same(t, review, got)
	assert.Equal(t, 1, m.Len())

	// Тест 4: Clear удаляет диалог
	m.Clear(42)
	_, ok = m.Get(42)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	// Тест 5: Clear для несуществующего пользователя безопасен
	m.Clear(99)
}
