package dice

import (
	"fmt"
	"sync"
)

// MockRoller implements Roller with predetermined results for testing.
type MockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewMockRoller creates a new mock dice roller
func NewMockRoller(rolls ...int) *MockRoller {
	return &MockRoller{rolls: rolls}
}

// SetRolls replaces the scripted roll results and resets the cursor
func (m *MockRoller) SetRolls(rolls ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset rewinds the cursor without changing the scripted rolls
func (m *MockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollIndex = 0
}

// RollDie implements Roller.RollDie. It panics when the script runs out
// or produces a value outside [1, sides]; both indicate a broken test.
func (m *MockRoller) RollDie(sides int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		panic(fmt.Sprintf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls)))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	if roll < 1 || roll > sides {
		panic(fmt.Sprintf("invalid scripted roll %d for d%d", roll, sides))
	}
	return roll
}
