package simulation

import (
	"github.com/google/uuid"
)

// EventKind - тип события жизненного цикла сотрудника
type EventKind string

const (
	EventHired    EventKind = "hired"
	EventPromoted EventKind = "promoted"
	EventChurned  EventKind = "churned"
)

// Event - неизменяемая запись события. Порядок внутри месяца -
// порядок вставки: найм, затем отток, затем повышения.
type Event struct {
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	Kind         EventKind `json:"kind"`
	Office       string    `json:"office"`
	Role         string    `json:"role"`
	FromLevel    string    `json:"from_level,omitempty"`
	ToLevel      string    `json:"to_level,omitempty"`
	TenureMonths int       `json:"tenure_months,omitempty"`
}

// Person - сотрудник в популяции офиса. Создаётся при найме,
// при оттоке помечается неактивным, но никогда не удаляется,
// чтобы сохранить историю событий.
type Person struct {
	ID         string
	Office     string
	Role       string
	Level      string
	HiredAt    MonthKey
	LevelSince MonthKey
	Active     bool
	Events     []Event
}

// NewPerson создаёт сотрудника, нанятого в месяц hired
func NewPerson(office, role, level string, hired MonthKey) *Person {
	return &Person{
		ID:         uuid.NewString(),
		Office:     office,
		Role:       role,
		Level:      level,
		HiredAt:    hired,
		LevelSince: hired,
		Active:     true,
	}
}

// TenureInLevel возвращает стаж на текущем уровне в месяцах
// на момент месяца at
func (p *Person) TenureInLevel(at MonthKey) int {
	return MonthsBetween(p.LevelSince, at)
}
