// Пакет status — статусы заявок, их синонимы и допустимые переходы.
package status

import "strings"

// Канонические статусы заявки.
const (
	Pending         = "pending"
	Confirmed       = "confirmed"
	Done            = "done"
	Cancelled       = "cancelled"
	CancelledByUser = "cancelled_by_user"
)

// transitions — матрица допустимых переходов. Отсутствие записи
// означает терминальный статус.
var transitions = map[string]map[string]bool{
	Pending:   {Confirmed: true, Cancelled: true, CancelledByUser: true},
	Confirmed: {Done: true, Cancelled: true},
}

// Canonical нормализует сырой статус: нижний регистр, обрезка пробелов,
// пробельные серии внутри схлопываются в один символ подчёркивания, затем
// применяются синонимы исторических источников ("new" → pending,
// варианты "in progress" → confirmed).
func Canonical(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "_")

	switch s {
	case "new":
		return Pending
	case "in_progress", "inprogress":
		return Confirmed
	}
	return s
}

// IsKnown проверяет, что статус один из канонических.
func IsKnown(s string) bool {
	switch s {
	case Pending, Confirmed, Done, Cancelled, CancelledByUser:
		return true
	}
	return false
}

// CanTransition — допустим ли переход from → to.
func CanTransition(from, to string) bool {
	return transitions[Canonical(from)][Canonical(to)]
}

// IsTerminal — статус, из которого нет переходов.
func IsTerminal(s string) bool {
	return len(transitions[Canonical(s)]) == 0
}
