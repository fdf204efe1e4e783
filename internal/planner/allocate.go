package planner

// Slot is one of the two fixed daily time slots.
type Slot struct {
	Label string // "morning" or "afternoon"
	Clock string // "09:00" or "14:00"
}

var (
	Morning   = Slot{Label: "morning", Clock: "09:00"}
	Afternoon = Slot{Label: "afternoon", Clock: "14:00"}
)

// Allocation places one activity on a day of the visit.
type Allocation struct {
	DayIndex int
	Slot     Slot
}

// Allocate assigns the activity at submission index i round robin across
// dayCount days, alternating morning and afternoon by the parity of i.
// It never looks at other allocations, so two activities can share a day
// and slot. dayCount must be at least 1.
func Allocate(i, dayCount int) Allocation {
	slot := Morning
	if i%2 == 1 {
		slot = Afternoon
	}
	return Allocation{DayIndex: i % dayCount, Slot: slot}
}
