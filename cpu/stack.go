package cpu

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is a fixed capacity stack of return addresses.
// Sp is the index of the next free slot.
type Stack struct {
	Data [STACK_LIMIT]uint16
	Sp   uint8
}

// Push stores value in the next free slot.
// A full stack is left untouched, and ok is false.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Sp] = value
	s.Sp++
	return true
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Sp--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return int(s.Sp) == STACK_LIMIT
}

// Depth is the number of return addresses on the stack.
func (s *Stack) Depth() int {
	return int(s.Sp)
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Sp = 0
}
