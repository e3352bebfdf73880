package lexer

// stack collects the characters of the token currently being matched.
// The backing array is re-used across Next calls and only grows when a
// literal longer than any previous one is read.
type stack struct {
	contents []byte
}

func newStack() *stack {
	return &stack{contents: make([]byte, 0, 32)}
}

func (s *stack) push(b byte) {
	s.contents = append(s.contents, b)
}

func (s *stack) clear() {
	s.contents = s.contents[:0]
}

func (s *stack) String() string {
	return string(s.contents)
}
