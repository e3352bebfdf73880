package ext

// Stack is a LIFO backed by a slice. Pop and Top panic on an empty stack.
type Stack[T any] []T

func (s *Stack[T]) Push(v T) {
	*s = append(*s, v)
}

func (s *Stack[T]) Pop() T {
	top := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return top
}

func (s *Stack[T]) Top() T {
	return (*s)[len(*s)-1]
}

func (s *Stack[T]) Len() int { return len(*s) }

func (s *Stack[T]) Empty() bool { return len(*s) == 0 }
