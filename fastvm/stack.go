package fastvm

import "github.com/holiman/uint256"

// StackLimit is the maximum operand stack depth.
const StackLimit = 1024

// Stack is the operand stack of 256-bit words. Bounds are validated by
// the jump table before an operation runs, so the accessors themselves
// do not re-check.
type Stack struct {
	data []uint256.Int
}

func newStack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

func (st *Stack) push(v *uint256.Int) {
	st.data = append(st.data, *v)
}

func (st *Stack) pop() uint256.Int {
	v := st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return v
}

// peek returns the top of stack without removing it.
func (st *Stack) peek() *uint256.Int {
	return &st.data[len(st.data)-1]
}

// Back returns the n'th item from the top (0 = top).
func (st *Stack) Back(n int) *uint256.Int {
	return &st.data[len(st.data)-n-1]
}

func (st *Stack) swap(n int) {
	last := len(st.data) - 1
	st.data[last], st.data[last-n] = st.data[last-n], st.data[last]
}

func (st *Stack) dup(n int) {
	st.push(&st.data[len(st.data)-n])
}

func (st *Stack) len() int {
	return len(st.data)
}
