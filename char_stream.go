package antlr4

// eof is the sentinel code point returned by La past the end of input.
const eof = -1

// CharStream is the bidirectional code-point stream the simulator consumes.
// Implementations must make La non-advancing, Mark/Release pair like
// brackets, and Seek to an earlier index O(1) without perturbing future La
// results.
type CharStream interface {
	Index() int
	Size() int
	La(k int) int
	Consume()
	Mark() int
	Release(marker int)
	Seek(index int)
	GetTextFromInterval(start, stop int) string
}

// RuneStream is a CharStream over an in-memory slice of runes, the
// reference implementation used by tests and the cmd/lexdump front end.
type RuneStream struct {
	data  []rune
	index int
	marks []int
}

// NewRuneStream builds a RuneStream over the code points of s.
func NewRuneStream(s string) *RuneStream {
	return &RuneStream{data: []rune(s)}
}

func (r *RuneStream) Index() int { return r.index }

func (r *RuneStream) Size() int { return len(r.data) }

func (r *RuneStream) La(k int) int {
	if k == 0 {
		return 0
	}
	pos := r.index
	if k < 0 {
		pos += k
	} else {
		pos += k - 1
	}
	if pos < 0 || pos >= len(r.data) {
		return eof
	}
	return int(r.data[pos])
}

func (r *RuneStream) Consume() {
	if r.index >= len(r.data) {
		panic("antlr4: consume past EOF")
	}
	r.index++
}

func (r *RuneStream) Mark() int {
	r.marks = append(r.marks, r.index)
	return len(r.marks) - 1
}

func (r *RuneStream) Release(marker int) {
	if marker != len(r.marks)-1 {
		return
	}
	r.marks = r.marks[:marker]
}

func (r *RuneStream) Seek(index int) {
	r.index = index
}

func (r *RuneStream) GetTextFromInterval(start, stop int) string {
	if start < 0 {
		start = 0
	}
	if stop >= len(r.data) {
		stop = len(r.data) - 1
	}
	if start > stop {
		return ""
	}
	return string(r.data[start : stop+1])
}
