package utils

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Contains(v int) bool {
	for _, val := range I {
		if val == v {
			return true
		}
	}
	return false
}

// Complement returns the indices in [0,N) not present in I, in increasing order.
func (I Index) Complement(N int) (r Index) {
	var (
		mark = make([]bool, N)
	)
	for _, val := range I {
		mark[val] = true
	}
	for i := 0; i < N; i++ {
		if !mark[i] {
			r = append(r, i)
		}
	}
	return
}
