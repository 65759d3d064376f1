package workerpool

// Range is an inclusive span of sequential positions.
type Range struct {
	From int64
	To   int64
}

// Ranges splits [from, to] into consecutive spans of at most size positions.
func Ranges(from, to, size int64) []Range {
	if to < from || size <= 0 {
		return nil
	}
	out := make([]Range, 0, (to-from)/size+1)
	for start := from; start <= to; start += size {
		end := start + size - 1
		if end > to || end < start {
			end = to
		}
		out = append(out, Range{From: start, To: end})
		if end == to {
			break
		}
	}
	return out
}
