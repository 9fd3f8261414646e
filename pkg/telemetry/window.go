package telemetry

// WindowSize is the number of raw samples kept per channel.
const WindowSize = 3

// Window is a bounded ring of the most recent raw samples. The cursor
// always points at the slot the next Push overwrites, which is the
// oldest sample once the ring is full.
type Window struct {
	slots  [WindowSize]int
	cursor int
	count  int
}

// Push stores a sample, evicting the oldest once the ring is full.
func (w *Window) Push(v int) {
	w.slots[w.cursor] = v
	w.cursor = (w.cursor + 1) % WindowSize
	if w.count < WindowSize {
		w.count++
	}
}

// Count reports how many samples are stored.
func (w *Window) Count() int {
	return w.count
}

// Recent returns the stored samples that survive the next Push: every
// sample except the one the cursor points at when the ring is full.
func (w *Window) Recent() []int {
	if w.count == 0 {
		return nil
	}
	if w.count < WindowSize {
		out := make([]int, w.count)
		copy(out, w.slots[:w.count])
		return out
	}
	out := make([]int, 0, WindowSize-1)
	for i := 1; i < WindowSize; i++ {
		out = append(out, w.slots[(w.cursor+i)%WindowSize])
	}
	return out
}
