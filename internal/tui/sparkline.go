package tui

import "math"

// sparklineChars maps levels 0..7 to Unicode block elements.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer is a fixed-capacity circular buffer of percentages.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity (at least 1).
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push adds a value, overwriting the oldest one when full. NaN is stored as 0
// so that an entity without samples draws a flat line.
func (r *RingBuffer) Push(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of stored values.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the most recent value, or 0 if empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Slice returns the values oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range r.count {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity and keeps the newest values that fit.
func (r *RingBuffer) Resize(capacity int) {
	capacity = max(capacity, 1)
	if capacity == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > capacity {
		old = old[len(old)-capacity:]
	}
	r.data = make([]float64, capacity)
	r.head, r.count = 0, 0
	for _, v := range old {
		r.Push(v)
	}
}

// scaleCeiling returns the value drawn as a full cell: ceiling, raised to the
// largest value when a multi-threaded target exceeds it.
func scaleCeiling(values []float64, ceiling float64) float64 {
	top := ceiling
	for _, v := range values {
		top = max(top, v)
	}
	if top <= 0 {
		return 1
	}
	return top
}

// RenderSparkline draws values as one row of block elements, scaled so that
// the larger of ceiling and the maximum value fills a cell.
func RenderSparkline(values []float64, ceiling float64) string {
	if len(values) == 0 {
		return ""
	}
	top := scaleCeiling(values, ceiling)
	runes := make([]rune, len(values))
	for i, v := range values {
		level := int(max(v, 0) / top * 7)
		runes[i] = sparklineChars[min(level, 7)]
	}
	return string(runes)
}

// brailleDots maps (column 0-1, row 0-3) to the bit of a braille cell.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots values as a dot chart of rows text lines and width
// cells, two values per cell, newest on the right. The vertical scale follows
// the same ceiling rule as RenderSparkline.
func RenderBrailleChart(values []float64, width, rows int, ceiling float64) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotRows := rows * 4
	dotCols := width * 2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}

	if len(values) > dotCols {
		values = values[len(values)-dotCols:]
	}
	top := scaleCeiling(values, ceiling)
	offset := dotCols - len(values)
	for i, v := range values {
		dotCol := offset + i
		dotRow := dotRows - 1 - int(max(v, 0)/top*float64(dotRows-1))
		dotRow = min(max(dotRow, 0), dotRows-1)
		grid[dotRow/4][dotCol/2] |= brailleDots[dotCol%2][dotRow%4]
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return lines
}
