package mpeg

// FrameRateBase is the fixed-point denominator for video frame rates,
// matching the historical libav FRAME_RATE_BASE constant this codec's
// ticker math was distilled from (original_source/libav/mpeg.c).
const FrameRateBase = 1000000

// Ticker computes a per-call integer PTS increment so that, over many calls,
// pts advances at 90kHz with zero long-run drift. No floating point is used
// (spec §4.2, Design Notes §9): each tick adds
// floor(step*(accumulated+1)) - floor(step*accumulated), where step = den/num.
type Ticker struct {
	num         int64
	den         int64
	accumulated int64
}

// NewTicker builds a ticker from a rational rate. For audio pass
// (sampleRate, 90000*frameSize); for video pass (frameRate, 90000*FrameRateBase).
func NewTicker(num, den int64) Ticker {
	return Ticker{num: num, den: den}
}

// Tick advances the accumulator by one call and returns the number of 90kHz
// ticks elapsed since the previous call.
func (t *Ticker) Tick() int64 {
	if t.num == 0 {
		return 0
	}
	prev := (t.den * t.accumulated) / t.num
	t.accumulated++
	next := (t.den * t.accumulated) / t.num
	return next - prev
}
