package mpeg

// MaxProbeScore is the strongest confidence a format prober can report;
// callers comparing several formats' scores pick the highest.
const MaxProbeScore = 100

// Probe scores a byte prefix's likelihood of being an MPEG PS stream (spec
// §4.5), grounded on original_source/libav/mpeg.c's mpegps_probe: a rolling
// 24-bit scan over the whole prefix, byte-shifting through any leading
// garbage, that returns as soon as it finds the first 0x000001xx pattern
// anywhere in the buffer — mirroring findStartCode's own state machine
// rather than requiring the pattern at offset 0. Per SPEC_FULL.md §4's
// "Probe scans only the first start code", scanning stops at that first
// candidate; it does not skip scanning for it. Pack header, system header,
// program stream map, private-stream-1/2, padding, or a stream id in the
// audio/video PES ranges all count as a PS stream; anything else, or no
// start code at all, scores zero.
func Probe(prefix []byte) int {
	state := uint32(0xFF)
	for _, b := range prefix {
		prevState := state
		state = ((state << 8) | uint32(b)) & 0xFFFFFF

		if prevState != 0x000001 {
			continue
		}

		code := 0x100 | uint32(b)
		switch {
		case code == packStartCode9,
			code == systemHeaderStartCode9,
			code == uint32(ProgramStreamMapCode&0xFF)|0x100,
			code == privateStream1Code9,
			code == paddingStreamStartCode9,
			code == privateStream2Code9,
			code >= audioStartLow9 && code <= audioStartHigh9,
			code >= videoStartLow9 && code <= videoStartHigh9:
			return MaxProbeScore - 1
		default:
			return 0
		}
	}
	return 0
}
