package mpeg

// MaxPayload is the maximum size of an elementary-stream re-order buffer
// per stream (spec §3).
const MaxPayload = 4096

// Stream id bases (spec §3, GLOSSARY "Private-stream-1").
const (
	audioIDBase          = 0xC0
	videoIDBase          = 0xE0
	ac3IDBase            = 0x80
	privateStream1ID     = 0xBD
	maxAudioStreams      = 0xE0 - 0xC0
	maxVideoStreams      = 0xF0 - 0xE0
	audioBufferSize      = 4 * 1024
	videoBufferSize      = 46 * 1024
	audioBufferScaleUnit = 128
	videoBufferScaleUnit = 1024
)

// StreamState is the per-elementary-stream mux bookkeeping of spec §3: a
// re-used byte buffer, PES id, PTS accumulator and ticker. Grounded on
// original_source/libav/mpeg.c's StreamInfo and mpeg/ps_muxer.go's stream
// bookkeeping, generalized to the profile-driven id/buffer-size rules.
type StreamState struct {
	id            byte
	codecType     CodecType
	codecID       CodecID
	buffer        []byte
	fill          int
	maxBufferSize int
	pts           int64
	startPts      int64 // -1 == unset
	ticker        Ticker
	packetNumber  int
	bitRate       int
}

func newStreamState(desc StreamDescriptor, id byte) *StreamState {
	s := &StreamState{
		id:        id,
		codecType: desc.CodecType,
		codecID:   desc.CodecID,
		buffer:    make([]byte, MaxPayload),
		startPts:  -1,
		bitRate:   desc.BitRate,
	}

	switch desc.CodecType {
	case CodecTypeAudio:
		s.maxBufferSize = audioBufferSize
		s.ticker = NewTicker(int64(desc.SampleRate), 90000*int64(desc.FrameSize))
	case CodecTypeVideo:
		s.maxBufferSize = videoBufferSize
		s.ticker = NewTicker(int64(desc.FrameRate), 90000*int64(FrameRateBase))
	}

	return s
}

func (s *StreamState) isVideo() bool {
	return s.id >= videoIDBase && s.id < videoIDBase+maxVideoStreams
}

// isPrivateStream1 reports whether this stream is carried inside PES id
// 0xBD (private-stream-1), i.e. its allocated sub-id is below 0xC0 (AC-3).
func (s *StreamState) isPrivateStream1() bool {
	return s.id < audioIDBase
}

func (s *StreamState) bufferSizeBound() int {
	if s.isVideo() {
		return s.maxBufferSize / videoBufferScaleUnit
	}
	return s.maxBufferSize / audioBufferScaleUnit
}
