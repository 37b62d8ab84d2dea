package mpeg

import "fmt"

// CodecType classifies an elementary stream as carried by the PS container.
type CodecType int

const (
	CodecTypeAudio CodecType = iota
	CodecTypeVideo
)

func (t CodecType) String() string {
	if t == CodecTypeVideo {
		return "video"
	}
	return "audio"
}

// CodecID identifies the payload codec of an elementary stream. Only the
// codec ids the demuxer can itself infer from a PES stream id range are
// enumerated here; the muxer accepts any caller-supplied value for bitrate
// accounting purposes.
type CodecID int

const (
	CodecIDNone CodecID = iota
	CodecIDMPEG1Video
	CodecIDMP2
	CodecIDAC3
)

func (id CodecID) String() string {
	switch id {
	case CodecIDMPEG1Video:
		return "mpeg1video"
	case CodecIDMP2:
		return "mp2"
	case CodecIDAC3:
		return "ac3"
	default:
		return "none"
	}
}

// StreamDescriptor is the external collaborator (spec §6) supplied by the
// caller when registering an elementary stream with the muxer. It carries
// exactly the fields mpeg_mux_init reads off an AVStream's codec context.
type StreamDescriptor struct {
	CodecType  CodecType
	CodecID    CodecID
	SampleRate int // audio, Hz
	FrameSize  int // audio, samples per frame
	FrameRate  int // video, numerator over FrameRateBase
	BitRate    int // bits/second
}

// AVPacket is the demuxer's output: one elementary-stream packet plus its
// presentation timestamp in 90kHz ticks.
type AVPacket struct {
	StreamIndex int
	Data        []byte
	Pts         int64
}

func (p AVPacket) String() string {
	return fmt.Sprintf("stream=%d pts=%d bytes=%d", p.StreamIndex, p.Pts, len(p.Data))
}
