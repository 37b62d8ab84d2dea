package mpeg

import "testing"

func videoDescriptor() StreamDescriptor {
	return StreamDescriptor{CodecType: CodecTypeVideo, CodecID: CodecIDMPEG1Video, FrameRate: 25, BitRate: 1_000_000}
}

func audioDescriptor() StreamDescriptor {
	return StreamDescriptor{CodecType: CodecTypeAudio, CodecID: CodecIDMP2, SampleRate: 48000, FrameSize: 1152, BitRate: 128_000}
}

func ac3Descriptor() StreamDescriptor {
	return StreamDescriptor{CodecType: CodecTypeAudio, CodecID: CodecIDAC3, SampleRate: 48000, FrameSize: 1536, BitRate: 192_000}
}

// TestMuxAssignsSequentialStreamIDs verifies the independent audio/AC-3/video
// id counters (spec §4.3 Init, GLOSSARY "Private-stream-1").
func TestMuxAssignsSequentialStreamIDs(t *testing.T) {
	sink := NewByteSliceSink()
	ctx, err := NewMuxEngine(ProfileMPEG1System, []StreamDescriptor{
		audioDescriptor(), audioDescriptor(), videoDescriptor(), ac3Descriptor(),
	}, sink)
	if err != nil {
		t.Fatalf("NewMuxEngine: %v", err)
	}

	want := []byte{0xC0, 0xC1, 0xE0, 0x80}
	for i, s := range ctx.streams {
		if s.id != want[i] {
			t.Fatalf("stream %d id = %#x, want %#x", i, s.id, want[i])
		}
	}
	if ctx.audioBound != 3 {
		t.Fatalf("audioBound = %d, want 3 (2 MP2 + 1 AC3)", ctx.audioBound)
	}
	if ctx.videoBound != 1 {
		t.Fatalf("videoBound = %d, want 1", ctx.videoBound)
	}
}

func TestMuxRejectsUnsupportedCodecType(t *testing.T) {
	sink := NewByteSliceSink()
	_, err := NewMuxEngine(ProfileMPEG1System, []StreamDescriptor{
		{CodecType: CodecType(99)},
	}, sink)
	if err == nil {
		t.Fatal("expected an error for an unsupported codec type")
	}
}

// TestMuxEmptyEndProducesNoOutput covers the boundary case: a stream that
// never receives WritePacket contributes nothing to End (spec §8).
func TestMuxEmptyEndProducesNoOutput(t *testing.T) {
	sink := NewByteSliceSink()
	ctx, err := NewMuxEngine(ProfileMPEG1System, []StreamDescriptor{videoDescriptor()}, sink)
	if err != nil {
		t.Fatalf("NewMuxEngine: %v", err)
	}
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(sink.Bytes()) != 0 {
		t.Fatalf("expected no output, got %d bytes", len(sink.Bytes()))
	}
}

// TestMuxSinglePacketIsExactlyOnePacketSize exercises the identity that
// falls out of the packet emission algorithm (spec §4.3): regardless of
// whether a pack/system header prefix is present, one flushed packet is
// always exactly profile.packetSize() bytes.
func TestMuxSinglePacketIsExactlyOnePacketSize(t *testing.T) {
	for _, profile := range []Profile{ProfileMPEG1System, ProfileMPEG1VCD, ProfileMPEG2VOB} {
		sink := NewByteSliceSink()
		ctx, err := NewMuxEngine(profile, []StreamDescriptor{videoDescriptor()}, sink)
		if err != nil {
			t.Fatalf("[%s] NewMuxEngine: %v", profile, err)
		}
		if err := ctx.WritePacket(0, make([]byte, 100), 0); err != nil {
			t.Fatalf("[%s] WritePacket: %v", profile, err)
		}
		if err := ctx.End(); err != nil {
			t.Fatalf("[%s] End: %v", profile, err)
		}
		if got, want := len(sink.Bytes()), profile.packetSize(); got != want {
			t.Fatalf("[%s] output = %d bytes, want %d", profile, got, want)
		}
	}
}

// TestMuxMultiPacketOutputIsWholePacketSizeMultiple covers writing more than
// packet_data_max_size bytes in a single call: the mux must flush mid-call
// and every emitted packet, including the final one, is exactly
// packetSize() bytes (spec §8 boundary cases).
func TestMuxMultiPacketOutputIsWholePacketSizeMultiple(t *testing.T) {
	sink := NewByteSliceSink()
	ctx, err := NewMuxEngine(ProfileMPEG1System, []StreamDescriptor{videoDescriptor()}, sink)
	if err != nil {
		t.Fatalf("NewMuxEngine: %v", err)
	}

	payload := make([]byte, ctx.packetDataMaxSize*3+17)
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := ctx.WritePacket(0, payload, 0); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(sink.Bytes())%ProfileMPEG1System.packetSize() != 0 {
		t.Fatalf("output length %d is not a multiple of packetSize %d", len(sink.Bytes()), ProfileMPEG1System.packetSize())
	}
	if len(sink.Bytes()) == 0 {
		t.Fatal("expected non-empty output")
	}
}

// TestMuxAC3SubHeaderFollowsSubID checks the private-stream-1 payload shape:
// PES id 0xBD, then the AC-3 sub-id byte, then the fixed 3-byte sub-header
// (spec §4.3, GLOSSARY "Private-stream-1").
func TestMuxAC3SubHeaderFollowsSubID(t *testing.T) {
	sink := NewByteSliceSink()
	ctx, err := NewMuxEngine(ProfileMPEG1System, []StreamDescriptor{ac3Descriptor()}, sink)
	if err != nil {
		t.Fatalf("NewMuxEngine: %v", err)
	}
	if err := ctx.WritePacket(0, []byte{1, 2, 3, 4}, 0); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	out := sink.Bytes()
	// Packet 0 opens with a pack header (12 bytes) and a system header with
	// one stream entry (15 bytes) ahead of the PES start code.
	const pes = 27
	if out[pes] != 0x00 || out[pes+1] != 0x00 || out[pes+2] != 0x01 || out[pes+3] != byte(PrivateStream1Code&0xFF) {
		t.Fatalf("expected a private-stream-1 start code at offset %d, got % x", pes, out[pes:pes+4])
	}

	// Find the sub-id byte (0x80, the lone AC-3 stream's assigned id) by
	// scanning past the fixed 5-byte PTS field that follows the PES header.
	// offset = prefix(27) + start code(4) + length(2) + stuffing + pts field(5)
	idx := -1
	for i := pes + 6; i < len(out)-4; i++ {
		if out[i] == 0x80 && out[i+1] == 0x01 && out[i+2] == 0x00 && out[i+3] == 0x02 {
			idx = i
			break
		}
	}
	if idx == -1 {
		t.Fatal("did not find AC-3 sub-id byte followed by 01 00 02 sub-header")
	}
}
