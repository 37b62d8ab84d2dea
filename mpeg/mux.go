package mpeg

import "fmt"

// packHeaderReservedBytes matches original_source/libav/mpeg.c's
// flush_packet, which stages the optional pack+system header prefix in a
// small on-stack buffer before it knows the final packet layout.
const packHeaderReservedBytes = 512

// MuxContext is the mux-side state of spec §3: the Profile plus derived
// rate/frequency constants and the owned StreamState set. Created by
// NewMuxEngine and mutated only by WritePacket/End; End flushes pending data
// and does not release the stream state.
type MuxContext struct {
	profile Profile
	sink    ByteSink

	muxRate          uint32
	packHeaderFreq   int
	systemHeaderFreq int
	audioBound       int
	videoBound       int

	packetNumber      int
	packetDataMaxSize int

	streams []*StreamState
}

// NewMuxEngine assigns PES ids in order, computes mux_rate/pack_header_freq/
// system_header_freq, and initializes each stream's ticker (spec §4.3 Init
// contract; original_source/libav/mpeg.c's mpeg_mux_init).
func NewMuxEngine(profile Profile, descriptors []StreamDescriptor, sink ByteSink) (*MuxContext, error) {
	ctx := &MuxContext{
		profile:           profile,
		sink:              sink,
		packetDataMaxSize: profile.packetSize() - 7,
	}

	var totalBitrate int
	audioCounter := byte(audioIDBase)
	ac3Counter := byte(ac3IDBase)
	videoCounter := byte(videoIDBase)

	for _, desc := range descriptors {
		if desc.CodecType != CodecTypeAudio && desc.CodecType != CodecTypeVideo {
			return nil, fmt.Errorf("%w: %v", ErrBadCodecType, desc.CodecType)
		}

		var id byte
		switch desc.CodecType {
		case CodecTypeAudio:
			if desc.CodecID == CodecIDAC3 {
				if ac3Counter >= audioIDBase {
					releaseStreams(ctx.streams)
					return nil, ErrNoMemory
				}
				id = ac3Counter
				ac3Counter++
			} else {
				if audioCounter >= videoIDBase {
					releaseStreams(ctx.streams)
					return nil, ErrNoMemory
				}
				id = audioCounter
				audioCounter++
			}
			ctx.audioBound++
		case CodecTypeVideo:
			if videoCounter >= videoIDBase+maxVideoStreams {
				releaseStreams(ctx.streams)
				return nil, ErrNoMemory
			}
			id = videoCounter
			videoCounter++
			ctx.videoBound++
		}

		ctx.streams = append(ctx.streams, newStreamState(desc, id))
		totalBitrate += desc.BitRate
	}

	ctx.muxRate = muxRate(totalBitrate)
	ctx.packHeaderFreq = profile.packHeaderFreq(totalBitrate)
	ctx.systemHeaderFreq = profile.systemHeaderFreq(ctx.packHeaderFreq)

	return ctx, nil
}

// releaseStreams drops references to partially allocated stream state on an
// Init failure path (spec §5 "On init failure...").
func releaseStreams(streams []*StreamState) {
	for i := range streams {
		streams[i] = nil
	}
}

// WritePacket appends bytes to the stream buffer, advances PTS by one tick
// at the end of the call, and emits PS packets while the buffer exceeds
// packet_data_max_size (spec §4.3 write_packet contract). A buffer that
// reaches exactly packet_data_max_size is flushed as well.
func (c *MuxContext) WritePacket(streamIndex int, data []byte, forcePts int64) error {
	stream := c.streams[streamIndex]

	for len(data) > 0 {
		if stream.startPts == -1 {
			if forcePts != 0 {
				stream.pts = forcePts
			}
			stream.startPts = stream.pts
		}

		n := c.packetDataMaxSize - stream.fill
		if n > len(data) {
			n = len(data)
		}
		copy(stream.buffer[stream.fill:], data[:n])
		stream.fill += n
		data = data[n:]

		for stream.fill >= c.packetDataMaxSize {
			if stream.startPts == -1 {
				stream.startPts = stream.pts
			}
			if err := c.flushPacket(stream, false); err != nil {
				return err
			}
		}
	}

	stream.pts += stream.ticker.Tick()
	return nil
}

// End flushes each stream with pending bytes; the last stream's final
// packet carries the ISO 11172 end code in its trailer (spec §4.3 End
// contract; original_source/libav/mpeg.c's mpeg_mux_end).
func (c *MuxContext) End() error {
	for i, stream := range c.streams {
		if stream.fill == 0 {
			continue
		}
		isLast := i == len(c.streams)-1
		if err := c.flushPacket(stream, isLast); err != nil {
			return err
		}
	}
	return nil
}

// flushPacket implements spec §4.3's packet emission algorithm.
func (c *MuxContext) flushPacket(stream *StreamState, isLast bool) error {
	prefix := make([]byte, packHeaderReservedBytes)
	var prefixSize int

	if c.packetNumber%c.packHeaderFreq == 0 {
		n := marshalPackHeader(prefix, stream.startPts, c.muxRate)
		if c.packetNumber%c.systemHeaderFreq == 0 {
			n += marshalSystemHeader(prefix[n:], c.muxRate, c.audioBound, c.videoBound, c.streams)
		}
		prefixSize = n
	}

	if prefixSize > 0 {
		if err := c.sink.PutBuffer(prefix[:prefixSize]); err != nil {
			return err
		}
	}

	headerLen := c.profile.headerLen()
	trailerLen := 0
	if isLast {
		trailerLen = 4
	}

	payloadSize := c.profile.packetSize() - (prefixSize + 6 + headerLen + trailerLen)
	if stream.isPrivateStream1() {
		payloadSize -= 4
	}

	stuffing := payloadSize - stream.fill
	if stuffing < 0 {
		stuffing = 0
	}

	startCode := uint32(0x000100) | uint32(stream.id)
	if stream.isPrivateStream1() {
		startCode = PrivateStream1Code
	}
	if err := c.sink.PutBE32(startCode); err != nil {
		return err
	}
	if err := c.sink.PutBE16(uint16(payloadSize + headerLen)); err != nil {
		return err
	}
	for i := 0; i < stuffing; i++ {
		if err := c.sink.PutByte(0xFF); err != nil {
			return err
		}
	}

	if c.profile.isMPEG2() {
		if err := c.sink.PutBuffer([]byte{0x80, 0x80, 0x05}); err != nil {
			return err
		}
	}

	ptsField := make([]byte, 5)
	w := NewBitWriter(ptsField)
	w.Write(0x2, 4)
	w.Write(uint32((stream.startPts>>30)&0x7), 3)
	w.Write(1, 1)
	w.Write(uint32((stream.startPts>>15)&0x7fff), 15)
	w.Write(1, 1)
	w.Write(uint32(stream.startPts&0x7fff), 15)
	w.Write(1, 1)
	if err := c.sink.PutBuffer(ptsField); err != nil {
		return err
	}

	if stream.isPrivateStream1() {
		if err := c.sink.PutByte(stream.id); err != nil {
			return err
		}
		if stream.id >= ac3IDBase && stream.id < audioIDBase {
			if err := c.sink.PutBuffer([]byte{0x01, 0x00, 0x02}); err != nil {
				return err
			}
		}
	}

	payloadLen := payloadSize - stuffing
	if err := c.sink.PutBuffer(stream.buffer[:payloadLen]); err != nil {
		return err
	}

	if isLast {
		if err := c.sink.PutBE32(ISOEndCode); err != nil {
			return err
		}
	}
	if err := c.sink.Flush(); err != nil {
		return err
	}

	remain := stream.fill - payloadSize
	if remain < 0 {
		remain = 0
	}
	copy(stream.buffer, stream.buffer[stream.fill-remain:stream.fill])
	stream.fill = remain

	stream.startPts = -1
	c.packetNumber++
	stream.packetNumber++

	return nil
}
