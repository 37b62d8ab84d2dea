package mpeg

import (
	"errors"
	"fmt"
)

// MaxSyncSize bounds how many bytes a single start-code scan may consume
// before giving up (spec §4.4 "Start-code scanner").
const MaxSyncSize = 100000

// 24-bit start-code classes used by the dispatch table (spec §4.4). These
// are the low 9 bits actually compared (0x1xx), matching
// original_source/libav/mpeg.c's find_start_code, whose returned "startcode"
// value folds the 0x000001 prefix and the trailing type byte into one int.
const (
	packStartCode9          = 0x1BA
	systemHeaderStartCode9  = 0x1BB
	paddingStreamStartCode9 = 0x1BE
	privateStream2Code9     = 0x1BF
	privateStream1Code9     = 0x1BD
	audioStartLow9          = 0x1C0
	audioStartHigh9         = 0x1DF
	videoStartLow9          = 0x1E0
	videoStartHigh9         = 0x1EF
)

// errResync signals the current PES candidate was malformed and demuxing
// should resync from the next start code, without surfacing an error to the
// caller (spec §7 "Recovery policy").
var errResync = errors.New("mpeg: resync")

type demuxStream struct {
	id        uint32
	codecType CodecType
	codecID   CodecID
}

// DemuxEngine scans a byte source for PS start codes and reconstructs
// elementary packets (spec §4.4).
type DemuxEngine struct {
	source  ByteSource
	streams []*demuxStream
}

// NewDemuxEngine wraps source. Call ReadHeader before the first ReadPacket.
func NewDemuxEngine(source ByteSource) *DemuxEngine {
	return &DemuxEngine{source: source}
}

// ReadHeader is the demuxer's header-parse step. PS carries no separate
// container header — stream discovery happens inline as packets are read —
// so this consumes no bytes; it exists to satisfy the same Init/ReadHeader/
// ReadPacket contract the muxer's NewMuxEngine/WritePacket/End follow
// (spec §4.4, Register's NoHeader flag).
func (d *DemuxEngine) ReadHeader() {}

// Streams returns the streams discovered so far, in discovery order.
func (d *DemuxEngine) Streams() []demuxStream {
	out := make([]demuxStream, len(d.streams))
	for i, s := range d.streams {
		out[i] = *s
	}
	return out
}

// findStartCode consumes bytes until a 24-bit start code (00 00 01 xx) is
// found, returning 0x100|xx, bounded by MaxSyncSize bytes (spec §4.4).
func (d *DemuxEngine) findStartCode() (uint32, error) {
	state := uint32(0xFF)
	budget := MaxSyncSize

	for budget > 0 {
		if d.source.EOF() {
			break
		}
		v, err := d.source.GetByte()
		if err != nil {
			break
		}
		budget--

		if state == 0x000001 {
			state = ((state << 8) | uint32(v)) & 0xFFFFFF
			return state, nil
		}
		state = ((state << 8) | uint32(v)) & 0xFFFFFF
	}

	return 0, ErrEndOfStream
}

func isPESStartCode(code uint32) bool {
	if code == privateStream1Code9 {
		return true
	}
	if code >= audioStartLow9 && code <= audioStartHigh9 {
		return true
	}
	if code >= videoStartLow9 && code <= videoStartHigh9 {
		return true
	}
	return false
}

// ReadPacket produces exactly one elementary-stream packet per call (spec
// §4.4 read_packet contract), skipping pack/system headers, padding and
// private-stream-2 as it resyncs.
func (d *DemuxEngine) ReadPacket() (*AVPacket, error) {
	for {
		startCode, err := d.findStartCode()
		if err != nil {
			return nil, err
		}

		switch {
		case startCode == packStartCode9 || startCode == systemHeaderStartCode9:
			continue
		case startCode == paddingStreamStartCode9 || startCode == privateStream2Code9:
			length, err := d.source.GetBE16()
			if err != nil {
				return nil, err
			}
			if err := d.source.Skip(int(length)); err != nil {
				return nil, err
			}
			continue
		case !isPESStartCode(startCode):
			sugar.Debugw("mpeg: skipping non-PES start code", "code", fmt.Sprintf("0x%x", startCode))
			continue
		}

		pkt, err := d.readPESPacket(startCode)
		if errors.Is(err, errResync) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if pkt == nil {
			continue
		}
		return pkt, nil
	}
}

// readPESPacket parses one PES header starting at startCode and returns the
// elementary packet, or (nil, nil) if the stream id is unrecognized and the
// packet was skipped (spec §4.4 "Stream discovery").
func (d *DemuxEngine) readPESPacket(startCode uint32) (*AVPacket, error) {
	length, err := d.source.GetBE16()
	if err != nil {
		return nil, err
	}
	remaining := int(length)

	pts, dts, err := d.parsePESHeader(&remaining)
	if err != nil {
		return nil, err
	}

	effectiveID := startCode & 0xFF
	if startCode == privateStream1Code9 {
		subID, err := d.source.GetByte()
		if err != nil {
			return nil, err
		}
		remaining--
		effectiveID = uint32(subID)

		if subID >= 0x80 && subID <= 0xBF {
			if err := d.source.Skip(3); err != nil {
				return nil, err
			}
			remaining -= 3
		}
	} else {
		effectiveID = 0x100 | effectiveID
	}

	if remaining < 0 {
		return nil, errResync
	}

	idx, found := d.findStream(effectiveID)
	if !found {
		idx, found = d.discoverStream(effectiveID)
		if !found {
			sugar.Debugw("mpeg: unknown stream id, skipping packet", "id", fmt.Sprintf("0x%x", effectiveID))
			if err := d.source.Skip(remaining); err != nil {
				return nil, err
			}
			return nil, nil
		}
	}

	data, err := d.source.GetBuffer(remaining)
	if err != nil {
		return nil, err
	}

	_ = dts // decoded for header-shape fidelity; PS packets expose pts only (spec §4.4 emission)

	return &AVPacket{StreamIndex: idx, Data: data, Pts: pts}, nil
}

// parsePESHeader consumes the optional PES header bytes, decoding PTS/DTS
// where present (spec §4.4 "PES header parse"). *remaining is decremented
// for every byte consumed.
func (d *DemuxEngine) parsePESHeader(remaining *int) (pts, dts int64, err error) {
	var c byte
	for {
		c, err = d.source.GetByte()
		if err != nil {
			return 0, 0, err
		}
		*remaining--
		if c != 0xFF {
			break
		}
	}

	if (c & 0xC0) == 0x40 {
		if _, err = d.source.GetBuffer(2); err != nil {
			return 0, 0, err
		}
		*remaining -= 2
		c, err = d.source.GetByte()
		if err != nil {
			return 0, 0, err
		}
		*remaining--
	}

	switch {
	case (c & 0xF0) == 0x20:
		pts, err = d.getPts(c)
		if err != nil {
			return 0, 0, err
		}
		*remaining -= 4
		dts = pts

	case (c & 0xF0) == 0x30:
		pts, err = d.getPts(c)
		if err != nil {
			return 0, 0, err
		}
		dts, err = d.getPts(0)
		if err != nil {
			return 0, 0, err
		}
		*remaining -= 9

	case (c & 0xC0) == 0x80:
		if (c & 0x30) != 0 {
			sugar.Debugw("mpeg: refusing encrypted PES packet", "flags", fmt.Sprintf("0x%x", c))
			return 0, 0, ErrEncryptedStream
		}

		flags, err2 := d.source.GetByte()
		if err2 != nil {
			return 0, 0, err2
		}
		headerLen, err2 := d.source.GetByte()
		if err2 != nil {
			return 0, 0, err2
		}
		*remaining -= 2
		hl := int(headerLen)

		if hl > *remaining {
			return 0, 0, errResync
		}

		// Reproduced verbatim from original_source/libav/mpeg.c: a dangling
		// if (not else-if) after the PTS-only branch. See DESIGN.md's Open
		// Question note — not "fixed".
		if (flags & 0xC0) == 0x80 {
			pts, err = d.getPts(0)
			if err != nil {
				return 0, 0, err
			}
			dts = pts
			hl -= 5
			*remaining -= 5
		}
		if (flags & 0xC0) == 0xC0 {
			pts, err = d.getPts(0)
			if err != nil {
				return 0, 0, err
			}
			dts, err = d.getPts(0)
			if err != nil {
				return 0, 0, err
			}
			hl -= 10
			*remaining -= 10
		}

		*remaining -= hl
		if hl > 0 {
			if err = d.source.Skip(hl); err != nil {
				return 0, 0, err
			}
		}
	}

	return pts, dts, nil
}

// getPts decodes a 5-byte PTS/DTS field. If first is non-zero it is used as
// the already-consumed leading byte (matching get_pts(pb, c) with c>=0);
// pass 0 to have getPts read the leading byte itself.
func (d *DemuxEngine) getPts(first byte) (int64, error) {
	b0 := first
	if b0 == 0 {
		v, err := d.source.GetByte()
		if err != nil {
			return 0, err
		}
		b0 = v
	}

	b12, err := d.source.GetBE16()
	if err != nil {
		return 0, err
	}
	b34, err := d.source.GetBE16()
	if err != nil {
		return 0, err
	}

	return decodePts(b0, byte(b12>>8), byte(b12), byte(b34>>8), byte(b34)), nil
}

func (d *DemuxEngine) findStream(id uint32) (int, bool) {
	for i, s := range d.streams {
		if s.id == id {
			return i, true
		}
	}
	return -1, false
}

// discoverStream creates a new stream for an id never seen before (spec
// §4.4 "Stream discovery"): video for 0x1e0..0x1ef (MPEG1VIDEO), audio for
// 0x1c0..0x1df (MP2), audio for 0x80..0x9f (AC3); anything else is not a
// representable stream.
func (d *DemuxEngine) discoverStream(id uint32) (int, bool) {
	var s demuxStream
	switch {
	case id >= videoStartLow9 && id <= videoStartHigh9:
		s = demuxStream{id: id, codecType: CodecTypeVideo, codecID: CodecIDMPEG1Video}
	case id >= audioStartLow9 && id <= audioStartHigh9:
		s = demuxStream{id: id, codecType: CodecTypeAudio, codecID: CodecIDMP2}
	case id >= 0x80 && id <= 0x9F:
		s = demuxStream{id: id, codecType: CodecTypeAudio, codecID: CodecIDAC3}
	default:
		return -1, false
	}

	d.streams = append(d.streams, &s)
	return len(d.streams) - 1, true
}
