package mpeg

import "encoding/binary"

// Start codes shared by the mux and demux paths (spec §3, GLOSSARY).
const (
	PackHeaderStartCode   uint32 = 0x000001BA
	SystemHeaderStartCode uint32 = 0x000001BB
	ProgramStreamMapCode  uint32 = 0x000001BC
	PrivateStream1Code    uint32 = 0x000001BD
	PaddingStreamCode     uint32 = 0x000001BE
	PrivateStream2Code    uint32 = 0x000001BF
	ISOEndCode            uint32 = 0x000001B9
)

// marshalPackHeader writes the 12-byte MPEG-1-shaped pack header (spec §4.3
// "Pack header layout"; no MPEG-2 rate-extension byte in any profile, per
// Design Notes §9). scr is the System Clock Reference in 90kHz ticks.
func marshalPackHeader(dst []byte, scr int64, muxRateVal uint32) int {
	w := NewBitWriter(dst)
	w.Write(PackHeaderStartCode, 32)
	w.Write(0x2, 4)
	w.Write(uint32((scr>>30)&0x7), 3)
	w.Write(1, 1) // marker
	w.Write(uint32((scr>>15)&0x7fff), 15)
	w.Write(1, 1) // marker
	w.Write(uint32(scr&0x7fff), 15)
	w.Write(1, 1) // marker
	w.Write(1, 1) // marker
	w.Write(muxRateVal, 22)
	w.Write(1, 1) // marker
	return w.Position()
}

// marshalSystemHeader writes a system header advertising each stream's id
// and buffer bound (spec §4.3 "System header layout"). Private-stream-1
// contributors collapse to a single 0xBD entry, per spec §4.3 and the Open
// Question in spec §9. Returns the number of bytes written.
func marshalSystemHeader(dst []byte, muxRateVal uint32, audioBound, videoBound int, streams []*StreamState) int {
	w := NewBitWriter(dst)
	w.Write(SystemHeaderStartCode, 32)
	w.Write(0, 16) // length placeholder, patched below
	w.Write(1, 1)  // marker
	w.Write(muxRateVal, 22)
	w.Write(1, 1) // marker
	w.Write(uint32(audioBound), 6)
	w.Write(1, 1) // variable bitrate
	w.Write(1, 1) // non-constrained bitstream
	w.Write(0, 1) // audio locked
	w.Write(0, 1) // video locked
	w.Write(1, 1) // marker
	w.Write(uint32(videoBound), 5)
	w.Write(0xFF, 8) // reserved

	privateStreamCoded := false
	for _, s := range streams {
		id := uint32(s.id)
		if s.isPrivateStream1() {
			if privateStreamCoded {
				continue
			}
			privateStreamCoded = true
			id = privateStream1ID
		}

		w.Write(id, 8)
		w.Write(0x3, 2) // '11'
		if s.isVideo() {
			w.Write(1, 1)
		} else {
			w.Write(0, 1)
		}
		w.Write(uint32(s.bufferSizeBound()), 13)
	}

	size := w.Position()
	binary.BigEndian.PutUint16(dst[4:6], uint16(size-6))
	return size
}

// decodePts decodes a 5-byte PTS/DTS field per spec §4.4 "PTS decode":
// pts = ((b0>>1)&7)<<30 | (((b1<<8)|b2)>>1)<<15 | (((b3<<8)|b4)>>1)
func decodePts(b0, b1, b2, b3, b4 byte) int64 {
	pts := int64((b0>>1)&0x7) << 30
	pts |= int64((uint16(b1)<<8|uint16(b2))>>1) << 15
	pts |= int64((uint16(b3)<<8 | uint16(b4)) >> 1)
	return pts
}
