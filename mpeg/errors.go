package mpeg

import "errors"

// Error kinds surfaced across the mux/demux boundary (spec §7).
var (
	// ErrNoMemory is returned by NewMuxEngine when per-stream state cannot be
	// allocated. Any partially allocated stream state is released first.
	ErrNoMemory = errors.New("mpeg: cannot allocate stream state")

	// ErrEncryptedStream is returned by the demuxer when the MPEG-2 PES
	// scrambling bits are set. The stream is refused, not skipped.
	ErrEncryptedStream = errors.New("mpeg: encrypted multiplex not handled")

	// ErrEndOfStream is returned when the start-code scanner exhausts its
	// sync budget (MaxSyncSize) without finding a start code.
	ErrEndOfStream = errors.New("mpeg: end of stream while resyncing")

	// ErrBadCodecType is the assertion failure for a codec type other than
	// audio/video passed to NewMuxEngine — a programming error, not a runtime one.
	ErrBadCodecType = errors.New("mpeg: unsupported codec type")
)
