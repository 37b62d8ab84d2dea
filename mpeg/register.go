package mpeg

// Format describes one registered container flavour (spec §6 "Format
// descriptors"), mirroring the static AVOutputFormat/AVInputFormat tables
// original_source/libav/mpeg.c builds for mpeg1system_mux, mpeg1vcd_mux,
// mpeg2vob_mux and mpegps_demux. It carries no behavior of its own — a
// Format only selects a Profile for NewMuxEngine, or marks a demuxer as
// headerless — so registration is pure data export, per Design Notes §9.
type Format struct {
	Name      string
	MimeType  string
	Extension string

	// PrivateDataSize mirrors AVOutputFormat.priv_data_size (sizeof(MpegMuxContext)
	// in original_source/libav/mpeg.c): the size in bytes of the format's own
	// mux-context allocation, as opposed to the generic container state.
	PrivateDataSize int

	// PreferredAudioCodec/PreferredVideoCodec are the codec ids a caller
	// should default to when building StreamDescriptors for this format,
	// matching AVOutputFormat.audio_codec/video_codec (CODEC_ID_MP2,
	// CODEC_ID_MPEG1VIDEO in original_source/libav/mpeg.c:645-679).
	PreferredAudioCodec CodecID
	PreferredVideoCodec CodecID

	// Muxer is nil for the input-only "mpeg" demux format.
	Muxer *Profile

	// NoHeader reports that the format carries no separate container header
	// to skip before the first ReadPacket (true for every PS demuxer, which
	// discovers its streams from the bitstream itself).
	NoHeader bool
}

func profilePtr(p Profile) *Profile { return &p }

// muxContextSize stands in for original_source/libav/mpeg.c's
// sizeof(MpegMuxContext): the size of one MuxContext's fixed fields
// (profile, sink, rate/frequency counters) on a 64-bit platform, excluding
// the variable-length streams slice it owns. Kept as a plain constant rather
// than unsafe.Sizeof since register.go is pure data, per the Format doc comment.
const muxContextSize = 80

// Formats lists every container flavour this package supports. Order
// matches original_source/libav/mpeg.c's registration order in mpegps_init.
var Formats = []Format{
	{
		Name:                "mpeg",
		MimeType:            "video/x-mpeg",
		Extension:           "mpg,mpeg",
		PrivateDataSize:     muxContextSize,
		PreferredAudioCodec: CodecIDMP2,
		PreferredVideoCodec: CodecIDMPEG1Video,
		Muxer:               profilePtr(ProfileMPEG1System),
	},
	{
		Name:                "vcd",
		MimeType:            "video/x-mpeg",
		Extension:           "",
		PrivateDataSize:     muxContextSize,
		PreferredAudioCodec: CodecIDMP2,
		PreferredVideoCodec: CodecIDMPEG1Video,
		Muxer:               profilePtr(ProfileMPEG1VCD),
	},
	{
		Name:                "vob",
		MimeType:            "video/x-mpeg",
		Extension:           "vob",
		PrivateDataSize:     muxContextSize,
		PreferredAudioCodec: CodecIDMP2,
		PreferredVideoCodec: CodecIDMPEG1Video,
		Muxer:               profilePtr(ProfileMPEG2VOB),
	},
	{
		Name:                "mpeg",
		MimeType:            "video/x-mpeg",
		Extension:           "mpg,mpeg",
		PrivateDataSize:     muxContextSize,
		PreferredAudioCodec: CodecIDMP2,
		PreferredVideoCodec: CodecIDMPEG1Video,
		NoHeader:            true,
	},
}

// FindFormat returns the named format with a non-nil Muxer, for callers
// selecting an output profile by name (e.g. a CLI --format flag).
func FindFormat(name string) (Format, bool) {
	for _, f := range Formats {
		if f.Name == name && f.Muxer != nil {
			return f, true
		}
	}
	return Format{}, false
}
