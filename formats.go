package main

import (
	"sort"
	"strconv"
)

// codecNone is how yt-dlp marks a stream that carries no audio or no video.
const codecNone = "none"

func normalizeFormats(raw []RawFormat) []StreamFormat {
	out := make([]StreamFormat, 0, len(raw))
	for _, f := range raw {
		out = append(out, normalizeFormat(f))
	}
	return out
}

func normalizeFormat(f RawFormat) StreamFormat {
	sf := StreamFormat{
		FormatID:   f.FormatID,
		Ext:        f.Ext,
		FormatNote: f.FormatNote,
		ACodec:     f.ACodec,
		VCodec:     f.VCodec,
		Resolution: f.Resolution,
	}
	if f.FileSize != nil {
		size := int64(*f.FileSize)
		sf.FileSize = &size
	}
	if sf.Resolution == "" {
		sf.Resolution = dimension(f.Width) + "x" + dimension(f.Height)
	}
	if f.Height != nil {
		sf.Height = int(*f.Height)
	}
	if f.FPS != nil && *f.FPS != 0 {
		fps := *f.FPS
		sf.FPS = &fps
	}
	if f.TBR != nil && *f.TBR != 0 {
		tbr := *f.TBR
		sf.TBR = &tbr
	}
	return sf
}

// dimension renders a width or height, "?" when unknown.
func dimension(v *float64) string {
	if v == nil || *v == 0 {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (f StreamFormat) audioOnly() bool {
	return f.ACodec != codecNone && f.VCodec == codecNone
}

func (f StreamFormat) hasVideo() bool {
	return f.VCodec != codecNone
}

func (f StreamFormat) bitrate() float64 {
	if f.TBR == nil {
		return 0
	}
	return *f.TBR
}

// videoFormats keeps the selectable formats that carry a video track, in input order.
func videoFormats(formats []StreamFormat) []StreamFormat {
	out := make([]StreamFormat, 0, len(formats))
	for _, f := range formats {
		if f.FormatID == "" || !f.hasVideo() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// selectBestAudio returns the audio-only format with the highest total bitrate.
// Equal bitrates keep their input order.
func selectBestAudio(formats []StreamFormat) (StreamFormat, bool) {
	candidates := make([]StreamFormat, 0, len(formats))
	for _, f := range formats {
		if f.FormatID == "" || !f.audioOnly() {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return StreamFormat{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].bitrate() > candidates[j].bitrate()
	})
	return candidates[0], true
}

// formatCombination asks yt-dlp to fetch both formats and mux them into one file.
func formatCombination(videoFormatID, audioFormatID string) string {
	return videoFormatID + "+" + audioFormatID
}
