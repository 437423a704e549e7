// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package nostr

// VideoMeta is the tag projection Funnel extracts from kind 34235/34236
// events. Missing fields are empty strings; duplicate tags resolve to
// the first match.
type VideoMeta struct {
	DTag      string
	Title     string
	Thumbnail string
	VideoURL  string
}

// ExtractVideoMeta projects VideoMeta out of e's tag array. Callers
// should only call this for events where e.IsVideo() is true, though
// it is safe to call on any event (it simply returns empty fields when
// the relevant tags are absent).
func ExtractVideoMeta(e *Event) VideoMeta {
	return VideoMeta{
		DTag:      e.TagValue("d"),
		Title:     e.TagValue("title"),
		Thumbnail: e.TagValue("thumb"),
		VideoURL:  e.TagValue("url"),
	}
}

// Hashtags returns the "t" tag values on e as written, in tag order.
// Values are not lowercased and duplicates are kept.
func (e *Event) Hashtags() []string {
	return e.TagValues("t")
}
