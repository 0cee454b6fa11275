// Package models defines server-side data models persisted in the database.
package models

import "time"

// Voice used for items whose audio was uploaded directly instead of
// synthesized.
const VoiceRecording = "recording"

// AudioItem describes one synthesized-or-uploaded audio recording and its
// metadata record. The audio bytes themselves live in object storage under
// FilePath; URL is the public address of the same object. The two must always
// refer to the same object.
type AudioItem struct {
	// ID is assigned by the metadata store on insert and never changes.
	ID string `json:"id"`
	// User is the client-supplied owner tag. Optional; legacy items have none.
	User string `json:"user,omitempty"`
	// Title is the display name, also used (sanitized) as a download filename.
	Title string `json:"title"`
	// Text is the source text that was synthesized.
	Text string `json:"text"`
	// Voice is the provider voice identifier, or VoiceRecording for uploads.
	Voice string `json:"voice"`
	// URL is the publicly reachable address of the stored audio bytes.
	URL string `json:"url"`
	// FilePath is the object-store key. Persisted explicitly; never derived
	// from URL.
	FilePath string `json:"filePath"`
	// Timestamp is assigned by the database at insert time and is the sole
	// ordering key for listings.
	Timestamp time.Time `json:"timestamp"`
}
