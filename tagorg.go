// Package tagorg reorganises a music collection. It indexes a directory
// tree of audio files, derives a canonical layout from their embedded
// tags, checks the collection for naming inconsistencies, plans the
// renames and tag rewrites needed to reach the layout, applies them with
// per-operation failure isolation, and prunes the directories left empty.
package tagorg

import (
	"go.senan.xyz/tagorg/notifications"
)

type Config struct {
	OutputDir     string
	KeepArtwork   bool
	Hook          string
	Notifications notifications.Notifications
}
