package core

// Handle identifies an entity in the world arena. Handles are never reused.
type Handle uint64

// NoHandle is the zero handle and never names an entity.
const NoHandle Handle = 0

// IsValid reports whether h names an entity slot.
func (h Handle) IsValid() bool { return h != NoHandle }

// NeutralID is the owner of tiles that belong to no player.
const NeutralID = -1
