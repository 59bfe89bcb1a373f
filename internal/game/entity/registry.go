// Package entity holds the arena of simulated entities and the
// dispatch/queue machinery shared by units and cities.
package entity

import (
	"sort"

	"github.com/mitchelldurbincs/WarringStates/internal/game/core"
)

// Kind discriminates entity variants.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnit
	KindCity
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindCity:
		return "city"
	default:
		return "unknown"
	}
}

// Registry hands out stable handles and keeps the side tables indexed by
// them. Destroying an entity removes it from every table at once.
type Registry struct {
	next   core.Handle
	kinds  map[core.Handle]Kind
	owners map[core.Handle]int
	tiles  map[core.Handle]core.Coordinate
	names  map[core.Handle]string
}

func NewRegistry() *Registry {
	return &Registry{
		kinds:  make(map[core.Handle]Kind),
		owners: make(map[core.Handle]int),
		tiles:  make(map[core.Handle]core.Coordinate),
		names:  make(map[core.Handle]string),
	}
}

// Create allocates a new handle. Handles start at 1 and are never reused.
func (r *Registry) Create(kind Kind, owner int, tile core.Coordinate) core.Handle {
	r.next++
	h := r.next
	r.kinds[h] = kind
	r.owners[h] = owner
	r.tiles[h] = tile
	return h
}

// Destroy removes h from every table. It reports whether h existed.
func (r *Registry) Destroy(h core.Handle) bool {
	if _, ok := r.kinds[h]; !ok {
		return false
	}
	delete(r.kinds, h)
	delete(r.owners, h)
	delete(r.tiles, h)
	delete(r.names, h)
	return true
}

func (r *Registry) Exists(h core.Handle) bool {
	_, ok := r.kinds[h]
	return ok
}

func (r *Registry) Kind(h core.Handle) Kind { return r.kinds[h] }

// Owner returns the owning player, or NeutralID for unknown handles.
func (r *Registry) Owner(h core.Handle) int {
	if o, ok := r.owners[h]; ok {
		return o
	}
	return core.NeutralID
}

func (r *Registry) SetOwner(h core.Handle, owner int) {
	if r.Exists(h) {
		r.owners[h] = owner
	}
}

func (r *Registry) Tile(h core.Handle) (core.Coordinate, bool) {
	c, ok := r.tiles[h]
	return c, ok
}

func (r *Registry) SetTile(h core.Handle, c core.Coordinate) {
	if r.Exists(h) {
		r.tiles[h] = c
	}
}

func (r *Registry) Name(h core.Handle) string { return r.names[h] }

func (r *Registry) SetName(h core.Handle, name string) {
	if r.Exists(h) {
		r.names[h] = name
	}
}

// NameTaken reports whether any live entity carries name.
func (r *Registry) NameTaken(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

// Handles lists live handles of a kind in creation order. KindUnknown lists all.
func (r *Registry) Handles(kind Kind) []core.Handle {
	handles := make([]core.Handle, 0, len(r.kinds))
	for h, k := range r.kinds {
		if kind == KindUnknown || k == kind {
			handles = append(handles, h)
		}
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// OwnedBy lists live handles of a kind owned by a player in creation order.
func (r *Registry) OwnedBy(kind Kind, owner int) []core.Handle {
	all := r.Handles(kind)
	owned := all[:0]
	for _, h := range all {
		if r.owners[h] == owner {
			owned = append(owned, h)
		}
	}
	return owned
}

func (r *Registry) Len() int { return len(r.kinds) }
