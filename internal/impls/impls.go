// Package impls indexes impl blocks by trait and by implementing type.
package impls

import (
	"sort"

	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// Info describes one impl block.
type Info struct {
	ID   rustdoc.ID
	Impl *rustdoc.Impl
	For  *rustdoc.Type

	// TraitPath and TraitID are set for trait impls.
	TraitPath string
	TraitID   *rustdoc.ID
}

// Inherent reports whether this is an inherent impl (no trait).
func (i *Info) Inherent() bool { return i.TraitID == nil }

// Synthetic reports whether rustdoc generated the impl, as it does for auto
// traits like Send and Sync.
func (i *Info) Synthetic() bool { return i.Impl.IsSynthetic }

// Blanket reports whether the impl comes from a blanket `impl<T> Trait for T`.
func (i *Info) Blanket() bool { return i.Impl.BlanketImpl != nil }

// Index maps traits and types to their impl blocks.
type Index struct {
	// Traits maps a trait ID to the impls of that trait.
	Traits map[rustdoc.ID][]Info
	// Types maps a type ID to its inherent and trait impls. Impls for
	// types that are not resolved paths are not indexed here.
	Types map[rustdoc.ID][]Info
}

// Build scans the crate once for impl items.
func Build(crate *rustdoc.Crate) *Index {
	idx := &Index{
		Traits: make(map[rustdoc.ID][]Info),
		Types:  make(map[rustdoc.ID][]Info),
	}

	for id, item := range crate.Index {
		impl := item.Inner.Impl
		if impl == nil {
			continue
		}

		info := Info{ID: id, Impl: impl, For: &impl.For}
		if impl.Trait != nil {
			traitID := impl.Trait.ID
			info.TraitPath = impl.Trait.Path
			info.TraitID = &traitID
			idx.Traits[traitID] = append(idx.Traits[traitID], info)
		}
		if typeID, ok := impl.For.ResolvedID(); ok {
			idx.Types[typeID] = append(idx.Types[typeID], info)
		}
	}

	// Map iteration order is random; sort so output is reproducible.
	for _, m := range []map[rustdoc.ID][]Info{idx.Traits, idx.Types} {
		for _, list := range m {
			sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		}
	}
	return idx
}

// ForType returns the impls of a type.
func (idx *Index) ForType(id rustdoc.ID) []Info { return idx.Types[id] }

// ForTrait returns the implementations of a trait.
func (idx *Index) ForTrait(id rustdoc.ID) []Info { return idx.Traits[id] }

// Owner finds the type whose impl block contains the given associated item.
func (idx *Index) Owner(item rustdoc.ID) (rustdoc.ID, bool) {
	var (
		best  rustdoc.ID
		found bool
	)
	for typeID, list := range idx.Types {
		for _, info := range list {
			for _, member := range info.Impl.Items {
				if member == item && (!found || typeID < best) {
					best, found = typeID, true
				}
			}
		}
	}
	return best, found
}
