package rustdoc

// Item looks up an item in the local index.
func (c *Crate) Item(id ID) (*Item, bool) {
	item, ok := c.Index[id]
	if !ok {
		return nil, false
	}
	return &item, true
}

// Summary looks up the path summary for an item.
func (c *Crate) Summary(id ID) (Summary, bool) {
	s, ok := c.Paths[id]
	return s, ok
}

// Name returns the crate name, taken from the root module.
func (c *Crate) Name() string {
	if root, ok := c.Index[c.Root]; ok && root.Name != nil {
		return *root.Name
	}
	if s, ok := c.Paths[c.Root]; ok && len(s.Path) > 0 {
		return s.Path[0]
	}
	return ""
}

// Version returns the crate version, or an empty string if unknown.
func (c *Crate) Version() string {
	if c.CrateVersion == nil {
		return ""
	}
	return *c.CrateVersion
}

// ExternalCrateName returns the name of an external crate by its crate ID.
// Crate ID 0 is the local crate.
func (c *Crate) ExternalCrateName(crateID int) string {
	if crateID == 0 {
		return c.Name()
	}
	if ext, ok := c.ExternalCrates[crateID]; ok {
		return ext.Name
	}
	return ""
}

// DisplayName returns the item's name, or an empty string for unnamed items
// such as impl blocks.
func (it *Item) DisplayName() string {
	if it.Name == nil {
		return ""
	}
	return *it.Name
}

// Kind returns the kind of the item's inner payload.
func (it *Item) Kind() Kind {
	return it.Inner.Kind
}

// DocString returns the raw documentation, or an empty string.
func (it *Item) DocString() string {
	if it.Docs == nil {
		return ""
	}
	return *it.Docs
}

// Generics returns the generics of kinds that carry them.
func (in *Inner) Generics() *Generics {
	switch {
	case in.Struct != nil:
		return &in.Struct.Generics
	case in.Union != nil:
		return &in.Union.Generics
	case in.Enum != nil:
		return &in.Enum.Generics
	case in.Function != nil:
		return &in.Function.Generics
	case in.Trait != nil:
		return &in.Trait.Generics
	case in.Impl != nil:
		return &in.Impl.Generics
	case in.TypeAlias != nil:
		return &in.TypeAlias.Generics
	case in.AssocType != nil:
		return &in.AssocType.Generics
	}
	return nil
}

// Impls returns the impl block IDs attached to a struct, union or enum.
func (in *Inner) Impls() []ID {
	switch {
	case in.Struct != nil:
		return in.Struct.Impls
	case in.Union != nil:
		return in.Union.Impls
	case in.Enum != nil:
		return in.Enum.Impls
	}
	return nil
}
