package page

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/impls"
	"github.com/jcdickinson/ferrisdoc/internal/layout"
	"github.com/jcdickinson/ferrisdoc/internal/modtree"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
	"github.com/jcdickinson/ferrisdoc/internal/signature"
)

// kindTitle names a kind in page titles.
func kindTitle(item *rustdoc.Item) string {
	switch item.Kind() {
	case rustdoc.KindModule:
		return "Module"
	case rustdoc.KindStruct:
		return "Struct"
	case rustdoc.KindEnum:
		return "Enum"
	case rustdoc.KindUnion:
		return "Union"
	case rustdoc.KindTrait:
		return "Trait"
	case rustdoc.KindFunction:
		return "Function"
	case rustdoc.KindTypeAlias:
		return "Type Alias"
	case rustdoc.KindConstant:
		return "Constant"
	case rustdoc.KindStatic:
		return "Static"
	case rustdoc.KindMacro:
		return "Macro"
	case rustdoc.KindProcMacro:
		if pm := item.Inner.ProcMacro; pm != nil {
			switch pm.Kind {
			case "attr":
				return "Attribute Macro"
			case "derive":
				return "Derive Macro"
			}
		}
		return "Macro"
	}
	return string(item.Kind())
}

// itemBuilder holds the per-page state while composing one item page.
type itemBuilder struct {
	r        *Renderer
	ctx      BuildContext
	anchors  anchors
	linked   *signature.Printer
	unlinked *signature.Printer
}

func (r *Renderer) newBuilder(ctx BuildContext) *itemBuilder {
	return &itemBuilder{
		r:        r,
		ctx:      ctx,
		anchors:  anchors{},
		linked:   signature.NewHTML(ctx.URLFor),
		unlinked: signature.NewHTML(nil),
	}
}

// Item composes the page for a leaf item. A re-export is rendered from its
// target, placed at the re-export's own path.
func (r *Renderer) Item(ctx BuildContext, it modtree.Renderable) (*Page, error) {
	id, item := it.ID, it.Item
	if it.Target != nil {
		target, ok := ctx.Crate.Item(*it.Target)
		if !ok {
			return nil, &TemplateError{
				Page: it.HTMLPath,
				Err:  fmt.Errorf("re-export target %d: %w", *it.Target, modtree.ErrMissingItem),
			}
		}
		id, item = *it.Target, target
	}
	if item == nil || len(it.Path) == 0 {
		return nil, &TemplateError{Page: it.HTMLPath, Err: fmt.Errorf("item %d: %w", id, modtree.ErrMissingItem)}
	}

	ctx = ctx.At(layout.Depth(it.Path, item.Kind()))
	b := r.newBuilder(ctx)
	title := kindTitle(item)
	p := &Page{
		Title:       title + " " + strings.Join(it.Path, "::"),
		Kind:        title,
		Name:        it.Name,
		Package:     ctx.Package,
		Version:     ctx.Crate.Version(),
		Docs:        r.docs(ctx, item),
		Breadcrumbs: breadcrumbs(it.Path, ctx.Depth, true),
		Sidebar:     sidebar(ctx.Site, it.Path[:len(it.Path)-1], ctx.Root()),
		Root:        ctx.Root(),
	}

	name := item.DisplayName()
	decl, ok := declaration(b.linked, name, item)
	if !ok {
		return nil, &TemplateError{Page: it.HTMLPath, Err: fmt.Errorf("no page layout for %s items", item.Kind())}
	}
	p.Signature = template.HTML(decl)
	p.Description, _ = declaration(signature.NewPlain(), name, item)

	in := &item.Inner
	switch {
	case in.Struct != nil:
		p.Sections = appendEntries(nil, "fields", "Fields", b.fields(in.Struct.Kind.Tuple, in.Struct.Kind.Fields))
		p.Sections = append(p.Sections, b.implSections(id)...)
	case in.Union != nil:
		p.Sections = appendEntries(nil, "fields", "Fields", b.fields(nil, in.Union.Fields))
		p.Sections = append(p.Sections, b.implSections(id)...)
	case in.Enum != nil:
		p.Sections = appendEntries(nil, "variants", "Variants", b.variants(in.Enum.Variants))
		p.Sections = append(p.Sections, b.implSections(id)...)
	case in.Trait != nil:
		p.Sections = b.traitSections(id, in.Trait)
	}
	return p, nil
}

// declaration prints an item's declaration with pr. It reports false for
// kinds that have no page layout.
func declaration(pr *signature.Printer, name string, item *rustdoc.Item) (string, bool) {
	in := &item.Inner
	switch {
	case in.Struct != nil:
		return pr.Struct(name, in.Struct), true
	case in.Union != nil:
		return pr.Union(name, in.Union), true
	case in.Enum != nil:
		return pr.Enum(name, in.Enum), true
	case in.Trait != nil:
		return pr.Trait(name, in.Trait), true
	case in.Function != nil:
		return pr.Fn(name, in.Function), true
	case in.TypeAlias != nil:
		return pr.TypeAlias(name, in.TypeAlias), true
	case in.Constant != nil:
		return pr.Constant(name, in.Constant), true
	case in.Static != nil:
		return pr.Static(name, in.Static), true
	case in.Macro != nil:
		return pr.Style.Text(*in.Macro), true
	case in.ProcMacro != nil:
		return pr.ProcMacro(name, in.ProcMacro), true
	}
	return "", false
}

// fields lists struct or union fields. Tuple fields are named by position;
// stripped fields are skipped.
func (b *itemBuilder) fields(tuple []*rustdoc.ID, named []rustdoc.ID) []Entry {
	var entries []Entry
	add := func(name string, id rustdoc.ID) {
		f, ok := b.ctx.Crate.Item(id)
		if !ok || f.Inner.StructField == nil {
			return
		}
		entries = append(entries, Entry{
			Anchor:    b.anchors.next("structfield." + name),
			Name:      name,
			Signature: template.HTML(b.unlinked.Type(f.Inner.StructField)),
			Docs:      b.r.docs(b.ctx, f),
		})
	}
	for i, id := range tuple {
		if id != nil {
			add(strconv.Itoa(i), *id)
		}
	}
	for _, id := range named {
		if f, ok := b.ctx.Crate.Item(id); ok {
			add(f.DisplayName(), id)
		}
	}
	return entries
}

func (b *itemBuilder) fieldType(id rustdoc.ID) *rustdoc.Type {
	f, ok := b.ctx.Crate.Item(id)
	if !ok {
		return nil
	}
	return f.Inner.StructField
}

func (b *itemBuilder) variants(ids []rustdoc.ID) []Entry {
	var entries []Entry
	for _, id := range ids {
		v, ok := b.ctx.Crate.Item(id)
		if !ok || v.Inner.Variant == nil {
			continue
		}
		name := v.DisplayName()
		kind := v.Inner.Variant.Kind

		var sig string
		switch kind.Tag {
		case rustdoc.VariantTuple:
			types := make([]*rustdoc.Type, 0, len(kind.Tuple))
			for _, fid := range kind.Tuple {
				if fid == nil {
					types = append(types, nil)
					continue
				}
				types = append(types, b.fieldType(*fid))
			}
			sig = b.unlinked.TupleVariant(name, types)
		case rustdoc.VariantStruct:
			fields := make([]signature.Field, 0, len(kind.Fields))
			for _, fid := range kind.Fields {
				f, ok := b.ctx.Crate.Item(fid)
				if !ok || f.Inner.StructField == nil {
					continue
				}
				fields = append(fields, signature.Field{Name: f.DisplayName(), Type: f.Inner.StructField})
			}
			sig = b.unlinked.StructVariant(name, fields, kind.HasStrippedFields)
		default:
			sig = template.HTMLEscapeString(name)
		}
		if d := v.Inner.Variant.Discriminant; d != nil && d.Expr != "" {
			sig += template.HTMLEscapeString(" = " + d.Expr)
		}

		entries = append(entries, Entry{
			Anchor:    b.anchors.next("variant." + name),
			Name:      name,
			Signature: template.HTML(sig),
			Docs:      b.r.docs(b.ctx, v),
		})
	}
	return entries
}

func (b *itemBuilder) traitSections(id rustdoc.ID, tr *rustdoc.Trait) []Section {
	var types, consts, required, provided []Entry
	for _, mid := range tr.Items {
		m, ok := b.ctx.Crate.Item(mid)
		if !ok {
			continue
		}
		name := m.DisplayName()
		switch {
		case m.Inner.AssocType != nil:
			types = append(types, Entry{
				Anchor:    b.anchors.next("associatedtype." + name),
				Name:      name,
				Signature: template.HTML(b.linked.AssocType(name, m.Inner.AssocType)),
				Docs:      b.r.docs(b.ctx, m),
			})
		case m.Inner.AssocConst != nil:
			consts = append(consts, Entry{
				Anchor:    b.anchors.next("associatedconstant." + name),
				Name:      name,
				Signature: template.HTML(b.linked.AssocConst(name, m.Inner.AssocConst)),
				Docs:      b.r.docs(b.ctx, m),
			})
		case m.Inner.Function != nil:
			e := Entry{
				Name:      name,
				Signature: template.HTML(b.linked.Fn(name, m.Inner.Function)),
				Docs:      b.r.docs(b.ctx, m),
			}
			if m.Inner.Function.HasBody {
				e.Anchor = b.anchors.next("method." + name)
				provided = append(provided, e)
			} else {
				e.Anchor = b.anchors.next("tymethod." + name)
				required = append(required, e)
			}
		}
	}

	var implementors []Entry
	if b.ctx.Impls != nil {
		for _, info := range b.ctx.Impls.ForTrait(id) {
			implementors = append(implementors, Entry{
				Anchor:    b.anchors.next("impl"),
				Signature: template.HTML(b.linked.ImplHeader(info.Impl)),
			})
		}
	}

	var sections []Section
	sections = appendEntries(sections, "associated-types", "Associated Types", types)
	sections = appendEntries(sections, "associated-consts", "Associated Constants", consts)
	sections = appendEntries(sections, "required-methods", "Required Methods", required)
	sections = appendEntries(sections, "provided-methods", "Provided Methods", provided)
	sections = appendEntries(sections, "implementors", "Implementors", implementors)
	return sections
}

// implSections groups the impl blocks of a type the way rustdoc does.
func (b *itemBuilder) implSections(id rustdoc.ID) []Section {
	if b.ctx.Impls == nil {
		return nil
	}
	var inherent, traits, auto, blanket []Entry
	for _, info := range b.ctx.Impls.ForType(id) {
		e := Entry{
			Anchor:    b.anchors.next("impl"),
			Signature: template.HTML(b.linked.ImplHeader(info.Impl)),
		}
		switch {
		case info.Synthetic():
			auto = append(auto, e)
		case info.Blanket():
			blanket = append(blanket, e)
		case info.Inherent():
			e.Members = b.implMembers(info)
			inherent = append(inherent, e)
		default:
			e.Members = b.implMembers(info)
			traits = append(traits, e)
		}
	}

	var sections []Section
	sections = appendEntries(sections, "implementations", "Implementations", inherent)
	sections = appendEntries(sections, "trait-implementations", "Trait Implementations", traits)
	sections = appendEntries(sections, "synthetic-implementations", "Auto Trait Implementations", auto)
	sections = appendEntries(sections, "blanket-implementations", "Blanket Implementations", blanket)
	return sections
}

func (b *itemBuilder) implMembers(info impls.Info) []Entry {
	var members []Entry
	for _, mid := range info.Impl.Items {
		m, ok := b.ctx.Crate.Item(mid)
		if !ok {
			continue
		}
		name := m.DisplayName()
		var e Entry
		switch {
		case m.Inner.Function != nil:
			e = Entry{
				Anchor:    b.anchors.next("method." + name),
				Signature: template.HTML(b.linked.Fn(name, m.Inner.Function)),
			}
		case m.Inner.AssocType != nil:
			e = Entry{
				Anchor:    b.anchors.next("associatedtype." + name),
				Signature: template.HTML(b.linked.AssocType(name, m.Inner.AssocType)),
			}
		case m.Inner.AssocConst != nil:
			e = Entry{
				Anchor:    b.anchors.next("associatedconstant." + name),
				Signature: template.HTML(b.linked.AssocConst(name, m.Inner.AssocConst)),
			}
		default:
			continue
		}
		e.Name = name
		e.Summary = b.r.summary(b.ctx, m)
		members = append(members, e)
	}
	return members
}

// docs renders an item's full documentation.
func (r *Renderer) docs(ctx BuildContext, item *rustdoc.Item) template.HTML {
	src := item.DocString()
	if src == "" {
		return ""
	}
	if r.Markdown == nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(r.Markdown.Render(src, ctx.DocLinks(item)))
}

// summary renders the first paragraph of an item's documentation.
func (r *Renderer) summary(ctx BuildContext, item *rustdoc.Item) template.HTML {
	src := item.DocString()
	if src == "" {
		return ""
	}
	if r.Markdown == nil {
		first, _, _ := strings.Cut(src, "\n\n")
		return template.HTML(template.HTMLEscapeString(first))
	}
	return template.HTML(r.Markdown.Summary(src, ctx.DocLinks(item)))
}
