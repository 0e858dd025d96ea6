// Package signature formats rustdoc types and item headers as Rust source.
//
// A single recursive Printer handles both output modes; the Style decides
// whether text is escaped and whether resolved paths become links.
package signature

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

// Printer renders signatures in a given Style.
type Printer struct {
	Style Style
}

// NewPlain returns a plain-text printer.
func NewPlain() *Printer { return &Printer{Style: Plain{}} }

// NewHTML returns a printer emitting escaped HTML with links from link.
func NewHTML(link func(rustdoc.ID) (string, bool)) *Printer {
	return &Printer{Style: HTML{Link: link}}
}

func (p *Printer) t(s string) string { return p.Style.Text(s) }

func (p *Printer) join(parts []string, sep string) string {
	return strings.Join(parts, p.t(sep))
}

// Type renders a type expression.
func (p *Printer) Type(ty *rustdoc.Type) string {
	if ty == nil {
		return p.t("_")
	}
	switch ty.Kind {
	case rustdoc.TypeResolvedPath:
		return p.path(ty.Path)
	case rustdoc.TypeGeneric, rustdoc.TypePrimitive:
		return p.t(ty.Name)
	case rustdoc.TypeDynTrait:
		return p.dynTrait(ty.DynTrait)
	case rustdoc.TypeFunctionPointer:
		return p.FnPointer(ty.FnPtr)
	case rustdoc.TypeTuple:
		parts := make([]string, len(ty.Elems))
		for i := range ty.Elems {
			parts[i] = p.Type(&ty.Elems[i])
		}
		if len(parts) == 1 {
			return p.t("(") + parts[0] + p.t(",)")
		}
		return p.t("(") + p.join(parts, ", ") + p.t(")")
	case rustdoc.TypeSlice:
		return p.t("[") + p.Type(ty.Elem) + p.t("]")
	case rustdoc.TypeArray:
		return p.t("[") + p.Type(ty.Elem) + p.t("; "+ty.Len+"]")
	case rustdoc.TypePat:
		return p.Type(ty.Elem) + p.t(" is "+ty.Pattern)
	case rustdoc.TypeImplTrait:
		return p.t("impl ") + p.Bounds(ty.Bounds)
	case rustdoc.TypeInfer:
		return p.t("_")
	case rustdoc.TypeRawPointer:
		if ty.IsMutable {
			return p.t("*mut ") + p.Type(ty.Elem)
		}
		return p.t("*const ") + p.Type(ty.Elem)
	case rustdoc.TypeBorrowedRef:
		prefix := "&"
		if ty.Lifetime != nil && *ty.Lifetime != "" {
			prefix += *ty.Lifetime + " "
		}
		if ty.IsMutable {
			prefix += "mut "
		}
		return p.t(prefix) + p.Type(ty.Elem)
	case rustdoc.TypeQualifiedPath:
		return p.qualified(ty.Qualified)
	}
	return p.t("_")
}

func (p *Printer) path(path *rustdoc.Path) string {
	if path == nil {
		return ""
	}
	return p.Style.Path(path.Path, path.ID) + p.Args(path.Args)
}

func (p *Printer) qualified(q *rustdoc.QualifiedPath) string {
	if q == nil {
		return p.t("_")
	}
	var s string
	if q.Trait != nil {
		s = p.t("<") + p.Type(&q.SelfType) + p.t(" as ") + p.path(q.Trait) + p.t(">::"+q.Name)
	} else {
		s = p.Type(&q.SelfType) + p.t("::"+q.Name)
	}
	return s + p.Args(q.Args)
}

func (p *Printer) dynTrait(d *rustdoc.DynTrait) string {
	if d == nil {
		return p.t("dyn _")
	}
	parts := make([]string, 0, len(d.Traits)+1)
	for i := range d.Traits {
		pt := &d.Traits[i]
		parts = append(parts, p.binder(pt.GenericParams)+p.path(&pt.Trait))
	}
	if d.Lifetime != nil && *d.Lifetime != "" {
		parts = append(parts, p.t(*d.Lifetime))
	}
	return p.t("dyn ") + p.join(parts, " + ")
}

// Args renders generic arguments, or an empty string when there are none.
func (p *Printer) Args(args *rustdoc.GenericArgs) string {
	if args == nil {
		return ""
	}
	switch args.Tag {
	case rustdoc.ArgsAngle:
		if len(args.Args) == 0 && len(args.Constraints) == 0 {
			return ""
		}
		parts := make([]string, 0, len(args.Args)+len(args.Constraints))
		for i := range args.Args {
			parts = append(parts, p.arg(&args.Args[i]))
		}
		for i := range args.Constraints {
			parts = append(parts, p.constraint(&args.Constraints[i]))
		}
		return p.t("<") + p.join(parts, ", ") + p.t(">")
	case rustdoc.ArgsParen:
		parts := make([]string, len(args.Inputs))
		for i := range args.Inputs {
			parts[i] = p.Type(&args.Inputs[i])
		}
		s := p.t("(") + p.join(parts, ", ") + p.t(")")
		if args.Output != nil {
			s += p.t(" -> ") + p.Type(args.Output)
		}
		return s
	case rustdoc.ArgsReturn:
		return p.t("(..)")
	}
	return ""
}

func (p *Printer) arg(a *rustdoc.GenericArg) string {
	switch a.Tag {
	case rustdoc.ArgLifetime:
		return p.t(a.Lifetime)
	case rustdoc.ArgType:
		return p.Type(a.Type)
	case rustdoc.ArgConst:
		return p.t(constText(a.Const))
	}
	return p.t("_")
}

func (p *Printer) constraint(c *rustdoc.AssocItemConstraint) string {
	s := p.t(c.Name) + p.Args(c.Args)
	if c.Equality != nil {
		return s + p.t(" = ") + p.term(c.Equality)
	}
	if len(c.Bounds) > 0 {
		return s + p.t(": ") + p.Bounds(c.Bounds)
	}
	return s
}

func (p *Printer) term(t *rustdoc.Term) string {
	switch {
	case t == nil:
		return p.t("_")
	case t.Type != nil:
		return p.Type(t.Type)
	case t.Constant != nil:
		return p.t(constText(t.Constant))
	}
	return p.t("_")
}

func constText(c *rustdoc.Const) string {
	if c == nil {
		return "_"
	}
	if c.Expr != "" && c.Expr != "_" {
		return c.Expr
	}
	if c.Value != nil {
		return *c.Value
	}
	return "_"
}

// Bound renders a single generic bound.
func (p *Printer) Bound(b *rustdoc.GenericBound) string {
	switch b.Tag {
	case rustdoc.BoundTrait:
		var mod string
		switch b.Modifier {
		case "maybe":
			mod = "?"
		case "maybe_const":
			mod = "~const "
		}
		return p.t(mod) + p.binder(b.GenericParams) + p.path(&b.Trait)
	case rustdoc.BoundOutlives:
		return p.t(b.Lifetime)
	case rustdoc.BoundUse:
		return p.t("use<" + strings.Join(b.Use, ", ") + ">")
	}
	return ""
}

// Bounds renders a bound list joined with " + ".
func (p *Printer) Bounds(bounds []rustdoc.GenericBound) string {
	parts := make([]string, len(bounds))
	for i := range bounds {
		parts[i] = p.Bound(&bounds[i])
	}
	return p.join(parts, " + ")
}

// binder renders a higher-ranked `for<'a> ` prefix, or nothing.
func (p *Printer) binder(params []rustdoc.GenericParamDef) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i := range params {
		parts[i] = p.Param(&params[i])
	}
	return p.t("for<") + p.join(parts, ", ") + p.t("> ")
}

// Param renders one generic parameter definition.
func (p *Printer) Param(g *rustdoc.GenericParamDef) string {
	switch g.Tag {
	case rustdoc.ParamLifetime:
		s := p.t(g.Name)
		if len(g.Outlives) > 0 {
			s += p.t(": " + strings.Join(g.Outlives, " + "))
		}
		return s
	case rustdoc.ParamType:
		s := p.t(g.Name)
		if len(g.Bounds) > 0 {
			s += p.t(": ") + p.Bounds(g.Bounds)
		}
		if g.Default != nil {
			s += p.t(" = ") + p.Type(g.Default)
		}
		return s
	case rustdoc.ParamConst:
		s := p.t("const "+g.Name+": ") + p.Type(g.ConstType)
		if g.ConstValue != nil {
			s += p.t(" = " + *g.ConstValue)
		}
		return s
	}
	return p.t(g.Name)
}

// GenericParams renders `<...>` with lifetimes first, or nothing when there
// are no declared parameters. Synthetic parameters introduced by
// argument-position `impl Trait` are omitted.
func (p *Printer) GenericParams(params []rustdoc.GenericParamDef) string {
	visible := make([]*rustdoc.GenericParamDef, 0, len(params))
	for i := range params {
		if params[i].Tag == rustdoc.ParamType && params[i].IsSynthetic {
			continue
		}
		visible = append(visible, &params[i])
	}
	if len(visible) == 0 {
		return ""
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Tag == rustdoc.ParamLifetime && visible[j].Tag != rustdoc.ParamLifetime
	})
	parts := make([]string, len(visible))
	for i, g := range visible {
		parts[i] = p.Param(g)
	}
	return p.t("<") + p.join(parts, ", ") + p.t(">")
}

// Where renders a where clause on its own indented block, or nothing.
func (p *Printer) Where(preds []rustdoc.WherePredicate) string {
	if len(preds) == 0 {
		return ""
	}
	parts := make([]string, len(preds))
	for i := range preds {
		parts[i] = p.predicate(&preds[i])
	}
	return p.t("\nwhere\n    ") + p.join(parts, ",\n    ")
}

func (p *Printer) predicate(w *rustdoc.WherePredicate) string {
	switch w.Tag {
	case rustdoc.PredBound:
		return p.binder(w.GenericParams) + p.Type(w.Type) + p.t(": ") + p.Bounds(w.Bounds)
	case rustdoc.PredLifetime:
		return p.t(w.Lifetime + ": " + strings.Join(w.Outlives, " + "))
	case rustdoc.PredEq:
		return p.Type(w.LHS) + p.t(" = ") + p.term(w.RHS)
	}
	return ""
}

func (p *Printer) header(h rustdoc.FnHeader) string {
	var b strings.Builder
	if h.IsConst {
		b.WriteString("const ")
	}
	if h.IsAsync {
		b.WriteString("async ")
	}
	if h.IsUnsafe {
		b.WriteString("unsafe ")
	}
	if h.Abi.Name != "" {
		b.WriteString("extern " + strconv.Quote(h.Abi.Name) + " ")
	}
	return p.t(b.String())
}

func (p *Printer) inputs(sig *rustdoc.FnSig, named bool) string {
	parts := make([]string, 0, len(sig.Inputs)+1)
	for i := range sig.Inputs {
		in := &sig.Inputs[i]
		switch {
		case in.Name == "self":
			parts = append(parts, p.self(&in.Type))
		case named && in.Name != "" && in.Name != "_":
			parts = append(parts, p.t(in.Name+": ")+p.Type(&in.Type))
		default:
			parts = append(parts, p.Type(&in.Type))
		}
	}
	if sig.IsCVariadic {
		parts = append(parts, p.t("..."))
	}
	return p.t("(") + p.join(parts, ", ") + p.t(")")
}

func (p *Printer) output(out *rustdoc.Type) string {
	if out == nil || (out.Kind == rustdoc.TypeTuple && len(out.Elems) == 0) {
		return ""
	}
	return p.t(" -> ") + p.Type(out)
}

// self renders a receiver in shorthand form where Rust allows it.
func (p *Printer) self(ty *rustdoc.Type) string {
	switch {
	case ty.Kind == rustdoc.TypeGeneric && ty.Name == "Self":
		return p.t("self")
	case ty.Kind == rustdoc.TypeBorrowedRef && ty.Elem != nil &&
		ty.Elem.Kind == rustdoc.TypeGeneric && ty.Elem.Name == "Self":
		prefix := "&"
		if ty.Lifetime != nil && *ty.Lifetime != "" {
			prefix += *ty.Lifetime + " "
		}
		if ty.IsMutable {
			prefix += "mut "
		}
		return p.t(prefix + "self")
	}
	return p.t("self: ") + p.Type(ty)
}

// Fn renders a function signature including its where clause.
func (p *Printer) Fn(name string, fn *rustdoc.Function) string {
	return p.header(fn.Header) + p.t("fn "+name) +
		p.GenericParams(fn.Generics.Params) +
		p.inputs(&fn.Sig, true) +
		p.output(fn.Sig.Output) +
		p.Where(fn.Generics.WherePredicates)
}

// FnPointer renders a function pointer type.
func (p *Printer) FnPointer(fp *rustdoc.FunctionPointer) string {
	if fp == nil {
		return p.t("fn()")
	}
	return p.binder(fp.GenericParams) + p.header(fp.Header) + p.t("fn") +
		p.inputs(&fp.Sig, true) + p.output(fp.Sig.Output)
}

// StructHeader renders `struct Name<generics>` without any body.
func (p *Printer) StructHeader(name string, generics *rustdoc.Generics) string {
	return p.t("struct "+name) + p.GenericParams(generics.Params)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// Struct renders a struct declaration. Fields are never shown; plain
// structs get an elided body.
func (p *Printer) Struct(name string, s *rustdoc.Struct) string {
	head := p.StructHeader(name, &s.Generics)
	where := p.Where(s.Generics.WherePredicates)
	switch s.Kind.Tag {
	case rustdoc.StructUnit:
		return head + where + p.t(";")
	case rustdoc.StructTuple:
		return head + p.t("(/* "+plural(len(s.Kind.Tuple), "field")+" */)") + where + p.t(";")
	}
	return head + p.body(where)
}

func (p *Printer) body(where string) string {
	if where != "" {
		return where + p.t("\n{ ... }")
	}
	return p.t(" { ... }")
}

// Union renders a union declaration with an elided body.
func (p *Printer) Union(name string, u *rustdoc.Union) string {
	return p.t("union "+name) + p.GenericParams(u.Generics.Params) +
		p.body(p.Where(u.Generics.WherePredicates))
}

// Enum renders an enum declaration with an elided body.
func (p *Printer) Enum(name string, e *rustdoc.Enum) string {
	return p.t("enum "+name) + p.GenericParams(e.Generics.Params) +
		p.body(p.Where(e.Generics.WherePredicates))
}

// Trait renders a trait declaration with an elided body.
func (p *Printer) Trait(name string, tr *rustdoc.Trait) string {
	var prefix string
	if tr.IsUnsafe {
		prefix += "unsafe "
	}
	if tr.IsAuto {
		prefix += "auto "
	}
	s := p.t(prefix+"trait "+name) + p.GenericParams(tr.Generics.Params)
	if len(tr.Bounds) > 0 {
		s += p.t(": ") + p.Bounds(tr.Bounds)
	}
	return s + p.body(p.Where(tr.Generics.WherePredicates))
}

// ImplHeader renders `impl<generics> [Trait for] Type`.
func (p *Printer) ImplHeader(impl *rustdoc.Impl) string {
	s := p.t("impl")
	if impl.IsUnsafe {
		s = p.t("unsafe impl")
	}
	s += p.GenericParams(impl.Generics.Params) + p.t(" ")
	if impl.Trait != nil {
		if impl.IsNegative {
			s += p.t("!")
		}
		s += p.path(impl.Trait) + p.t(" for ")
	}
	return s + p.Type(&impl.For) + p.Where(impl.Generics.WherePredicates)
}

// TypeAlias renders `type Name<generics> = Target;`.
func (p *Printer) TypeAlias(name string, ta *rustdoc.TypeAlias) string {
	return p.t("type "+name) + p.GenericParams(ta.Generics.Params) +
		p.Where(ta.Generics.WherePredicates) + p.t(" = ") + p.Type(&ta.Type) + p.t(";")
}

// Constant renders `const NAME: Type = value;`.
func (p *Printer) Constant(name string, c *rustdoc.ConstantItem) string {
	return p.t("const "+name+": ") + p.Type(&c.Type) + p.t(" = "+constText(&c.Const)+";")
}

// Static renders `static [mut] NAME: Type = expr;`.
func (p *Printer) Static(name string, s *rustdoc.Static) string {
	kw := "static "
	if s.IsMutable {
		kw += "mut "
	}
	out := p.t(kw+name+": ") + p.Type(&s.Type)
	if s.Expr != "" {
		out += p.t(" = " + s.Expr)
	}
	return out + p.t(";")
}

// AssocType renders an associated type declaration.
func (p *Printer) AssocType(name string, at *rustdoc.AssocType) string {
	s := p.t("type "+name) + p.GenericParams(at.Generics.Params)
	if len(at.Bounds) > 0 {
		s += p.t(": ") + p.Bounds(at.Bounds)
	}
	s += p.Where(at.Generics.WherePredicates)
	if at.Type != nil {
		s += p.t(" = ") + p.Type(at.Type)
	}
	return s + p.t(";")
}

// AssocConst renders an associated constant declaration.
func (p *Printer) AssocConst(name string, ac *rustdoc.AssocConst) string {
	s := p.t("const "+name+": ") + p.Type(&ac.Type)
	if ac.Value != nil {
		s += p.t(" = " + *ac.Value)
	}
	return s + p.t(";")
}

// Field is a named field for StructVariant.
type Field struct {
	Name string
	Type *rustdoc.Type
}

// TupleVariant renders `Name(T1, T2)`.
func (p *Printer) TupleVariant(name string, types []*rustdoc.Type) string {
	parts := make([]string, len(types))
	for i, ty := range types {
		if ty == nil {
			parts[i] = p.t("_")
			continue
		}
		parts[i] = p.Type(ty)
	}
	return p.t(name+"(") + p.join(parts, ", ") + p.t(")")
}

// StructVariant renders `Name { a: T, b: U }`.
func (p *Printer) StructVariant(name string, fields []Field, stripped bool) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		parts = append(parts, p.t(f.Name+": ")+p.Type(f.Type))
	}
	if stripped {
		parts = append(parts, p.t(".."))
	}
	if len(parts) == 0 {
		return p.t(name + " {}")
	}
	return p.t(name+" { ") + p.join(parts, ", ") + p.t(" }")
}

// ProcMacro renders how a procedural macro is invoked.
func (p *Printer) ProcMacro(name string, pm *rustdoc.ProcMacro) string {
	switch pm.Kind {
	case "attr":
		return p.t("#[" + name + "]")
	case "derive":
		s := "#[derive(" + name + ")]"
		if len(pm.Helpers) > 0 {
			s += "\n// helper attributes: #[" + strings.Join(pm.Helpers, "], #[") + "]"
		}
		return p.t(s)
	}
	return p.t(name + "!() { /* proc-macro */ }")
}
