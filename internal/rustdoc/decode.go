package rustdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// tagged splits an externally tagged rustdoc enum into its tag and payload.
// Unit variants are encoded as bare strings and yield a nil payload.
func tagged(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", nil, err
		}
		return s, nil, nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return "", nil, err
	}
	if len(outer) != 1 {
		return "", nil, fmt.Errorf("expected single-key object, got %d keys", len(outer))
	}
	for k, v := range outer {
		return k, v, nil
	}
	return "", nil, nil
}

// decode unmarshals body into v, treating a missing payload as empty.
func decode(body json.RawMessage, v any) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func (v *Visibility) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding visibility: %w", err)
	}
	*v = Visibility{Kind: VisibilityKind(tag)}
	if v.Kind == VisRestricted {
		var r struct {
			Path string `json:"path"`
		}
		if err := decode(body, &r); err != nil {
			return fmt.Errorf("decoding restricted visibility: %w", err)
		}
		v.Path = r.Path
	}
	return nil
}

func (in *Inner) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding item inner: %w", err)
	}
	if tag == "" {
		*in = Inner{Kind: KindUnknown}
		return nil
	}
	*in = Inner{Kind: Kind(tag)}

	var target any
	switch in.Kind {
	case KindModule:
		in.Module = new(Module)
		target = in.Module
	case KindUse:
		in.Use = new(Use)
		target = in.Use
	case KindStruct:
		in.Struct = new(Struct)
		target = in.Struct
	case KindUnion:
		in.Union = new(Union)
		target = in.Union
	case KindEnum:
		in.Enum = new(Enum)
		target = in.Enum
	case KindVariant:
		in.Variant = new(Variant)
		target = in.Variant
	case KindStructField:
		in.StructField = new(Type)
		target = in.StructField
	case KindFunction:
		in.Function = new(Function)
		target = in.Function
	case KindTrait:
		in.Trait = new(Trait)
		target = in.Trait
	case KindImpl:
		in.Impl = new(Impl)
		target = in.Impl
	case KindTypeAlias:
		in.TypeAlias = new(TypeAlias)
		target = in.TypeAlias
	case KindConstant:
		in.Constant = new(ConstantItem)
		target = in.Constant
	case KindStatic:
		in.Static = new(Static)
		target = in.Static
	case KindMacro:
		in.Macro = new(string)
		target = in.Macro
	case KindProcMacro:
		in.ProcMacro = new(ProcMacro)
		target = in.ProcMacro
	case KindAssocConst:
		in.AssocConst = new(AssocConst)
		target = in.AssocConst
	case KindAssocType:
		in.AssocType = new(AssocType)
		target = in.AssocType
	default:
		// extern_crate, primitive, trait_alias, extern_type and anything
		// newer keep their tag but carry no payload.
		return nil
	}
	if err := decode(body, target); err != nil {
		return fmt.Errorf("decoding %s: %w", tag, err)
	}
	return nil
}

func (k *StructKind) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding struct kind: %w", err)
	}
	*k = StructKind{Tag: StructKindTag(tag)}
	switch k.Tag {
	case StructTuple:
		return decode(body, &k.Tuple)
	case StructPlain:
		var p struct {
			Fields            []ID `json:"fields"`
			HasStrippedFields bool `json:"has_stripped_fields"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding plain struct: %w", err)
		}
		k.Fields, k.HasStrippedFields = p.Fields, p.HasStrippedFields
	}
	return nil
}

func (k *VariantKind) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding variant kind: %w", err)
	}
	*k = VariantKind{Tag: VariantKindTag(tag)}
	switch k.Tag {
	case VariantTuple:
		return decode(body, &k.Tuple)
	case VariantStruct:
		var p struct {
			Fields            []ID `json:"fields"`
			HasStrippedFields bool `json:"has_stripped_fields"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding struct variant: %w", err)
		}
		k.Fields, k.HasStrippedFields = p.Fields, p.HasStrippedFields
	}
	return nil
}

func (p *Param) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding fn input: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decoding fn input: expected [name, type], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Name); err != nil {
		return fmt.Errorf("decoding fn input name: %w", err)
	}
	return json.Unmarshal(pair[1], &p.Type)
}

var abiNames = map[string]string{
	"C":        "C",
	"Cdecl":    "cdecl",
	"Stdcall":  "stdcall",
	"Fastcall": "fastcall",
	"Aapcs":    "aapcs",
	"Win64":    "win64",
	"SysV64":   "sysv64",
	"System":   "system",
}

func (a *Abi) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding abi: %w", err)
	}
	switch tag {
	case "", "Rust":
		a.Name = ""
	case "Other":
		var s string
		if err := decode(body, &s); err != nil {
			return fmt.Errorf("decoding abi: %w", err)
		}
		a.Name = s
	default:
		if name, ok := abiNames[tag]; ok {
			a.Name = name
		} else {
			a.Name = tag
		}
	}
	return nil
}

func (g *GenericParamDef) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Kind json.RawMessage `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding generic param: %w", err)
	}
	tag, body, err := tagged(raw.Kind)
	if err != nil {
		return fmt.Errorf("decoding generic param %s: %w", raw.Name, err)
	}
	*g = GenericParamDef{Name: raw.Name, Tag: GenericParamTag(tag)}
	switch g.Tag {
	case ParamLifetime:
		var k struct {
			Outlives []string `json:"outlives"`
		}
		if err := decode(body, &k); err != nil {
			return err
		}
		g.Outlives = k.Outlives
	case ParamType:
		var k struct {
			Bounds      []GenericBound `json:"bounds"`
			Default     *Type          `json:"default"`
			IsSynthetic bool           `json:"is_synthetic"`
		}
		if err := decode(body, &k); err != nil {
			return err
		}
		g.Bounds, g.Default, g.IsSynthetic = k.Bounds, k.Default, k.IsSynthetic
	case ParamConst:
		var k struct {
			Type    *Type   `json:"type"`
			Default *string `json:"default"`
		}
		if err := decode(body, &k); err != nil {
			return err
		}
		g.ConstType, g.ConstValue = k.Type, k.Default
	}
	return nil
}

func (b *GenericBound) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding bound: %w", err)
	}
	*b = GenericBound{Tag: BoundTag(tag)}
	switch b.Tag {
	case BoundTrait:
		var t struct {
			Trait         Path              `json:"trait"`
			GenericParams []GenericParamDef `json:"generic_params"`
			Modifier      string            `json:"modifier"`
		}
		if err := decode(body, &t); err != nil {
			return fmt.Errorf("decoding trait bound: %w", err)
		}
		b.Trait, b.GenericParams, b.Modifier = t.Trait, t.GenericParams, t.Modifier
	case BoundOutlives:
		return decode(body, &b.Lifetime)
	case BoundUse:
		var captures []json.RawMessage
		if err := decode(body, &captures); err != nil {
			return fmt.Errorf("decoding use bound: %w", err)
		}
		for _, c := range captures {
			// Either a bare name or {"lifetime": ..} / {"param": ..}.
			_, inner, err := tagged(c)
			if err != nil {
				return fmt.Errorf("decoding use capture: %w", err)
			}
			var name string
			if inner == nil {
				err = json.Unmarshal(c, &name)
			} else {
				err = json.Unmarshal(inner, &name)
			}
			if err != nil {
				return fmt.Errorf("decoding use capture: %w", err)
			}
			b.Use = append(b.Use, name)
		}
	}
	return nil
}

func (w *WherePredicate) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding where predicate: %w", err)
	}
	*w = WherePredicate{Tag: PredicateTag(tag)}
	switch w.Tag {
	case PredBound:
		var p struct {
			Type          *Type             `json:"type"`
			Bounds        []GenericBound    `json:"bounds"`
			GenericParams []GenericParamDef `json:"generic_params"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding bound predicate: %w", err)
		}
		w.Type, w.Bounds, w.GenericParams = p.Type, p.Bounds, p.GenericParams
	case PredLifetime:
		var p struct {
			Lifetime string   `json:"lifetime"`
			Outlives []string `json:"outlives"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding lifetime predicate: %w", err)
		}
		w.Lifetime, w.Outlives = p.Lifetime, p.Outlives
	case PredEq:
		var p struct {
			LHS *Type `json:"lhs"`
			RHS *Term `json:"rhs"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding eq predicate: %w", err)
		}
		w.LHS, w.RHS = p.LHS, p.RHS
	}
	return nil
}

func (t *Term) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding term: %w", err)
	}
	*t = Term{}
	switch tag {
	case "type":
		t.Type = new(Type)
		return decode(body, t.Type)
	case "constant":
		t.Constant = new(Const)
		return decode(body, t.Constant)
	}
	return nil
}

func (p *Path) UnmarshalJSON(data []byte) error {
	var raw struct {
		Path string       `json:"path"`
		Name string       `json:"name"`
		ID   ID           `json:"id"`
		Args *GenericArgs `json:"args"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding path: %w", err)
	}
	*p = Path{Path: raw.Path, ID: raw.ID, Args: raw.Args}
	if p.Path == "" {
		p.Path = raw.Name
	}
	return nil
}

func (g *GenericArgs) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding generic args: %w", err)
	}
	*g = GenericArgs{Tag: ArgsTag(tag)}
	switch g.Tag {
	case ArgsAngle:
		var a struct {
			Args        []GenericArg          `json:"args"`
			Constraints []AssocItemConstraint `json:"constraints"`
			Bindings    []AssocItemConstraint `json:"bindings"`
		}
		if err := decode(body, &a); err != nil {
			return fmt.Errorf("decoding angle-bracketed args: %w", err)
		}
		g.Args = a.Args
		g.Constraints = append(a.Constraints, a.Bindings...)
	case ArgsParen:
		var a struct {
			Inputs []Type `json:"inputs"`
			Output *Type  `json:"output"`
		}
		if err := decode(body, &a); err != nil {
			return fmt.Errorf("decoding parenthesized args: %w", err)
		}
		g.Inputs, g.Output = a.Inputs, a.Output
	}
	return nil
}

func (a *GenericArg) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding generic arg: %w", err)
	}
	*a = GenericArg{Tag: GenericArgTag(tag)}
	switch a.Tag {
	case ArgLifetime:
		return decode(body, &a.Lifetime)
	case ArgType:
		a.Type = new(Type)
		return decode(body, a.Type)
	case ArgConst:
		a.Const = new(Const)
		return decode(body, a.Const)
	}
	return nil
}

func (c *AssocItemConstraint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Args    *GenericArgs    `json:"args"`
		Binding json.RawMessage `json:"binding"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding constraint: %w", err)
	}
	*c = AssocItemConstraint{Name: raw.Name, Args: raw.Args}
	tag, body, err := tagged(raw.Binding)
	if err != nil {
		return fmt.Errorf("decoding constraint %s: %w", raw.Name, err)
	}
	switch tag {
	case "equality":
		c.Equality = new(Term)
		return decode(body, c.Equality)
	case "constraint":
		return decode(body, &c.Bounds)
	}
	return nil
}

func (t *Type) UnmarshalJSON(data []byte) error {
	tag, body, err := tagged(data)
	if err != nil {
		return fmt.Errorf("decoding type: %w", err)
	}
	*t = Type{Kind: TypeKind(tag)}
	switch t.Kind {
	case TypeResolvedPath:
		t.Path = new(Path)
		return decode(body, t.Path)
	case TypeGeneric, TypePrimitive:
		return decode(body, &t.Name)
	case TypeDynTrait:
		t.DynTrait = new(DynTrait)
		return decode(body, t.DynTrait)
	case TypeFunctionPointer:
		t.FnPtr = new(FunctionPointer)
		return decode(body, t.FnPtr)
	case TypeTuple:
		return decode(body, &t.Elems)
	case TypeSlice:
		t.Elem = new(Type)
		return decode(body, t.Elem)
	case TypeArray:
		var a struct {
			Type Type   `json:"type"`
			Len  string `json:"len"`
		}
		if err := decode(body, &a); err != nil {
			return fmt.Errorf("decoding array: %w", err)
		}
		t.Elem, t.Len = &a.Type, a.Len
	case TypePat:
		var p struct {
			Type Type   `json:"type"`
			Pat  string `json:"__pat_unstable_do_not_use"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding pattern type: %w", err)
		}
		t.Elem, t.Pattern = &p.Type, p.Pat
	case TypeImplTrait:
		return decode(body, &t.Bounds)
	case TypeInfer:
	case TypeRawPointer:
		var p struct {
			IsMutable bool `json:"is_mutable"`
			Type      Type `json:"type"`
		}
		if err := decode(body, &p); err != nil {
			return fmt.Errorf("decoding raw pointer: %w", err)
		}
		t.Elem, t.IsMutable = &p.Type, p.IsMutable
	case TypeBorrowedRef:
		var r struct {
			Lifetime  *string `json:"lifetime"`
			IsMutable bool    `json:"is_mutable"`
			Type      Type    `json:"type"`
		}
		if err := decode(body, &r); err != nil {
			return fmt.Errorf("decoding reference: %w", err)
		}
		t.Elem, t.IsMutable, t.Lifetime = &r.Type, r.IsMutable, r.Lifetime
	case TypeQualifiedPath:
		t.Qualified = new(QualifiedPath)
		return decode(body, t.Qualified)
	default:
		t.Kind = TypeUnknown
	}
	return nil
}
