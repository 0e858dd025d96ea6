// Package rustdoc models the rustdoc JSON symbol graph.
package rustdoc

// ID identifies an item within a single crate's graph.
type ID int

// Crate is the top-level structure of rustdoc JSON output.
type Crate struct {
	Root           ID                    `json:"root"`
	CrateVersion   *string               `json:"crate_version"`
	Index          map[ID]Item           `json:"index"`
	Paths          map[ID]Summary        `json:"paths"`
	ExternalCrates map[int]ExternalCrate `json:"external_crates"`
	FormatVersion  int                   `json:"format_version"`
}

// ExternalCrate identifies a dependency crate by name.
type ExternalCrate struct {
	Name        string `json:"name"`
	HTMLRootURL string `json:"html_root_url"`
}

// Summary provides the path and kind for an item, local or external.
type Summary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    Kind     `json:"kind"`
}

// Item is a single entry in the rustdoc index.
type Item struct {
	ID         ID            `json:"id"`
	CrateID    int           `json:"crate_id"`
	Name       *string       `json:"name"`
	Visibility Visibility    `json:"visibility"`
	Docs       *string       `json:"docs"`
	Links      map[string]ID `json:"links"` // markdown text → item ID
	Inner      Inner         `json:"inner"`
}

// Kind is the snake_case item kind used by rustdoc, both as the key of an
// item's inner payload and in path summaries.
type Kind string

const (
	KindModule      Kind = "module"
	KindExternCrate Kind = "extern_crate"
	KindUse         Kind = "use"
	KindUnion       Kind = "union"
	KindStruct      Kind = "struct"
	KindStructField Kind = "struct_field"
	KindEnum        Kind = "enum"
	KindVariant     Kind = "variant"
	KindFunction    Kind = "function"
	KindTrait       Kind = "trait"
	KindTraitAlias  Kind = "trait_alias"
	KindImpl        Kind = "impl"
	KindTypeAlias   Kind = "type_alias"
	KindConstant    Kind = "constant"
	KindStatic      Kind = "static"
	KindExternType  Kind = "extern_type"
	KindMacro       Kind = "macro"
	KindProcMacro   Kind = "proc_macro"
	KindPrimitive   Kind = "primitive"
	KindAssocConst  Kind = "assoc_const"
	KindAssocType   Kind = "assoc_type"

	// Summary-only kinds.
	KindProcAttribute Kind = "proc_attribute"
	KindProcDerive    Kind = "proc_derive"

	KindUnknown Kind = "unknown"
)

// VisibilityKind classifies an item's declared visibility.
type VisibilityKind string

const (
	VisPublic     VisibilityKind = "public"
	VisDefault    VisibilityKind = "default"
	VisCrate      VisibilityKind = "crate"
	VisRestricted VisibilityKind = "restricted"
)

// Visibility is an item's declared visibility.
type Visibility struct {
	Kind VisibilityKind
	// Path is set for restricted visibility, e.g. "crate::a".
	Path string
}

// IsPublic reports whether the item was declared `pub`.
func (v Visibility) IsPublic() bool { return v.Kind == VisPublic }

// Inner is the kind-specific payload of an item. Exactly one of the pointer
// fields is set, matching Kind; Kind is KindUnknown for variants this
// package does not model.
type Inner struct {
	Kind Kind

	Module      *Module
	Use         *Use
	Struct      *Struct
	Union       *Union
	Enum        *Enum
	Variant     *Variant
	StructField *Type
	Function    *Function
	Trait       *Trait
	Impl        *Impl
	TypeAlias   *TypeAlias
	Constant    *ConstantItem
	Static      *Static
	Macro       *string
	ProcMacro   *ProcMacro
	AssocConst  *AssocConst
	AssocType   *AssocType
}

type Module struct {
	IsCrate    bool `json:"is_crate"`
	Items      []ID `json:"items"`
	IsStripped bool `json:"is_stripped"`
}

// Use is a re-export (`pub use`).
type Use struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	ID     *ID    `json:"id"`
	IsGlob bool   `json:"is_glob"`
}

type Struct struct {
	Kind     StructKind `json:"kind"`
	Generics Generics   `json:"generics"`
	Impls    []ID       `json:"impls"`
}

// StructKindTag discriminates StructKind.
type StructKindTag string

const (
	StructUnit  StructKindTag = "unit"
	StructTuple StructKindTag = "tuple"
	StructPlain StructKindTag = "plain"
)

type StructKind struct {
	Tag StructKindTag
	// Tuple fields may be nil when the field is stripped.
	Tuple             []*ID
	Fields            []ID
	HasStrippedFields bool
}

type Union struct {
	Generics          Generics `json:"generics"`
	HasStrippedFields bool     `json:"has_stripped_fields"`
	Fields            []ID     `json:"fields"`
	Impls             []ID     `json:"impls"`
}

type Enum struct {
	Generics            Generics `json:"generics"`
	HasStrippedVariants bool     `json:"has_stripped_variants"`
	Variants            []ID     `json:"variants"`
	Impls               []ID     `json:"impls"`
}

// VariantKindTag discriminates VariantKind.
type VariantKindTag string

const (
	VariantPlain  VariantKindTag = "plain"
	VariantTuple  VariantKindTag = "tuple"
	VariantStruct VariantKindTag = "struct"
)

type VariantKind struct {
	Tag               VariantKindTag
	Tuple             []*ID
	Fields            []ID
	HasStrippedFields bool
}

type Variant struct {
	Kind         VariantKind `json:"kind"`
	Discriminant *Discr      `json:"discriminant"`
}

type Discr struct {
	Expr  string `json:"expr"`
	Value string `json:"value"`
}

type Function struct {
	Sig      FnSig    `json:"sig"`
	Generics Generics `json:"generics"`
	Header   FnHeader `json:"header"`
	HasBody  bool     `json:"has_body"`
}

type FnSig struct {
	Inputs      []Param `json:"inputs"`
	Output      *Type   `json:"output"`
	IsCVariadic bool    `json:"is_c_variadic"`
}

// Param is one `(name, type)` pair of a function signature.
type Param struct {
	Name string
	Type Type
}

type FnHeader struct {
	IsConst  bool `json:"is_const"`
	IsUnsafe bool `json:"is_unsafe"`
	IsAsync  bool `json:"is_async"`
	Abi      Abi  `json:"abi"`
}

// Abi is a calling convention. Name is empty for the default Rust ABI.
type Abi struct {
	Name string
}

type Trait struct {
	IsAuto          bool           `json:"is_auto"`
	IsUnsafe        bool           `json:"is_unsafe"`
	Items           []ID           `json:"items"`
	Generics        Generics       `json:"generics"`
	Bounds          []GenericBound `json:"bounds"`
	Implementations []ID           `json:"implementations"`
}

type Impl struct {
	IsUnsafe    bool     `json:"is_unsafe"`
	Generics    Generics `json:"generics"`
	Trait       *Path    `json:"trait"`
	For         Type     `json:"for"`
	Items       []ID     `json:"items"`
	IsNegative  bool     `json:"is_negative"`
	IsSynthetic bool     `json:"is_synthetic"`
	BlanketImpl *Type    `json:"blanket_impl"`
}

type TypeAlias struct {
	Type     Type     `json:"type"`
	Generics Generics `json:"generics"`
}

type ConstantItem struct {
	Type  Type  `json:"type"`
	Const Const `json:"const"`
}

type Const struct {
	Expr      string  `json:"expr"`
	Value     *string `json:"value"`
	IsLiteral bool    `json:"is_literal"`
}

type Static struct {
	Type      Type   `json:"type"`
	IsMutable bool   `json:"is_mutable"`
	Expr      string `json:"expr"`
	IsUnsafe  bool   `json:"is_unsafe"`
}

type ProcMacro struct {
	Kind    string   `json:"kind"` // bang, attr or derive
	Helpers []string `json:"helpers"`
}

type AssocConst struct {
	Type  Type    `json:"type"`
	Value *string `json:"value"`
}

type AssocType struct {
	Generics Generics       `json:"generics"`
	Bounds   []GenericBound `json:"bounds"`
	Type     *Type          `json:"type"`
}

type Generics struct {
	Params          []GenericParamDef `json:"params"`
	WherePredicates []WherePredicate  `json:"where_predicates"`
}

// GenericParamTag discriminates GenericParamDef.
type GenericParamTag string

const (
	ParamLifetime GenericParamTag = "lifetime"
	ParamType     GenericParamTag = "type"
	ParamConst    GenericParamTag = "const"
)

type GenericParamDef struct {
	Name string
	Tag  GenericParamTag

	Outlives    []string       // lifetime
	Bounds      []GenericBound // type
	Default     *Type          // type
	IsSynthetic bool           // type
	ConstType   *Type          // const
	ConstValue  *string        // const default
}

// BoundTag discriminates GenericBound.
type BoundTag string

const (
	BoundTrait    BoundTag = "trait_bound"
	BoundOutlives BoundTag = "outlives"
	BoundUse      BoundTag = "use"
)

type GenericBound struct {
	Tag BoundTag

	Trait         Path
	GenericParams []GenericParamDef
	Modifier      string // none, maybe or maybe_const

	Lifetime string   // outlives
	Use      []string // use<..> captures
}

// PredicateTag discriminates WherePredicate.
type PredicateTag string

const (
	PredBound    PredicateTag = "bound_predicate"
	PredLifetime PredicateTag = "lifetime_predicate"
	PredEq       PredicateTag = "eq_predicate"
)

type WherePredicate struct {
	Tag PredicateTag

	Type          *Type
	Bounds        []GenericBound
	GenericParams []GenericParamDef

	Lifetime string
	Outlives []string

	LHS *Type
	RHS *Term
}

// Term is the right-hand side of an equality constraint.
type Term struct {
	Type     *Type
	Constant *Const
}

// Path is a resolved reference to a named type or trait.
type Path struct {
	// Path is the path as written at the use site, e.g. "Vec" or
	// "fmt::Display". Older formats call this field "name".
	Path string
	ID   ID
	Args *GenericArgs
}

// ArgsTag discriminates GenericArgs.
type ArgsTag string

const (
	ArgsAngle  ArgsTag = "angle_bracketed"
	ArgsParen  ArgsTag = "parenthesized"
	ArgsReturn ArgsTag = "return_type_notation"
)

type GenericArgs struct {
	Tag ArgsTag

	Args        []GenericArg
	Constraints []AssocItemConstraint

	Inputs []Type
	Output *Type
}

// GenericArgTag discriminates GenericArg.
type GenericArgTag string

const (
	ArgLifetime GenericArgTag = "lifetime"
	ArgType     GenericArgTag = "type"
	ArgConst    GenericArgTag = "const"
	ArgInfer    GenericArgTag = "infer"
)

type GenericArg struct {
	Tag      GenericArgTag
	Lifetime string
	Type     *Type
	Const    *Const
}

// AssocItemConstraint is `Name = T` or `Name: Bounds` inside generic args.
type AssocItemConstraint struct {
	Name     string
	Args     *GenericArgs
	Equality *Term
	Bounds   []GenericBound
}

// TypeKind discriminates Type.
type TypeKind string

const (
	TypeResolvedPath    TypeKind = "resolved_path"
	TypeDynTrait        TypeKind = "dyn_trait"
	TypeGeneric         TypeKind = "generic"
	TypePrimitive       TypeKind = "primitive"
	TypeFunctionPointer TypeKind = "function_pointer"
	TypeTuple           TypeKind = "tuple"
	TypeSlice           TypeKind = "slice"
	TypeArray           TypeKind = "array"
	TypePat             TypeKind = "pat"
	TypeImplTrait       TypeKind = "impl_trait"
	TypeInfer           TypeKind = "infer"
	TypeRawPointer      TypeKind = "raw_pointer"
	TypeBorrowedRef     TypeKind = "borrowed_ref"
	TypeQualifiedPath   TypeKind = "qualified_path"
	TypeUnknown         TypeKind = "unknown"
)

// Type is a type expression. Which fields are set depends on Kind.
type Type struct {
	Kind TypeKind

	Path *Path  // resolved_path
	Name string // generic, primitive

	DynTrait *DynTrait
	FnPtr    *FunctionPointer

	Elems []Type // tuple

	// Elem is the element or pointee type of slice, array, raw_pointer,
	// borrowed_ref and pat.
	Elem *Type

	Len       string  // array
	IsMutable bool    // raw_pointer, borrowed_ref
	Lifetime  *string // borrowed_ref
	Pattern   string  // pat

	Bounds []GenericBound // impl_trait

	Qualified *QualifiedPath
}

// ResolvedID returns the identifier of a resolved_path type.
func (t *Type) ResolvedID() (ID, bool) {
	if t == nil || t.Kind != TypeResolvedPath || t.Path == nil {
		return 0, false
	}
	return t.Path.ID, true
}

type DynTrait struct {
	Traits   []PolyTrait `json:"traits"`
	Lifetime *string     `json:"lifetime"`
}

type PolyTrait struct {
	Trait         Path              `json:"trait"`
	GenericParams []GenericParamDef `json:"generic_params"`
}

type FunctionPointer struct {
	Sig           FnSig             `json:"sig"`
	GenericParams []GenericParamDef `json:"generic_params"`
	Header        FnHeader          `json:"header"`
}

type QualifiedPath struct {
	Name     string       `json:"name"`
	Args     *GenericArgs `json:"args"`
	SelfType Type         `json:"self_type"`
	Trait    *Path        `json:"trait"`
}
