package rustdoc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const sampleCrate = `{
  "root": 0,
  "crate_version": "1.2.3",
  "format_version": 39,
  "index": {
    "0": {"id": 0, "crate_id": 0, "name": "demo", "visibility": "public",
          "docs": "Demo crate.", "links": {},
          "inner": {"module": {"is_crate": true, "items": [1, 2, 3], "is_stripped": false}}},
    "1": {"id": 1, "crate_id": 0, "name": "Widget", "visibility": "public", "links": {"Other": 9},
          "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}},
    "2": {"id": 2, "crate_id": 0, "name": "helper", "visibility": {"restricted": {"parent": 0, "path": "crate"}},
          "inner": {"function": {"sig": {"inputs": [["x", {"primitive": "u32"}]], "output": null, "is_c_variadic": false},
                                 "generics": {"params": [], "where_predicates": []},
                                 "header": {"is_const": false, "is_unsafe": true, "is_async": false, "abi": {"C": {"unwind": false}}},
                                 "has_body": true}}},
    "3": {"id": 3, "crate_id": 0, "name": "Thing", "visibility": "public",
          "inner": {"use": {"source": "dep::Thing", "name": "Thing", "id": 100, "is_glob": false}}},
    "4": {"id": 4, "crate_id": 0, "name": null, "visibility": "default",
          "inner": {"extern_type": null}}
  },
  "paths": {
    "0": {"crate_id": 0, "path": ["demo"], "kind": "module"},
    "100": {"crate_id": 5, "path": ["dep", "Thing"], "kind": "struct"}
  },
  "external_crates": {"5": {"name": "dep", "html_root_url": null}}
}`

func TestParse_Crate(t *testing.T) {
	t.Parallel()

	crate, err := Parse([]byte(sampleCrate))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if crate.Name() != "demo" {
		t.Errorf("Name() = %q", crate.Name())
	}
	if crate.Version() != "1.2.3" {
		t.Errorf("Version() = %q", crate.Version())
	}
	if crate.ExternalCrateName(5) != "dep" {
		t.Errorf("ExternalCrateName(5) = %q", crate.ExternalCrateName(5))
	}

	root, ok := crate.Item(0)
	if !ok || root.Kind() != KindModule {
		t.Fatalf("root item = %+v", root)
	}
	if got := root.Inner.Module.Items; len(got) != 3 || got[2] != 3 {
		t.Errorf("module items = %v", got)
	}

	widget, _ := crate.Item(1)
	if widget.Inner.Struct == nil || widget.Inner.Struct.Kind.Tag != StructUnit {
		t.Errorf("widget struct = %+v", widget.Inner.Struct)
	}
	if widget.Links["Other"] != 9 {
		t.Errorf("links = %v", widget.Links)
	}
	if !widget.Visibility.IsPublic() {
		t.Error("widget should be public")
	}

	helper, _ := crate.Item(2)
	if helper.Visibility.Kind != VisRestricted || helper.Visibility.Path != "crate" {
		t.Errorf("helper visibility = %+v", helper.Visibility)
	}
	fn := helper.Inner.Function
	if fn == nil {
		t.Fatal("expected function payload")
	}
	if len(fn.Sig.Inputs) != 1 || fn.Sig.Inputs[0].Name != "x" || fn.Sig.Inputs[0].Type.Name != "u32" {
		t.Errorf("inputs = %+v", fn.Sig.Inputs)
	}
	if fn.Sig.Output != nil {
		t.Errorf("output = %+v, want nil", fn.Sig.Output)
	}
	if fn.Header.Abi.Name != "C" || !fn.Header.IsUnsafe {
		t.Errorf("header = %+v", fn.Header)
	}

	use, _ := crate.Item(3)
	if use.Inner.Use == nil || use.Inner.Use.ID == nil || *use.Inner.Use.ID != 100 {
		t.Errorf("use = %+v", use.Inner.Use)
	}

	ext, _ := crate.Item(4)
	if ext.Kind() != KindExternType {
		t.Errorf("extern type kind = %q", ext.Kind())
	}
	if ext.DisplayName() != "" {
		t.Errorf("unnamed item DisplayName() = %q", ext.DisplayName())
	}
}

func TestType_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, ty Type)
	}{
		{
			name:  "resolved path with args",
			input: `{"resolved_path":{"path":"Vec","id":7,"args":{"angle_bracketed":{"args":[{"type":{"generic":"T"}}],"constraints":[]}}}}`,
			check: func(t *testing.T, ty Type) {
				id, ok := ty.ResolvedID()
				if !ok || id != 7 || ty.Path.Path != "Vec" {
					t.Errorf("path = %+v", ty.Path)
				}
				if ty.Path.Args == nil || len(ty.Path.Args.Args) != 1 || ty.Path.Args.Args[0].Type.Name != "T" {
					t.Errorf("args = %+v", ty.Path.Args)
				}
			},
		},
		{
			name:  "legacy name field",
			input: `{"resolved_path":{"name":"Option","id":3,"args":null}}`,
			check: func(t *testing.T, ty Type) {
				if ty.Path.Path != "Option" {
					t.Errorf("path = %q", ty.Path.Path)
				}
			},
		},
		{
			name:  "borrowed ref",
			input: `{"borrowed_ref":{"lifetime":"'a","is_mutable":true,"type":{"primitive":"str"}}}`,
			check: func(t *testing.T, ty Type) {
				if ty.Kind != TypeBorrowedRef || !ty.IsMutable || *ty.Lifetime != "'a" || ty.Elem.Name != "str" {
					t.Errorf("ref = %+v", ty)
				}
			},
		},
		{
			name:  "array",
			input: `{"array":{"type":{"primitive":"u8"},"len":"32"}}`,
			check: func(t *testing.T, ty Type) {
				if ty.Len != "32" || ty.Elem.Name != "u8" {
					t.Errorf("array = %+v", ty)
				}
			},
		},
		{
			name:  "infer",
			input: `"infer"`,
			check: func(t *testing.T, ty Type) {
				if ty.Kind != TypeInfer {
					t.Errorf("kind = %q", ty.Kind)
				}
			},
		},
		{
			name:  "unknown variant",
			input: `{"from_the_future":{}}`,
			check: func(t *testing.T, ty Type) {
				if ty.Kind != TypeUnknown {
					t.Errorf("kind = %q", ty.Kind)
				}
			},
		},
		{
			name:  "qualified path",
			input: `{"qualified_path":{"name":"Item","args":null,"self_type":{"generic":"Self"},"trait":{"path":"Iterator","id":4,"args":null}}}`,
			check: func(t *testing.T, ty Type) {
				q := ty.Qualified
				if q == nil || q.Name != "Item" || q.SelfType.Name != "Self" || q.Trait.Path != "Iterator" {
					t.Errorf("qualified = %+v", q)
				}
			},
		},
		{
			name:  "dyn trait",
			input: `{"dyn_trait":{"traits":[{"trait":{"path":"Fn","id":2,"args":{"parenthesized":{"inputs":[{"primitive":"u8"}],"output":null}}},"generic_params":[]}],"lifetime":"'static"}}`,
			check: func(t *testing.T, ty Type) {
				d := ty.DynTrait
				if d == nil || len(d.Traits) != 1 || *d.Lifetime != "'static" {
					t.Fatalf("dyn = %+v", d)
				}
				args := d.Traits[0].Trait.Args
				if args.Tag != ArgsParen || len(args.Inputs) != 1 {
					t.Errorf("args = %+v", args)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var ty Type
			if err := json.Unmarshal([]byte(tt.input), &ty); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			tt.check(t, ty)
		})
	}
}

func TestGenerics_Unmarshal(t *testing.T) {
	t.Parallel()

	input := `{
	  "params": [
	    {"name": "'a", "kind": {"lifetime": {"outlives": []}}},
	    {"name": "T", "kind": {"type": {"bounds": [
	      {"trait_bound": {"trait": {"path": "Display", "id": 11, "args": null}, "generic_params": [], "modifier": "none"}},
	      {"outlives": "'a"}
	    ], "default": null, "is_synthetic": false}}},
	    {"name": "N", "kind": {"const": {"type": {"primitive": "usize"}, "default": "4"}}}
	  ],
	  "where_predicates": [
	    {"bound_predicate": {"type": {"generic": "T"}, "bounds": [{"trait_bound": {"trait": {"path": "Clone", "id": 12, "args": null}, "generic_params": [], "modifier": "maybe"}}], "generic_params": []}},
	    {"eq_predicate": {"lhs": {"generic": "U"}, "rhs": {"type": {"primitive": "u8"}}}}
	  ]
	}`

	var g Generics
	if err := json.Unmarshal([]byte(input), &g); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(g.Params) != 3 {
		t.Fatalf("params = %d", len(g.Params))
	}
	if g.Params[0].Tag != ParamLifetime {
		t.Errorf("param 0 tag = %q", g.Params[0].Tag)
	}
	if b := g.Params[1].Bounds; len(b) != 2 || b[0].Trait.Path != "Display" || b[1].Lifetime != "'a" {
		t.Errorf("param 1 bounds = %+v", b)
	}
	if p := g.Params[2]; p.ConstType.Name != "usize" || *p.ConstValue != "4" {
		t.Errorf("const param = %+v", p)
	}
	if w := g.WherePredicates[0]; w.Tag != PredBound || w.Bounds[0].Modifier != "maybe" {
		t.Errorf("where 0 = %+v", w)
	}
	if w := g.WherePredicates[1]; w.Tag != PredEq || w.RHS.Type.Name != "u8" {
		t.Errorf("where 1 = %+v", w)
	}
}

func TestInner_StructAndVariantKinds(t *testing.T) {
	t.Parallel()

	var tuple Inner
	if err := json.Unmarshal([]byte(`{"struct":{"kind":{"tuple":[5,null]},"generics":{"params":[],"where_predicates":[]},"impls":[]}}`), &tuple); err != nil {
		t.Fatal(err)
	}
	if k := tuple.Struct.Kind; k.Tag != StructTuple || len(k.Tuple) != 2 || *k.Tuple[0] != 5 || k.Tuple[1] != nil {
		t.Errorf("tuple kind = %+v", k)
	}

	var variant Inner
	if err := json.Unmarshal([]byte(`{"variant":{"kind":{"struct":{"fields":[8,9],"has_stripped_fields":true}},"discriminant":null}}`), &variant); err != nil {
		t.Fatal(err)
	}
	if k := variant.Variant.Kind; k.Tag != VariantStruct || len(k.Fields) != 2 || !k.HasStrippedFields {
		t.Errorf("variant kind = %+v", k)
	}

	var macro Inner
	if err := json.Unmarshal([]byte(`{"macro":"macro_rules! m { () => {} }"}`), &macro); err != nil {
		t.Fatal(err)
	}
	if macro.Macro == nil || *macro.Macro != "macro_rules! m { () => {} }" {
		t.Errorf("macro = %v", macro.Macro)
	}
}

func TestLoadAll_DuplicateAndCompressed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "a.json")
	if err := os.WriteFile(plain, []byte(sampleCrate), 0o644); err != nil {
		t.Fatal(err)
	}
	compressed, err := SaveCompressed(dir, []byte(sampleCrate), "demo", "1.2.3")
	if err != nil {
		t.Fatalf("SaveCompressed: %v", err)
	}
	if filepath.Base(compressed) != "demo_1.2.3.json.zst" {
		t.Errorf("compressed path = %s", compressed)
	}

	files, err := ExpandPaths([]string{dir})
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if len(files) != 2 || files[0] != plain {
		t.Fatalf("files = %v", files)
	}

	graphs, err := LoadAll(context.Background(), files)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(graphs) != 1 || graphs[0].Name != "demo" {
		t.Fatalf("graphs = %+v", graphs)
	}
}

func TestFileStem(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"serde_1.0.0.json.zst":  "serde",
		"serde_json.json":       "serde_json",
		"tokio_latest.json.zst": "tokio",
		"/x/y/plain.json":       "plain",
	}
	for in, want := range tests {
		if got := fileStem(in); got != want {
			t.Errorf("fileStem(%q) = %q, want %q", in, got, want)
		}
	}
}
