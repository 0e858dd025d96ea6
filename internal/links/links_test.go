package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

func loc(pkg string, kind rustdoc.Kind, path ...string) Location {
	return Location{Package: pkg, Path: path, Kind: kind}
}

func testIndex() *GlobalIndex {
	return &GlobalIndex{Items: map[string]Location{
		"alpha":                  loc("alpha", rustdoc.KindModule, "alpha"),
		"alpha::Widget":          loc("alpha", rustdoc.KindStruct, "alpha", "Widget"),
		"alpha::render":          loc("alpha", rustdoc.KindFunction, "alpha", "render"),
		"alpha::deep::Gizmo":     loc("alpha", rustdoc.KindEnum, "alpha", "deep", "Gizmo"),
		"alpha::deep::inner":     loc("alpha", rustdoc.KindModule, "alpha", "deep", "inner"),
		"beta::nested::Gizmo":    loc("beta", rustdoc.KindTrait, "beta", "nested", "Gizmo"),
		"core::option::Option":   loc("core", rustdoc.KindEnum, "core", "option", "Option"),
		"gamma::a::b::Tail":      loc("gamma", rustdoc.KindStruct, "gamma", "a", "b", "Tail"),
		"gamma::Tail":            loc("gamma", rustdoc.KindStruct, "gamma", "Tail"),
		"alpha::macros::ensure":  loc("alpha", rustdoc.KindMacro, "alpha", "macros", "ensure"),
		"zeta::deep::more::Blob": loc("zeta", rustdoc.KindStruct, "zeta", "deep", "more", "Blob"),
		"eta::x::Blob":           loc("eta", rustdoc.KindStruct, "eta", "x", "Blob"),
		"eta::y::Blob":           loc("eta", rustdoc.KindUnion, "eta", "y", "Blob"),
	}}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := NewResolver(testIndex())
	tests := []struct {
		name    string
		path    string
		current string
		depth   int
		want    string
		ok      bool
	}{
		{"exact", "alpha::Widget", "beta", 1, "../alpha/struct.Widget.html", true},
		{"missing", "mystery::Thing", "alpha", 1, "", false},
		{"relative to package", "Widget", "alpha", 0, "alpha/struct.Widget.html", true},
		{"crate prefix", "crate::deep::Gizmo", "alpha", 2, "../../alpha/deep/enum.Gizmo.html", true},
		{"leading colons", "::render", "alpha", 1, "../alpha/fn.render.html", true},
		{"module", "alpha::deep::inner", "alpha", 0, "alpha/deep/inner/index.html", true},
		{"package root", "alpha", "beta", 1, "../alpha/index.html", true},
		{"std to core", "std::option::Option", "alpha", 1, "../core/option/enum.Option.html", true},
		{"first and last", "gamma::x::y::Tail", "alpha", 0, "gamma/struct.Tail.html", true},
		{"strip current package", "alpha::gamma::Tail", "alpha", 0, "gamma/struct.Tail.html", true},
		{"shallowest", "Gizmo", "omega", 0, "alpha/deep/enum.Gizmo.html", true},
		{"shallowest tie is lexicographic", "Blob", "omega", 0, "eta/x/struct.Blob.html", true},
		{"lowercase single segment", "render", "omega", 0, "", false},
		{"disambiguator", "struct@alpha::Widget", "beta", 0, "alpha/struct.Widget.html", true},
		{"wrong disambiguator", "enum@alpha::Widget", "beta", 0, "", false},
		{"macro suffix", "alpha::macros::ensure!", "beta", 0, "alpha/macros/macro.ensure.html", true},
		{"url", "https://example.com", "alpha", 0, "", false},
		{"anchor", "#section", "alpha", 0, "", false},
		{"keyword", "None", "alpha", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := r.Resolve(tt.path, tt.current, tt.depth)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPath(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"Foo", "foo::Bar", "crate::foo::Bar", "struct@Foo", "::root::Item", "new()"} {
		assert.True(t, IsPath(s), s)
	}
	for _, s := range []string{"", "   ", "https://example.com", "/path/to/file", "foo#section", "self", "true", "1abc", "a-b"} {
		assert.False(t, IsPath(s), s)
	}
}

func TestBuildGlobalIndex(t *testing.T) {
	t.Parallel()

	first := &rustdoc.Crate{Paths: map[rustdoc.ID]rustdoc.Summary{
		1: {CrateID: 0, Path: []string{"alpha", "Widget"}, Kind: rustdoc.KindStruct},
		2: {CrateID: 0, Path: []string{"alpha", "Widget", "field"}, Kind: rustdoc.KindStructField},
		3: {CrateID: 4, Path: []string{"core", "option", "Option"}, Kind: rustdoc.KindEnum},
	}}
	second := &rustdoc.Crate{Paths: map[rustdoc.ID]rustdoc.Summary{
		9: {CrateID: 0, Path: []string{"alpha", "Widget"}, Kind: rustdoc.KindEnum},
		10: {CrateID: 0, Path: []string{"beta"}, Kind: rustdoc.KindModule},
	}}

	idx := BuildGlobalIndex([]rustdoc.Graph{{Name: "alpha", Crate: first}, {Name: "beta", Crate: second}})

	assert.Len(t, idx.Items, 2)
	w, ok := idx.Lookup("alpha::Widget")
	assert.True(t, ok)
	assert.Equal(t, rustdoc.KindStruct, w.Kind, "earlier graph should win")
	assert.Equal(t, "alpha", w.Package)

	_, ok = idx.Lookup("core::option::Option")
	assert.False(t, ok, "external paths are indexed by their own graph")
}
