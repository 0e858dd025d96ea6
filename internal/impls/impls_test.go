package impls

import (
	"testing"

	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
)

const implCrate = `{
  "root": 0,
  "index": {
    "0": {"id": 0, "name": "demo", "visibility": "public", "inner": {"module": {"items": [1, 2]}}},
    "1": {"id": 1, "name": "Widget", "visibility": "public",
          "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": [20, 10, 30]}}},
    "2": {"id": 2, "name": "Draw", "visibility": "public",
          "inner": {"trait": {"is_auto": false, "is_unsafe": false, "items": [], "generics": {"params": [], "where_predicates": []}, "bounds": [], "implementations": [10, 40]}}},
    "5": {"id": 5, "name": "new", "visibility": "public",
          "inner": {"function": {"sig": {"inputs": [], "output": null}, "generics": {"params": [], "where_predicates": []}, "header": {"abi": "Rust"}}}},
    "10": {"id": 10, "visibility": "default",
           "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []},
                              "trait": {"path": "Draw", "id": 2, "args": null},
                              "for": {"resolved_path": {"path": "Widget", "id": 1, "args": null}},
                              "items": [], "is_negative": false, "is_synthetic": false, "blanket_impl": null}}},
    "20": {"id": 20, "visibility": "default",
           "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []},
                              "trait": null,
                              "for": {"resolved_path": {"path": "Widget", "id": 1, "args": null}},
                              "items": [5], "is_negative": false, "is_synthetic": false, "blanket_impl": null}}},
    "30": {"id": 30, "visibility": "default",
           "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []},
                              "trait": {"path": "Send", "id": 77, "args": null},
                              "for": {"resolved_path": {"path": "Widget", "id": 1, "args": null}},
                              "items": [], "is_negative": false, "is_synthetic": true, "blanket_impl": null}}},
    "40": {"id": 40, "visibility": "default",
           "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []},
                              "trait": {"path": "Draw", "id": 2, "args": null},
                              "for": {"borrowed_ref": {"lifetime": null, "is_mutable": false, "type": {"generic": "T"}}},
                              "items": [], "is_negative": false, "is_synthetic": false, "blanket_impl": {"generic": "T"}}}}
  },
  "paths": {}
}`

func TestBuild(t *testing.T) {
	t.Parallel()

	crate, err := rustdoc.Parse([]byte(implCrate))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	idx := Build(crate)

	widget := idx.ForType(1)
	if len(widget) != 3 {
		t.Fatalf("Widget impls = %d, want 3", len(widget))
	}
	if widget[0].ID != 10 || widget[1].ID != 20 || widget[2].ID != 30 {
		t.Errorf("Widget impls not sorted: %d %d %d", widget[0].ID, widget[1].ID, widget[2].ID)
	}
	if widget[0].Inherent() || !widget[1].Inherent() {
		t.Error("impl 20 should be inherent, impl 10 should not")
	}
	if !widget[2].Synthetic() {
		t.Error("impl 30 should be synthetic")
	}

	draw := idx.ForTrait(2)
	if len(draw) != 2 {
		t.Fatalf("Draw impls = %d, want 2", len(draw))
	}
	if draw[0].ID != 10 || draw[0].TraitPath != "Draw" {
		t.Errorf("Draw[0] = %+v", draw[0])
	}
	// A structural target type is indexed only under its trait.
	if !draw[1].Blanket() || draw[1].ID != 40 {
		t.Errorf("Draw[1] = %+v", draw[1])
	}
	for typeID, list := range idx.Types {
		for _, info := range list {
			if info.ID == 40 {
				t.Errorf("impl 40 indexed under type %d", typeID)
			}
		}
	}

	if _, ok := idx.Traits[77]; !ok {
		t.Error("external trait Send should be a key in Traits")
	}

	owner, ok := idx.Owner(5)
	if !ok || owner != 1 {
		t.Errorf("Owner(5) = %d, %v", owner, ok)
	}
	if _, ok := idx.Owner(999); ok {
		t.Error("Owner(999) should not resolve")
	}
}
