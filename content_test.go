package docdelve

import "testing"

func TestItemConstructorsAndAddChild(t *testing.T) {
	module := NewModule("widgets", "app::widgets", "widgets/index.html")
	obj := NewObject("Widget", "app::widgets::Widget", "struct Widget", "widgets/widget.html", ObjectStruct)
	module.AddChild(obj)

	if len(module.Children) != 1 || module.Children[0] != obj {
		t.Fatalf("AddChild did not append the child in order")
	}
	if module.itemName() != "widgets" {
		t.Errorf("module.itemName() = %q, want %q", module.itemName(), "widgets")
	}
	if obj.itemName() != "Widget" {
		t.Errorf("obj.itemName() = %q, want %q", obj.itemName(), "Widget")
	}

	page := NewPage("Getting Started", "guide/start.html")
	if page.itemName() != "Getting Started" {
		t.Errorf("page.itemName() = %q, want %q", page.itemName(), "Getting Started")
	}

	group := NewGroup("Collections", "widgets/collections.html")
	if group.itemName() != "Collections" {
		t.Errorf("group.itemName() = %q, want %q", group.itemName(), "Collections")
	}
}

func TestObjectTypeJSONRoundtrip(t *testing.T) {
	for t1 := ObjectClass; t1 <= ObjectNamespace; t1++ {
		data, err := t1.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%d): %v", t1, err)
		}
		var t2 ObjectType
		if err := t2.UnmarshalJSON(data); err != nil {
			t.Fatalf("UnmarshalJSON(%q): %v", data, err)
		}
		if t1 != t2 {
			t.Errorf("roundtrip %d -> %q -> %d", t1, data, t2)
		}
	}
}

func TestObjectTypeUnmarshalInvalid(t *testing.T) {
	var objType ObjectType
	if err := objType.UnmarshalJSON([]byte(`"NotAType"`)); err == nil {
		t.Errorf("expected an error unmarshaling an unknown object type")
	}
}
