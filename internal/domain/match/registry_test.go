package match

import "testing"

func TestRegistryResolve(t *testing.T) {
	r := Registry{"A": "id1", "Empty": ""}

	if id, ok := r.Resolve("A"); !ok || id != "id1" {
		t.Fatalf("Resolve(A) = %q, %v", id, ok)
	}
	if _, ok := r.Resolve("missing"); ok {
		t.Fatal("Resolve(missing) ok = true")
	}
	// A present key with an empty id is still unresolved.
	if _, ok := r.Resolve("Empty"); ok {
		t.Fatal("Resolve(Empty) ok = true")
	}
}

func TestRegistryRef(t *testing.T) {
	r := Registry{"A": "id1"}

	ref := r.Ref("A")
	if !ref.Resolved() || ref.ID != "id1" || ref.Name != "A" {
		t.Fatalf("Ref(A) = %+v", ref)
	}

	ref = r.Ref("B")
	if ref.Resolved() || ref.Name != "B" {
		t.Fatalf("Ref(B) = %+v", ref)
	}
}
