package service

import "testing"

func TestInsertContainsRemove(t *testing.T) {
	svc, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := svc.Insert("alpha"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !svc.Contains("alpha") {
		t.Fatal("expected Contains(alpha) true")
	}
	svc.Remove("alpha")
	if svc.Contains("alpha") {
		t.Fatal("expected Contains(alpha) false after Remove")
	}
}

func TestKeysAscendingWithDuplicates(t *testing.T) {
	svc, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, k := range []string{"banana", "apple", "banana", "cherry"} {
		if err := svc.Insert(k); err != nil {
			t.Fatalf("Insert(%s): %v", k, err)
		}
	}

	want := []string{"apple", "banana", "banana", "cherry"}
	got := svc.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	distinct := svc.SortedDistinctKeys()
	wantDistinct := []string{"apple", "banana", "cherry"}
	if len(distinct) != len(wantDistinct) {
		t.Fatalf("got %v, want %v", distinct, wantDistinct)
	}
	for i := range wantDistinct {
		if distinct[i] != wantDistinct[i] {
			t.Fatalf("got %v, want %v", distinct, wantDistinct)
		}
	}
}

func TestApproxSizeTracksInsertRemove(t *testing.T) {
	svc, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if svc.ApproxSize() != 0 {
		t.Fatalf("initial ApproxSize = %d, want 0", svc.ApproxSize())
	}
	_ = svc.Insert("x")
	_ = svc.Insert("x")
	if svc.ApproxSize() != 2 {
		t.Fatalf("ApproxSize = %d, want 2", svc.ApproxSize())
	}
	svc.Remove("x")
	if svc.ApproxSize() != 1 {
		t.Fatalf("ApproxSize = %d, want 1", svc.ApproxSize())
	}
}
