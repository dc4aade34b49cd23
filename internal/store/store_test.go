package store

import (
	"context"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("missing key: ok=%v err=%v", ok, err)
			}
			if err := s.Set(ctx, "k", []byte(`[1]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set(ctx, "k", []byte(`[2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, ok, err := s.Get(ctx, "k")
			if err != nil || !ok || string(got) != `[2]` {
				t.Fatalf("get: %q ok=%v err=%v", got, ok, err)
			}
		})
	}
}

func TestStoreSetMany(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "a", []byte(`"old"`)); err != nil {
				t.Fatal(err)
			}
			err := s.SetMany(ctx, map[string][]byte{"a": []byte(`"new"`), "b": []byte(`true`)})
			if err != nil {
				t.Fatalf("set many: %v", err)
			}
			for k, want := range map[string]string{"a": `"new"`, "b": `true`} {
				got, ok, err := s.Get(ctx, k)
				if err != nil || !ok || string(got) != want {
					t.Fatalf("%s: got %q ok=%v err=%v", k, got, ok, err)
				}
			}
		})
	}
}

func TestJSONHelpersKeepDefault(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	v := "fallback"
	ok, err := GetJSON(ctx, s, "absent", &v)
	if err != nil || ok || v != "fallback" {
		t.Fatalf("absent key changed default: %q ok=%v err=%v", v, ok, err)
	}
	if err := SetJSON(ctx, s, "k", []string{"x"}); err != nil {
		t.Fatal(err)
	}
	var got []string
	if ok, err := GetJSON(ctx, s, "k", &got); err != nil || !ok || len(got) != 1 || got[0] != "x" {
		t.Fatalf("round trip: %v ok=%v err=%v", got, ok, err)
	}
	if err := s.Set(ctx, "bad", []byte("{")); err != nil {
		t.Fatal(err)
	}
	if _, err := GetJSON(ctx, s, "bad", &got); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", []byte(`1`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got, ok, err := s.Get(ctx, "k"); err != nil || !ok || string(got) != "1" {
		t.Fatalf("after reopen: %q ok=%v err=%v", got, ok, err)
	}
}
