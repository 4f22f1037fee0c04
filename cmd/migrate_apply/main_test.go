package main

import (
	"reflect"
	"testing"
)

func TestPending(t *testing.T) {
	names := []string{"002_roles.sql", "README.md", "001_init.sql", "003_indexes.sql"}
	applied := map[string]bool{"001_init.sql": true}

	got := pending(names, applied)
	want := []string{"002_roles.sql", "003_indexes.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pending = %v; want %v", got, want)
	}
}

func TestPendingNothingNew(t *testing.T) {
	applied := map[string]bool{"001_init.sql": true}
	if got := pending([]string{"001_init.sql"}, applied); len(got) != 0 {
		t.Fatalf("pending = %v; want empty", got)
	}
}
