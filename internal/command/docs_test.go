package command

import "testing"

func TestRegistryGet(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	doc := reg.Get("GET")
	if doc == nil {
		t.Fatal("GET should exist in registry")
	}
	if doc.Command != "GET" {
		t.Errorf("Expected command GET, got %s", doc.Command)
	}

	// Case insensitive
	if reg.Get("get") == nil {
		t.Fatal("get (lowercase) should resolve to GET")
	}

	if reg.Get("NONEXISTENT_CMD_XYZ") != nil {
		t.Error("Unknown command should return nil")
	}

	// Application commands are registered alongside Redis commands
	if reg.Get("SAFEKEYS") == nil {
		t.Error("SAFEKEYS app command should exist in registry")
	}
}

func TestRegistryIsDangerous(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	if !reg.IsDangerous("FLUSHALL") {
		t.Error("FLUSHALL should be dangerous")
	}
	if !reg.IsDangerous("flushdb") {
		t.Error("IsDangerous should be case insensitive")
	}
	if reg.IsDangerous("GET") {
		t.Error("GET should not be dangerous")
	}
}

func TestMergeServerCommands(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	if reg.Get("NEWCMD") != nil {
		t.Fatal("NEWCMD should not exist before merge")
	}

	origGet := *reg.Get("GET")

	cmds := []ServerCommand{
		{Name: "NEWCMD", Arity: -2, ACLCats: []string{"@string", "@read"}},
		{Name: "GET", Arity: 2, ACLCats: []string{"@string", "@read", "@fast"}},
		{
			Name:  "NEWPARENT",
			Arity: -1,
			Subcommands: []ServerCommand{
				{Name: "NEWPARENT CHILD", Arity: 3},
			},
		},
	}
	reg.MergeServerCommands(cmds)

	doc := reg.Get("NEWCMD")
	if doc == nil {
		t.Fatal("NEWCMD should exist after merge")
	}
	if doc.Arguments != "arg1 [arg ...]" {
		t.Errorf("Expected arity hint %q, got %q", "arg1 [arg ...]", doc.Arguments)
	}
	if doc.Group != "string" {
		t.Errorf("Expected group %q, got %q", "string", doc.Group)
	}

	// Built-in docs are preserved for existing commands
	if got := reg.Get("GET"); got.Summary != origGet.Summary || got.Arguments != origGet.Arguments {
		t.Errorf("GET docs changed by merge: %+v", got)
	}

	// Subcommands are merged recursively
	child := reg.Get("NEWPARENT CHILD")
	if child == nil {
		t.Fatal("NEWPARENT CHILD should exist after merge")
	}
	if child.Arguments != "arg1 arg2" {
		t.Errorf("Expected arity hint %q, got %q", "arg1 arg2", child.Arguments)
	}

	// Merged commands appear in autocomplete
	matches := reg.GetCommands("NEWCMD")
	if len(matches) != 1 || matches[0] != "NEWCMD" {
		t.Errorf("GetCommands(NEWCMD) = %v, want [NEWCMD]", matches)
	}
}

func TestArityHint(t *testing.T) {
	tests := []struct {
		arity int64
		want  string
	}{
		{0, ""},
		{1, ""},
		{2, "arg1"},
		{3, "arg1 arg2"},
		{-1, "[arg ...]"},
		{-2, "arg1 [arg ...]"},
		{-3, "arg1 arg2 [arg ...]"},
	}
	for _, tc := range tests {
		if got := arityHint(tc.arity); got != tc.want {
			t.Errorf("arityHint(%d) = %q, want %q", tc.arity, got, tc.want)
		}
	}
}

func TestPrimaryACLGroup(t *testing.T) {
	tests := []struct {
		cats []string
		want string
	}{
		{[]string{"@read", "@string", "@fast"}, "string"},
		{[]string{"@write", "@hash", "@slow"}, "hash"},
		{[]string{"@read", "@fast"}, ""},
		{[]string{"@admin", "@slow", "@dangerous"}, "admin"},
		{[]string{"@connection"}, "connection"},
		{nil, ""},
	}
	for _, tc := range tests {
		if got := primaryACLGroup(tc.cats); got != tc.want {
			t.Errorf("primaryACLGroup(%v) = %q, want %q", tc.cats, got, tc.want)
		}
	}
}
