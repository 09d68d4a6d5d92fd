package types_test

import (
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/newsdesk/pkg/domain/types"
)

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"docker":     "Docker",
		"KUBERNETES": "Kubernetes",
		"cOnTainer":  "Container",
		"k":          "K",
		"édition":    "Édition",
		"ÉCOSYSTÈME": "Écosystème",
		"云原生":        "云原生",
	}

	for in, want := range tests {
		got := types.Capitalize(in)
		if got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Capitalize(%q) = %q is not valid UTF-8", in, got)
		}
	}
}
