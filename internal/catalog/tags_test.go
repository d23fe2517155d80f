package catalog

import (
	"reflect"
	"testing"
)

func TestDecodeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "proper JSON array",
			raw:  `["actor:jane","tag:outdoor"]`,
			want: []string{"actor:jane", "tag:outdoor"},
		},
		{
			name: "empty JSON array",
			raw:  `[]`,
			want: []string{},
		},
		{
			name: "legacy double-encoded array",
			raw:  `"[\"actor:jane\",\"tag:outdoor\"]"`,
			want: []string{"actor:jane", "tag:outdoor"},
		},
		{
			name: "empty string",
			raw:  "",
			want: []string{},
		},
		{
			name: "JSON null",
			raw:  `null`,
			want: []string{},
		},
		{
			name: "malformed input",
			raw:  `{not json`,
			want: []string{},
		},
		{
			name: "JSON string that is not an array",
			raw:  `"just a string"`,
			want: []string{},
		},
		{
			name: "JSON object",
			raw:  `{"tags":["actor:jane"]}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := decodeTags(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodeTags(t *testing.T) {
	t.Parallel()

	if got := encodeTags(nil); got != "[]" {
		t.Errorf("encodeTags(nil) = %q, want %q", got, "[]")
	}
	if got := encodeTags([]string{}); got != "[]" {
		t.Errorf("encodeTags(empty) = %q, want %q", got, "[]")
	}
	if got := encodeTags([]string{"actor:jane"}); got != `["actor:jane"]` {
		t.Errorf("encodeTags = %q, want %q", got, `["actor:jane"]`)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tags := []string{"actor:jane", "actor:joe", "tag:outdoor", "note:keep"}
	if got := decodeTags(encodeTags(tags)); !reflect.DeepEqual(got, tags) {
		t.Errorf("round trip = %v, want %v", got, tags)
	}
}

func TestDerivedViews(t *testing.T) {
	t.Parallel()

	tags := []string{"actor:jane", "tag:outdoor", "actor:joe", "note:keep", "actor:", "tag:night"}

	wantActors := []string{"jane", "joe"}
	if got := Actors(tags); !reflect.DeepEqual(got, wantActors) {
		t.Errorf("Actors = %v, want %v", got, wantActors)
	}

	wantActions := []string{"outdoor", "night"}
	if got := Actions(tags); !reflect.DeepEqual(got, wantActions) {
		t.Errorf("Actions = %v, want %v", got, wantActions)
	}

	if got := Actors(nil); got != nil {
		t.Errorf("Actors(nil) = %v, want nil", got)
	}
}
