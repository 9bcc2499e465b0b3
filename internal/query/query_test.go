package query

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestToQueryStringEmpty(t *testing.T) {
	var nilPtr *string
	tests := []struct {
		name   string
		params Params
	}{
		{"no params", Params{}},
		{"nil params", nil},
		{"only dropped values", Params{{"a", nil}, {"b", nilPtr}, {"c", ""}}},
		{"empty slice", Params{{"a", []int{}}}},
		{"slice of empty strings", Params{{"a", []string{"", ""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToQueryString(tt.params); got != "" {
				t.Errorf("ToQueryString() = %q, want empty string", got)
			}
		})
	}
}

func TestToQueryString(t *testing.T) {
	name := "berlin"
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"array and bool", Params{{"a", []int{1, 2}}, {"b", true}}, "?a=1&a=2&b=true"},
		{"false bool", Params{{"active", false}}, "?active=false"},
		{"insertion order", Params{{"z", 1}, {"a", 2}}, "?z=1&a=2"},
		{"float", Params{{"ratio", 0.5}}, "?ratio=0.5"},
		{"pointer", Params{{"city", &name}}, "?city=berlin"},
		{"escaping", Params{{"search", "a&b c"}}, "?search=a%26b+c"},
		{"mixed slice", Params{{"tag", []any{"x", nil, "", 3}}}, "?tag=x&tag=3"},
		{"stringer", Params{{"wait", 2 * time.Second}}, "?wait=2s"},
		{"drops in between", Params{{"a", "1"}, {"b", nil}, {"c", "3"}}, "?a=1&c=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToQueryString(tt.params); got != tt.want {
				t.Errorf("ToQueryString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToQueryStringRoundTrip(t *testing.T) {
	params := Params{
		{"page", 2},
		{"status", []string{"DRAFT", "PUBLISHED"}},
		{"archived", false},
		{"search", "tech conf"},
		{"skip", nil},
		{"empty", ""},
	}
	encoded := ToQueryString(params)
	if !strings.HasPrefix(encoded, "?") {
		t.Fatalf("ToQueryString() = %q, want '?' prefix", encoded)
	}
	parsed, err := url.ParseQuery(strings.TrimPrefix(encoded, "?"))
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	want := url.Values{
		"page":     {"2"},
		"status":   {"DRAFT", "PUBLISHED"},
		"archived": {"false"},
		"search":   {"tech conf"},
	}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("round trip = %v, want %v", parsed, want)
	}
}

func TestSet(t *testing.T) {
	params := Params{}.Set("a", 1).Set("b", 2).Set("a", 3)
	if got, want := ToQueryString(params), "?a=3&b=2"; got != want {
		t.Errorf("ToQueryString() = %q, want %q", got, want)
	}
}

func TestFromRawQuery(t *testing.T) {
	params := FromRawQuery("status=A&page=2&secret=x&status=B", "page", "status")
	want := Params{
		{"status", []string{"A", "B"}},
		{"page", "2"},
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("FromRawQuery() = %#v, want %#v", params, want)
	}
	if got := ToQueryString(params); got != "?status=A&status=B&page=2" {
		t.Errorf("ToQueryString() = %q", got)
	}
	if got := FromRawQuery(""); len(got) != 0 {
		t.Errorf("FromRawQuery(\"\") = %v, want empty", got)
	}
}
