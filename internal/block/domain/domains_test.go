package domain

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "adds www sibling",
			in:   []string{"reddit.com"},
			want: []string{"reddit.com", "www.reddit.com"},
		},
		{
			name: "www input gets no double prefix",
			in:   []string{"www.reddit.com"},
			want: []string{"www.reddit.com"},
		},
		{
			name: "trims lowercases and drops empties",
			in:   []string{"  Reddit.COM ", "", "   "},
			want: []string{"reddit.com", "www.reddit.com"},
		},
		{
			name: "dedupes overlapping inputs",
			in:   []string{"reddit.com", "www.reddit.com", "REDDIT.com"},
			want: []string{"reddit.com", "www.reddit.com"},
		},
		{
			name: "empty input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expand(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestExpandIdempotent(t *testing.T) {
	in := []string{"reddit.com", "news.ycombinator.com", "www.twitter.com"}
	once := Expand(in)
	twice := Expand(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expand not idempotent: first %v, second %v", once, twice)
	}
}

func TestExpandOrderIndependent(t *testing.T) {
	a := Expand([]string{"b.com", "a.com", "c.com"})
	b := Expand([]string{"c.com", "a.com", "b.com"})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expand depends on input order: %v vs %v", a, b)
	}
}

func TestExpandContainsAllInputs(t *testing.T) {
	in := []string{"reddit.com", "twitter.com", "www.youtube.com"}
	out := Expand(in)
	members := make(map[string]bool, len(out))
	for _, d := range out {
		members[d] = true
	}
	for _, d := range in {
		if !members[d] {
			t.Errorf("input domain %q missing from expanded set %v", d, out)
		}
	}
}
