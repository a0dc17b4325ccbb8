package api

import (
	"encoding/json"
	"testing"
)

func TestAmountDecoding(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{`1499`, 1499},
		{`"1499.50"`, 1499.5},
		{`" 20 "`, 20},
		{`null`, 0},
		{`""`, 0},
		{`"abc"`, 0},
		{`true`, 0},
	}
	for _, c := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(c.in), &a); err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if a != c.want {
			t.Errorf("%s: got %v, want %v", c.in, a, c.want)
		}
	}
}

func TestTextDecoding(t *testing.T) {
	cases := []struct {
		in   string
		want Text
	}{
		{`"hello"`, "hello"},
		{`560001`, "560001"},
		{`4.5`, "4.5"},
		{`true`, "true"},
		{`null`, ""},
		{`{"a":1}`, ""},
	}
	for _, c := range cases {
		var tx Text
		if err := json.Unmarshal([]byte(c.in), &tx); err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if tx != c.want {
			t.Errorf("%s: got %q, want %q", c.in, tx, c.want)
		}
	}
}

func TestTextOr(t *testing.T) {
	if Text("").Or("N/A") != "N/A" {
		t.Fatal("empty text should fall back")
	}
	if Text("x").Or("N/A") != "x" {
		t.Fatal("non-empty text should be kept")
	}
}

func TestListParamsValues(t *testing.T) {
	q := ListParams{Limit: 10, Offset: 0}.Values()
	if _, ok := q["search"]; ok {
		t.Fatal("empty search must be omitted")
	}
	if q.Get("limit") != "10" || q.Get("offset") != "0" {
		t.Fatalf("values = %v", q)
	}
}
