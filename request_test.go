package depreq

import (
	"net/http"
	"strings"
	"testing"
)

func TestRequestHeaderIsCaseInsensitive(t *testing.T) {
	h := http.Header{}
	h.Set("X-Token", "abc")
	req := NewRequest(http.MethodGet, "/", nil, nil, h, "", nil)

	v, ok := req.Header("x-token")
	if !ok || v != "abc" {
		t.Fatalf("expected case-insensitive header lookup to find abc, got %q ok=%v", v, ok)
	}
}

func TestRequestCookiesParsedLazily(t *testing.T) {
	req := NewRequest(http.MethodGet, "/", nil, nil, http.Header{}, "a=1; b=2", nil)
	if req.cookies != nil {
		t.Fatalf("expected the Cookie header to stay unparsed until first access")
	}

	v, ok := req.Cookie("b")
	if !ok || v != "2" {
		t.Fatalf("expected cookie b=2, got %q ok=%v", v, ok)
	}
}

func TestBodyBytesCachedAcrossCalls(t *testing.T) {
	req := NewRequest(http.MethodPost, "/", nil, nil, http.Header{}, "", strings.NewReader("hello"))

	first, err := req.BodyBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := req.BodyBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first) != "hello" || string(second) != "hello" {
		t.Fatalf("expected cached body to read the same content twice, got %q then %q", first, second)
	}
}

func TestCoerceStringListAbortsOnFirstFailure(t *testing.T) {
	_, err := coerceStringList[int]([]string{"1", "x", "3"})
	if err == nil || !strings.Contains(err.Error(), "element 1") {
		t.Fatalf("expected failure to name element 1, got %v", err)
	}
}

func TestParseBoolAcceptsYesNo(t *testing.T) {
	cases := map[string]bool{"yes": true, "NO": false, "1": true, "0": false, "true": true, "False": false}
	for raw, want := range cases {
		got, err := parseBool(raw)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parseBool(%q) = %v, want %v", raw, got, want)
		}
	}
}
