package attrmatch

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Email Address": "email_address",
		"productName":   "productname",
		"  user_id  ":   "user_id",
		"cost_per_unit": "cost_per_unit",
		"":              "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Email Address", "productName", "__weird--name__", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestIsIDAttribute(t *testing.T) {
	cases := map[string]bool{
		"id":         true,
		"user_id":    true,
		"productId":  false,
		"identifier": true,
		"pk":         true,
		"key":        true,
		"id_number":  true,
		"name":       false,
		"price":      false,
	}
	for attr, want := range cases {
		if got := IsIDAttribute(attr); got != want {
			t.Errorf("IsIDAttribute(%q) = %v, want %v", attr, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("productName")
	want := map[string]struct{}{"product": {}, "name": {}}
	if len(got) != len(want) {
		t.Fatalf("Tokenize(productName) = %v, want %v", got, want)
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("Tokenize(productName) missing token %q", k)
		}
	}
}
