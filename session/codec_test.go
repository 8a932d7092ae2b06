package session

import (
	"strings"
	"testing"
)

func TestCodecSignVerifyRoundTrip(t *testing.T) {
	c := NewCodec("test-secret")

	for _, value := range []string{"bob", "42", "", "name_with-punct.1", "two words"} {
		token := c.Sign(value)
		if !c.Verify(token) {
			t.Errorf("Verify(Sign(%q)) = false, want true", value)
		}
		if got := Value(token); got != value {
			t.Errorf("Value(Sign(%q)) = %q, want %q", value, got, value)
		}
	}
}

func TestCodecSignDeterministic(t *testing.T) {
	c := NewCodec("test-secret")
	if c.Sign("bob") != c.Sign("bob") {
		t.Error("Sign is not deterministic for the same value and secret")
	}
}

func TestCodecVerifyTamperedValue(t *testing.T) {
	c := NewCodec("test-secret")
	token := c.Sign("bob")

	tampered := "eve" + token[strings.Index(token, Delimiter):]
	if c.Verify(tampered) {
		t.Error("Verify accepted a token with a mutated value")
	}
}

func TestCodecVerifyTamperedSignature(t *testing.T) {
	c := NewCodec("test-secret")
	token := c.Sign("bob")

	idx := strings.Index(token, Delimiter)
	sig := token[idx+1:]
	var flipped byte = 'a'
	if sig[0] == 'a' {
		flipped = 'b'
	}
	tampered := token[:idx+1] + string(flipped) + sig[1:]
	if c.Verify(tampered) {
		t.Error("Verify accepted a token with a mutated signature")
	}
}

func TestCodecVerifyMalformed(t *testing.T) {
	c := NewCodec("test-secret")

	for _, token := range []string{"", "bob", "no-delimiter-here", "|", "bob|", "|abcdef"} {
		if c.Verify(token) {
			t.Errorf("Verify(%q) = true, want false", token)
		}
	}
}

func TestCodecVerifyWrongSecret(t *testing.T) {
	a := NewCodec("secret-a")
	b := NewCodec("secret-b")
	if b.Verify(a.Sign("bob")) {
		t.Error("Verify accepted a token signed with a different secret")
	}
}

func TestValueWithoutDelimiter(t *testing.T) {
	if got := Value("plain"); got != "plain" {
		t.Errorf("Value(plain) = %q, want plain", got)
	}
}
