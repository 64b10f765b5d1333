package filter

import (
	"testing"
)

func TestClassify_AcceptsRealSpeech(t *testing.T) {
	f := New(nil, 0)
	for _, text := range []string{
		"Bonjour, comment ça va?",
		"je voudrais un café",
		"Il fait beau aujourd'hui",
		"ok", // exactly at minimum length
	} {
		if res := f.Classify(text); !res.Accepted {
			t.Errorf("Classify(%q) rejected with %q, want accepted", text, res.Reason)
		}
	}
}

func TestClassify_RejectsTooShort(t *testing.T) {
	f := New(nil, 0)
	for _, text := range []string{"", " ", "a", "  é  "} {
		res := f.Classify(text)
		if res.Accepted {
			t.Errorf("Classify(%q) accepted, want rejection", text)
			continue
		}
		if res.Reason != ReasonTooShort {
			t.Errorf("Classify(%q) reason = %q, want %q", text, res.Reason, ReasonTooShort)
		}
	}
}

func TestClassify_RejectsPunctuationOnly(t *testing.T) {
	f := New(nil, 0)
	for _, text := range []string{"...", "?!", "¿¡ ?!", ", , ,"} {
		res := f.Classify(text)
		if res.Accepted {
			t.Errorf("Classify(%q) accepted, want rejection", text)
			continue
		}
		if res.Reason != ReasonOnlyPunctuation {
			t.Errorf("Classify(%q) reason = %q, want %q", text, res.Reason, ReasonOnlyPunctuation)
		}
	}
}

func TestClassify_RejectsArtifacts(t *testing.T) {
	f := New(nil, 0)
	for _, text := range []string{
		"Sous-titrage par la communauté",
		"thank you for watching",
		"visitez www.example.fr",
		"Merci d'avoir regardé cette vidéo",
		"PLEASE SUBSCRIBE to the channel",
	} {
		res := f.Classify(text)
		if res.Accepted {
			t.Errorf("Classify(%q) accepted, want artifact rejection", text)
			continue
		}
		if res.Reason != ReasonArtifact {
			t.Errorf("Classify(%q) reason = %q, want %q", text, res.Reason, ReasonArtifact)
		}
	}
}

func TestClassify_CustomConfig(t *testing.T) {
	f := New([]string{"boilerplate"}, 5)
	if res := f.Classify("abcd"); res.Accepted || res.Reason != ReasonTooShort {
		t.Fatalf("custom min length not applied: %+v", res)
	}
	if res := f.Classify("some BOILERPLATE text"); res.Accepted || res.Reason != ReasonArtifact {
		t.Fatalf("custom artifact not applied: %+v", res)
	}
	// Default artifacts are replaced, not merged.
	if res := f.Classify("thank you for watching"); !res.Accepted {
		t.Fatalf("default artifacts should not apply with custom list: %+v", res)
	}
}
