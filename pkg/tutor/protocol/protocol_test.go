package protocol

import (
	"strings"
	"testing"
)

func TestDecodeClientMessage_StartSession(t *testing.T) {
	raw := []byte(`{"type":"start_session","profile":{"name":"Ana","age":8}}`)
	decoded, err := DecodeClientMessage(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, ok := decoded.(StartSession)
	if !ok {
		t.Fatalf("decoded %T, want StartSession", decoded)
	}
	if msg.Profile.Name != "Ana" || msg.Profile.Age != 8 {
		t.Fatalf("profile = %+v", msg.Profile)
	}
}

func TestDecodeClientMessage_StartSessionValidation(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"missing name", `{"type":"start_session","profile":{"age":8}}`, "profile.name"},
		{"zero age", `{"type":"start_session","profile":{"name":"Ana"}}`, "profile.age"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeClientMessage([]byte(tc.raw))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestDecodeClientMessage_AudioChunk(t *testing.T) {
	decoded, err := DecodeClientMessage([]byte(`{"type":"audio_chunk","audio":"AAAA"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg := decoded.(AudioChunk)
	if msg.Audio != "AAAA" {
		t.Fatalf("audio = %q", msg.Audio)
	}

	if _, err := DecodeClientMessage([]byte(`{"type":"audio_chunk"}`)); err == nil {
		t.Fatalf("empty audio should be rejected")
	}
}

func TestDecodeClientMessage_TextMessage(t *testing.T) {
	decoded, err := DecodeClientMessage([]byte(`{"type":"text_message","text":"Bonjour"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.(TextMessage).Text != "Bonjour" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestDecodeClientMessage_EndSession(t *testing.T) {
	decoded, err := DecodeClientMessage([]byte(`{"type":"end_session"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.(EndSession); !ok {
		t.Fatalf("decoded %T, want EndSession", decoded)
	}
}

func TestDecodeClientMessage_Malformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{}`,
		`{"type":"unknown_thing"}`,
		`{"type":"generate_welcome_audio","text":"  "}`,
	} {
		if _, err := DecodeClientMessage([]byte(raw)); err == nil {
			t.Fatalf("frame %q should be rejected", raw)
		}
	}
}
