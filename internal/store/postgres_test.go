package store

import (
	"errors"
	"testing"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

func TestValidateRoundsTotal(t *testing.T) {
	tests := []struct {
		rounds  int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{46, false},
		{200, false},
		{201, true},
		{-5, true},
	}

	for _, tt := range tests {
		err := ValidateRoundsTotal(tt.rounds)
		if tt.wantErr && !errors.Is(err, ErrRoundsOutOfRange) {
			t.Errorf("ValidateRoundsTotal(%d) = %v, want ErrRoundsOutOfRange", tt.rounds, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ValidateRoundsTotal(%d) = %v, want nil", tt.rounds, err)
		}
	}
}

func TestNotifyPayloadRoundTrip(t *testing.T) {
	for _, source := range models.Sources {
		payload := NotifyPayload("ROOM1", source)
		room, got, ok := ParseNotifyPayload(payload)
		if !ok || room != "ROOM1" || got != source {
			t.Errorf("round trip of %q failed: (%q, %q, %v)", payload, room, got, ok)
		}
	}
}

func TestParseNotifyPayloadColonInRoomID(t *testing.T) {
	room, source, ok := ParseNotifyPayload("club:2026:players")
	if !ok || room != "club:2026" || source != models.SourcePlayers {
		t.Errorf("ParseNotifyPayload = (%q, %q, %v)", room, source, ok)
	}
}

func TestParseNotifyPayloadMalformed(t *testing.T) {
	for _, payload := range []string{"", "noseparator", ":players", "ROOM1:"} {
		if _, _, ok := ParseNotifyPayload(payload); ok {
			t.Errorf("ParseNotifyPayload(%q) accepted, want rejected", payload)
		}
	}
}
