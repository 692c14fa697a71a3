package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateSceneID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "crypt", false},
		{"valid with dash", "goblin-cave", false},
		{"valid with underscore", "level_2", false},
		{"valid uuid", "0f8fad5b-d9cb-469f-a165-70867728950e", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"colon", "battlemap:scene", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSceneID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSceneID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScene) {
				t.Errorf("ValidateSceneID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidScene)
			}
		})
	}
}

func TestValidateTokenKey(t *testing.T) {
	if err := ValidateTokenKey("orc-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateTokenKey("")
	if !Is(err, ErrCodeInvalidToken) {
		t.Errorf("empty key code = %v, want %v", GetCode(err), ErrCodeInvalidToken)
	}
}

func TestValidateCellSize(t *testing.T) {
	tests := []struct {
		size    float64
		wantErr bool
	}{
		{50, false},
		{0.5, false},
		{0, true},
		{-10, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		err := ValidateCellSize(tt.size)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCellSize(%g) error = %v, wantErr %v", tt.size, err, tt.wantErr)
		}
	}
}

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate("position", 1, -2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCoordinate("position", math.NaN(), 0); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("NaN accepted: %v", err)
	}
	if err := ValidateCoordinate("position", 0, math.Inf(-1)); err == nil {
		t.Error("-Inf accepted")
	}
}
