// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"12 bytes", 12, 24},
		{"16 bytes", 16, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name    string
		cycleID string
		salt    string
	}{
		{"standard", "cycle123", "secret-salt"},
		{"empty cycle id", "", "salt"},
		{"empty salt", "cycle456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.cycleID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			if key2 := GenerateAdminKey(tt.cycleID, tt.salt); key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.cycleID != "" && tt.salt != "" {
				if GenerateAdminKey(tt.cycleID+"x", tt.salt) == key {
					t.Error("GenerateAdminKey() produced same key for different cycle IDs")
				}
			}

			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	cycleID := "test-cycle-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(cycleID, salt)

	tests := []struct {
		name     string
		cycleID  string
		adminKey string
		salt     string
		wantErr  bool
	}{
		{"valid key", cycleID, validKey, salt, false},
		{"wrong key", cycleID, "wrong-key", salt, true},
		{"wrong cycle id", "different-cycle", validKey, salt, true},
		{"wrong salt", cycleID, validKey, "different-salt", true},
		{"empty key", cycleID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.cycleID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestGenerateVoterToken(t *testing.T) {
	token, err := GenerateVoterToken()
	if err != nil {
		t.Fatalf("GenerateVoterToken() error = %v", err)
	}

	if strings.Contains(token, "=") {
		t.Error("GenerateVoterToken() contains padding characters")
	}

	// 24 bytes encoded
	if len(token) < 30 {
		t.Errorf("GenerateVoterToken() too short: %d chars", len(token))
	}

	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateVoterToken()
		if err != nil {
			t.Fatalf("GenerateVoterToken() error on iteration %d: %v", i, err)
		}
		if tokens[token] {
			t.Errorf("GenerateVoterToken() produced duplicate token: %s", token)
		}
		tokens[token] = true
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	cycleID := "test-cycle-123"
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(cycleID, salt)
	}
}

func BenchmarkGenerateVoterToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateVoterToken()
	}
}
