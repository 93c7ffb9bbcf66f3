package errors

import (
	"math"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid json", "Pale_Ale.json", false},
		{"valid with dash", "my-ipa.json", false},
		{"valid unicode", "Kölsch.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "..", true},
		{"embedded traversal", "a..json", true},
		{"slash", "dir/file.json", true},
		{"backslash", "dir\\file.json", true},
		{"null byte", "foo\x00.json", true},
		{"hidden file", ".secret.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFilename) {
				t.Errorf("ValidateFilename(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFilename)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"absolute", "/home/brewer/recipes", false},
		{"relative", "recipes", false},
		{"resolves inside", "/a/../b", false},

		{"empty", "", true},
		{"leading traversal", "../etc", true},
		{"escaping traversal", "a/../../b", true},
		{"control char", "rec\x01ipes", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"http://localhost:5000", false},
		{"https://brew.example.com", false},
		{"", true},
		{"ftp://example.com", true},
		{"localhost:5000", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 5.5, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateQuantity("amount", tt.v); (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuantity(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
		})
	}
}
