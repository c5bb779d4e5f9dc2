package core

import (
	"errors"
	"testing"
)

func TestValidateMapping(t *testing.T) {
	tests := []struct {
		name    string
		mapping Mapping
		wantErr error
	}{
		{
			name:    "valid mapping",
			mapping: Mapping{PrimaryKey: "9001", AttributeValue: "5551234"},
			wantErr: nil,
		},
		{
			name:    "leading zeros are kept as digits",
			mapping: Mapping{PrimaryKey: "0007", AttributeValue: "0138"},
			wantErr: nil,
		},
		{
			name:    "empty primary key",
			mapping: Mapping{PrimaryKey: "", AttributeValue: "5551234"},
			wantErr: ErrEmptyPrimaryKey,
		},
		{
			name:    "empty attribute value",
			mapping: Mapping{PrimaryKey: "9001", AttributeValue: ""},
			wantErr: ErrEmptyAttributeValue,
		},
		{
			name:    "primary key with letters",
			mapping: Mapping{PrimaryKey: "90a1", AttributeValue: "5551234"},
			wantErr: ErrNotDigits,
		},
		{
			name:    "attribute value with plus sign",
			mapping: Mapping{PrimaryKey: "9001", AttributeValue: "+5551234"},
			wantErr: ErrNotDigits,
		},
		{
			name:    "non-ascii digits",
			mapping: Mapping{PrimaryKey: "９００１", AttributeValue: "5551234"},
			wantErr: ErrNotDigits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapping(tt.mapping)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMapping() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateMapping() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMapping() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidMapping) {
				t.Errorf("ValidateMapping() error = %v, want wrapped %v", err, ErrInvalidMapping)
			}
		})
	}
}

func TestValidateMappings(t *testing.T) {
	records := []Mapping{
		{PrimaryKey: "1", AttributeValue: "2"},
		{PrimaryKey: "3", AttributeValue: ""},
	}
	err := ValidateMappings(records)
	if !errors.Is(err, ErrEmptyAttributeValue) {
		t.Fatalf("ValidateMappings() error = %v, want %v", err, ErrEmptyAttributeValue)
	}

	if err := ValidateMappings(nil); err != nil {
		t.Fatalf("ValidateMappings(nil) error = %v, want nil", err)
	}
}

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{
		"":        false,
		"0":       true,
		"1234567": true,
		"12-34":   false,
		" 12":     false,
	}
	for in, want := range cases {
		if got := IsDigits(in); got != want {
			t.Errorf("IsDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
