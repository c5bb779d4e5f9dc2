// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateMapping validates a Mapping according to domain rules.
//
// Validation rules:
//   - PrimaryKey must not be empty and must be all ASCII digits
//   - AttributeValue must not be empty and must be all ASCII digits
func ValidateMapping(m Mapping) error {
	if m.PrimaryKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, ErrEmptyPrimaryKey)
	}
	if !IsDigits(m.PrimaryKey) {
		return fmt.Errorf("%w: primary key %q: %w", ErrInvalidMapping, m.PrimaryKey, ErrNotDigits)
	}
	if m.AttributeValue == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, ErrEmptyAttributeValue)
	}
	if !IsDigits(m.AttributeValue) {
		return fmt.Errorf("%w: attribute value %q: %w", ErrInvalidMapping, m.AttributeValue, ErrNotDigits)
	}
	return nil
}

// ValidateMappings validates every mapping and returns the first failure,
// annotated with its position.
func ValidateMappings(records []Mapping) error {
	for i, m := range records {
		if err := ValidateMapping(m); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// IsDigits reports whether s is non-empty and made only of '0'..'9'.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
