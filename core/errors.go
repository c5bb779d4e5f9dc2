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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMapping indicates a Mapping failed validation.
	ErrInvalidMapping = errors.New("invalid mapping")

	// ErrEmptyPrimaryKey indicates the PrimaryKey field is empty.
	ErrEmptyPrimaryKey = errors.New("primary key cannot be empty")

	// ErrEmptyAttributeValue indicates the AttributeValue field is empty.
	ErrEmptyAttributeValue = errors.New("attribute value cannot be empty")

	// ErrNotDigits indicates a field contains something other than ASCII digits.
	ErrNotDigits = errors.New("value must contain only decimal digits")
)
