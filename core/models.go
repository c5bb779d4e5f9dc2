package core

// RawPair is a pair of digit tokens as they appear in an input dump,
// left and right of the "----" delimiter.
type RawPair struct {
	Left  string
	Right string
}

// Mapping is a canonical record ready for storage.
//
// PrimaryKey identifies the entity (an account uid) and is unique in the
// store. AttributeValue (a contact phone number) is not unique: many
// primary keys may share one value.
type Mapping struct {
	PrimaryKey     string
	AttributeValue string
}

// IsZero reports whether m carries no data.
func (m Mapping) IsZero() bool {
	return m.PrimaryKey == "" && m.AttributeValue == ""
}
