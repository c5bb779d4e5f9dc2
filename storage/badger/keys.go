package badger

// Key prefixes for different data types
const (
	mappingPrefix        = "umap:"
	attributeIndexPrefix = "uidx:"
	schemaKey            = "uschema"
	schemaVersion        = "1"
)

// Separates attribute value from primary key in index keys. Both sides are
// digits, so the separator never occurs inside either and the scan prefix
// for "55" cannot match entries for "555".
const indexSeparator = 0x00

// makeMappingKey generates the primary key for a mapping.
// Format: prefix + primaryKey
func makeMappingKey(primaryKey string) []byte {
	buf := make([]byte, 0, len(mappingPrefix)+len(primaryKey))
	buf = append(buf, mappingPrefix...)
	return append(buf, primaryKey...)
}

// makeAttributeIndexKey generates a composite key for the attribute index.
// Format: prefix + value + 0x00 + primaryKey
func makeAttributeIndexKey(value, primaryKey string) []byte {
	buf := makePartialAttributeIndexKey(value)
	return append(buf, primaryKey...)
}

// makePartialAttributeIndexKey generates the scan prefix for one attribute value.
// Format: prefix + value + 0x00
func makePartialAttributeIndexKey(value string) []byte {
	buf := make([]byte, 0, len(attributeIndexPrefix)+len(value)+1+16)
	buf = append(buf, attributeIndexPrefix...)
	buf = append(buf, value...)
	return append(buf, indexSeparator)
}

// primaryKeyFromIndexKey extracts the primary key from an index key built by
// makeAttributeIndexKey for the given prefix.
func primaryKeyFromIndexKey(key, partial []byte) string {
	return string(key[len(partial):])
}
