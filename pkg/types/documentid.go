package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DocumentID is a Git-style SHA-1 content hash (20 bytes) identifying a
// linted document independently of where it was found.
type DocumentID [20]byte

// ComputeDocumentID computes SHA-1("blob {len}\0{content}"), which equals the
// git blob hash of the same content.
func ComputeDocumentID(content []byte) DocumentID {
	header := fmt.Sprintf("blob %d\x00", len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)

	var id DocumentID
	copy(id[:], h.Sum(nil))
	return id
}

// Hex returns 40-character hex string.
func (id DocumentID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements Stringer (returns Hex()).
func (id DocumentID) String() string {
	return id.Hex()
}

// IsZero reports whether the ID was never computed.
func (id DocumentID) IsZero() bool {
	return id == DocumentID{}
}

// ParseDocumentID parses a 40-char hex string.
func ParseDocumentID(hexStr string) (DocumentID, error) {
	if len(hexStr) != 40 {
		return DocumentID{}, fmt.Errorf("invalid document ID length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return DocumentID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id DocumentID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}
	if hexStr == "" {
		*id = DocumentID{}
		return nil
	}

	parsed, err := ParseDocumentID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// Value implements driver.Valuer for SQL serialization.
func (id DocumentID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner for SQL deserialization.
func (id *DocumentID) Scan(value interface{}) error {
	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	case nil:
		return fmt.Errorf("cannot scan nil into DocumentID")
	default:
		return fmt.Errorf("cannot scan type %T into DocumentID", value)
	}

	parsed, err := ParseDocumentID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
