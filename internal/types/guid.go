package types

import (
	"github.com/google/uuid"
)

// GUID is a 16-byte Microsoft-form globally unique identifier as stored on
// disk. The bytes are preserved verbatim (mixed-endian Microsoft layout);
// conversion to/from google/uuid.UUID is only for display and equality
// checks against parsed catalog entries, never for reinterpreting the wire
// bytes.
type GUID [16]byte

// String renders the GUID in canonical
// XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX form, printing the 16 stored bytes
// in order; the first three groups are not byte-swapped into Microsoft's
// display order.
func (g GUID) String() string {
	return uuid.UUID(g).String()
}

// IsZero reports whether every byte of the GUID is zero.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// ParseGUID parses a canonical GUID string into a GUID value.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, err
	}
	return GUID(u), nil
}
