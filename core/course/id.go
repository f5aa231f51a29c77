package course

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TempIDPrefix marks ids generated client-side for entities that were never saved.
// Server ids never start with it.
const TempIDPrefix = "tmp-"

// ID identifies a module, lesson or quiz question.
// The backend may encode ids as JSON numbers or strings; both decode to an ID.
type ID string

func NewTempID() ID {
	return ID(TempIDPrefix + uuid.NewString())
}

// IsTemp reports whether id was issued client-side (not yet saved).
func (id ID) IsTemp() bool {
	return strings.HasPrefix(string(id), TempIDPrefix)
}

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "decoding id")
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "decoding id")
	}
	*id = ID(n.String())
	return nil
}
