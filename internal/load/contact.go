package load

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/arxi-lab/salescope/internal/store"
	"github.com/arxi-lab/salescope/internal/stream"
)

type contactLoader struct{}

func (contactLoader) stage() Stage     { return StageContacts }
func (contactLoader) filename() string { return "contacts.json" }

func (contactLoader) load(st *store.Store, path string) error {
	if err := stream.EachRecord(path, func(rec stream.Record) error {
		return processContact(rec, st)
	}); err != nil {
		return err
	}
	slog.Info("Loaded contacts", "count", st.NumContacts())
	return nil
}

func processContact(rec stream.Record, st *store.Store) error {
	id, ok := scalarID(rec["id"])
	if !ok {
		return fmt.Errorf("contact record has no id: %v", rec["id"])
	}
	name, _ := rec["name"].(string)

	c := store.Contact{ID: id, Name: name}

	// country_id must be a pair of at least [code, name] to resolve.
	if pair, isList := rec["country_id"].([]any); isList && len(pair) > 1 {
		refName, nameOK := pair[1].(string)
		if nameOK {
			c.HasRef = true
			c.Country = store.CountryRef{Code: asCode(pair[0]), Name: refName}
		}
	}

	existing, ok := st.AddContact(c)
	if !ok {
		slog.Warn("Country code conflict",
			"country", c.Country.Name,
			"existing", existing,
			"new", c.Country.Code)
	}
	return nil
}

// asCode renders a country code field as a string. Exports are inconsistent
// here: some carry ISO strings, some carry the numeric country record id.
func asCode(v any) string {
	switch code := v.(type) {
	case string:
		return code
	case float64:
		return strconv.FormatFloat(code, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(code, 10)
	case int:
		return strconv.Itoa(code)
	}
	return ""
}
