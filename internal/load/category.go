package load

import (
	"fmt"
	"log/slog"

	"github.com/arxi-lab/salescope/internal/store"
	"github.com/arxi-lab/salescope/internal/stream"
)

type categoryLoader struct{}

func (categoryLoader) stage() Stage     { return StageCategories }
func (categoryLoader) filename() string { return "categories.json" }

func (categoryLoader) load(st *store.Store, path string) error {
	if err := stream.EachRecord(path, func(rec stream.Record) error {
		return processCategory(rec, st)
	}); err != nil {
		return err
	}
	slog.Info("Loaded categories", "count", st.NumCategories())
	return nil
}

func processCategory(rec stream.Record, st *store.Store) error {
	id, ok := scalarID(rec["id"])
	if !ok {
		return fmt.Errorf("category record has no id: %v", rec["id"])
	}
	rawName, ok := rec["name"]
	if !ok {
		return fmt.Errorf("category %d has no name", id)
	}
	// A present but non-string name loads as empty; the projections fall
	// back to the unknown-name sentinel for it.
	name, _ := rawName.(string)

	// parent_id == true is the export's sentinel for a root category. Every
	// other value, including a real [id, name] parent pair, leaves the
	// parent absent.
	parent := ""
	if flag, isBool := rec["parent_id"].(bool); isBool && flag {
		parent = store.NoParent
	}

	st.AddCategory(store.Category{ID: id, Name: name, Parent: parent})
	return nil
}

// scalarID reads a bare numeric id field (the primary key of master data
// records, as opposed to the [id, name] pair shape ExtractID handles).
func scalarID(v any) (store.ID, bool) {
	id, ok := asID(v)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
