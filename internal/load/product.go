package load

import (
	"fmt"
	"log/slog"

	"github.com/arxi-lab/salescope/internal/store"
	"github.com/arxi-lab/salescope/internal/stream"
)

// unnamedCategory fills in when a categ_id pair carries an id but no name.
const unnamedCategory = "Unnamed Category"

type productLoader struct{}

func (productLoader) stage() Stage     { return StageProducts }
func (productLoader) filename() string { return "products.json" }

func (productLoader) load(st *store.Store, path string) error {
	if err := stream.EachRecord(path, func(rec stream.Record) error {
		return processProduct(rec, st)
	}); err != nil {
		return err
	}
	slog.Info("Loaded products", "count", st.NumProducts())
	return nil
}

func processProduct(rec stream.Record, st *store.Store) error {
	id, ok := scalarID(rec["id"])
	if !ok {
		return fmt.Errorf("product record has no id: %v", rec["id"])
	}
	name, _ := rec["name"].(string)

	p := store.Product{ID: id, Name: name}

	// A category reference is derived only from the list shape. The entry is
	// recorded even for an empty list: the ref then has no id and the sales
	// stage will not resolve a category through it.
	if pair, isList := rec["categ_id"].([]any); isList {
		p.HasRef = true
		p.Category.Name = unnamedCategory
		if len(pair) > 0 {
			if refID, ok := asID(pair[0]); ok {
				p.Category.ID = refID
			}
		}
		if len(pair) > 1 {
			if refName, ok := pair[1].(string); ok {
				p.Category.Name = refName
			}
		}
	}

	st.AddProduct(p)
	return nil
}
