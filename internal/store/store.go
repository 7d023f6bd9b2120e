// Package store holds the in-memory aggregation state built during a load
// run: the reference tables (categories, products, contacts) and the derived
// sales indexes the query layer reads. A Store is mutated by exactly one
// loader goroutine until the orchestrator publishes it; after that it is
// read-only and safe for concurrent readers.
package store

import "github.com/shopspring/decimal"

// ID identifies a category, product, or contact record.
type ID = int64

// Category is one entry from categories.json.
// Parent carries the "No Parent" sentinel when the raw parent_id field was
// the boolean true; it is empty for every other raw value, including real
// parent references. That asymmetry mirrors the upstream export convention.
type Category struct {
	ID     ID
	Name   string
	Parent string
}

// NoParent is recorded as a category's parent when the upstream export
// marks the category as a root with a literal boolean true.
const NoParent = "No Parent"

// CategoryRef is a product's resolved category. ID 0 means the source pair
// carried no usable id; the name may still be present.
type CategoryRef struct {
	ID   ID
	Name string
}

// Product is one entry from products.json.
type Product struct {
	ID       ID
	Name     string
	Category CategoryRef
	HasRef   bool
}

// CountryRef is a contact's resolved country.
type CountryRef struct {
	Code string
	Name string
}

// Contact is one entry from contacts.json.
type Contact struct {
	ID      ID
	Name    string
	Country CountryRef
	HasRef  bool
}

// Store is the shared aggregation state. All maps are keyed write-once per
// load run and additive-only; insertion order is tracked wherever the query
// layer depends on first-seen semantics.
type Store struct {
	categories map[ID]Category
	products   map[ID]Product
	contacts   map[ID]Contact

	productCategory map[ID]CategoryRef
	contactCountry  map[ID]CountryRef
	countryCodes    map[string]string

	categorySales        *QuantityIndex
	categoryProductSales map[ID]*QuantityIndex
	categoryOrder        []ID
	countryProductSales  map[string]*QuantityIndex
	countryOrder         []string
	clientProducts       map[ID]map[ID]struct{}
	clientOrder          []ID
}

// New returns an empty Store ready for a load run.
func New() *Store {
	return &Store{
		categories:           make(map[ID]Category),
		products:             make(map[ID]Product),
		contacts:             make(map[ID]Contact),
		productCategory:      make(map[ID]CategoryRef),
		contactCountry:       make(map[ID]CountryRef),
		countryCodes:         make(map[string]string),
		categorySales:        NewQuantityIndex(),
		categoryProductSales: make(map[ID]*QuantityIndex),
		countryProductSales:  make(map[string]*QuantityIndex),
		clientProducts:       make(map[ID]map[ID]struct{}),
	}
}

// AddCategory records a category and its index entry.
func (s *Store) AddCategory(c Category) {
	s.categories[c.ID] = c
}

// AddProduct records a product and, when the source carried a category pair,
// the product→category resolution index entry.
func (s *Store) AddProduct(p Product) {
	s.products[p.ID] = p
	if p.HasRef {
		s.productCategory[p.ID] = p.Category
	}
}

// AddContact records a contact and its country resolution entry.
// It returns the previously registered code for the contact's country name
// and false when that code conflicts with the incoming one; the first-seen
// code always stays in place.
func (s *Store) AddContact(c Contact) (existing string, ok bool) {
	s.contacts[c.ID] = c
	if !c.HasRef {
		return "", true
	}
	s.contactCountry[c.ID] = c.Country
	if code, seen := s.countryCodes[c.Country.Name]; seen {
		if code != c.Country.Code {
			return code, false
		}
		return code, true
	}
	s.countryCodes[c.Country.Name] = c.Country.Code
	return c.Country.Code, true
}

// AddCategorySale folds a sale quantity into the per-category totals.
func (s *Store) AddCategorySale(categoryID, productID ID, qty decimal.Decimal) {
	s.categorySales.Add(categoryID, qty)
	idx, ok := s.categoryProductSales[categoryID]
	if !ok {
		idx = NewQuantityIndex()
		s.categoryProductSales[categoryID] = idx
		s.categoryOrder = append(s.categoryOrder, categoryID)
	}
	idx.Add(productID, qty)
}

// AddCountrySale folds a sale quantity into the per-country totals.
func (s *Store) AddCountrySale(country string, productID ID, qty decimal.Decimal) {
	idx, ok := s.countryProductSales[country]
	if !ok {
		idx = NewQuantityIndex()
		s.countryProductSales[country] = idx
		s.countryOrder = append(s.countryOrder, country)
	}
	idx.Add(productID, qty)
}

// AddClientProduct records that a client purchased a product. Set semantics:
// repeat purchases do not grow the distinct-product count.
func (s *Store) AddClientProduct(clientID, productID ID) {
	set, ok := s.clientProducts[clientID]
	if !ok {
		set = make(map[ID]struct{})
		s.clientProducts[clientID] = set
		s.clientOrder = append(s.clientOrder, clientID)
	}
	set[productID] = struct{}{}
}

// ProductCategory resolves a product to its category reference.
func (s *Store) ProductCategory(productID ID) (CategoryRef, bool) {
	ref, ok := s.productCategory[productID]
	return ref, ok
}

// ContactCountry resolves a contact to its country reference.
func (s *Store) ContactCountry(contactID ID) (CountryRef, bool) {
	ref, ok := s.contactCountry[contactID]
	return ref, ok
}

// CountryCode returns the first-seen code registered for a country name.
func (s *Store) CountryCode(name string) (string, bool) {
	code, ok := s.countryCodes[name]
	return code, ok
}

// Category returns the stored category record.
func (s *Store) Category(id ID) (Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// Product returns the stored product record.
func (s *Store) Product(id ID) (Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Contact returns the stored contact record.
func (s *Store) Contact(id ID) (Contact, bool) {
	c, ok := s.contacts[id]
	return c, ok
}

// CategoryTotal returns the accumulated quantity for a category.
func (s *Store) CategoryTotal(id ID) decimal.Decimal {
	total, _ := s.categorySales.Get(id)
	return total
}

// AggregatedCategories lists category ids in first-aggregated order.
func (s *Store) AggregatedCategories() []ID {
	return s.categoryOrder
}

// CategoryProducts returns the per-product totals for a category.
func (s *Store) CategoryProducts(id ID) (*QuantityIndex, bool) {
	idx, ok := s.categoryProductSales[id]
	return idx, ok
}

// AggregatedCountries lists country names in first-aggregated order.
func (s *Store) AggregatedCountries() []string {
	return s.countryOrder
}

// CountryProducts returns the per-product totals for a country.
func (s *Store) CountryProducts(name string) (*QuantityIndex, bool) {
	idx, ok := s.countryProductSales[name]
	return idx, ok
}

// Clients lists client ids in first-purchase order.
func (s *Store) Clients() []ID {
	return s.clientOrder
}

// ClientProductCount returns the number of distinct products a client bought.
func (s *Store) ClientProductCount(id ID) int {
	return len(s.clientProducts[id])
}

// HasClientData reports whether any client→products aggregate exists.
func (s *Store) HasClientData() bool {
	return len(s.clientProducts) > 0
}

// Counts used for the post-load summary log.
func (s *Store) NumCategories() int { return len(s.categories) }
func (s *Store) NumProducts() int   { return len(s.products) }
func (s *Store) NumContacts() int   { return len(s.contacts) }

// NumCountrySalesCells counts the (country, product) aggregate cells.
func (s *Store) NumCountrySalesCells() int {
	n := 0
	for _, idx := range s.countryProductSales {
		n += idx.Len()
	}
	return n
}
