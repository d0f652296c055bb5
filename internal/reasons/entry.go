package reasons

import "github.com/JakeFAU/notfound-service/internal/hash/sha256"

// DefaultCategory is shown for entries that carry no category.
const DefaultCategory = "modern"

// Entry is one humorous explanation for a missing page.
type Entry struct {
	Message  string `json:"message" yaml:"message"`
	Reason   string `json:"reason" yaml:"reason"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// DisplayCategory returns the category used when rendering the entry.
// Uncategorized entries display as DefaultCategory but still do not match a category filter.
func (e Entry) DisplayCategory() string {
	if e.Category == "" {
		return DefaultCategory
	}
	return e.Category
}

// Placeholder is served when the catalog source does not exist.
var Placeholder = Entry{
	Message:  "The page you're looking for is on vacation",
	Reason:   "It left no forwarding address. Rude, right?",
	Category: "missing",
}

// Catalog is an ordered, read-only collection of entries.
type Catalog struct {
	entries     []Entry
	placeholder bool
	fingerprint string
}

// NewCatalog copies entries into a new Catalog.
func NewCatalog(entries []Entry) Catalog {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return Catalog{entries: cp, fingerprint: fingerprint(cp)}
}

// PlaceholderCatalog returns the one-entry catalog used when the source is missing.
func PlaceholderCatalog() Catalog {
	c := NewCatalog([]Entry{Placeholder})
	c.placeholder = true
	return c
}

// Len reports the number of entries.
func (c Catalog) Len() int {
	return len(c.entries)
}

// At returns the entry at index i.
func (c Catalog) At(i int) Entry {
	return c.entries[i]
}

// Entries returns a copy of every entry in catalog order.
func (c Catalog) Entries() []Entry {
	cp := make([]Entry, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// IsPlaceholder reports whether the catalog is the missing-source fallback.
func (c Catalog) IsPlaceholder() bool {
	return c.placeholder
}

// Fingerprint is a stable hex digest of the catalog contents, suitable for an ETag.
func (c Catalog) Fingerprint() string {
	return c.fingerprint
}

var hasher = sha256.New()

func fingerprint(entries []Entry) string {
	digest, err := hasher.HashJSON(entries)
	if err != nil {
		return ""
	}
	return digest
}
