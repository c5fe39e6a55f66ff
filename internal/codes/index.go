package codes

// Kind classifies a catalog code record into its hierarchy level.
type Kind string

const (
	KindGroup    Kind = "GROUP"
	KindGeneral  Kind = "GENERAL"
	KindSpecific Kind = "SPECIFIC"
)

// CodeRecord is an immutable catalog entry for one hierarchy level.
type CodeRecord struct {
	ID    int64
	Code  string
	Title string
	Kind  Kind
}

// DetailRecord is a leaf-level tag attachable to a ledger item. Details sit
// outside the Group/General/Specific hierarchy; the link to a Specific is
// observed only through ledger rows.
type DetailRecord struct {
	ID    int64
	Code  string
	Title string
}

// Index holds title lookups per level and parent-to-children code lists,
// derived once per catalog load.
type Index struct {
	widths Widths

	groupTitles    map[string]string
	generalTitles  map[string]string
	specificTitles map[string]string

	groups           []string
	groupGenerals    map[string][]string
	generalSpecifics map[string][]string
}

// NewIndex returns an empty index. Used when the catalog cannot be loaded;
// a report built against it is empty rather than failing.
func NewIndex(w Widths) *Index {
	return &Index{
		widths:           w,
		groupTitles:      map[string]string{},
		generalTitles:    map[string]string{},
		specificTitles:   map[string]string{},
		groupGenerals:    map[string][]string{},
		generalSpecifics: map[string][]string{},
	}
}

// BuildIndex derives an Index from the full code catalog. Duplicate
// normalized codes at the same level overwrite earlier entries: last write
// wins. That is an explicit policy here, the source catalog is expected to
// be de-duplicated upstream.
func BuildIndex(w Widths, records []CodeRecord) *Index {
	idx := NewIndex(w)
	generalSeen := map[string]bool{}
	specificSeen := map[string]bool{}

	for _, rec := range records {
		switch rec.Kind {
		case KindGroup:
			code := Normalize(rec.Code, w.Group)
			if code == "" {
				continue
			}
			if _, ok := idx.groupTitles[code]; !ok {
				idx.groups = append(idx.groups, code)
			}
			idx.groupTitles[code] = rec.Title
		case KindGeneral:
			code := Normalize(rec.Code, w.General)
			if code == "" {
				continue
			}
			idx.generalTitles[code] = rec.Title
			if !generalSeen[code] {
				generalSeen[code] = true
				parent := Normalize(code, w.Group)
				idx.groupGenerals[parent] = append(idx.groupGenerals[parent], code)
			}
		case KindSpecific:
			code := Normalize(rec.Code, w.Specific)
			if code == "" {
				continue
			}
			idx.specificTitles[code] = rec.Title
			if !specificSeen[code] {
				specificSeen[code] = true
				parent := Normalize(code, w.General)
				idx.generalSpecifics[parent] = append(idx.generalSpecifics[parent], code)
			}
		}
	}

	SortNatural(idx.groups)
	for _, children := range idx.groupGenerals {
		SortNatural(children)
	}
	for _, children := range idx.generalSpecifics {
		SortNatural(children)
	}
	return idx
}

// Widths returns the digit widths the index was built with.
func (x *Index) Widths() Widths {
	return x.widths
}

// Groups lists all normalized group codes in natural order.
func (x *Index) Groups() []string {
	return x.groups
}

// Generals lists the general codes under a group, in natural order.
func (x *Index) Generals(group string) []string {
	return x.groupGenerals[group]
}

// Specifics lists the specific codes under a general, in natural order.
func (x *Index) Specifics(general string) []string {
	return x.generalSpecifics[general]
}

// GroupTitle resolves the title of a normalized group code.
func (x *Index) GroupTitle(code string) (string, bool) {
	title, ok := x.groupTitles[code]
	return title, ok
}

// GeneralTitle resolves the title of a normalized general code.
func (x *Index) GeneralTitle(code string) (string, bool) {
	title, ok := x.generalTitles[code]
	return title, ok
}

// SpecificTitle resolves the title of a normalized specific code.
func (x *Index) SpecificTitle(code string) (string, bool) {
	title, ok := x.specificTitles[code]
	return title, ok
}
