package gift

import "golang.org/x/text/cases"

// TagSet is a set of case-folded tags.
type TagSet map[string]struct{}

// Has reports whether the folded tag is in the set.
func (s TagSet) Has(folded string) bool {
	_, ok := s[folded]
	return ok
}

// Folder compares tags case-insensitively. Stored tags are never rewritten;
// folding happens at comparison time only.
//
// A Folder wraps a cases.Caser and must not be shared between goroutines.
// Create one per call.
type Folder struct {
	caser cases.Caser
}

func NewFolder() *Folder {
	return &Folder{caser: cases.Fold()}
}

// Fold returns the comparison key for tag.
func (f *Folder) Fold(tag string) string {
	return f.caser.String(tag)
}

// Set folds tags into a TagSet. Duplicates collapse.
func (f *Folder) Set(tags []string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		set[f.Fold(tag)] = struct{}{}
	}
	return set
}

// FirstIn returns the first entry of list, in list order and original
// spelling, that is present in set.
func (f *Folder) FirstIn(set TagSet, list []string) (string, bool) {
	for _, tag := range list {
		if set.Has(f.Fold(tag)) {
			return tag, true
		}
	}
	return "", false
}

// AnyIn reports whether any entry of list is present in set.
func (f *Folder) AnyIn(set TagSet, list []string) bool {
	_, ok := f.FirstIn(set, list)
	return ok
}

// CountIn counts the distinct entries of list present in set.
func (f *Folder) CountIn(set TagSet, list []string) int {
	seen := make(map[string]struct{}, len(list))
	n := 0
	for _, tag := range list {
		key := f.Fold(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if set.Has(key) {
			n++
		}
	}
	return n
}

// HasTag reports whether g carries tag, ignoring case.
func (g Gift) HasTag(tag string) bool {
	f := NewFolder()
	return f.Set(g.Tags).Has(f.Fold(tag))
}
