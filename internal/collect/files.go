package collect

import "github.com/zjrosen/bundlekit/internal/bundle"

// File is a resolved script or style entry ready for output.
type File struct {
	URL      string
	Position bundle.Position
	Options  map[string]any
}

// Files is an insertion-ordered collection of resolved entries keyed by the
// entry's explicit key or its resolved URL. Keys are unique; writing an
// existing key replaces the entry without changing its established order,
// while new keys append at the current point of the walk.
type Files struct {
	keys    []string
	entries map[string]File
}

func newFiles() *Files {
	return &Files{
		entries: make(map[string]File),
	}
}

func (f *Files) set(key string, file File) {
	if _, ok := f.entries[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.entries[key] = file
}

// Keys returns the collection keys in insertion order.
func (f *Files) Keys() []string {
	return f.keys
}

// Get returns the entry for key.
func (f *Files) Get(key string) (File, bool) {
	file, ok := f.entries[key]
	return file, ok
}

// Values returns the entries in insertion order.
func (f *Files) Values() []File {
	values := make([]File, 0, len(f.keys))
	for _, key := range f.keys {
		values = append(values, f.entries[key])
	}
	return values
}

// URLs returns the entry URLs in insertion order.
func (f *Files) URLs() []string {
	urls := make([]string, 0, len(f.keys))
	for _, key := range f.keys {
		urls = append(urls, f.entries[key].URL)
	}
	return urls
}

// Len returns the number of entries.
func (f *Files) Len() int {
	return len(f.keys)
}
