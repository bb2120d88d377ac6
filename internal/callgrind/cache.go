package callgrind

// compressionCache is one of the three independent index->name
// dictionaries (object, file, symbol) Callgrind uses to avoid repeating
// long names: "(n) name" binds n once, later "(n)" tokens reuse it.
// Binding is write-once; rebinding an index is a caller-detected error.
type compressionCache struct {
	entries map[uint64]string
}

func newCompressionCache() *compressionCache {
	return &compressionCache{entries: make(map[uint64]string)}
}

func (c *compressionCache) lookup(index uint64) (string, bool) {
	name, ok := c.entries[index]
	return name, ok
}

// bind records name under index. It reports false if index was already
// bound, leaving the existing binding untouched.
func (c *compressionCache) bind(index uint64, name string) bool {
	if _, exists := c.entries[index]; exists {
		return false
	}
	c.entries[index] = name
	return true
}
