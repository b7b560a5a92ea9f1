package fieldctx

import "github.com/arloliu/binschema/internal/dict"

// Context is the evaluation context threaded through a single encode or
// decode call tree. It carries the parent-field stack consulted by
// ../field references, position tracking for first/last/Nth selectors,
// array-iteration state for corresponding<Type> correlation, and a
// shared compression dictionary for back-reference fields.
//
// Context is built bottom-up by value: ExtendWithParent and
// WithBaseOffset return a new Context rather than mutating the
// receiver. Only the compression dictionary is shared (by pointer)
// across the whole tree, per spec's "shared ownership" for back-
// reference state; positions, array iteration, and type indices are
// deep-copied at each split so sibling branches cannot see or corrupt
// each other's tracking state.
type Context struct {
	parents        []map[string]Value
	positions      map[string][]int
	arrayIterations map[string]int
	typeIndices    map[string]int
	currentArray   string
	dict           *dict.Table
	baseOffset     int
}

// New returns an empty root Context.
func New() *Context {
	return &Context{
		positions:       make(map[string][]int),
		arrayIterations: make(map[string]int),
		typeIndices:     make(map[string]int),
	}
}

// ExtendWithParent returns a new Context with parent pushed as the
// immediate (innermost) parent frame. The compression dictionary handle
// and base offset carry forward shared with c; positions, array
// iteration, and type indices are deep-copied so a sibling branch's
// position tracking or array-iteration state after this split cannot
// corrupt c's (or another sibling's).
func (c *Context) ExtendWithParent(parent map[string]Value) *Context {
	next := *c
	next.parents = append(append([]map[string]Value{}, c.parents...), parent)
	next.positions = clonePositions(c.positions)
	next.arrayIterations = cloneIntMap(c.arrayIterations)
	next.typeIndices = cloneIntMap(c.typeIndices)

	return &next
}

func clonePositions(m map[string][]int) map[string][]int {
	out := make(map[string][]int, len(m))
	for k, v := range m {
		out[k] = append([]int{}, v...)
	}

	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// CurrentFrame returns the innermost parent frame — the enclosing
// sequence's own in-progress field record — or nil if no frame has been
// pushed. Expression evaluation uses this as "self": the current scope,
// consulted before walking outward via FindParentField.
func (c *Context) CurrentFrame() map[string]Value {
	if len(c.parents) == 0 {
		return nil
	}

	return c.parents[len(c.parents)-1]
}

// GetParentField returns the field named fieldName from the frame
// levelsUp levels above the innermost frame (1 = immediate parent, 2 =
// grandparent, ...). Returns (Value{}, false) if levelsUp is out of range
// or the field is absent from that frame.
func (c *Context) GetParentField(levelsUp int, fieldName string) (Value, bool) {
	if levelsUp <= 0 || levelsUp > len(c.parents) {
		return Value{}, false
	}

	idx := len(c.parents) - levelsUp
	v, ok := c.parents[idx][fieldName]

	return v, ok
}

// FindParentField searches every frame from outermost (root) to innermost
// for fieldName, returning the first match.
func (c *Context) FindParentField(fieldName string) (Value, bool) {
	for _, frame := range c.parents {
		if v, ok := frame[fieldName]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// HasParents reports whether any parent frame has been pushed.
func (c *Context) HasParents() bool { return len(c.parents) > 0 }

// ParentCount returns the number of pushed parent frames.
func (c *Context) ParentCount() int { return len(c.parents) }

// TrackPosition records position under key (conventionally
// "{arrayName}_{typeName}"), appending to that key's position list.
func (c *Context) TrackPosition(key string, position int) {
	c.positions[key] = append(c.positions[key], position)
}

// GetFirstPosition returns the earliest tracked position for key.
func (c *Context) GetFirstPosition(key string) (int, bool) {
	list := c.positions[key]
	if len(list) == 0 {
		return 0, false
	}

	return list[0], true
}

// GetLastPosition returns the most recently tracked position for key.
func (c *Context) GetLastPosition(key string) (int, bool) {
	list := c.positions[key]
	if len(list) == 0 {
		return 0, false
	}

	return list[len(list)-1], true
}

// GetPosition returns the index-th tracked position for key.
func (c *Context) GetPosition(key string, index int) (int, bool) {
	list := c.positions[key]
	if index < 0 || index >= len(list) {
		return 0, false
	}

	return list[index], true
}

// SetArrayIteration records that arrayName is now being iterated at
// index, and marks arrayName as the current array for
// GetAnyArrayIteration's cross-array fallback.
func (c *Context) SetArrayIteration(arrayName string, index int) {
	c.arrayIterations[arrayName] = index
	c.currentArray = arrayName
}

// GetArrayIteration returns the last recorded iteration index for
// arrayName.
func (c *Context) GetArrayIteration(arrayName string) (int, bool) {
	idx, ok := c.arrayIterations[arrayName]

	return idx, ok
}

// IsCurrentArray reports whether arrayName is the array most recently
// passed to SetArrayIteration — not merely an array that was iterated at
// some earlier point.
func (c *Context) IsCurrentArray(arrayName string) bool {
	return c.currentArray == arrayName
}

// GetAnyArrayIteration returns the current array's name and iteration
// index when set; otherwise it falls back to an arbitrary tracked array,
// for corresponding<Type> references that cross into a sibling array.
// Returns ("", 0, false) when no array iteration has been recorded.
func (c *Context) GetAnyArrayIteration() (string, int, bool) {
	if c.currentArray != "" {
		if idx, ok := c.arrayIterations[c.currentArray]; ok {
			return c.currentArray, idx, true
		}
	}

	for name, idx := range c.arrayIterations {
		return name, idx, true
	}

	return "", 0, false
}

// IncrementTypeIndex increments and returns the occurrence counter for
// key (conventionally "{arrayName}_{typeName}").
func (c *Context) IncrementTypeIndex(key string) int {
	c.typeIndices[key]++

	return c.typeIndices[key]
}

// GetTypeIndex returns the current occurrence counter for key without
// incrementing it.
func (c *Context) GetTypeIndex(key string) int {
	return c.typeIndices[key]
}

// EnsureCompressionDict creates the shared compression dictionary if one
// is not already installed. Safe to call repeatedly; a no-op once set.
func (c *Context) EnsureCompressionDict() {
	if c.dict == nil {
		c.dict = dict.New()
	}
}

// CompressionDict returns the shared compression dictionary, or nil if
// EnsureCompressionDict has not been called.
func (c *Context) CompressionDict() *dict.Table {
	return c.dict
}

// BaseOffset returns the absolute byte offset this context's nested
// encoder positions are measured from.
func (c *Context) BaseOffset() int {
	return c.baseOffset
}

// WithBaseOffset returns a new Context with baseOffset set to offset —
// used when entering a nested sequence so its compression-dictionary
// entries record absolute stream offsets (parent.BaseOffset() + parent
// encoder's current byte_offset()). The compression dictionary handle
// carries forward shared with c; positions, array iteration, and type
// indices are deep-copied, matching ExtendWithParent's isolation.
func (c *Context) WithBaseOffset(offset int) *Context {
	next := *c
	next.baseOffset = offset
	next.positions = clonePositions(c.positions)
	next.arrayIterations = cloneIntMap(c.arrayIterations)
	next.typeIndices = cloneIntMap(c.typeIndices)

	return &next
}
