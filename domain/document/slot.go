package document

// Slot is an addressable location inside a document: an object member,
// an array element, or the document root. A slot is identified by its
// owning container plus key or index, so mutating the value held in a
// slot never changes the slot's address. Slots stay valid across the
// steps of an action sequence.
type Slot struct {
	obj  map[string]any
	arr  []any
	root *any
	key  string
	idx  int
}

// RootSlot addresses the document root itself.
func RootSlot(root *any) Slot {
	return Slot{root: root}
}

// memberSlot addresses the member key of obj.
func memberSlot(obj map[string]any, key string) Slot {
	return Slot{obj: obj, key: key}
}

// elementSlot addresses index idx of arr.
func elementSlot(arr []any, idx int) Slot {
	return Slot{arr: arr, idx: idx}
}

// Get reads the slot's current value.
func (s Slot) Get() any {
	switch {
	case s.obj != nil:
		return s.obj[s.key]
	case s.arr != nil:
		return s.arr[s.idx]
	case s.root != nil:
		return *s.root
	}
	return nil
}

// Set writes v into the slot in place.
func (s Slot) Set(v any) {
	switch {
	case s.obj != nil:
		s.obj[s.key] = v
	case s.arr != nil:
		s.arr[s.idx] = v
	case s.root != nil:
		*s.root = v
	}
}
