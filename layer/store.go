package layer

import (
	"fmt"
)

// Store is an insertion ordered collection of layers keyed by name. Every
// mask in the store has the store's height and width.
type Store struct {
	width  int32
	height int32

	layers []*Layer
	index  map[string]int
}

func NewStore(height int32, width int32) *Store {
	return &Store{
		width:  width,
		height: height,
		index:  make(map[string]int),
	}
}

func (s *Store) Height() int32 {
	return s.height
}

func (s *Store) Width() int32 {
	return s.width
}

// Add appends a layer with an empty mask. It returns false, leaving the store
// untouched, if the name is already present or invalid.
func (s *Store) Add(name string, color Color) bool {
	if !ValidName(name) || s.Has(name) {
		return false
	}
	s.append(&Layer{name: name, mask: NewMask(s.height, s.width), color: color})
	return true
}

// AddWithMask appends a layer holding a copy of mask. A mask with a different
// size than the store is rejected with ErrShapeMismatch.
func (s *Store) AddWithMask(name string, mask *Mask, color Color) (bool, error) {
	if mask == nil || !mask.SameSize(s.height, s.width) {
		return false, s.shapeError(name, mask)
	}
	if !ValidName(name) || s.Has(name) {
		return false, nil
	}
	s.append(&Layer{name: name, mask: mask.Clone(), color: color})
	return true, nil
}

func (s *Store) shapeError(name string, mask *Mask) error {
	if mask == nil {
		return fmt.Errorf("%w: layer %q has no mask", ErrShapeMismatch, name)
	}
	return fmt.Errorf("%w: layer %q is %dx%d, canvas is %dx%d",
		ErrShapeMismatch, name, mask.Height(), mask.Width(), s.height, s.width)
}

func (s *Store) append(l *Layer) {
	s.index[l.name] = len(s.layers)
	s.layers = append(s.layers, l)
}

// Remove deletes the named layer. It returns false if there was no such layer.
func (s *Store) Remove(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	delete(s.index, name)
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	for j := i; j < len(s.layers); j++ {
		s.index[s.layers[j].name] = j
	}
	return true
}

func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Store) Len() int {
	return len(s.layers)
}

// Names returns layer names in insertion order.
func (s *Store) Names() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.name
	}
	return names
}

// Layer returns the named layer. Its name and colour are read only; its mask
// is the live mask.
func (s *Store) Layer(name string) (*Layer, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.layers[i], nil
}

// Mask returns the live mask of the named layer; writes to it paint the layer.
func (s *Store) Mask(name string) (*Mask, error) {
	l, err := s.Layer(name)
	if err != nil {
		return nil, err
	}
	return l.mask, nil
}

func (s *Store) Color(name string) (Color, error) {
	l, err := s.Layer(name)
	if err != nil {
		return Color{}, err
	}
	return l.color, nil
}

// Lookup is the permissive variant used by rendering: unknown names give nil.
func (s *Store) Lookup(name string) *Layer {
	if i, ok := s.index[name]; ok {
		return s.layers[i]
	}
	return nil
}

// Clone deep copies the store, masks included.
func (s *Store) Clone() *Store {
	c := NewStore(s.height, s.width)
	for _, l := range s.layers {
		c.append(l.clone())
	}
	return c
}
