package templates

// Store is the adapted template set for one document: a dense classID →
// Class mapping aligned with the unicharset, backed by the integer
// templates the matching primitive scores against. It lives for one
// document/page and is explicitly reset between documents.
type Store struct {
	classes []*Class
	ints    *IntTemplates

	// NumPermClasses counts classes holding at least one permanent config;
	// the classification policy's cold/warm boundary reads it.
	NumPermClasses int

	// NumNonEmptyClasses counts lazily instantiated classes.
	NumNonEmptyClasses int
}

// NewStore creates an empty adapted store covering numClasses dense ids.
func NewStore(numClasses int) *Store {
	s := &Store{
		classes: make([]*Class, numClasses),
		ints:    NewIntTemplates(numClasses),
	}
	for i := range s.classes {
		s.classes[i] = NewClass()
	}
	return s
}

// NumClasses returns the size of the class id space.
func (s *Store) NumClasses() int { return len(s.classes) }

// Class returns the adapted class for an id.
func (s *Store) Class(id int) (*Class, error) {
	if id < 0 || id >= len(s.classes) {
		return nil, ErrClassRange
	}
	return s.classes[id], nil
}

// IntClass returns the integer template for an id.
func (s *Store) IntClass(id int) (*IntClass, error) {
	return s.ints.Class(id)
}

// IntTemplates returns the backing integer templates, e.g. for pruning.
func (s *Store) IntTemplates() *IntTemplates { return s.ints }

// Reset discards all adapted state, returning the store to the
// start-of-document condition without changing the class id space.
func (s *Store) Reset() {
	for i := range s.classes {
		s.classes[i] = NewClass()
	}
	s.ints = NewIntTemplates(len(s.classes))
	s.NumPermClasses = 0
	s.NumNonEmptyClasses = 0
}

// Pretrained is the read-only pre-trained template set, loaded once at
// startup. FontSets maps each class's config index to its font id, or, when
// a shape table is present, to its shape id.
type Pretrained struct {
	Ints     *IntTemplates
	FontSets [][]int
}

// BlankFontID marks an absent font/shape association.
const BlankFontID = -1

// ConfigFontOrShapeID resolves a (class, config) pair to its font or shape
// id, returning BlankFontID when the mapping is absent.
func (p *Pretrained) ConfigFontOrShapeID(classID, configID int) int {
	if classID < 0 || classID >= len(p.FontSets) {
		return BlankFontID
	}
	fs := p.FontSets[classID]
	if configID < 0 || configID >= len(fs) {
		return BlankFontID
	}
	return fs[configID]
}
