package person

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
)

var (
	// ErrInvalidArgument indicates a malformed input: a non-positive id, an
	// ill-formed Person, or an out-of-range position.
	ErrInvalidArgument = errors.New("person: invalid argument")

	// ErrDuplicateID indicates an Add with an id that is already present.
	ErrDuplicateID = errors.New("person: duplicate id")

	// ErrNotFound indicates an id-targeted lookup or removal found no record.
	ErrNotFound = errors.New("person: not found")
)

// Repository is a mutable collection of Person records with set-like
// uniqueness on ID, kept sorted ascending by ID at all times. It owns its
// records exclusively: values are copied in and out, never aliased.
//
// It is not safe for concurrent use. Hosts that share it across goroutines
// must guard every call with a single external lock, since the compound
// uniqueness-plus-order invariant cannot be checked under interleaving.
type Repository struct {
	people []Person
}

// NewRepository constructs an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Len returns the number of contained records.
func (r *Repository) Len() int {
	return len(r.people)
}

// All returns a copy of every record in ascending ID order.
func (r *Repository) All() []Person {
	out := make([]Person, len(r.people))
	copy(out, r.people)
	return out
}

// Iter returns a lazy, restartable sequence over the records in ascending ID
// order. The sequence reflects the repository state at iteration time.
func (r *Repository) Iter() iter.Seq[Person] {
	return func(yield func(Person) bool) {
		for _, p := range r.people {
			if !yield(p) {
				return
			}
		}
	}
}

// Add inserts a record, keeping the collection sorted by ID. It returns
// ErrInvalidArgument when p is not well formed (non-positive ID) and
// ErrDuplicateID when a record with the same ID already exists. The
// repository is left unchanged on failure.
func (r *Repository) Add(p Person) error {
	if !ValidID(p.ID) {
		return fmt.Errorf("%w: person id must be a positive integer", ErrInvalidArgument)
	}

	idx := sort.Search(len(r.people), func(i int) bool {
		return r.people[i].ID >= p.ID
	})
	if idx < len(r.people) && r.people[idx].ID == p.ID {
		return fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
	}

	r.people = append(r.people, Person{})
	copy(r.people[idx+1:], r.people[idx:])
	r.people[idx] = p
	return nil
}

// Find returns the position of the record with the given id, or -1 when no
// such record exists. Absence is not an error at this layer; only a
// non-positive id yields ErrInvalidArgument.
func (r *Repository) Find(id int) (int, error) {
	if !ValidID(id) {
		return -1, fmt.Errorf("%w: id must be a positive integer", ErrInvalidArgument)
	}

	idx := sort.Search(len(r.people), func(i int) bool {
		return r.people[i].ID >= id
	})
	if idx < len(r.people) && r.people[idx].ID == id {
		return idx, nil
	}
	return -1, nil
}

// FindByID returns the record with the given id. Unlike Find, absence is
// reported as ErrNotFound.
func (r *Repository) FindByID(id int) (Person, error) {
	pos, err := r.Find(id)
	if err != nil {
		return Person{}, err
	}
	if pos == -1 {
		return Person{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r.people[pos], nil
}

// FindByName returns a new, independent repository holding every record whose
// name contains sub. Matching is case-sensitive containment, so the empty
// string matches everything. The result is a snapshot: later mutations of
// either repository do not affect the other.
func (r *Repository) FindByName(sub string) *Repository {
	return r.filter(func(p Person) bool {
		return strings.Contains(p.Name, sub)
	})
}

// FindByPhone is FindByName for the phone field.
func (r *Repository) FindByPhone(sub string) *Repository {
	return r.filter(func(p Person) bool {
		return strings.Contains(p.Phone, sub)
	})
}

// FindByAddress is FindByName for the address field.
func (r *Repository) FindByAddress(sub string) *Repository {
	return r.filter(func(p Person) bool {
		return strings.Contains(p.Address, sub)
	})
}

// filter scans in order, so the result is already sorted by ID.
func (r *Repository) filter(keep func(Person) bool) *Repository {
	found := NewRepository()
	for _, p := range r.people {
		if keep(p) {
			found.people = append(found.people, p)
		}
	}
	return found
}

// Remove deletes and returns the record at the given position; subsequent
// positions shift down by one. Positions outside [0, Len) yield
// ErrInvalidArgument.
func (r *Repository) Remove(pos int) (Person, error) {
	if pos < 0 || pos >= len(r.people) {
		return Person{}, fmt.Errorf("%w: position %d out of range", ErrInvalidArgument, pos)
	}

	removed := r.people[pos]
	r.people = append(r.people[:pos], r.people[pos+1:]...)
	return removed, nil
}

// RemoveByID deletes and returns the record with the given id, reporting
// ErrNotFound when absent.
func (r *Repository) RemoveByID(id int) (Person, error) {
	pos, err := r.Find(id)
	if err != nil {
		return Person{}, err
	}
	if pos == -1 {
		return Person{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r.Remove(pos)
}

// String renders one line per record in ascending ID order, or "None\n" when
// the repository is empty.
func (r *Repository) String() string {
	if len(r.people) == 0 {
		return "None\n"
	}

	var b strings.Builder
	for _, p := range r.people {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}
