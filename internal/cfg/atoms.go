package cfg

import (
	"fmt"
	"strings"
)

// MaxAtoms is the largest number of atoms one expression may hold; atom
// indices are 16 bit and the top value is kept free
const MaxAtoms = 0xfffe

// atomStore is an append-only table of atoms. Slots can be deleted or taken
// (read and cleared) but are never reused.
type atomStore struct {
	atoms []string
	set   []bool
}

// atomize splits an expression on ',' into a new store. An empty expression
// holds one empty atom, so its block flattens to ",".
func atomize(expr string) (*atomStore, error) {
	s := &atomStore{}
	n := strings.Count(expr, ",") + 1
	if n > MaxAtoms {
		return nil, fmt.Errorf("%w: %d atoms", ErrTooManyAtoms, n)
	}
	s.atoms = make([]string, 0, n)
	s.set = make([]bool, 0, n)
	for atom := range strings.SplitSeq(expr, ",") {
		s.add(atom)
	}
	return s, nil
}

func (s *atomStore) add(atom string) uint16 {
	s.atoms = append(s.atoms, atom)
	s.set = append(s.set, true)
	return uint16(len(s.atoms) - 1)
}

// len is the number of slots ever added
func (s *atomStore) len() int {
	return len(s.atoms)
}

func (s *atomStore) has(id int) bool {
	return id >= 0 && id < len(s.atoms) && s.set[id]
}

func (s *atomStore) get(id int) (string, bool) {
	if !s.has(id) {
		return "", false
	}
	return s.atoms[id], true
}

func (s *atomStore) take(id int) (string, bool) {
	atom, ok := s.get(id)
	if ok {
		s.delete(id)
	}
	return atom, ok
}

func (s *atomStore) delete(id int) {
	if !s.has(id) {
		return
	}
	s.atoms[id] = ""
	s.set[id] = false
}

// count returns the number of atoms still held
func (s *atomStore) count() int {
	n := 0
	for _, ok := range s.set {
		if ok {
			n++
		}
	}
	return n
}
