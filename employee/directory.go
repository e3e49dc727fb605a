// Package-level login lookup. In a real deployment this would be backed by
// an identity provider; the engine only needs id -> Employee resolution.

package employee

import "sync"

// Directory resolves employee ids to identities at login time.
type Directory struct {
	mu        sync.RWMutex
	employees map[string]*Employee
}

func NewDirectory() *Directory {
	return &Directory{employees: make(map[string]*Employee)}
}

// Add registers an employee. Existing ids are not overwritten; the first
// registration wins and Add reports whether the employee was inserted.
func (d *Directory) Add(e *Employee) bool {
	if e == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.employees[e.ID]; ok {
		return false
	}
	d.employees[e.ID] = e
	return true
}

// Login looks up an employee by id.
func (d *Directory) Login(id string) (*Employee, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.employees[id]
	return e, ok
}

// All returns a snapshot of the registered employees.
func (d *Directory) All() []*Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Employee, 0, len(d.employees))
	for _, e := range d.employees {
		out = append(out, e)
	}
	return out
}
