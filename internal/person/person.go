package person

import (
	"fmt"
	"strconv"
)

// Person is a directory record keyed by a unique positive integer ID. It is a
// plain value: equality is structural and values are copied, never shared.
type Person struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone" yaml:"phone"`
	Address string `json:"address" yaml:"address"`
}

// New builds a Person value. It performs no validation; see Validate.
func New(id int, name, phone, address string) Person {
	return Person{ID: id, Name: name, Phone: phone, Address: address}
}

// Equal reports structural equality of all fields.
func (p Person) Equal(other Person) bool {
	return p == other
}

// String renders the short one-line representation.
func (p Person) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Phone: %s, Address: %s", p.ID, p.Name, p.Phone, p.Address)
}

// ResourceID implements nab.Linkable.
func (p Person) ResourceID() string {
	return strconv.Itoa(p.ID)
}

// ResourceType implements nab.Linkable.
func (p Person) ResourceType() string {
	return "person"
}
