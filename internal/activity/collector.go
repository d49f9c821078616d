package activity

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"carbonwise/internal"
)

type Field string

const (
	FieldType        Field = "type"
	FieldDescription Field = "description"
	FieldValue       Field = "value"
	FieldUnit        Field = "unit"
)

var (
	ErrIndexOutOfRange = errors.New("activity index out of range")
	ErrUnknownField    = errors.New("unknown activity field")
	ErrLastActivity    = errors.New("cannot remove the last activity")
)

// Collector is the editable list of manually entered activities. It always
// holds at least one row, which may be blank.
type Collector struct {
	mu    sync.Mutex
	items []internal.ManualActivity
}

func NewCollector() *Collector {
	return &Collector{items: []internal.ManualActivity{{}}}
}

func (c *Collector) Add() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, internal.ManualActivity{})
	return len(c.items) - 1
}

func (c *Collector) Update(index int, field Field, value string) (internal.ManualActivity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return internal.ManualActivity{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	item := c.items[index]
	switch Field(strings.ToLower(string(field))) {
	case FieldType:
		item.Type = value
	case FieldDescription:
		item.Description = value
	case FieldValue:
		item.Value = value
	case FieldUnit:
		item.Unit = value
	default:
		return internal.ManualActivity{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.items[index] = item
	return item, nil
}

func (c *Collector) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if len(c.items) <= 1 {
		return ErrLastActivity
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	return nil
}

// Replace swaps in a whole list; an empty list leaves one blank row.
func (c *Collector) Replace(items []internal.ManualActivity) {
	next := make([]internal.ManualActivity, len(items))
	copy(next, items)
	if len(next) == 0 {
		next = []internal.ManualActivity{{}}
	}
	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
}

func (c *Collector) List() []internal.ManualActivity {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]internal.ManualActivity, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collector) Valid() []internal.ManualActivity {
	return FilterValid(c.List())
}

// FilterValid keeps activities with both a type and a value, in order.
func FilterValid(items []internal.ManualActivity) []internal.ManualActivity {
	out := make([]internal.ManualActivity, 0, len(items))
	for _, a := range items {
		if a.Valid() {
			out = append(out, a)
		}
	}
	return out
}
