package op

import (
	"fmt"
	"slices"
)

// attrChecker validates one declared attribute against a bound map.
type attrChecker interface {
	check(attrs AttributeMap) error
}

// TypedChecker validates a single attribute of type T. Returned by AddAttr,
// it chains default values and value predicates.
type TypedChecker[T AttrData] struct {
	name   string
	def    *T
	checks []func(T) error
}

// SetDefault makes the attribute optional: a bound map without it gets the
// default filled in during Check.
func (c *TypedChecker[T]) SetDefault(v T) *TypedChecker[T] {
	c.def = &v
	return c
}

// AddChecker attaches a value predicate. Predicates run in declaration order
// after type checking and default filling.
func (c *TypedChecker[T]) AddChecker(f func(T) error) *TypedChecker[T] {
	c.checks = append(c.checks, f)
	return c
}

func (c *TypedChecker[T]) check(attrs AttributeMap) error {
	a, ok := attrs[c.name]
	if !ok {
		if c.def == nil {
			return fmt.Errorf("%w: attribute %q is required", ErrValidation, c.name)
		}
		a = Make(*c.def)
		attrs[c.name] = a
	}
	v, err := Get[T](a)
	if err != nil {
		return fmt.Errorf("%w: attribute %q: %v", ErrValidation, c.name, err)
	}
	for _, f := range c.checks {
		if err := f(v); err != nil {
			return fmt.Errorf("%w: attribute %q: %v", ErrValidation, c.name, err)
		}
	}
	return nil
}

// OpAttrChecker validates a bound attribute map against every attribute a
// kind declared. Check also fills declared defaults into the map.
type OpAttrChecker struct {
	checkers []attrChecker
}

// Check runs all attribute checkers over the map.
func (c *OpAttrChecker) Check(attrs AttributeMap) error {
	for _, ck := range c.checkers {
		if err := ck.check(attrs); err != nil {
			return err
		}
	}
	return nil
}

func addAttrChecker[T AttrData](c *OpAttrChecker, name string) *TypedChecker[T] {
	tc := &TypedChecker[T]{name: name}
	c.checkers = append(c.checkers, tc)
	return tc
}

// LargerThan builds a predicate requiring the value to exceed lower.
func LargerThan[T int | float32](lower T) func(T) error {
	return func(v T) error {
		if v <= lower {
			return fmt.Errorf("value %v must be larger than %v", v, lower)
		}
		return nil
	}
}

// InEnum builds a predicate requiring the value to be one of allowed.
func InEnum[T int | float32 | string](allowed ...T) func(T) error {
	return func(v T) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("value %v is not in the allowed set %v", v, allowed)
		}
		return nil
	}
}
