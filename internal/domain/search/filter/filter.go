package filter

import "fmt"

// MaxValuesPerField is the maximum number of OR-ed values per filter field.
const MaxValuesPerField = 32

// Condition restricts a single metadata field to a set of values (OR semantics).
type Condition struct {
	field  string
	values []string
}

// NewCondition validates and creates a filter condition.
func NewCondition(field string, values []string) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for field %q", field)
	}
	if len(values) > MaxValuesPerField {
		return Condition{}, fmt.Errorf("too many values for field %q (max %d)", field, MaxValuesPerField)
	}
	for _, v := range values {
		if v == "" {
			return Condition{}, fmt.Errorf("empty value for field %q", field)
		}
	}
	return Condition{field: field, values: values}, nil
}

// Field returns the metadata field name.
func (c Condition) Field() string { return c.field }

// Values returns the accepted values.
func (c Condition) Values() []string { return c.values }

// Expression is a conjunction of conditions: every condition must hold,
// a condition holds when the field matches any of its values.
type Expression struct {
	conditions []Condition
}

// NewExpression creates a filter expression from the given conditions.
func NewExpression(conditions ...Condition) Expression {
	return Expression{conditions: conditions}
}

// Conditions returns the AND-ed conditions.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }
