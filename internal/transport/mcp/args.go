package mcp

import (
	"fmt"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/filter"
)

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", domain.ErrValidation, key)
	}
	if required && s == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, key)
	}
	return s, nil
}

func stringSliceArg(args map[string]any, key string, required bool) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, key)
		}
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an array of strings", domain.ErrValidation, key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be an array of strings", domain.ErrValidation, key)
		}
		out = append(out, s)
	}
	if required && len(out) == 0 {
		return nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, key)
	}
	return out, nil
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, key)
	}
}

// filtersArg reads a filters object mapping field names to value arrays.
func filtersArg(args map[string]any, key string) (filter.Expression, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return filter.Expression{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return filter.Expression{}, fmt.Errorf(
			"%w: %s must be an object mapping fields to value arrays", domain.ErrValidation, key)
	}

	conditions := make([]filter.Condition, 0, len(obj))
	for field, rawValues := range obj {
		list, ok := rawValues.([]any)
		if !ok {
			return filter.Expression{}, fmt.Errorf(
				"%w: filter %s must be an array of strings", domain.ErrValidation, field)
		}
		values := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return filter.Expression{}, fmt.Errorf(
					"%w: filter %s must be an array of strings", domain.ErrValidation, field)
			}
			values = append(values, s)
		}
		cond, err := filter.NewCondition(field, values)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		conditions = append(conditions, cond)
	}

	return filter.NewExpression(conditions...), nil
}
