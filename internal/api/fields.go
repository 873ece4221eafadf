package api

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is returned when a field lookup by title matches nothing.
var ErrFieldNotFound = errors.New("field not found")

// ResolveField looks up a field by its title and returns the first match.
func (c *Client) ResolveField(list, title string) (*FieldInfo, error) {
	data, err := c.get(buildQuery(listPath(list, "fields"), QueryParams{"title": title}))
	if err != nil {
		return nil, err
	}
	fields, err := decodeList[FieldInfo](data)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s on list %s: %w", title, list, ErrFieldNotFound)
	}
	return &fields[0], nil
}

// ListFieldChoices returns the allowed values of a choice field.
func (c *Client) ListFieldChoices(list, field string) ([]string, error) {
	data, err := c.get(listPath(list, "fields", field, "choices"))
	if err != nil {
		return nil, err
	}
	return decodeList[string](data)
}
