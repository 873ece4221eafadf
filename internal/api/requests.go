package api

import (
	"fmt"
	"strconv"
)

// --- Request Methods ---

// ListRequests returns every item of the list in server order.
func (c *Client) ListRequests(list string) ([]Request, error) {
	data, err := c.get(listPath(list, "items"))
	if err != nil {
		return nil, err
	}
	return decodeList[Request](data)
}

// GetRequest returns a single item by id.
func (c *Client) GetRequest(list string, id int) (*Request, error) {
	data, err := c.get(listPath(list, "items", strconv.Itoa(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Request](data)
}

// UpdateRequest writes the core fields of an item in one request and returns
// a handle for follow-up writes to the same item.
func (c *Client) UpdateRequest(list string, id int, fields RequestFields) (*UpdateHandle, error) {
	data, err := c.patch(listPath(list, "items", strconv.Itoa(id)), fields)
	if err != nil {
		return nil, err
	}
	handle, err := decodeOne[UpdateHandle](data)
	if err != nil {
		return nil, err
	}
	handle.List = list
	if handle.ID == 0 {
		handle.ID = id
	}
	return handle, nil
}

// UpdateTagField writes a single field, addressed by its internal name, on
// the item behind handle.
func (c *Client) UpdateTagField(handle *UpdateHandle, storageName, value string) error {
	if handle == nil {
		return fmt.Errorf("update tag field: missing handle")
	}
	if storageName == "" {
		return fmt.Errorf("update tag field: missing storage name")
	}
	body := map[string]string{storageName: value}
	_, err := c.patch(listPath(handle.List, "items", strconv.Itoa(handle.ID)), body)
	return err
}
