package api

import "net/url"

// ListTaxonomy returns the terms of a term set.
func (c *Client) ListTaxonomy(termSet string) ([]Term, error) {
	data, err := c.get("/api/taxonomy/" + url.PathEscape(termSet))
	if err != nil {
		return nil, err
	}
	return decodeList[Term](data)
}

// ListManagers returns the people a request can be assigned to.
func (c *Client) ListManagers() ([]Option, error) {
	data, err := c.get("/api/managers")
	if err != nil {
		return nil, err
	}
	return decodeList[Option](data)
}

// ListRequestTypes returns the request type lookup values.
func (c *Client) ListRequestTypes() ([]Option, error) {
	data, err := c.get("/api/request-types")
	if err != nil {
		return nil, err
	}
	return decodeList[Option](data)
}
