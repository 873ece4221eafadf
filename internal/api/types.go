package api

import "time"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Request ---

// Request status values written by the edit dialog.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// Tag is a taxonomy term attached to a request.
type Tag struct {
	TermGUID string `json:"TermGuid"`
	Label    string `json:"Label"`
}

// Request is one item of the Requests list. Field names follow the store's
// column names.
type Request struct {
	ID            int       `json:"Id"`
	Title         string    `json:"Title"`
	Description   string    `json:"Description"`
	DueDate       time.Time `json:"DueDate"`
	ManagerID     *int      `json:"Assigned_x0020_ManagerId,omitempty"`
	RequestTypeID int       `json:"RequestTypeId"`
	RequestArea   string    `json:"RequestArea"`
	Tags          []Tag     `json:"Tags"`
	Status        string    `json:"Status"`
	Modified      time.Time `json:"Modified"`
}

// RequestFields is the core-field update written in one PATCH.
type RequestFields struct {
	Title         string    `json:"Title"`
	Description   string    `json:"Description"`
	DueDate       time.Time `json:"DueDate"`
	ManagerID     int       `json:"Assigned_x0020_ManagerId"`
	RequestTypeID int       `json:"RequestTypeId"`
	RequestArea   string    `json:"RequestArea"`
	Status        string    `json:"Status"`
}

// UpdateHandle identifies an item that was just updated, so follow-up writes
// hit the same item.
type UpdateHandle struct {
	List string `json:"List"`
	ID   int    `json:"Id"`
	ETag string `json:"ETag,omitempty"`
}

// --- Schema ---

// FieldInfo maps a field's display title to its internal storage name.
type FieldInfo struct {
	Title        string `json:"Title"`
	InternalName string `json:"InternalName"`
}

// Option is a numeric-keyed choice such as a manager or a request type.
type Option struct {
	ID    int    `json:"Id"`
	Title string `json:"Title"`
}

// Term is a taxonomy term offered for tagging.
type Term struct {
	ID    string `json:"Id"`
	Label string `json:"Label"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string
