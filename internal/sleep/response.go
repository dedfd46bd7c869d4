package sleep

// Status marks a result as success or failure. Serialized as a small
// integer; the SPA clients special-case status === 0.
type Status int

const (
	StatusSuccess Status = iota
	StatusFail
)

// Response is the single-item result envelope. Failures carry a
// human-readable message instead of a payload; no layer in the pipeline
// raises errors across its boundary.
type Response[T any] struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// Success wraps a payload in a success response.
func Success[T any](data T) Response[T] {
	return Response[T]{Status: StatusSuccess, Data: &data}
}

// Fail builds a failure response carrying only a message.
func Fail[T any](message string) Response[T] {
	return Response[T]{Status: StatusFail, Message: message}
}

// PagedResponse is the page envelope: a result set plus pagination
// metadata. TotalRecords counts matches before pagination.
type PagedResponse[T any] struct {
	Status       Status `json:"status"`
	Message      string `json:"message,omitempty"`
	Data         []T    `json:"data,omitempty"`
	PageNumber   int    `json:"pageNumber"`
	PageSize     int    `json:"pageSize"`
	TotalRecords int    `json:"totalRecords"`
	TotalPages   int    `json:"totalPages"`
}

// PageSuccess wraps a page of results with its metadata.
func PageSuccess[T any](data []T, page, pageSize, totalRecords int) PagedResponse[T] {
	return PagedResponse[T]{
		Status:       StatusSuccess,
		Data:         data,
		PageNumber:   page,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
		TotalPages:   totalPages(totalRecords, pageSize),
	}
}

// PageFail builds a failure page envelope that preserves the requested
// page coordinates so callers can still render pagination state.
func PageFail[T any](message string, page, pageSize int) PagedResponse[T] {
	return PagedResponse[T]{
		Status:     StatusFail,
		Message:    message,
		PageNumber: page,
		PageSize:   pageSize,
	}
}

// totalPages is the ceiling of totalRecords / pageSize.
func totalPages(totalRecords, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalRecords + pageSize - 1) / pageSize
}
