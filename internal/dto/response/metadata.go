package response

// MetadataResponse is the body of an OPTIONS request on a resource.
type MetadataResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Renders     []string `json:"renders"`
	Parses      []string `json:"parses"`
}

func NewMetadataResponse(name string) *MetadataResponse {
	return &MetadataResponse{
		Name:    name,
		Renders: []string{"application/json"},
		Parses:  []string{"application/json"},
	}
}
