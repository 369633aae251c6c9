package dto

type CreateRecordRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type RecordResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description"`
	ImageCount  int     `json:"image_count"`
	CreatedAt   int64   `json:"created_at"`
}

type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
}
