package dto

type CoordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ClickRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ViewResponse struct {
	Mode         string         `json:"mode"`
	Selection    *CoordinateDTO `json:"selection,omitempty"`
	TileURL      string         `json:"tile_url,omitempty"`
	BackendError string         `json:"backend_error,omitempty"`
}

type SetViewRequest struct {
	Mode string `json:"mode"`
}
