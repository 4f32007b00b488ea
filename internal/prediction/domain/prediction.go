package domain

// Upload is one image file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is the response envelope of a successful prediction
type Result struct {
	Result     string  `json:"result"`
	Confidence float64 `json:"confidence"`
}

// Health reports whether the service can classify images
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
