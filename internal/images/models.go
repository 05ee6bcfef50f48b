package images

// Image is one Unsplash search hit.
type Image struct {
	ID   string `json:"id"`
	URLs struct {
		Raw     string `json:"raw"`
		Full    string `json:"full"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	AltDescription *string `json:"alt_description"`
	Description    *string `json:"description"`
	User           struct {
		ID           string  `json:"id"`
		Username     string  `json:"username"`
		Name         string  `json:"name"`
		PortfolioURL *string `json:"portfolio_url"`
		ProfileImage struct {
			Small  string `json:"small"`
			Medium string `json:"medium"`
			Large  string `json:"large"`
		} `json:"profile_image"`
	} `json:"user"`
	Likes     int    `json:"likes"`
	CreatedAt string `json:"created_at"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Request is a gallery search. Zero Page and PerPage take the defaults.
type Request struct {
	Query   string `validate:"required"`
	Page    int    `validate:"gte=1"`
	PerPage int    `validate:"gte=1,lte=30"`
}

type Gallery struct {
	Images     []Image `json:"images"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
}

type Result struct {
	Success bool     `json:"success"`
	Data    *Gallery `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Status  int      `json:"-"`
}

type searchPayload struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Image `json:"results"`
}
