package stripe

// Product is the remote catalog entity. The external catalog code lives
// in Metadata under the "code" key.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Active      bool              `json:"active"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
}

// Price belongs to one product; UnitAmount is in the smallest currency
// unit (cents for usd).
type Price struct {
	ID         string `json:"id"`
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Nickname   string `json:"nickname"`
	Active     bool   `json:"active"`
}

// File is an uploaded, otherwise-private file.
type File struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Purpose  string `json:"purpose"`
}

// FileLink is the publicly resolvable URL issued for an uploaded file.
type FileLink struct {
	ID   string `json:"id"`
	File string `json:"file"`
	URL  string `json:"url"`
}

type productList struct {
	Data    []Product `json:"data"`
	HasMore bool      `json:"has_more"`
}

type priceList struct {
	Data    []Price `json:"data"`
	HasMore bool    `json:"has_more"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ProductParams are the fields this system sets when creating a product.
type ProductParams struct {
	Name        string
	Description string
	Code        string // stored as metadata[code]
	ImageURL    string // must already be publicly resolvable
}
