package activity

import "github.com/verda-api/verda/internal/shared"

// CreateLogRequest is the payload for POST /api/logs.
type CreateLogRequest struct {
	Category string   `json:"category" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
}

// UpdateLogRequest is the payload for PUT /api/logs/{id}. Absent fields are kept.
type UpdateLogRequest struct {
	Category *string  `json:"category,omitempty" validate:"omitnil,min=1"`
	Amount   *float64 `json:"amount,omitempty" validate:"omitnil,gte=0"`
}

const msgInvalidLogID = "Invalid Log ID format"

var createMessages = shared.FieldMessages{
	"Category":        "Category is required",
	"Amount.required": "Amount is required",
	"Amount":          "Amount must be a non-negative number",
}

var updateMessages = shared.FieldMessages{
	"Category": "Category cannot be empty if provided",
	"Amount":   "Amount must be a non-negative number if provided",
}
