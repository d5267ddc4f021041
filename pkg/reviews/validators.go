package reviews

type CreateReviewPayload struct {
	Username string `json:"username" mod:"trim" validate:"required,max=100"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Body     string `json:"body" mod:"trim" validate:"required,max=5000"`
}
