package novels

type ListNovelsQuery struct {
	Search  string `query:"search" json:"search,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Genre   string `query:"genre" json:"genre,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Tags    string `query:"tags" json:"tags,omitempty" mod:"trim" validate:"omitempty,max=300"`
	Exclude string `query:"exclude" json:"exclude,omitempty" mod:"trim" validate:"omitempty,max=300"`
	Page    int    `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
	Limit   int    `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1"`
}

type CreateNovelPayload struct {
	BookName    string   `json:"book_name" mod:"trim" validate:"required,max=300"`
	Author      string   `json:"author" mod:"trim" validate:"required,max=200"`
	Description string   `json:"description" mod:"trim" validate:"required"`
	Genre       string   `json:"genre" mod:"trim" validate:"required,max=100"`
	SourceURL   string   `json:"source_url" mod:"trim" validate:"required,max=500"`
	CoverURL    string   `json:"cover_url,omitempty" mod:"trim" validate:"omitempty,max=500"`
	Tag1        string   `json:"tag1,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Tag2        string   `json:"tag2,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Tag3        string   `json:"tag3,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=3,dive,max=100"`
	Status      string   `json:"status,omitempty" mod:"trim"`
	Read        int      `json:"read,omitempty" validate:"min=0"`
}

type UpdateNovelPayload struct {
	BookName    *string   `json:"book_name,omitempty" validate:"omitempty,max=300"`
	Author      *string   `json:"author,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty"`
	Genre       *string   `json:"genre,omitempty" validate:"omitempty,max=100"`
	SourceURL   *string   `json:"source_url,omitempty" validate:"omitempty,max=500"`
	CoverURL    *string   `json:"cover_url,omitempty" validate:"omitempty,max=500"`
	Tag1        *string   `json:"tag1,omitempty" validate:"omitempty,max=100"`
	Tag2        *string   `json:"tag2,omitempty" validate:"omitempty,max=100"`
	Tag3        *string   `json:"tag3,omitempty" validate:"omitempty,max=100"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=3,dive,max=100"`
	Status      *string   `json:"status,omitempty"`
}
