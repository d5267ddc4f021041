package novels

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/novelshelf/novelshelf/pkg/errcodes"
	"github.com/novelshelf/novelshelf/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	novelService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListNovelsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	offset := (params.Page - 1) * params.Limit
	opts := ListNovelsOptions{
		Limit:   &params.Limit,
		Offset:  &offset,
		Tags:    splitTags(params.Tags),
		Exclude: splitTags(params.Exclude),
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		opts.Search = &search
	}
	if genre := strings.TrimSpace(params.Genre); genre != "" {
		opts.Genre = &genre
	}

	novels, total, err := h.novelService.ListNovelsWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}
	if novels == nil {
		novels = []*models.Novel{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	resp := struct {
		Novels     []*models.Novel `json:"novels"`
		Total      int             `json:"total"`
		Page       int             `json:"page"`
		TotalPages int             `json:"total_pages"`
	}{novels, total, params.Page, totalPages}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Novel")
	}

	novel, err := h.novelService.RetrieveNovel(ctx, RetrieveNovelOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, novel))
}

func (h *handler) recommendations(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Novel")
	}

	novel, err := h.novelService.RetrieveNovel(ctx, RetrieveNovelOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	all, err := h.novelService.ListNovels(ctx, ListNovelsOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	recommended := Recommend(novel, all)

	return errors.WithStack(c.JSON(http.StatusOK, recommended))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateNovelPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	status := params.Status
	if !models.ValidStatus(status) {
		// Omitted or unknown statuses default rather than fail on create.
		status = models.StatusOngoing
	}

	novel := &models.Novel{
		BookName:    params.BookName,
		Author:      params.Author,
		Description: params.Description,
		Genre:       params.Genre,
		SourceURL:   params.SourceURL,
		CoverURL:    params.CoverURL,
		Status:      status,
		Read:        params.Read,
	}
	novel.SetTags(resolveTags(params))

	if err := h.novelService.CreateNovel(ctx, novel); err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string        `json:"message"`
		Novel   *models.Novel `json:"novel"`
	}{"Novel added successfully", novel}

	return errors.WithStack(c.JSON(http.StatusCreated, resp))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.BadRequest("Invalid novel ID")
	}

	params := UpdateNovelPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	novel, err := h.novelService.RetrieveNovel(ctx, RetrieveNovelOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Columns track which fields the caller supplied, not which changed;
	// resubmitting the same value still bumps updated_at.
	opts := UpdateNovelOptions{Columns: []string{}}

	type requiredField struct {
		name  string
		param *string
		dest  *string
	}
	for _, f := range []requiredField{
		{"book_name", params.BookName, &novel.BookName},
		{"author", params.Author, &novel.Author},
		{"description", params.Description, &novel.Description},
		{"genre", params.Genre, &novel.Genre},
		{"source_url", params.SourceURL, &novel.SourceURL},
	} {
		if f.param == nil {
			continue
		}
		v := strings.TrimSpace(*f.param)
		if v == "" {
			return errcodes.ValidationError(fmt.Sprintf("%q is required", f.name))
		}
		*f.dest = v
		opts.Columns = append(opts.Columns, f.name)
	}

	if params.CoverURL != nil {
		novel.CoverURL = strings.TrimSpace(*params.CoverURL)
		opts.Columns = append(opts.Columns, "cover_url")
	}

	if params.Status != nil {
		if !models.ValidStatus(*params.Status) {
			return errcodes.ValidationError("Invalid status value")
		}
		novel.Status = *params.Status
		opts.Columns = append(opts.Columns, "status")
	}

	if params.Tags != nil {
		tags := make([]string, 0, 3)
		for _, tag := range *params.Tags {
			if v := strings.TrimSpace(tag); v != "" {
				tags = append(tags, v)
			}
		}
		novel.SetTags(tags)
		opts.Columns = append(opts.Columns, "tag1", "tag2", "tag3")
	} else {
		type tagSlot struct {
			name  string
			param *string
			dest  *string
		}
		for _, slot := range []tagSlot{
			{"tag1", params.Tag1, &novel.Tag1},
			{"tag2", params.Tag2, &novel.Tag2},
			{"tag3", params.Tag3, &novel.Tag3},
		} {
			if slot.param == nil {
				continue
			}
			*slot.dest = strings.TrimSpace(*slot.param)
			opts.Columns = append(opts.Columns, slot.name)
		}
	}

	if len(opts.Columns) == 0 {
		return errcodes.ValidationError("No fields to update")
	}

	if err := h.novelService.UpdateNovel(ctx, novel, opts); err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string        `json:"message"`
		Novel   *models.Novel `json:"novel"`
	}{"Novel updated successfully", novel}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) deleteNovel(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.BadRequest("Invalid novel ID")
	}

	if err := h.novelService.DeleteNovel(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	resp := map[string]string{"message": "Novel deleted successfully"}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) incrementRead(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.BadRequest("Invalid novel ID")
	}

	read, err := h.novelService.IncrementRead(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := map[string]int{"read": read}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// resolveTags picks the tag values for a new novel: an explicit tags array
// wins over the individual slot fields.
func resolveTags(params CreateNovelPayload) []string {
	tags := make([]string, 0, 3)
	source := params.Tags
	if len(source) == 0 {
		source = []string{params.Tag1, params.Tag2, params.Tag3}
	}
	for _, tag := range source {
		if v := strings.TrimSpace(tag); v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}

// splitTags comma-splits a filter parameter into trimmed non-empty tokens.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	tokens := make([]string, 0, 3)
	for _, token := range strings.Split(s, ",") {
		if v := strings.TrimSpace(token); v != "" {
			tokens = append(tokens, v)
		}
	}
	return tokens
}
