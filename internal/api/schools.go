package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"eadmin/internal/models"
	"eadmin/internal/querycache"
)

// schoolList accepts both the bare array the API sends today and a page
// envelope.
type schoolList []models.School

func (l *schoolList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var schools []models.School
		if err := json.Unmarshal(trimmed, &schools); err != nil {
			return err
		}
		*l = schools
		return nil
	}

	var page models.Page[models.School]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	*l = page.Content
	return nil
}

// ListSchools pages and searches the school units on the client side.
func (c *Client) ListSchools(ctx context.Context, params SchoolParams) (models.Page[models.School], error) {
	params.PageParams = params.PageParams.normalized()

	var all schoolList
	err := c.query(ctx, call{
		endpoint: "/school-units",
		path:     "/school-units",
		cacheKey: querycache.KeySchools,
	}, &all)
	if err != nil {
		return models.Page[models.School]{}, err
	}

	filtered := make([]models.School, 0, len(all))
	for _, s := range all {
		if s.Matches(params.Search) {
			filtered = append(filtered, s)
		}
	}
	return models.Paginate(filtered, params.Page, params.PageSize), nil
}

// CreateSchool registers a school unit.
func (c *Client) CreateSchool(ctx context.Context, in SchoolInput) error {
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/school-units",
		path:     "/school-units",
		body:     in,
	}, nil)
}

func (c *Client) DeleteSchool(ctx context.Context, id string) error {
	if err := c.checkID("id", id); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodDelete,
		endpoint: "/school-units/{id}",
		path:     "/school-units/" + url.PathEscape(id),
	}, nil)
}

// ListSchoolTeachers pages the teachers of a school unit on the client side.
func (c *Client) ListSchoolTeachers(ctx context.Context, schoolID string, params PageParams) (models.Page[models.Teacher], error) {
	if err := c.checkID("schoolId", schoolID); err != nil {
		return models.Page[models.Teacher]{}, err
	}
	params = params.normalized()

	var teachers []models.Teacher
	err := c.query(ctx, call{
		endpoint: "/school-units/{id}/teachers",
		path:     "/school-units/" + url.PathEscape(schoolID) + "/teachers",
		cacheKey: querycache.Key(querycache.KeySchools, schoolID, querycache.KeyTeachers),
	}, &teachers)
	if err != nil {
		return models.Page[models.Teacher]{}, err
	}
	return models.Paginate(teachers, params.Page, params.PageSize), nil
}
