package api

import (
	"context"
	"net/http"
	"net/url"

	"eadmin/internal/models"
	"eadmin/internal/querycache"
)

func (c *Client) ListAllSpaces(ctx context.Context) ([]models.AcademicSpace, error) {
	var spaces []models.AcademicSpace
	err := c.query(ctx, call{
		endpoint: "/admin/spaces/all",
		path:     "/admin/spaces/all",
		cacheKey: querycache.KeyAllSpaces,
	}, &spaces)
	return spaces, err
}

// ListAvailableSpaces returns the spaces teachers may book.
func (c *Client) ListAvailableSpaces(ctx context.Context) ([]models.AcademicSpace, error) {
	var spaces []models.AcademicSpace
	err := c.query(ctx, call{
		endpoint: "/spaces/available",
		path:     "/spaces/available",
		cacheKey: querycache.KeyAvailableSpaces,
	}, &spaces)
	return spaces, err
}

func (c *Client) ListSpaces(ctx context.Context, params FilterParams) (models.Page[models.AcademicSpace], error) {
	var page models.Page[models.AcademicSpace]
	if err := c.checkRequest(params); err != nil {
		return page, err
	}
	q := params.values()
	err := c.query(ctx, call{
		endpoint: "/admin/spaces",
		path:     "/admin/spaces",
		query:    q,
		cacheKey: querycache.Key(querycache.KeySpaces, q.Encode()),
	}, &page)
	return page, err
}

func (c *Client) CreateSpace(ctx context.Context, in SpaceInput) error {
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/admin/spaces",
		path:     "/admin/spaces",
		body:     in,
	}, nil)
}

func (c *Client) UpdateSpace(ctx context.Context, id string, in SpaceInput) error {
	if err := c.requireID("id", id); err != nil {
		return err
	}
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPut,
		endpoint: "/admin/spaces/{id}",
		path:     "/admin/spaces/" + url.PathEscape(id),
		body:     in,
	}, nil)
}

// ChangeSpaceStatus sets a space AVAILABLE or UNAVAILABLE.
func (c *Client) ChangeSpaceStatus(ctx context.Context, id, status string) error {
	if err := c.requireID("id", id); err != nil {
		return err
	}
	in := spaceStatusInput{Status: status}
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPatch,
		endpoint: "/admin/spaces/{id}/status",
		path:     "/admin/spaces/" + url.PathEscape(id) + "/status",
		body:     in,
	}, nil)
}
