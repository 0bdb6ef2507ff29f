package api

import (
	"context"
	"net/http"
	"net/url"

	"eadmin/internal/models"
	"eadmin/internal/querycache"
)

func (c *Client) ListUsers(ctx context.Context, params PageParams) (models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.checkRequest(params); err != nil {
		return page, err
	}
	q := params.values()
	err := c.query(ctx, call{
		endpoint: "/admin/users",
		path:     "/admin/users",
		query:    q,
		cacheKey: querycache.Key(querycache.KeyUsers, q.Encode()),
	}, &page)
	return page, err
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) error {
	if in.Role == models.RoleAdmin {
		in.SchoolUnitID, in.Course = "", ""
	}
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPost,
		endpoint: "/admin/users",
		path:     "/admin/users",
		body:     in,
	}, nil)
}

func (c *Client) UpdateUser(ctx context.Context, in UpdateUserInput) error {
	if err := c.checkRequest(in); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodPut,
		endpoint: "/admin/users/{id}",
		path:     "/admin/users/" + url.PathEscape(in.ID),
		body:     in,
	}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.checkID("id", id); err != nil {
		return err
	}
	return c.mutate(ctx, call{
		method:   http.MethodDelete,
		endpoint: "/admin/users/{id}",
		path:     "/admin/users/" + url.PathEscape(id),
	}, nil)
}
