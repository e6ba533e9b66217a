// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Collection is the CRUD surface of one REST resource.
type Collection[T any] struct {
	rq   Requester
	path string
}

// NewCollection binds a resource path such as "/agents".
func NewCollection[T any](rq Requester, path string) *Collection[T] {
	return &Collection[T]{rq: rq, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (c *Collection[T]) Path() string { return c.path }

// List calls GET /x.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.rq.Do(ctx, http.MethodGet, c.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get calls GET /x/{id}.
func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := c.rq.Do(ctx, http.MethodGet, c.item(id), nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Create calls POST /x and returns the stored entity.
func (c *Collection[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	if err := c.rq.Do(ctx, http.MethodPost, c.path, v, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update calls PUT /x/{id} and returns the stored entity.
func (c *Collection[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	var out T
	if err := c.rq.Do(ctx, http.MethodPut, c.item(id), v, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Delete calls DELETE /x/{id}.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	return c.rq.Do(ctx, http.MethodDelete, c.item(id), nil, nil)
}

func (c *Collection[T]) item(id int64) string {
	return fmt.Sprintf("%s/%s", c.path, url.PathEscape(strconv.FormatInt(id, 10)))
}
