// ABOUTME: Store interface and data types for scrawl persistence
// ABOUTME: Defines Page, User structs and the error sentinels shared by the store

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicatePage is returned when trying to create a page whose name is taken
var ErrDuplicatePage = errors.New("page already exists")

// ErrDuplicateUser is returned when trying to create a user whose login is taken
var ErrDuplicateUser = errors.New("user already exists")

// Page is one wiki page. Content is raw Markdown; rendering happens at the
// edge, never in the store.
type Page struct {
	ID      string
	Name    string
	Content string
}

// User is a credential-backend account. PasswordHash is a bcrypt hash.
type User struct {
	Login        string
	PasswordHash string
}

// PageStore defines the persistence operations content handlers use. All
// guard decisions happen before any of these run.
type PageStore interface {
	ListPageNames(ctx context.Context) ([]string, error)
	GetPage(ctx context.Context, id string) (*Page, error)
	GetPageByName(ctx context.Context, name string) (*Page, error)
	CreatePage(ctx context.Context, name, content string) (*Page, error)
	UpdatePage(ctx context.Context, id, content string) error
	DeletePage(ctx context.Context, id string) error
}
