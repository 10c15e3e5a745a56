package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAdminLocked        = errors.New("admin session locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
