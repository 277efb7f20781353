package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAddonNotFound    = errors.New("addon not found")
	ErrOverlayNotFound  = errors.New("overlay not found")
	ErrNotInstalled     = errors.New("addon not installed")
	ErrAlreadyInstalled = errors.New("addon already installed")
)
