package models

import "errors"

var (
	ErrAuthBusy            = errors.New("another session operation is in progress")
	ErrInvalidAuthResponse = errors.New("invalid response from server")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAdminRequired       = errors.New("admin privileges required")
)

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrRecordNotFound     = errors.New("record not found")
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartUnavailable  = errors.New("cart service unavailable")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidCard      = errors.New("invalid card number")
	ErrInvalidParams    = errors.New("invalid parameters")
)

var (
	ErrQueuePublish = errors.New("failed to publish message")
)
