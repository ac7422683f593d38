package errors

import "fmt"

var (
	ErrReceiverNotFound = fmt.Errorf("receiver not found")
	ErrSelfMessage      = fmt.Errorf("cannot message yourself")
	ErrBlocked          = fmt.Errorf("blocked")
	ErrAdNotFound       = fmt.Errorf("ad not found")
	ErrEmptyContent     = fmt.Errorf("content must not be empty")
	ErrMessageNotFound  = fmt.Errorf("message not found")
	ErrNotReceiver      = fmt.Errorf("only the receiver can mark a message read")
	ErrNotSender        = fmt.Errorf("only the sender can delete a message")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrUserExists       = fmt.Errorf("user already exists")
	ErrAdExists         = fmt.Errorf("ad already exists")
	ErrBlockExists      = fmt.Errorf("block already exists")
	ErrSendFailed       = fmt.Errorf("error sending message")
	ErrInvalidToken     = fmt.Errorf("invalid token")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
)
