package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrDuplicateRecord = errors.New("Record already exists")
var ErrInvalidPin = errors.New("Invalid transaction pin")
var ErrSelfTransfer = errors.New("Sender and recipient cannot be the same")
var ErrAmountBelowMinimum = errors.New("Amount is below the minimum transfer")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrAccountNotActive = errors.New("Account is not verified")
