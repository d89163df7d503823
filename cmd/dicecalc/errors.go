package main

import "errors"

// Sentinel errors for command operations
var (
	ErrCalculationFailed = errors.New("calculation failed")
	ErrHistoryDisabled   = errors.New("history is disabled: set history.enabled in the config file or pass --driver or --connection")
	ErrConfigExists      = errors.New("config file already exists")
)
