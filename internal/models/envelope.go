package models

import (
	"encoding/json"
)

type Code int

const (
	CODE_SUCCESS Code = 1
	// CODE_FAILURE also stands for "no verification step required" on the
	// captcha operations.
	CODE_FAILURE Code = -1
)

type Envelope struct {
	Code Code `json:"code"`
	Data any  `json:"data"`
}

func Success(data any) Envelope {
	return Envelope{Code: CODE_SUCCESS, Data: data}
}

// Failure carries an empty string as data, callers get no diagnostic detail.
func Failure() Envelope {
	return Envelope{Code: CODE_FAILURE, Data: ""}
}

func (e Envelope) Ok() bool {
	return e.Code == CODE_SUCCESS
}

// Marshal serializes the envelope with a 4 space indent.
func (e Envelope) Marshal() ([]byte, error) {
	return json.MarshalIndent(e, "", "    ")
}
