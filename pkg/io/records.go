package io

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks record-level constraints before records reach the builder.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

type nodeRecord struct {
	Name     string `json:"name" validate:"required"`
	Options  uint64 `json:"options"`
	DevClass *int   `json:"devclass" validate:"required,gte=0"`
}

type addressRecord struct {
	Host string `json:"host"`
	Port int    `json:"port" validate:"gte=0,lte=65535"`
}

type edgeRecord struct {
	From    string         `json:"from" validate:"required"`
	To      string         `json:"to" validate:"required"`
	Address *addressRecord `json:"address,omitempty"`
	Options uint64         `json:"options"`
	Weight  *float64       `json:"weight" validate:"required"`
}
