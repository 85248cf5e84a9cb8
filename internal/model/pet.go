// Package model holds the domain values exchanged over HTTP.
package model

import (
	"fmt"
)

// Gender is the closed set of pet genders.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Genders lists every valid Gender in declaration order.
var Genders = []Gender{GenderMale, GenderFemale}

// ParseGender returns the Gender named by s. Matching is exact; unknown
// names are rejected instead of falling back to a default.
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// Pet is the demo domain value. Both attributes are required; the msg tag
// holds the client-facing message per failing constraint.
type Pet struct {
	Name   string `json:"name" validate:"required" msg:"required=Name cannot be empty"`
	Gender Gender `json:"gender" validate:"required,oneof=MALE FEMALE" msg:"required=Gender cannot be empty;oneof=Gender must be one of: MALE, FEMALE"`
}

// NewPet builds a Pet from already typed values.
func NewPet(name string, gender Gender) Pet {
	return Pet{Name: name, Gender: gender}
}
