package requests

import (
	"errors"
	"strings"
)

type LocationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Country     string `json:"country"`
	IsPublic    bool   `json:"is_public"`
}

func (r *LocationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type RejectLocationRequest struct {
	Reason string `json:"reason"`
}
