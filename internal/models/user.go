package models

type UserProfile struct {
	ID     string `json:"id,omitempty" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email"`
	Status string `json:"status,omitempty" yaml:"status"`
}
