// Package model defines the entity shapes returned to clients. These are the
// public variants of the stored records; mapping from storage happens once at
// the serialization boundary, not per field.
package model

import "time"

type User struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
}

type TaskList struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Progress  float64   `json:"progress"`
	Users     []User    `json:"users"`
	Todos     []ToDo    `json:"todos"`
}

type ToDo struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"isCompleted"`
	TaskListID  string `json:"taskListId"`
}

// AuthPayload is what signUp and signIn return: the user plus a bearer token.
type AuthPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
