// Package store persists users, task lists and todos in a document store.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("store: not found")

// UserRecord is the stored shape of a user. Password holds the bcrypt hash,
// never the plaintext.
type UserRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Avatar   *string            `bson:"avatar,omitempty"`
}

// TaskListRecord is the stored shape of a task list. UserIDs is append-only
// and always contains at least the creator.
type TaskListRecord struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Title     string               `bson:"title"`
	CreatedAt primitive.DateTime   `bson:"createdAt"`
	UserIDs   []primitive.ObjectID `bson:"userIds"`
}

// ToDoRecord is the stored shape of a todo item.
type ToDoRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Content     string             `bson:"content"`
	IsCompleted bool               `bson:"isCompleted"`
	TaskListID  primitive.ObjectID `bson:"taskListId"`
}

// ToDoUpdate carries a partial update: nil fields are left untouched.
type ToDoUpdate struct {
	Content     *string
	IsCompleted *bool
}

// Store is the narrow interface the domain operations use. The Mongo
// implementation is the real one; tests substitute an in-memory fake.
// Lookups that match nothing return ErrNotFound.
type Store interface {
	CreateUser(ctx context.Context, u UserRecord) (UserRecord, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (UserRecord, error)
	UserByEmail(ctx context.Context, email string) (UserRecord, error)

	CreateTaskList(ctx context.Context, tl TaskListRecord) (TaskListRecord, error)
	TaskListByID(ctx context.Context, id primitive.ObjectID) (TaskListRecord, error)
	TaskListsForUser(ctx context.Context, userID primitive.ObjectID) ([]TaskListRecord, error)
	UpdateTaskListTitle(ctx context.Context, id primitive.ObjectID, title string) (TaskListRecord, error)
	DeleteTaskList(ctx context.Context, id primitive.ObjectID) (bool, error)
	AddTaskListMember(ctx context.Context, id, userID primitive.ObjectID) error

	CreateToDo(ctx context.Context, td ToDoRecord) (ToDoRecord, error)
	ToDoByID(ctx context.Context, id primitive.ObjectID) (ToDoRecord, error)
	ToDosForList(ctx context.Context, taskListID primitive.ObjectID) ([]ToDoRecord, error)
	UpdateToDo(ctx context.Context, id primitive.ObjectID, upd ToDoUpdate) (ToDoRecord, error)
}
