// Package storetest provides an in-memory Store for tests.
package storetest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

// Store keeps all records in memory, in insertion order. It also counts
// mutations so tests can assert that rejected operations never touched
// storage.
type Store struct {
	mu        sync.Mutex
	users     []store.UserRecord
	taskLists []store.TaskListRecord
	todos     []store.ToDoRecord
	mutations int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Mutations returns how many writes the store has seen.
func (s *Store) Mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutations
}

func (s *Store) CreateUser(_ context.Context, u store.UserRecord) (store.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	u.ID = primitive.NewObjectID()
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) UserByID(_ context.Context, id primitive.ObjectID) (store.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return store.UserRecord{}, store.ErrNotFound
}

func (s *Store) UserByEmail(_ context.Context, email string) (store.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.UserRecord{}, store.ErrNotFound
}

func (s *Store) CreateTaskList(_ context.Context, tl store.TaskListRecord) (store.TaskListRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	tl.ID = primitive.NewObjectID()
	tl.UserIDs = append([]primitive.ObjectID(nil), tl.UserIDs...)
	s.taskLists = append(s.taskLists, tl)
	return tl, nil
}

func (s *Store) TaskListByID(_ context.Context, id primitive.ObjectID) (store.TaskListRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tl := range s.taskLists {
		if tl.ID == id {
			return copyTaskList(tl), nil
		}
	}
	return store.TaskListRecord{}, store.ErrNotFound
}

func (s *Store) TaskListsForUser(_ context.Context, userID primitive.ObjectID) ([]store.TaskListRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lists []store.TaskListRecord
	for _, tl := range s.taskLists {
		for _, id := range tl.UserIDs {
			if id == userID {
				lists = append(lists, copyTaskList(tl))
				break
			}
		}
	}
	return lists, nil
}

func (s *Store) UpdateTaskListTitle(_ context.Context, id primitive.ObjectID, title string) (store.TaskListRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tl := range s.taskLists {
		if tl.ID == id {
			s.mutations++
			s.taskLists[i].Title = title
			return copyTaskList(s.taskLists[i]), nil
		}
	}
	return store.TaskListRecord{}, store.ErrNotFound
}

func (s *Store) DeleteTaskList(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tl := range s.taskLists {
		if tl.ID == id {
			s.mutations++
			s.taskLists = append(s.taskLists[:i], s.taskLists[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AddTaskListMember(_ context.Context, id, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tl := range s.taskLists {
		if tl.ID != id {
			continue
		}
		for _, existing := range tl.UserIDs {
			if existing == userID {
				return nil
			}
		}
		s.mutations++
		s.taskLists[i].UserIDs = append(s.taskLists[i].UserIDs, userID)
		return nil
	}
	return store.ErrNotFound
}

func (s *Store) CreateToDo(_ context.Context, td store.ToDoRecord) (store.ToDoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations++
	td.ID = primitive.NewObjectID()
	s.todos = append(s.todos, td)
	return td, nil
}

func (s *Store) ToDoByID(_ context.Context, id primitive.ObjectID) (store.ToDoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, td := range s.todos {
		if td.ID == id {
			return td, nil
		}
	}
	return store.ToDoRecord{}, store.ErrNotFound
}

func (s *Store) ToDosForList(_ context.Context, taskListID primitive.ObjectID) ([]store.ToDoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var todos []store.ToDoRecord
	for _, td := range s.todos {
		if td.TaskListID == taskListID {
			todos = append(todos, td)
		}
	}
	return todos, nil
}

func (s *Store) UpdateToDo(_ context.Context, id primitive.ObjectID, upd store.ToDoUpdate) (store.ToDoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, td := range s.todos {
		if td.ID != id {
			continue
		}
		s.mutations++
		if upd.Content != nil {
			s.todos[i].Content = *upd.Content
		}
		if upd.IsCompleted != nil {
			s.todos[i].IsCompleted = *upd.IsCompleted
		}
		return s.todos[i], nil
	}
	return store.ToDoRecord{}, store.ErrNotFound
}

func copyTaskList(tl store.TaskListRecord) store.TaskListRecord {
	tl.UserIDs = append([]primitive.ObjectID(nil), tl.UserIDs...)
	return tl
}
