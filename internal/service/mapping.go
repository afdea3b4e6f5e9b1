package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bugasmarcondes/taskade-backend/internal/model"
	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

// Mapping from stored records to public entities happens here, once at the
// serialization boundary.

func userEntity(u store.UserRecord) model.User {
	return model.User{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
}

func todoEntity(t store.ToDoRecord) model.ToDo {
	return model.ToDo{
		ID:          t.ID.Hex(),
		Content:     t.Content,
		IsCompleted: t.IsCompleted,
		TaskListID:  t.TaskListID.Hex(),
	}
}

// taskListEntity resolves a task-list record into its public shape. Member
// users are looked up concurrently, one call per id, and reassembled in
// stored order; the todo query runs alongside them. One round trip per
// related entity, no batching.
func taskListEntity(ctx context.Context, st store.Store, tl store.TaskListRecord) (model.TaskList, error) {
	users := make([]model.User, len(tl.UserIDs))
	errs := make([]error, len(tl.UserIDs)+1)
	todos := []model.ToDo{}

	var wg sync.WaitGroup
	for i, id := range tl.UserIDs {
		wg.Add(1)
		go func(i int, id primitive.ObjectID) {
			defer wg.Done()
			u, err := st.UserByID(ctx, id)
			if err != nil {
				errs[i] = err
				return
			}
			users[i] = userEntity(u)
		}(i, id)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		records, err := st.ToDosForList(ctx, tl.ID)
		if err != nil {
			errs[len(tl.UserIDs)] = err
			return
		}
		for _, record := range records {
			todos = append(todos, todoEntity(record))
		}
	}()

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return model.TaskList{}, err
		}
	}

	return model.TaskList{
		ID:        tl.ID.Hex(),
		CreatedAt: tl.CreatedAt.Time().UTC(),
		Title:     tl.Title,
		Progress:  0, // completion fraction is not computed yet
		Users:     users,
		Todos:     todos,
	}, nil
}
