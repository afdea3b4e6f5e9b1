package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bugasmarcondes/taskade-backend/internal/auth"
	"github.com/bugasmarcondes/taskade-backend/internal/model"
	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

// Service holds the collaborators shared by all operations. Per-request
// state (storage handle, identity) travels in the RequestContext instead.
type Service struct {
	tokens *auth.TokenService
	now    func() time.Time
}

func New(tokens *auth.TokenService) *Service {
	return &Service{tokens: tokens, now: time.Now}
}

// SignUpInput carries the sign-up fields. Avatar is optional.
type SignUpInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
}

// SignUp registers a new user, storing only the bcrypt hash of the password,
// and signs them in.
func (s *Service) SignUp(ctx context.Context, rc RequestContext, input SignUpInput) (*model.AuthPayload, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, &ValidationError{Message: "email, password and name are required"}
	}

	_, err := rc.Store.UserByEmail(ctx, input.Email)
	if err == nil {
		return nil, &ValidationError{Message: "email already registered"}
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := rc.Store.CreateUser(ctx, store.UserRecord{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Avatar:   input.Avatar,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &model.AuthPayload{User: userEntity(user), Token: token}, nil
}

// SignIn checks the password against the stored hash and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, rc RequestContext, email, password string) (*model.AuthPayload, error) {
	user, err := rc.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.Password) {
		return nil, errInvalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &model.AuthPayload{User: userEntity(user), Token: token}, nil
}

// MyTaskLists returns every task list whose member set contains the caller.
func (s *Service) MyTaskLists(ctx context.Context, rc RequestContext) ([]model.TaskList, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	records, err := rc.Store.TaskListsForUser(ctx, rc.User.ID)
	if err != nil {
		return nil, err
	}
	lists := make([]model.TaskList, 0, len(records))
	for _, record := range records {
		list, err := taskListEntity(ctx, rc.Store, record)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// GetTaskList fetches a task list by id. Any authenticated user may fetch
// any list; membership is not checked. Unknown ids return nil, not an error.
func (s *Service) GetTaskList(ctx context.Context, rc RequestContext, id string) (*model.TaskList, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	record, err := rc.Store.TaskListByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	list, err := taskListEntity(ctx, rc.Store, record)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateTaskList creates a list with the caller as its sole member.
func (s *Service) CreateTaskList(ctx context.Context, rc RequestContext, title string) (*model.TaskList, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	record, err := rc.Store.CreateTaskList(ctx, store.TaskListRecord{
		Title:     title,
		CreatedAt: primitive.NewDateTimeFromTime(s.now()),
		UserIDs:   []primitive.ObjectID{rc.User.ID},
	})
	if err != nil {
		return nil, err
	}
	list, err := taskListEntity(ctx, rc.Store, record)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateTaskList renames a list by id. Membership is not checked.
func (s *Service) UpdateTaskList(ctx context.Context, rc RequestContext, id, title string) (*model.TaskList, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	record, err := rc.Store.UpdateTaskListTitle(ctx, oid, title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	list, err := taskListEntity(ctx, rc.Store, record)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteTaskList removes a list by id. Its todos are left in place, so they
// are orphaned; there is no cascade.
func (s *Service) DeleteTaskList(ctx context.Context, rc RequestContext, id string) (bool, error) {
	if !rc.Authenticated() {
		return false, errNotSignedIn()
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	return rc.Store.DeleteTaskList(ctx, oid)
}

// AddUserToTaskList appends userID to the list's member set. Adding an
// existing member is a no-op that returns the list unchanged. Unknown lists
// return nil.
func (s *Service) AddUserToTaskList(ctx context.Context, rc RequestContext, taskListID, userID string) (*model.TaskList, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	listOID, err := primitive.ObjectIDFromHex(taskListID)
	if err != nil {
		return nil, nil
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	record, err := rc.Store.TaskListByID(ctx, listOID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	alreadyMember := false
	for _, id := range record.UserIDs {
		if id == userOID {
			alreadyMember = true
			break
		}
	}
	if !alreadyMember {
		if err := rc.Store.AddTaskListMember(ctx, listOID, userOID); err != nil {
			return nil, err
		}
		// Keep the response consistent with the $addToSet just persisted.
		record.UserIDs = append(record.UserIDs, userOID)
	}

	list, err := taskListEntity(ctx, rc.Store, record)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateToDo adds an incomplete todo under the given task list.
func (s *Service) CreateToDo(ctx context.Context, rc RequestContext, content, taskListID string) (*model.ToDo, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	listOID, err := primitive.ObjectIDFromHex(taskListID)
	if err != nil {
		return nil, &ValidationError{Message: "invalid taskListId"}
	}
	record, err := rc.Store.CreateToDo(ctx, store.ToDoRecord{
		Content:     content,
		IsCompleted: false,
		TaskListID:  listOID,
	})
	if err != nil {
		return nil, err
	}
	todo := todoEntity(record)
	return &todo, nil
}

// UpdateToDo applies a partial update: only the fields the caller supplied
// change. Unknown ids return nil.
func (s *Service) UpdateToDo(ctx context.Context, rc RequestContext, id string, content *string, isCompleted *bool) (*model.ToDo, error) {
	if !rc.Authenticated() {
		return nil, errNotSignedIn()
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	record, err := rc.Store.UpdateToDo(ctx, oid, store.ToDoUpdate{
		Content:     content,
		IsCompleted: isCompleted,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	todo := todoEntity(record)
	return &todo, nil
}
