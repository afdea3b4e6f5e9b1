package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the documents already in production.
const (
	usersCollection     = "Users"
	taskListsCollection = "TaskList"
	todosCollection     = "ToDo"
)

// Mongo implements Store on top of a MongoDB database.
type Mongo struct {
	client    *mongo.Client
	users     *mongo.Collection
	taskLists *mongo.Collection
	todos     *mongo.Collection
}

// Open connects to the MongoDB at uri, pings it, and returns a handle bound
// to dbName. The caller owns the lifecycle and must Close it at shutdown.
func Open(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	return &Mongo{
		client:    client,
		users:     db.Collection(usersCollection),
		taskLists: db.Collection(taskListsCollection),
		todos:     db.Collection(todosCollection),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) CreateUser(ctx context.Context, u UserRecord) (UserRecord, error) {
	res, err := m.users.InsertOne(ctx, u)
	if err != nil {
		return UserRecord{}, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (m *Mongo) UserByID(ctx context.Context, id primitive.ObjectID) (UserRecord, error) {
	var u UserRecord
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, mapErr(err)
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (UserRecord, error) {
	var u UserRecord
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, mapErr(err)
}

func (m *Mongo) CreateTaskList(ctx context.Context, tl TaskListRecord) (TaskListRecord, error) {
	res, err := m.taskLists.InsertOne(ctx, tl)
	if err != nil {
		return TaskListRecord{}, err
	}
	tl.ID = res.InsertedID.(primitive.ObjectID)
	return tl, nil
}

func (m *Mongo) TaskListByID(ctx context.Context, id primitive.ObjectID) (TaskListRecord, error) {
	var tl TaskListRecord
	err := m.taskLists.FindOne(ctx, bson.M{"_id": id}).Decode(&tl)
	return tl, mapErr(err)
}

func (m *Mongo) TaskListsForUser(ctx context.Context, userID primitive.ObjectID) ([]TaskListRecord, error) {
	cursor, err := m.taskLists.Find(ctx, bson.M{"userIds": userID})
	if err != nil {
		return nil, err
	}
	var lists []TaskListRecord
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (m *Mongo) UpdateTaskListTitle(ctx context.Context, id primitive.ObjectID, title string) (TaskListRecord, error) {
	var tl TaskListRecord
	err := m.taskLists.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"title": title}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tl)
	return tl, mapErr(err)
}

func (m *Mongo) DeleteTaskList(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.taskLists.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *Mongo) AddTaskListMember(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := m.taskLists.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"userIds": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateToDo(ctx context.Context, td ToDoRecord) (ToDoRecord, error) {
	res, err := m.todos.InsertOne(ctx, td)
	if err != nil {
		return ToDoRecord{}, err
	}
	td.ID = res.InsertedID.(primitive.ObjectID)
	return td, nil
}

func (m *Mongo) ToDoByID(ctx context.Context, id primitive.ObjectID) (ToDoRecord, error) {
	var td ToDoRecord
	err := m.todos.FindOne(ctx, bson.M{"_id": id}).Decode(&td)
	return td, mapErr(err)
}

func (m *Mongo) ToDosForList(ctx context.Context, taskListID primitive.ObjectID) ([]ToDoRecord, error) {
	cursor, err := m.todos.Find(ctx, bson.M{"taskListId": taskListID})
	if err != nil {
		return nil, err
	}
	var todos []ToDoRecord
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (m *Mongo) UpdateToDo(ctx context.Context, id primitive.ObjectID, upd ToDoUpdate) (ToDoRecord, error) {
	set := bson.M{}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.IsCompleted != nil {
		set["isCompleted"] = *upd.IsCompleted
	}
	if len(set) == 0 {
		return m.ToDoByID(ctx, id)
	}
	var td ToDoRecord
	err := m.todos.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&td)
	return td, mapErr(err)
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
