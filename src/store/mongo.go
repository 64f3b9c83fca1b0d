package store

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Backend-Inspectrack/src/models"
)

// Mongo is the production backend.
type Mongo struct {
	client         *mongo.Client
	drafts         *mongo.Collection
	customizations *mongo.Collection
	inspections    *mongo.Collection
	issues         *mongo.Collection
	users          *mongo.Collection
}

func NewMongo(client *mongo.Client, db *mongo.Database) *Mongo {
	return &Mongo{
		client:         client,
		drafts:         db.Collection("drafts"),
		customizations: db.Collection("template_customizations"),
		inspections:    db.Collection("inspections"),
		issues:         db.Collection("issues"),
		users:          db.Collection("users"),
	}
}

// EnsureIndexes creates the unique keys the store relies on for upserts.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	pair := mongo.IndexModel{
		Keys:    bson.D{{Key: "buildingId", Value: 1}, {Key: "formId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := m.drafts.Indexes().CreateOne(ctx, pair); err != nil {
		return err
	}
	if _, err := m.customizations.Indexes().CreateOne(ctx, pair); err != nil {
		return err
	}
	if _, err := m.inspections.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "buildingId", Value: 1}, {Key: "completedAt", Value: -1}},
	}); err != nil {
		return err
	}
	if _, err := m.issues.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "buildingId", Value: 1}, {Key: "status", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func pairFilter(sess models.Session, formID string) bson.M {
	return bson.M{"buildingId": sess.BuildingID, "formId": formID}
}

func (m *Mongo) GetDraft(ctx context.Context, sess models.Session, formID string) (models.Draft, error) {
	if err := checkSession(sess); err != nil {
		return models.Draft{}, err
	}
	var d models.Draft
	if err := m.drafts.FindOne(ctx, pairFilter(sess, formID)).Decode(&d); err != nil {
		return models.Draft{}, notFound(err)
	}
	normalizeDraft(&d)
	return d, nil
}

func (m *Mongo) UpsertDraft(ctx context.Context, sess models.Session, d models.Draft) (models.Draft, error) {
	if err := checkSession(sess); err != nil {
		return models.Draft{}, err
	}
	d.BuildingID = sess.BuildingID
	normalizeDraft(&d)
	_, err := m.drafts.ReplaceOne(ctx, pairFilter(sess, d.FormID), d, options.Replace().SetUpsert(true))
	if err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

func (m *Mongo) DeleteDraft(ctx context.Context, sess models.Session, formID string) error {
	if err := checkSession(sess); err != nil {
		return err
	}
	_, err := m.drafts.DeleteOne(ctx, pairFilter(sess, formID))
	return err
}

func (m *Mongo) ListInspections(ctx context.Context, sess models.Session, f models.InspectionFilter) ([]models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	filter := bson.M{"buildingId": sess.BuildingID}
	if !f.Date.IsZero() {
		start, end := f.DayBounds()
		filter["completedAt"] = bson.M{"$gte": start, "$lt": end}
	}
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	cursor, err := m.inspections.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Inspection{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) GetInspection(ctx context.Context, sess models.Session, id string) (models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return models.Inspection{}, err
	}
	var in models.Inspection
	err := m.inspections.FindOne(ctx, bson.M{"_id": id, "buildingId": sess.BuildingID}).Decode(&in)
	if err != nil {
		return models.Inspection{}, notFound(err)
	}
	return in, nil
}

func (m *Mongo) CreateInspection(ctx context.Context, sess models.Session, in models.Inspection) (models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return models.Inspection{}, err
	}
	in.BuildingID = sess.BuildingID
	if _, err := m.inspections.InsertOne(ctx, in); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Inspection{}, ErrDuplicate
		}
		return models.Inspection{}, err
	}
	log.Printf("[store] inspection inserted id=%s building=%s coll=%s", in.ID, in.BuildingID, m.inspections.Name())
	return in, nil
}

func (m *Mongo) DeleteAllInspections(ctx context.Context, sess models.Session) (int64, error) {
	if err := checkSession(sess); err != nil {
		return 0, err
	}
	res, err := m.inspections.DeleteMany(ctx, bson.M{"buildingId": sess.BuildingID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *Mongo) ListIssues(ctx context.Context, sess models.Session, status models.IssueStatus) ([]models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	filter := bson.M{"buildingId": sess.BuildingID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "openedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := m.issues.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Issue{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) GetIssue(ctx context.Context, sess models.Session, id string) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	var is models.Issue
	if err := m.issues.FindOne(ctx, bson.M{"_id": id, "buildingId": sess.BuildingID}).Decode(&is); err != nil {
		return models.Issue{}, notFound(err)
	}
	return is, nil
}

func (m *Mongo) CreateIssue(ctx context.Context, sess models.Session, is models.Issue) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	is.BuildingID = sess.BuildingID
	if _, err := m.issues.InsertOne(ctx, is); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Issue{}, ErrDuplicate
		}
		return models.Issue{}, err
	}
	return is, nil
}

func (m *Mongo) UpdateIssueStatus(ctx context.Context, sess models.Session, id string, status models.IssueStatus, now time.Time) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	update := bson.M{"$set": bson.M{"status": status}, "$unset": bson.M{"closedAt": ""}}
	if status == models.IssueResolved {
		update = bson.M{"$set": bson.M{"status": status, "closedAt": now}}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var is models.Issue
	err := m.issues.FindOneAndUpdate(ctx, bson.M{"_id": id, "buildingId": sess.BuildingID}, update, opts).Decode(&is)
	if err != nil {
		return models.Issue{}, notFound(err)
	}
	return is, nil
}

func (m *Mongo) DeleteAllIssues(ctx context.Context, sess models.Session) (int64, error) {
	if err := checkSession(sess); err != nil {
		return 0, err
	}
	res, err := m.issues.DeleteMany(ctx, bson.M{"buildingId": sess.BuildingID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *Mongo) GetCustomization(ctx context.Context, sess models.Session, formID string) (models.TemplateCustomization, error) {
	if err := checkSession(sess); err != nil {
		return models.TemplateCustomization{}, err
	}
	var c models.TemplateCustomization
	if err := m.customizations.FindOne(ctx, pairFilter(sess, formID)).Decode(&c); err != nil {
		return models.TemplateCustomization{}, notFound(err)
	}
	normalizeCustomization(&c)
	return c, nil
}

func (m *Mongo) UpsertCustomization(ctx context.Context, sess models.Session, c models.TemplateCustomization) (models.TemplateCustomization, error) {
	if err := checkSession(sess); err != nil {
		return models.TemplateCustomization{}, err
	}
	c.BuildingID = sess.BuildingID
	normalizeCustomization(&c)
	_, err := m.customizations.ReplaceOne(ctx, pairFilter(sess, c.FormID), c, options.Replace().SetUpsert(true))
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	return c, nil
}

func (m *Mongo) DeleteCustomization(ctx context.Context, sess models.Session, formID string) error {
	if err := checkSession(sess); err != nil {
		return err
	}
	_, err := m.customizations.DeleteOne(ctx, pairFilter(sess, formID))
	return err
}

func (m *Mongo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := m.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}
